// Package ui renders studyhub data for the terminal with lipgloss.
//
// Question difficulties are colored (easy green, medium yellow, hard red) and solved questions get a highlighted
// check mark. Output degrades to plain text when the terminal has no color support.
package ui
