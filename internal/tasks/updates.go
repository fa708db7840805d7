package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	SearchChannel Phase = iota
	FetchDetails
	ChannelDone
	ChannelFailed
	Merge
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case SearchChannel:
		return "search_channel"
	case FetchDetails:
		return "fetch_details"
	case ChannelDone:
		return "channel_done"
	case ChannelFailed:
		return "channel_failed"
	case Merge:
		return "merge"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
//
// A nil channel disables reporting; a full channel drops the update.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func searchChannelUpdate(step, total int, channelID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchChannel,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching channel %s...", step, total, channelID),
	}
}

func fetchDetailsUpdate(step, total int, channelID string, ids int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching details for %d videos from %s...", step, total, ids, channelID),
	}
}

func channelDoneUpdate(step, total int, channelID string, admitted int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ChannelDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d shorts)", step, total, channelID, admitted),
		Data:    admitted,
	}
}

func channelFailedUpdate(step, total int, err *AggregateError) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ChannelFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, err.ChannelID, err.Err),
		Data:    err,
	}
}

func mergeUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Merge,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Merged %d shorts", total),
		Data:    total,
	}
}

func exportingPlaylistUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, title),
	}
}

func exportCompletedUpdate(step, total int, title string, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, title, path),
	}
}

func exportFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}
