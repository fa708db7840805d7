package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrUpstream           = fmt.Errorf("upstream video platform failure")

	// Store errors
	ErrKeyNotFound      = fmt.Errorf("key not found")
	ErrStoreAbsent      = fmt.Errorf("playlist store is empty")
	ErrStoreCorrupt     = fmt.Errorf("playlist store is corrupt")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrQuestionNotFound = fmt.Errorf("question not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
