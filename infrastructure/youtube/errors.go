package youtube

import "errors"

var (
	// ErrNoTranscript indicates the video has no caption tracks at all, or
	// none in an acceptable language.
	ErrNoTranscript = errors.New("no transcript available")

	// ErrVideoUnavailable indicates the watch page did not return a playable
	// video (removed, private, or region locked).
	ErrVideoUnavailable = errors.New("video unavailable")
)
