package service

import "errors"

var (
	// ErrVideoNotFound indicates the requested video is not in the library.
	ErrVideoNotFound = errors.New("vidqa: video not found")

	// ErrEmptyTranscript indicates a transcript produced no usable chunks.
	ErrEmptyTranscript = errors.New("vidqa: transcript is empty")
)
