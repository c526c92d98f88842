package search

import "strings"

// videoIDOf derives the owning video ID from a chunk ID of the form
// "{video_id}:{index}".
func videoIDOf(chunkID string) string {
	if i := strings.LastIndexByte(chunkID, ':'); i >= 0 {
		return chunkID[:i]
	}
	return chunkID
}
