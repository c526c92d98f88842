// Package chunking splits transcripts into overlapping chunks for RAG
// indexing, keeping each chunk aligned to the caption timeline.
package chunking

import (
	"fmt"
	"unicode"
)

// Params configures the chunking algorithm. Size and Overlap are measured in
// runes.
type Params struct {
	Size    int
	Overlap int
}

// DefaultParams returns the defaults used for transcript chunking.
func DefaultParams() Params {
	return Params{
		Size:    1000,
		Overlap: 200,
	}
}

// Validate checks the parameters for consistency.
func (p Params) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", p.Size)
	}
	if p.Overlap < 0 || p.Overlap >= p.Size {
		return fmt.Errorf("overlap (%d) must be in [0, size)", p.Overlap)
	}
	return nil
}

// boundaryWindow is how far back from the chunk end a sentence boundary is
// searched for.
const boundaryWindow = 100

// Piece is a chunk of text with its rune offsets into the source string.
type Piece struct {
	text  string
	start int
	end   int
}

// Text returns the piece text, trimmed of surrounding whitespace.
func (p Piece) Text() string { return p.text }

// Start returns the rune offset where the piece begins.
func (p Piece) Start() int { return p.start }

// End returns the rune offset where the piece ends (exclusive).
func (p Piece) End() int { return p.end }

// Split cuts text into overlapping pieces of at most Size runes. When a
// piece would split mid-sentence, the cut is moved back to the latest
// sentence boundary found within the trailing boundaryWindow runes. A
// boundary is ". ", "! ", "? ", or a blank line.
func Split(text string, params Params) ([]Piece, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}
	if len(runes) <= params.Size {
		if p, ok := trimPiece(runes, 0, len(runes)); ok {
			return []Piece{p}, nil
		}
		return nil, nil
	}

	var pieces []Piece
	start := 0
	for start < len(runes) {
		end := start + params.Size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = breakAt(runes, start, end)
		}

		if p, ok := trimPiece(runes, start, end); ok {
			pieces = append(pieces, p)
		}

		next := end - params.Overlap
		if next >= len(runes) || end == len(runes) {
			break
		}
		if next <= start {
			// Overlap would not advance; step past the cut instead.
			next = end
		}
		start = next
	}
	return pieces, nil
}

// breakAt returns the best cut position at or before end, preferring the
// latest sentence boundary within the trailing window.
func breakAt(runes []rune, start, end int) int {
	best := end
	lo := end - boundaryWindow
	if lo < start {
		lo = start
	}
	for i := lo; i+1 < end; i++ {
		if isBoundary(runes[i], runes[i+1]) {
			best = i + 2
		}
	}
	return best
}

func isBoundary(a, b rune) bool {
	if b == ' ' {
		return a == '.' || a == '!' || a == '?'
	}
	return a == '\n' && b == '\n'
}

// trimPiece trims whitespace from runes[start:end] while keeping the rune
// offsets of the retained text. ok is false when nothing remains.
func trimPiece(runes []rune, start, end int) (Piece, bool) {
	for start < end && unicode.IsSpace(runes[start]) {
		start++
	}
	for end > start && unicode.IsSpace(runes[end-1]) {
		end--
	}
	if start == end {
		return Piece{}, false
	}
	return Piece{text: string(runes[start:end]), start: start, end: end}, true
}
