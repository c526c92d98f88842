package qa

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func sampleSources() []Source {
	return []Source{
		NewSource("vid00000001:0", "vid00000001", "Go Concurrency Patterns", "GopherCon", 65*time.Second, 0.91,
			"Channels orchestrate. Mutexes serialize. Prefer channels for passing ownership."),
		NewSource("vid00000002:3", "vid00000002", "Understanding Context", "GopherCon", 10*time.Second, 0.85,
			"Context carries deadlines across API boundaries."),
	}
}

func TestFormatContext(t *testing.T) {
	ctx := FormatContext(sampleSources())
	assert.Contains(t, ctx, "Source 1: Go Concurrency Patterns by GopherCon (at 1:05)")
	assert.Contains(t, ctx, "Content: Channels orchestrate.")
	assert.Contains(t, ctx, "Source 2: Understanding Context by GopherCon (at 0:10)")
}

func TestFormatContextEmpty(t *testing.T) {
	assert.Equal(t, "No relevant context found.", FormatContext(nil))
}

func TestFormatContextUnknownMetadata(t *testing.T) {
	src := NewSource("x:0", "x", "", "", 0, 0.5, "text")
	ctx := FormatContext([]Source{src})
	assert.Contains(t, ctx, "Unknown Video by Unknown")
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("when should I use channels?", sampleSources())
	assert.Contains(t, prompt, "Question: when should I use channels?")
	assert.Contains(t, prompt, "Context from video transcripts:")
	assert.True(t, strings.HasSuffix(prompt, "Answer: "))
}

func TestCleanResponse(t *testing.T) {
	raw := "Answer: echo\nChannels are great.<|endoftext|>\n\nUse them for ownership.<pad>"
	assert.Equal(t, "Channels are great. Use them for ownership.", CleanResponse(raw))
}

func TestExtractiveAnswerEmpty(t *testing.T) {
	assert.Equal(t, NoContextAnswer, ExtractiveAnswer("anything?", nil))
}

func TestExtractiveAnswer(t *testing.T) {
	got := ExtractiveAnswer("channels?", sampleSources())
	assert.Contains(t, got, "Go Concurrency Patterns, Understanding Context")
	assert.Contains(t, got, "Channels orchestrate")
	assert.Contains(t, got, `"channels?"`)
}

func TestExtractiveAnswerTruncatesOnRuneBoundary(t *testing.T) {
	text := strings.Repeat("ごルーチンは軽量です。", 40)
	src := NewSource("vid00000003:0", "vid00000003", "並行処理入門", "GopherCon", 0, 0.9, text)

	got := ExtractiveAnswer("goroutines?", []Source{src})
	assert.True(t, utf8.ValidString(got))
}

func TestCombineFollowup(t *testing.T) {
	got := CombineFollowup("what are channels?", "and mutexes?")
	assert.Contains(t, got, "Original question: what are channels?")
	assert.Contains(t, got, "Follow-up: and mutexes?")
}
