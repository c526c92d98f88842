package qa

import (
	"fmt"
	"strings"

	"github.com/vidqa/vidqa/domain/video"
)

// NoContextAnswer is returned when retrieval produced nothing at all.
const NoContextAnswer = "I don't have enough information to answer your question. " +
	"Please make sure you've added video transcripts to the library."

const promptTemplate = `Based on the following video transcript excerpts, please answer the question. Be specific and cite which video the information comes from when possible.

Context from video transcripts:
%s

Question: %s

Answer: `

// FormatContext renders retrieval sources as the context block of the prompt.
func FormatContext(sources []Source) string {
	if len(sources) == 0 {
		return "No relevant context found."
	}
	var b strings.Builder
	for i, s := range sources {
		if i > 0 {
			b.WriteByte('\n')
		}
		title := s.Title()
		if title == "" {
			title = "Unknown Video"
		}
		uploader := s.Uploader()
		if uploader == "" {
			uploader = "Unknown"
		}
		fmt.Fprintf(&b, "Source %d: %s by %s (at %s)\n", i+1, title, uploader, video.FormatTimestamp(s.Start()))
		fmt.Fprintf(&b, "Content: %s\n", s.Text())
	}
	return b.String()
}

// BuildPrompt assembles the completion prompt for a question and its
// retrieved sources.
func BuildPrompt(question string, sources []Source) string {
	return fmt.Sprintf(promptTemplate, FormatContext(sources), question)
}

// CleanResponse strips model artifacts and prompt echoes from a completion.
func CleanResponse(response string) string {
	response = strings.ReplaceAll(response, "<|endoftext|>", "")
	response = strings.ReplaceAll(response, "<pad>", "")

	var kept []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Question:") || strings.HasPrefix(line, "Context:") || strings.HasPrefix(line, "Answer:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}

// ExtractiveAnswer assembles a plain answer from the retrieved excerpts. It
// is used when no language model is configured or the model call failed.
func ExtractiveAnswer(question string, sources []Source) string {
	if len(sources) == 0 {
		return NoContextAnswer
	}

	seen := make(map[string]bool)
	titles := make([]string, 0, len(sources))
	var snippets []string
	for _, s := range sources {
		title := s.Title()
		if title == "" {
			title = "Unknown Video"
		}
		if !seen[title] {
			seen[title] = true
			titles = append(titles, title)
		}
		sentences := strings.SplitN(s.Text(), ".", 3)
		if len(sentences) > 2 {
			sentences = sentences[:2]
		}
		for _, sent := range sentences {
			if sent = strings.TrimSpace(sent); sent != "" {
				snippets = append(snippets, sent)
			}
		}
	}
	if len(snippets) > 3 {
		snippets = snippets[:3]
	}
	preview := strings.Join(snippets, ". ")
	if runes := []rune(preview); len(runes) > 200 {
		preview = string(runes[:200])
	}

	return fmt.Sprintf("Based on the video transcripts from: %s\n\n"+
		"Here's relevant content I found: %s...\n\n"+
		"I found this information related to your question: %q. "+
		"For a synthesized answer, configure a language model endpoint.",
		strings.Join(titles, ", "), preview, question)
}

// CombineFollowup merges an original question and a follow-up into a single
// question for retrieval and prompting.
func CombineFollowup(original, followup string) string {
	return fmt.Sprintf("Original question: %s\nFollow-up: %s", original, followup)
}
