package render

import (
	"strings"
	"testing"

	"rag-chat/internal/models"
)

func TestPlain(t *testing.T) {
	messages := []models.Message{
		models.NewAssistantMessage("Hello"),
		models.NewUserMessage("What is RAG?"),
	}

	want := "Assistant:\nHello\n\nYou:\nWhat is RAG?"
	if got := Plain(messages); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got := Plain(nil); got != "" {
		t.Errorf("Expected empty output, got %q", got)
	}
}

func TestRenderOrderAndLabels(t *testing.T) {
	r := New(80, WithGlamourStyle("notty"))
	out := r.Render([]models.Message{
		models.NewUserMessage("first question"),
		models.NewAssistantMessage("first answer"),
	})

	user := strings.Index(out, UserLabel)
	question := strings.Index(out, "first question")
	assistant := strings.Index(out, AssistantLabel)
	answer := strings.Index(out, "first answer")

	if user < 0 || question < 0 || assistant < 0 || answer < 0 {
		t.Fatalf("Missing labels or content in output:\n%s", out)
	}
	if !(user < question && question < assistant && assistant < answer) {
		t.Errorf("Output is not in transcript order:\n%s", out)
	}
}

func TestMarkdownTable(t *testing.T) {
	r := New(80, WithGlamourStyle("notty"))
	out := r.Markdown("| Name | Chunks |\n|------|--------|\n| notes.pdf | 5 |")

	if strings.Contains(out, "|------|") {
		t.Errorf("Table separator should be rendered, got:\n%s", out)
	}
	if !strings.Contains(out, "notes.pdf") {
		t.Errorf("Table cell missing from output:\n%s", out)
	}
}

func TestMarkdownFallbackWithoutRenderer(t *testing.T) {
	r := &Renderer{width: 80}
	if got := r.Markdown("**bold**"); got != "**bold**" {
		t.Errorf("Expected raw content without renderer, got %q", got)
	}
}

func TestResizeKeepsMinimumWrap(t *testing.T) {
	r := New(5, WithGlamourStyle("notty"))
	if r.wrapWidth() != minWrapWidth {
		t.Errorf("Expected wrap width %d, got %d", minWrapWidth, r.wrapWidth())
	}
	r.Resize(100)
	if r.Width() != 100 || r.wrapWidth() != 90 {
		t.Errorf("Unexpected width after resize: %d/%d", r.Width(), r.wrapWidth())
	}
}
