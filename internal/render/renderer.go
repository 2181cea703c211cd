package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"rag-chat/internal/logging"
	"rag-chat/internal/models"
)

const (
	UserLabel      = "You:"
	AssistantLabel = "Assistant:"

	minWrapWidth = 20
	wrapMargin   = 10
)

// Styles decorates the rendered transcript. Zero styles render unstyled.
type Styles struct {
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style

	// UserBlock and AssistantBlock wrap a whole message; they receive the
	// renderer width so they can size borders and padding.
	UserBlock      func(width int) lipgloss.Style
	AssistantBlock func(width int) lipgloss.Style
}

type Option func(*Renderer)

// WithStyles sets label and block styles
func WithStyles(s Styles) Option {
	return func(r *Renderer) { r.styles = s }
}

// WithGlamourStyle pins a named glamour style ("dark", "light", "notty")
// instead of detecting one from the terminal.
func WithGlamourStyle(name string) Option {
	return func(r *Renderer) { r.glamourStyle = name }
}

// Renderer turns a transcript into terminal text, rendering message content
// as markdown. It holds no transcript state.
type Renderer struct {
	width        int
	glamourStyle string
	styles       Styles
	md           *glamour.TermRenderer
}

func New(width int, opts ...Option) *Renderer {
	r := &Renderer{width: width}
	for _, opt := range opts {
		opt(r)
	}
	r.md = r.newMarkdownRenderer()
	return r
}

// Width is the width the renderer wraps to
func (r *Renderer) Width() int {
	return r.width
}

// Resize rebuilds the markdown renderer for a new wrap width
func (r *Renderer) Resize(width int) {
	if width == r.width && r.md != nil {
		return
	}
	r.width = width
	r.md = r.newMarkdownRenderer()
}

func (r *Renderer) wrapWidth() int {
	w := r.width - wrapMargin
	if w < minWrapWidth {
		w = minWrapWidth
	}
	return w
}

// newMarkdownRenderer tries the configured style, then glamour's defaults.
// It returns nil only if glamour cannot build any renderer.
func (r *Renderer) newMarkdownRenderer() *glamour.TermRenderer {
	styleOpt := glamour.WithAutoStyle()
	if r.glamourStyle != "" {
		styleOpt = glamour.WithStandardStyle(r.glamourStyle)
	}

	md, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(r.wrapWidth()))
	if err == nil {
		return md
	}
	logging.Error("Failed to create markdown renderer with style: %v, trying fallback", err)

	md, err = glamour.NewTermRenderer(glamour.WithWordWrap(r.wrapWidth()))
	if err == nil {
		return md
	}
	logging.Error("Failed to create markdown renderer: %v, using plain text", err)
	return nil
}

// Render returns the whole transcript as labelled blocks in append order
func (r *Renderer) Render(messages []models.Message) string {
	var b strings.Builder

	for _, msg := range messages {
		label, labelStyle, block := AssistantLabel, r.styles.AssistantLabel, r.styles.AssistantBlock
		if msg.IsUser() {
			label, labelStyle, block = UserLabel, r.styles.UserLabel, r.styles.UserBlock
		}

		body := labelStyle.Render(label) + "\n" + r.Markdown(msg.Content)
		if block != nil {
			body = block(r.width).Render(body)
		}
		b.WriteString(body)
		b.WriteString("\n\n")
	}

	return b.String()
}

// Markdown renders one message body, falling back to the raw text if the
// markdown renderer is missing, errors, or panics.
func (r *Renderer) Markdown(content string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Error("Panic in markdown rendering: %v", rec)
			out = content
		}
	}()

	if r.md == nil || content == "" {
		return content
	}

	rendered, err := r.md.Render(content)
	if err != nil {
		logging.Error("Markdown rendering error: %v, falling back to plain text", err)
		return content
	}

	return strings.Trim(rendered, "\n")
}

// Plain renders the transcript without markdown or styling
func Plain(messages []models.Message) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.IsUser() {
			b.WriteString(UserLabel)
		} else {
			b.WriteString(AssistantLabel)
		}
		b.WriteString("\n")
		b.WriteString(msg.Content)
	}
	return b.String()
}
