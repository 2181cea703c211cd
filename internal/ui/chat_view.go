package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"rag-chat/internal/logging"
	"rag-chat/internal/models"
	"rag-chat/internal/render"
	"rag-chat/internal/session"
)

const (
	chatHeaderHeight = 3
	textareaHeight   = 5
	helpHeight       = 2
	padding          = 2
)

// SettingsLoader supplies the retrieval settings current at send time
type SettingsLoader interface {
	Load() models.RetrievalSettings
}

// EngineChanged is delivered whenever the session engine mutates its
// transcript or state.
type EngineChanged struct{}

// MessageSent carries the outcome of a send
type MessageSent struct {
	Result session.SendResult
}

// UploadFinished carries the outcome of an upload
type UploadFinished struct {
	Name   string
	Result session.UploadResult
}

type ChatViewModel struct {
	ctx          context.Context
	engine       *session.Engine
	settings     SettingsLoader
	renderer     *render.Renderer
	viewport     viewport.Model
	textarea     textarea.Model
	spinner      spinner.Model
	fileSelector FileSelectorOverlayModel
	rendered     int
	notice       string
	width        int
	height       int
}

func NewChatViewModel(ctx context.Context, engine *session.Engine, settings SettingsLoader, width, height int) ChatViewModel {
	ta := textarea.New()
	ta.Placeholder = "Ask a question about your documents..."
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetWidth(width - 4)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	// Keep only essential editing keys; Enter sends
	ta.KeyMap.CharacterForward = key.NewBinding(key.WithKeys("right"))
	ta.KeyMap.CharacterBackward = key.NewBinding(key.WithKeys("left"))
	ta.KeyMap.LineStart = key.NewBinding(key.WithKeys("home"))
	ta.KeyMap.LineEnd = key.NewBinding(key.WithKeys("end"))
	ta.KeyMap.DeleteCharacterBackward = key.NewBinding(key.WithKeys("backspace"))
	ta.KeyMap.DeleteCharacterForward = key.NewBinding(key.WithKeys("delete"))
	ta.KeyMap.LineNext = key.NewBinding()
	ta.KeyMap.LinePrevious = key.NewBinding()
	ta.KeyMap.InsertNewline = key.NewBinding()

	vp := viewport.New(width-6, chatViewportHeight(height))
	vp.SetContent("")
	vp.MouseWheelDelta = 2
	vp.KeyMap.Down = key.NewBinding(key.WithKeys("down"))
	vp.KeyMap.Up = key.NewBinding(key.WithKeys("up"))
	vp.KeyMap.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	vp.KeyMap.PageUp = key.NewBinding(key.WithKeys("pgup"))
	vp.KeyMap.HalfPageDown = key.NewBinding()
	vp.KeyMap.HalfPageUp = key.NewBinding()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	fs := NewFileSelectorOverlayModel()
	fs.UpdateSize(width, height)

	return ChatViewModel{
		ctx:          ctx,
		engine:       engine,
		settings:     settings,
		renderer:     render.New(width-6, render.WithStyles(TranscriptStyles())),
		viewport:     vp,
		textarea:     ta,
		spinner:      sp,
		fileSelector: fs,
		width:        width,
		height:       height,
	}
}

func chatViewportHeight(height int) int {
	h := height - chatHeaderHeight - textareaHeight - helpHeight - padding
	if h < 3 {
		h = 3
	}
	return h
}

func (m ChatViewModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		WaitForEngineChange(m.engine),
	)
}

// WaitForEngineChange blocks until the engine reports a mutation
func WaitForEngineChange(engine *session.Engine) tea.Cmd {
	return func() tea.Msg {
		<-engine.Changes()
		return EngineChanged{}
	}
}

func (m ChatViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case FileSelected:
		m.fileSelector.Hide()
		m.textarea.Focus()
		return m, m.uploadDocument(msg.Path)

	case FileSelectorClosed:
		m.fileSelector.Hide()
		m.textarea.Focus()
		return m, nil

	case EngineChanged:
		m.renderMessages()
		return m, WaitForEngineChange(m.engine)

	case MessageSent:
		if msg.Result.Outcome == session.SendRejectedBusy {
			m.notice = "Wait for the current request to finish"
		}
		return m, nil

	case UploadFinished:
		if msg.Result.Outcome == session.UploadRejectedBusy {
			m.notice = "Wait for the current request to finish"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.fileSelector.IsVisible() {
		return m, m.fileSelector.UpdateFileSelector(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = chatViewportHeight(msg.Height)
		m.textarea.SetWidth(msg.Width - 4)
		m.fileSelector.UpdateSize(msg.Width, msg.Height)
		m.renderer.Resize(msg.Width - 6)
		m.renderMessages()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+u":
			m.notice = ""
			m.textarea.Blur()
			return m, m.fileSelector.Show()

		case "enter":
			if !m.CanSend() {
				return m, nil
			}
			text := m.textarea.Value()
			m.textarea.Reset()
			m.notice = ""
			return m, m.sendMessage(text)
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// CanSend reports whether Enter would send: a session is ready, nothing is
// in flight, and the input is not blank.
func (m ChatViewModel) CanSend() bool {
	return m.engine.State() == session.StateReady &&
		!m.engine.Busy() &&
		strings.TrimSpace(m.textarea.Value()) != ""
}

func (m ChatViewModel) sendMessage(text string) tea.Cmd {
	ctx, engine, settings := m.ctx, m.engine, m.settings
	return func() tea.Msg {
		logging.Debug("sendMessage called: chatID=%s", engine.ActiveID())
		result := engine.SendMessage(ctx, text, settings.Load())
		return MessageSent{Result: result}
	}
}

func (m ChatViewModel) uploadDocument(path string) tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		name := filepath.Base(path)
		f, err := os.Open(path)
		if err != nil {
			logging.Error("Failed to open %s for upload: %v", path, err)
			return UploadFinished{Name: name, Result: session.UploadResult{Outcome: session.UploadRejectedInvalid, Err: err}}
		}
		defer f.Close()

		return UploadFinished{Name: name, Result: engine.UploadDocument(ctx, name, f)}
	}
}

func (m ChatViewModel) View() string {
	var b strings.Builder

	b.WriteString(statusBarStyle.Render(m.statusLine()) + "\n\n")

	b.WriteString(RenderViewportWithBorder(m.viewport.View()))
	b.WriteString("\n")
	if scrollInfo := m.renderScrollIndicator(); scrollInfo != "" {
		b.WriteString(scrollInfo)
	}
	b.WriteString("\n")

	b.WriteString(m.textarea.View() + "\n")

	helpText := "Enter: Send • Ctrl+U: Upload PDF • ↑/↓: Scroll • PgUp/PgDn: Page"
	b.WriteString(helpStyle.Render(helpText))

	return m.fileSelector.RenderOverlay(b.String())
}

func (m ChatViewModel) statusLine() string {
	var parts []string

	switch m.engine.State() {
	case session.StateUninitialized, session.StateResolving:
		parts = append(parts, m.spinner.View()+" Starting chat...")
	case session.StateError:
		parts = append(parts, ErrorMessageStyle.Render("Could not start a chat. Press Ctrl+N to retry."))
	case session.StateSending:
		parts = append(parts, m.spinner.View()+" Thinking...")
	case session.StateReady:
		if m.engine.Busy() {
			parts = append(parts, m.spinner.View()+" Uploading...")
		}
	}

	if id := m.engine.ActiveID(); id != "" {
		parts = append(parts, "Chat: "+id)
	}
	if m.notice != "" {
		parts = append(parts, m.notice)
	}

	return strings.Join(parts, " | ")
}

// renderMessages redraws the transcript, following the bottom when new
// messages arrived.
func (m *ChatViewModel) renderMessages() {
	transcript := m.engine.Transcript()
	m.viewport.SetContent(m.renderer.Render(transcript))
	if len(transcript) != m.rendered {
		m.viewport.GotoBottom()
	}
	m.rendered = len(transcript)
}

func (m ChatViewModel) renderScrollIndicator() string {
	if m.viewport.TotalLineCount() <= m.viewport.Height {
		return ""
	}

	scrollPercent := int(m.viewport.ScrollPercent() * 100)
	indicator := fmt.Sprintf("Scroll: %d%% ↕", scrollPercent)

	return ScrollIndicatorStyle.Render(indicator)
}
