package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

const minDialogWidth = 40

// ShowAlert asks the root model to block input with a message until the user
// dismisses it.
type ShowAlert struct {
	Text string
}

// ShowConfirm asks the root model for a yes/no prompt. OnConfirm runs only
// when the user accepts.
type ShowConfirm struct {
	Text      string
	OnConfirm tea.Cmd
}

// DialogClosed is sent when a dialog is dismissed
type DialogClosed struct {
	Confirmed bool
}

type dialogKind int

const (
	dialogAlert dialogKind = iota
	dialogConfirm
)

// DialogModel is the foreground of a modal alert or confirmation
type DialogModel struct {
	kind      dialogKind
	text      string
	onConfirm tea.Cmd
	width     int
}

func (m DialogModel) Init() tea.Cmd {
	return nil
}

func (m DialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m DialogModel) View() string {
	dialogWidth := m.width / 2
	if dialogWidth < minDialogWidth {
		dialogWidth = minDialogWidth
	}

	var content strings.Builder
	if m.kind == dialogConfirm {
		content.WriteString(DialogTitleStyle.Render("Confirm"))
	} else {
		content.WriteString(DialogTitleStyle.Render("Notice"))
	}
	content.WriteString("\n\n")
	content.WriteString(DialogMessageStyle.Width(dialogWidth - 8).Render(m.text))
	content.WriteString("\n\n")

	if m.kind == dialogConfirm {
		content.WriteString(HelpTextSimpleStyle.Render("Y/Enter: OK • N/Esc: Cancel"))
	} else {
		content.WriteString(HelpTextSimpleStyle.Render("Enter/Esc: OK"))
	}

	return GetDialogBorderStyle(dialogWidth).Render(content.String())
}

// DialogOverlayModel holds at most one visible dialog and draws it over a
// background view. While visible it consumes every key press.
type DialogOverlayModel struct {
	dialog  DialogModel
	visible bool
}

func NewDialogOverlayModel() DialogOverlayModel {
	return DialogOverlayModel{}
}

func (m *DialogOverlayModel) ShowAlert(text string) {
	m.dialog = DialogModel{kind: dialogAlert, text: text, width: m.dialog.width}
	m.visible = true
}

func (m *DialogOverlayModel) ShowConfirm(text string, onConfirm tea.Cmd) {
	m.dialog = DialogModel{kind: dialogConfirm, text: text, onConfirm: onConfirm, width: m.dialog.width}
	m.visible = true
}

func (m *DialogOverlayModel) IsVisible() bool {
	return m.visible
}

// Text is the message of the visible dialog
func (m *DialogOverlayModel) Text() string {
	if !m.visible {
		return ""
	}
	return m.dialog.text
}

func (m *DialogOverlayModel) UpdateSize(width int) {
	m.dialog.width = width
}

// HandleKey processes a key press for the visible dialog and returns the
// command to run once it closes.
func (m *DialogOverlayModel) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if !m.visible {
		return nil
	}

	confirmed := false
	switch msg.String() {
	case "enter", "y", "Y":
		confirmed = true
	case "esc", "n", "N":
	default:
		return nil
	}

	if m.dialog.kind == dialogAlert {
		confirmed = true
	}

	onConfirm := m.dialog.onConfirm
	m.visible = false
	m.dialog.onConfirm = nil

	closed := func() tea.Msg { return DialogClosed{Confirmed: confirmed} }
	if confirmed && onConfirm != nil {
		return tea.Batch(closed, onConfirm)
	}
	return closed
}

func (m DialogOverlayModel) RenderOverlay(backgroundView string) string {
	if !m.visible {
		return backgroundView
	}

	overlayModel := overlay.New(
		m.dialog,
		&staticViewModel{content: backgroundView},
		overlay.Center,
		overlay.Center,
		0,
		0,
	)

	return overlayModel.View()
}

// staticViewModel renders fixed content as an overlay background
type staticViewModel struct {
	content string
}

func (m staticViewModel) Init() tea.Cmd {
	return nil
}

func (m staticViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m staticViewModel) View() string {
	return m.content
}
