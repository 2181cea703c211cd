package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// UploadAllowedTypes limits the picker to documents the backend can ingest
var UploadAllowedTypes = []string{".pdf"}

const minPickerWidth = 50

// FileSelected is sent when the user picks a file to upload
type FileSelected struct {
	Path string
}

// FileSelectorClosed is sent when the picker is closed without a selection
type FileSelectorClosed struct{}

// FileSelectorModel is the foreground of the upload picker overlay
type FileSelectorModel struct {
	picker filepicker.Model
	notice string
	width  int
	height int
}

func NewFileSelectorModel(startDir string) FileSelectorModel {
	fp := filepicker.New()
	fp.AllowedTypes = UploadAllowedTypes
	fp.AutoHeight = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	if startDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			startDir = home
		} else {
			startDir = "."
		}
	}
	fp.CurrentDirectory = startDir

	return FileSelectorModel{picker: fp}
}

func (m FileSelectorModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m FileSelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, func() tea.Msg { return FileSelectorClosed{} }
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The picker sizes itself from the window; keep room for the frame
		msg.Height = msg.Height/2 + 4
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, func() tea.Msg { return FileSelected{Path: path} }
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.notice = path + " is not a " + strings.Join(UploadAllowedTypes, "/") + " file"
		return m, cmd
	}

	return m, cmd
}

func (m FileSelectorModel) View() string {
	overlayWidth := m.width / 2
	if overlayWidth < minPickerWidth {
		overlayWidth = minPickerWidth
	}

	var content strings.Builder
	content.WriteString(DialogTitleStyle.Render("Upload PDF"))
	content.WriteString("\n")
	content.WriteString(MetadataStyle.Render(m.picker.CurrentDirectory))
	content.WriteString("\n\n")
	content.WriteString(m.picker.View())
	content.WriteString("\n")
	if m.notice != "" {
		content.WriteString(RenderError(m.notice) + "\n")
	}
	content.WriteString(HelpTextSimpleStyle.Render("↑/↓: Navigate • →/Enter: Open/Select • ←: Up • Esc: Cancel"))

	return GetDialogBorderStyle(overlayWidth).Render(content.String())
}

// FileSelectorOverlayModel wraps the upload picker with the overlay library
type FileSelectorOverlayModel struct {
	fileSelector FileSelectorModel
	visible      bool
	width        int
	height       int
}

func NewFileSelectorOverlayModel() FileSelectorOverlayModel {
	return FileSelectorOverlayModel{
		fileSelector: NewFileSelectorModel(""),
	}
}

// Show opens the picker in its last directory and returns the command that
// reads that directory.
func (m *FileSelectorOverlayModel) Show() tea.Cmd {
	dir := m.fileSelector.picker.CurrentDirectory
	m.fileSelector = NewFileSelectorModel(dir)
	m.visible = true

	sized, _ := m.fileSelector.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.fileSelector = sized.(FileSelectorModel)
	return m.fileSelector.Init()
}

func (m *FileSelectorOverlayModel) Hide() {
	m.visible = false
}

func (m *FileSelectorOverlayModel) IsVisible() bool {
	return m.visible
}

func (m *FileSelectorOverlayModel) UpdateSize(width, height int) {
	m.width = width
	m.height = height
	m.fileSelector.width = width
	m.fileSelector.height = height
}

func (m *FileSelectorOverlayModel) UpdateFileSelector(msg tea.Msg) tea.Cmd {
	if !m.visible {
		return nil
	}

	mdl, cmd := m.fileSelector.Update(msg)
	m.fileSelector = mdl.(FileSelectorModel)
	return cmd
}

func (m FileSelectorOverlayModel) RenderOverlay(backgroundView string) string {
	if !m.visible {
		return backgroundView
	}

	overlayModel := overlay.New(
		m.fileSelector,
		&staticViewModel{content: backgroundView},
		overlay.Center,
		overlay.Top,
		0,
		1,
	)

	return overlayModel.View()
}
