package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"rag-chat/internal/directory"
	"rag-chat/internal/models"
)

const (
	DeleteDocumentFailedText = "Failed to delete document"
	NoDocumentsText          = "No documents uploaded yet. Go to Chat to upload files."

	sizeColumnWidth     = 12
	uploadedColumnWidth = 18
)

// DocumentsLoaded carries a fresh document listing
type DocumentsLoaded struct {
	Documents []models.Document
	Err       error
}

// DocumentDeleted reports the end of a document delete
type DocumentDeleted struct {
	Name string
	Err  error
}

// DocumentsViewModel lists uploaded documents and deletes them on request
type DocumentsViewModel struct {
	ctx         context.Context
	documents   *directory.Documents
	table       table.Model
	filterInput textinput.Model
	filtering   bool
	snapshot    []models.Document
	visible     []models.Document
	loading     bool
	err         error
	width       int
	height      int
}

func NewDocumentsViewModel(ctx context.Context, documents *directory.Documents, width, height int) DocumentsViewModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 100
	ti.Width = 40

	t := table.New(
		table.WithColumns(documentColumns(width)),
		table.WithFocused(true),
		table.WithHeight(documentsTableHeight(height)),
	)
	t.SetStyles(ThemedTableStyles())
	t.KeyMap.LineUp = key.NewBinding(key.WithKeys("up"))
	t.KeyMap.LineDown = key.NewBinding(key.WithKeys("down"))
	t.KeyMap.PageUp = key.NewBinding(key.WithKeys("pgup"))
	t.KeyMap.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	t.KeyMap.HalfPageUp = key.NewBinding()
	t.KeyMap.HalfPageDown = key.NewBinding()
	t.KeyMap.GotoTop = key.NewBinding(key.WithKeys("home"))
	t.KeyMap.GotoBottom = key.NewBinding(key.WithKeys("end"))

	return DocumentsViewModel{
		ctx:         ctx,
		documents:   documents,
		table:       t,
		filterInput: ti,
		width:       width,
		height:      height,
	}
}

func documentColumns(width int) []table.Column {
	nameWidth := width - sizeColumnWidth - uploadedColumnWidth - 10
	if nameWidth < 16 {
		nameWidth = 16
	}
	return []table.Column{
		{Title: "Filename", Width: nameWidth},
		{Title: "Size", Width: sizeColumnWidth},
		{Title: "Uploaded", Width: uploadedColumnWidth},
	}
}

func documentsTableHeight(height int) int {
	h := height - 10
	if h < 3 {
		h = 3
	}
	return h
}

func (m DocumentsViewModel) Init() tea.Cmd {
	return m.Load()
}

// Load fetches the listing from the backend
func (m *DocumentsViewModel) Load() tea.Cmd {
	m.loading = true
	ctx, documents := m.ctx, m.documents
	return func() tea.Msg {
		docs, err := documents.List(ctx)
		return DocumentsLoaded{Documents: docs, Err: err}
	}
}

func (m DocumentsViewModel) deleteDocument(name string) tea.Cmd {
	ctx, documents := m.ctx, m.documents
	return func() tea.Msg {
		return DocumentDeleted{Name: name, Err: documents.Delete(ctx, name)}
	}
}

func (m DocumentsViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(documentColumns(msg.Width))
		m.table.SetHeight(documentsTableHeight(msg.Height))
		m.table.SetWidth(msg.Width - 4)
		return m, nil

	case DocumentsLoaded:
		m.loading = false
		m.err = msg.Err
		m.setSnapshot(msg.Documents)
		return m, nil

	case DocumentDeleted:
		if msg.Err != nil {
			return m, func() tea.Msg { return ShowAlert{Text: DeleteDocumentFailedText} }
		}
		m.setSnapshot(m.documents.Snapshot())
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "/":
			m.filtering = true
			m.filterInput.Focus()
			return m, textinput.Blink

		case "r":
			return m, m.Load()

		case "d", "delete":
			doc, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return ShowConfirm{
					Text:      fmt.Sprintf("Are you sure you want to delete %s?", doc.Name),
					OnConfirm: m.deleteDocument(doc.Name),
				}
			}

		case "esc":
			if m.filterInput.Value() != "" {
				m.filterInput.SetValue("")
				m.applyFilter()
				return m, nil
			}
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m DocumentsViewModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *DocumentsViewModel) setSnapshot(docs []models.Document) {
	m.snapshot = docs
	m.applyFilter()
}

func (m *DocumentsViewModel) applyFilter() {
	filterText := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))

	m.visible = nil
	for _, doc := range m.snapshot {
		if filterText == "" || strings.Contains(strings.ToLower(doc.Name), filterText) {
			m.visible = append(m.visible, doc)
		}
	}

	rows := make([]table.Row, len(m.visible))
	for i, doc := range m.visible {
		rows[i] = DocumentRow(doc)
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// DocumentRow formats one listing row: binary size units and relative time
func DocumentRow(doc models.Document) table.Row {
	size := uint64(0)
	if doc.SizeBytes > 0 {
		size = uint64(doc.SizeBytes)
	}
	return table.Row{doc.Name, humanize.IBytes(size), humanize.Time(doc.CreatedAt)}
}

func (m DocumentsViewModel) selected() (models.Document, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return models.Document{}, false
	}
	return m.visible[i], true
}

func (m DocumentsViewModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Uploaded Files (%d)", len(m.snapshot))
	if len(m.visible) != len(m.snapshot) {
		title = fmt.Sprintf("Uploaded Files (%d of %d)", len(m.visible), len(m.snapshot))
	}
	b.WriteString(TitleWithPaddingStyle.Render(title) + "\n")

	if m.filtering || m.filterInput.Value() != "" {
		b.WriteString(RenderFieldLabel(" Filter: ", m.filtering) + m.filterInput.View() + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.loading && len(m.snapshot) == 0:
		b.WriteString(MetadataStyle.Render("  Loading documents..."))
	case m.err != nil && len(m.snapshot) == 0:
		b.WriteString(RenderError(fmt.Sprintf("Failed to fetch documents: %v", m.err)))
	case len(m.snapshot) == 0:
		b.WriteString(MetadataStyle.Render("  " + NoDocumentsText))
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	helpText := "↑/↓: Navigate • D/Del: Delete • /: Filter • R: Refresh"
	b.WriteString(helpStyle.Render(helpText))

	return b.String()
}
