package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rag-chat/internal/models"
	"rag-chat/internal/route"
)

// SidebarWidth is the fixed width of the navigation sidebar
const SidebarWidth = 30

// Navigate asks the root model to switch to a route
type Navigate struct {
	Route route.Route
}

// CreateNewChat asks the root model to start a fresh session
type CreateNewChat struct{}

// DeleteChat asks the root model to delete a session
type DeleteChat struct {
	ChatID string
}

// ChatsRefreshed carries a new session directory snapshot
type ChatsRefreshed struct {
	Entries []models.DirectoryEntry
}

type chatItem struct {
	entry  models.DirectoryEntry
	active bool
}

func (i chatItem) Title() string {
	if i.active {
		return ActiveChatEntryStyle.Render("● " + i.entry.DisplayTitle())
	}
	return i.entry.DisplayTitle()
}
func (i chatItem) Description() string { return i.entry.ID }
func (i chatItem) FilterValue() string { return i.entry.DisplayTitle() }

// ChatListModel is the sidebar: navigation, the New Chat action and the list
// of recent chats.
type ChatListModel struct {
	list    list.Model
	entries []models.DirectoryEntry
	current route.Route
	focused bool
	width   int
	height  int
}

func NewChatListModel(width, height int) ChatListModel {
	l := list.New(nil, CreateThemedDelegate(), width-2, listHeight(height))
	l.Title = "Recent Chats"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("chat", "chats")
	ConfigureListStyles(&l)

	l.KeyMap.CursorUp = key.NewBinding(key.WithKeys("up"))
	l.KeyMap.CursorDown = key.NewBinding(key.WithKeys("down"))
	l.KeyMap.NextPage = key.NewBinding()
	l.KeyMap.PrevPage = key.NewBinding()
	l.KeyMap.GoToStart = key.NewBinding()
	l.KeyMap.GoToEnd = key.NewBinding()
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("/"))
	l.KeyMap.ClearFilter = key.NewBinding(key.WithKeys("esc"))
	l.KeyMap.CancelWhileFiltering = key.NewBinding(key.WithKeys("esc"))
	l.KeyMap.AcceptWhileFiltering = key.NewBinding(key.WithKeys("enter"))
	l.KeyMap.ShowFullHelp = key.NewBinding()
	l.KeyMap.CloseFullHelp = key.NewBinding()
	l.KeyMap.Quit = key.NewBinding()
	l.KeyMap.ForceQuit = key.NewBinding()

	return ChatListModel{
		list:    l,
		current: route.Root,
		width:   width,
		height:  height,
	}
}

// Nav items, the New Chat button and section spacing sit above the list
func listHeight(height int) int {
	h := height - len(route.NavItems) - 6
	if h < 3 {
		h = 3
	}
	return h
}

func (m ChatListModel) Init() tea.Cmd {
	return nil
}

func (m ChatListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-2, listHeight(msg.Height))
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			item, ok := m.list.SelectedItem().(chatItem)
			if !ok {
				return m, nil
			}
			id := item.entry.ID
			return m, func() tea.Msg {
				return Navigate{Route: route.ChatRoute(id)}
			}

		case "ctrl+d", "delete":
			item, ok := m.list.SelectedItem().(chatItem)
			if !ok {
				return m, nil
			}
			id := item.entry.ID
			return m, func() tea.Msg {
				return DeleteChat{ChatID: id}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m ChatListModel) View() string {
	var nav []string
	for _, item := range route.NavItems {
		label := RenderNavLabel(item.Label(), item.Route.Kind == m.current.Kind)
		nav = append(nav, label)
	}

	help := "↑/↓ • Enter: Open • Del: Delete"
	if !m.focused {
		help = "Ctrl+B: Focus chats"
	}

	style := SidebarStyle
	if m.focused {
		style = SidebarFocusedStyle
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("RAG Chat"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, nav...),
		"",
		RenderButton("+ New Chat (Ctrl+N)", false),
		m.list.View(),
		HelpTextSimpleStyle.Render(help),
	)

	return style.Width(m.width - 2).Height(m.height).Render(content)
}

// RenderNavLabel renders one navigation entry
func RenderNavLabel(label string, active bool) string {
	if active {
		return NavActiveStyle.Render(label)
	}
	return NavInactiveStyle.Render(label)
}

// SetEntries replaces the listed chats, keeping the cursor on the same chat
// when it is still present.
func (m *ChatListModel) SetEntries(entries []models.DirectoryEntry) {
	var selectedID string
	if item, ok := m.list.SelectedItem().(chatItem); ok {
		selectedID = item.entry.ID
	}

	m.entries = entries
	m.setItems()

	for i, e := range entries {
		if e.ID == selectedID {
			m.list.Select(i)
			break
		}
	}
}

// SetCurrent marks the displayed route; a resumed chat is highlighted
func (m *ChatListModel) SetCurrent(r route.Route) {
	m.current = r
	m.setItems()
}

func (m *ChatListModel) setItems() {
	items := make([]list.Item, len(m.entries))
	for i, e := range m.entries {
		active := m.current.Kind == route.Chat && m.current.ChatID != "" && m.current.ChatID == e.ID
		items[i] = chatItem{entry: e, active: active}
	}
	m.list.SetItems(items)
}

func (m *ChatListModel) SetFocused(focused bool) {
	m.focused = focused
}

func (m ChatListModel) Focused() bool {
	return m.focused
}

// Filtering reports whether a filter is being typed or is applied; Esc then
// belongs to the list.
func (m ChatListModel) Filtering() bool {
	return m.list.FilterState() != list.Unfiltered
}

// Entries returns the chats currently listed
func (m ChatListModel) Entries() []models.DirectoryEntry {
	return m.entries
}
