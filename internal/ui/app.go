package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rag-chat/internal/analytics"
	"rag-chat/internal/directory"
	"rag-chat/internal/logging"
	"rag-chat/internal/route"
	"rag-chat/internal/session"
)

const (
	DeleteChatFailedText = "Failed to delete chat"

	appChromeHeight = 3
)

// Settings is what the app needs from the settings store
type Settings interface {
	SettingsStore
	SettingsLoader
}

// AppDeps are the services the app drives
type AppDeps struct {
	Engine    *session.Engine
	Sessions  *directory.Sessions
	Documents *directory.Documents
	Settings  Settings
	Analytics analytics.Source
}

// SessionResolved reports the end of a chat resolve started by navigation
type SessionResolved struct {
	Route  route.Route
	Result session.ResolveResult
}

// ChatDeleted reports the end of a chat delete
type ChatDeleted struct {
	ChatID    string
	WasActive bool
	Err       error
}

// AppModel is the root model: sidebar, header and the screen for the current
// route, with a blocking dialog above everything.
type AppModel struct {
	ctx  context.Context
	deps AppDeps

	route   route.Route
	initial route.Route

	sidebar   ChatListModel
	chat      ChatViewModel
	documents DocumentsViewModel
	settings  SettingsViewModel
	analytics AnalyticsViewModel
	dialog    DialogOverlayModel

	width  int
	height int
}

// NewAppModel builds the app; the initial route is entered on Init
func NewAppModel(ctx context.Context, deps AppDeps, initial route.Route, width, height int) AppModel {
	cw, ch := contentSize(width, height)
	m := AppModel{
		ctx:       ctx,
		deps:      deps,
		route:     initial,
		initial:   initial,
		sidebar:   NewChatListModel(SidebarWidth, height),
		chat:      NewChatViewModel(ctx, deps.Engine, deps.Settings, cw, ch),
		documents: NewDocumentsViewModel(ctx, deps.Documents, cw, ch),
		settings:  NewSettingsViewModel(deps.Settings, cw, ch),
		analytics: NewAnalyticsViewModel(ctx, deps.Analytics, cw, ch),
		dialog:    NewDialogOverlayModel(),
		width:     width,
		height:    height,
	}
	m.dialog.UpdateSize(width)
	return m
}

func contentSize(width, height int) (int, int) {
	w := width - SidebarWidth
	if w < 20 {
		w = 20
	}
	h := height - appChromeHeight
	if h < 5 {
		h = 5
	}
	return w, h
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.chat.Init(),
		func() tea.Msg { return Navigate{Route: m.initial} },
	)
}

// Route is the route currently displayed
func (m AppModel) Route() route.Route {
	return m.route
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "ctrl+x" {
			return m, tea.Quit
		}
		if m.dialog.IsVisible() {
			return m, m.dialog.HandleKey(msg)
		}
		return m.handleKey(msg)

	case ShowAlert:
		m.dialog.ShowAlert(msg.Text)
		return m, nil

	case ShowConfirm:
		m.dialog.ShowConfirm(msg.Text, msg.OnConfirm)
		return m, nil

	case DialogClosed:
		return m, nil

	case Navigate:
		return m, m.navigate(msg.Route)

	case CreateNewChat:
		return m, m.navigate(route.Root)

	case SessionResolved:
		// A failed load falls back to a fresh chat at the root
		if msg.Result.Outcome == session.ResolveRecreated && m.route == msg.Route {
			m.route = route.Root
			m.sidebar.SetCurrent(m.route)
		}
		if msg.Result.Outcome != session.ResolveSuperseded {
			return m, m.refreshChats()
		}
		return m, nil

	case DeleteChat:
		return m, m.deleteChat(msg.ChatID)

	case ChatDeleted:
		if msg.Err != nil {
			m.dialog.ShowAlert(DeleteChatFailedText)
			return m, nil
		}
		m.sidebar.SetEntries(m.deps.Sessions.Entries())
		if msg.WasActive {
			return m, m.navigate(route.Root)
		}
		return m, nil

	case ChatsRefreshed:
		m.sidebar.SetEntries(msg.Entries)
		return m, nil

	case EngineChanged, MessageSent, UploadFinished, FileSelected, FileSelectorClosed:
		return m.updateChat(msg)

	case DocumentsLoaded, DocumentDeleted:
		return m.updateDocuments(msg)

	case ValidationFailed, SettingsSaved:
		return m.updateSettings(msg)

	case AnalyticsLoaded:
		return m.updateAnalytics(msg)
	}

	// Spinner ticks, cursor blinks and filepicker reads go to the chat screen,
	// which owns them all while it is mounted
	if m.route.Kind == route.Chat {
		return m.updateChat(msg)
	}
	return m.updateCurrent(msg)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f1":
		return m, m.navigate(route.Root)
	case "f2":
		return m, m.navigate(route.Route{Kind: route.Analytics})
	case "f3":
		return m, m.navigate(route.Route{Kind: route.Documents})
	case "f4":
		return m, m.navigate(route.Route{Kind: route.Settings})
	case "ctrl+n":
		return m, func() tea.Msg { return CreateNewChat{} }
	case "ctrl+b":
		m.sidebar.SetFocused(!m.sidebar.Focused())
		return m, nil
	}

	if m.sidebar.Focused() {
		if msg.String() == "esc" && !m.sidebar.Filtering() {
			m.sidebar.SetFocused(false)
			return m, nil
		}
		newModel, cmd := m.sidebar.Update(msg)
		m.sidebar = newModel.(ChatListModel)
		return m, cmd
	}

	return m.updateCurrent(msg)
}

// navigate switches screens and starts whatever the new route loads. The chat
// directory is refetched on every navigation.
func (m *AppModel) navigate(r route.Route) tea.Cmd {
	logging.Debug("navigate: %s", r.Path())
	m.route = r
	m.sidebar.SetCurrent(r)
	m.sidebar.SetFocused(false)

	cmds := []tea.Cmd{m.refreshChats()}

	switch r.Kind {
	case route.Chat:
		if r.ChatID == "" || r.ChatID != m.deps.Engine.ActiveID() {
			cmds = append(cmds, m.resolve(r))
		}
	case route.Documents:
		cmds = append(cmds, m.documents.Load())
	case route.Analytics:
		cmds = append(cmds, m.analytics.Load())
	case route.Settings:
		m.settings.Reset()
		cmds = append(cmds, m.settings.Init())
	}

	return tea.Batch(cmds...)
}

func (m AppModel) resolve(r route.Route) tea.Cmd {
	ctx, engine := m.ctx, m.deps.Engine
	return func() tea.Msg {
		return SessionResolved{Route: r, Result: engine.Resolve(ctx, r.ChatID)}
	}
}

func (m AppModel) refreshChats() tea.Cmd {
	ctx, sessions := m.ctx, m.deps.Sessions
	return func() tea.Msg {
		// A failed refresh keeps the previous listing
		entries, _ := sessions.Refresh(ctx)
		return ChatsRefreshed{Entries: entries}
	}
}

func (m AppModel) deleteChat(id string) tea.Cmd {
	ctx, sessions := m.ctx, m.deps.Sessions
	activeID := m.deps.Engine.ActiveID()
	return func() tea.Msg {
		res, err := sessions.Delete(ctx, id, activeID)
		return ChatDeleted{ChatID: id, WasActive: res.WasActive, Err: err}
	}
}

func (m AppModel) resize(width, height int) (tea.Model, tea.Cmd) {
	m.width = width
	m.height = height
	m.dialog.UpdateSize(width)

	newSidebar, _ := m.sidebar.Update(tea.WindowSizeMsg{Width: SidebarWidth, Height: height})
	m.sidebar = newSidebar.(ChatListModel)

	cw, ch := contentSize(width, height)
	content := tea.WindowSizeMsg{Width: cw, Height: ch}

	newChat, _ := m.chat.Update(content)
	m.chat = newChat.(ChatViewModel)
	newDocs, _ := m.documents.Update(content)
	m.documents = newDocs.(DocumentsViewModel)
	newSettings, _ := m.settings.Update(content)
	m.settings = newSettings.(SettingsViewModel)
	newAnalytics, _ := m.analytics.Update(content)
	m.analytics = newAnalytics.(AnalyticsViewModel)

	return m, nil
}

func (m AppModel) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.route.Kind {
	case route.Analytics:
		return m.updateAnalytics(msg)
	case route.Documents:
		return m.updateDocuments(msg)
	case route.Settings:
		return m.updateSettings(msg)
	default:
		return m.updateChat(msg)
	}
}

func (m AppModel) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.chat.Update(msg)
	m.chat = newModel.(ChatViewModel)
	return m, cmd
}

func (m AppModel) updateDocuments(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.documents.Update(msg)
	m.documents = newModel.(DocumentsViewModel)
	return m, cmd
}

func (m AppModel) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.settings.Update(msg)
	m.settings = newModel.(SettingsViewModel)
	return m, cmd
}

func (m AppModel) updateAnalytics(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.analytics.Update(msg)
	m.analytics = newModel.(AnalyticsViewModel)
	return m, cmd
}

func (m AppModel) View() string {
	var content string
	switch m.route.Kind {
	case route.Analytics:
		content = m.analytics.View()
	case route.Documents:
		content = m.documents.View()
	case route.Settings:
		content = m.settings.View()
	default:
		content = m.chat.View()
	}

	cw, _ := contentSize(m.width, m.height)
	header := HeaderStyle.Width(cw).Render(m.route.Title())
	help := HelpTextSimpleStyle.Render("F1-F4: Screens • Ctrl+N: New chat • Ctrl+B: Chats • Ctrl+C: Quit")
	body := lipgloss.JoinVertical(lipgloss.Left, header, content, help)

	view := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), body)
	return m.dialog.RenderOverlay(view)
}
