package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"

	"rag-chat/internal/analytics"
	"rag-chat/internal/backend"
	"rag-chat/internal/directory"
	"rag-chat/internal/mockbackend"
	"rag-chat/internal/route"
	"rag-chat/internal/session"
	"rag-chat/internal/settings"
	"rag-chat/internal/storage"
)

type testApp struct {
	model  AppModel
	client *backend.Client
	mock   *mockbackend.Server
	deps   AppDeps
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mock := mockbackend.New()
	srv := httptest.NewServer(mock.Handler([]string{"*"}))
	t.Cleanup(srv.Close)

	client := backend.NewClient(srv.URL, 5*time.Second)
	sessions := directory.NewSessions(client)
	deps := AppDeps{
		Engine:    session.NewEngine(client, sessions),
		Sessions:  sessions,
		Documents: directory.NewDocuments(client),
		Settings:  settings.NewStore(storage.NewMemoryStore()),
		Analytics: analytics.StaticSource{},
	}

	return &testApp{
		model:  NewAppModel(context.Background(), deps, route.Root, 120, 40),
		client: client,
		mock:   mock,
		deps:   deps,
	}
}

// isAppMsg reports whether a message is one the app acts on. Timer driven
// messages (blinks, spinner ticks) are dropped so draining terminates.
func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case Navigate, CreateNewChat, DeleteChat, ChatsRefreshed, SessionResolved, ChatDeleted,
		ShowAlert, ShowConfirm, DialogClosed,
		MessageSent, UploadFinished,
		DocumentsLoaded, DocumentDeleted,
		ValidationFailed, SettingsSaved, AnalyticsLoaded:
		return true
	}
	return false
}

// runCmd executes cmd, expanding batches, and returns the app messages it
// produced. Commands that block past the deadline are abandoned.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(2 * time.Second):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil || !isAppMsg(msg) {
		return nil
	}
	return []tea.Msg{msg}
}

// send delivers msg and everything it causes until the app settles
func (a *testApp) send(msg tea.Msg) {
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0 && i < 50; i++ {
		next := queue[0]
		queue = queue[1:]

		newModel, cmd := a.model.Update(next)
		a.model = newModel.(AppModel)
		queue = append(queue, runCmd(cmd)...)
	}
}

func (a *testApp) key(s string) {
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "f3":
		msg = tea.KeyMsg{Type: tea.KeyF3}
	case "ctrl+n":
		msg = tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+b":
		msg = tea.KeyMsg{Type: tea.KeyCtrlB}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	a.send(msg)
}

func hasEntry(m AppModel, id string) bool {
	for _, e := range m.sidebar.Entries() {
		if e.ID == id {
			return true
		}
	}
	return false
}

func TestAppNavigateRootCreatesChat(t *testing.T) {
	app := newTestApp(t)

	app.send(Navigate{Route: route.Root})

	engine := app.deps.Engine
	if engine.State() != session.StateReady {
		t.Fatalf("Expected Ready, got %s", engine.State())
	}
	id := engine.ActiveID()
	if id == "" {
		t.Fatal("Expected an active chat")
	}
	if transcript := engine.Transcript(); len(transcript) != 1 || transcript[0].Content != session.GreetingText {
		t.Errorf("Expected greeting only, got %+v", transcript)
	}
	if !hasEntry(app.model, id) {
		t.Errorf("Expected sidebar to list %s after refresh", id)
	}
	if app.model.Route() != route.Root {
		t.Errorf("Expected root route, got %s", app.model.Route().Path())
	}
}

func TestAppCtrlNStartsAnotherChat(t *testing.T) {
	app := newTestApp(t)
	app.send(Navigate{Route: route.Root})
	first := app.deps.Engine.ActiveID()

	app.key("ctrl+n")

	second := app.deps.Engine.ActiveID()
	if second == "" || second == first {
		t.Errorf("Expected a new chat, got %q (previous %q)", second, first)
	}
	if len(app.model.sidebar.Entries()) != 2 {
		t.Errorf("Expected 2 listed chats, got %d", len(app.model.sidebar.Entries()))
	}
}

func TestAppUnknownChatFallsBackToRoot(t *testing.T) {
	app := newTestApp(t)

	app.send(Navigate{Route: route.ChatRoute("missing")})

	if app.model.Route() != route.Root {
		t.Errorf("Expected root route after failed load, got %s", app.model.Route().Path())
	}
	id := app.deps.Engine.ActiveID()
	if id == "" || id == "missing" {
		t.Errorf("Expected a freshly created chat, got %q", id)
	}
}

func TestAppOpensExistingChat(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	id, err := app.client.CreateChat(ctx)
	if err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}
	if _, err := app.client.Query(ctx, backend.QueryRequest{Query: "what is inside?", ChatID: id, SimilarityThreshold: 0.5}); err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	app.send(Navigate{Route: route.ChatRoute(id)})

	if app.model.Route() != route.ChatRoute(id) {
		t.Errorf("Expected to stay on chat route, got %s", app.model.Route().Path())
	}
	if app.deps.Engine.ActiveID() != id {
		t.Errorf("Expected active chat %s, got %s", id, app.deps.Engine.ActiveID())
	}
	if n := len(app.deps.Engine.Transcript()); n != 2 {
		t.Errorf("Expected 2 loaded messages, got %d", n)
	}
}

func TestAppDeleteActiveChatReturnsToRoot(t *testing.T) {
	app := newTestApp(t)
	app.send(Navigate{Route: route.Root})
	old := app.deps.Engine.ActiveID()

	app.send(DeleteChat{ChatID: old})

	if hasEntry(app.model, old) {
		t.Errorf("Expected %s to be removed from the sidebar", old)
	}
	current := app.deps.Engine.ActiveID()
	if current == "" || current == old {
		t.Errorf("Expected a new active chat after deleting the active one, got %q", current)
	}
	if app.model.dialog.IsVisible() {
		t.Errorf("Unexpected dialog: %s", app.model.dialog.Text())
	}
}

func TestAppDeleteInactiveChatKeepsSession(t *testing.T) {
	app := newTestApp(t)
	app.send(Navigate{Route: route.Root})
	first := app.deps.Engine.ActiveID()
	app.key("ctrl+n")
	second := app.deps.Engine.ActiveID()
	if second == "" || second == first {
		t.Fatalf("Expected a second chat, got %q (first %q)", second, first)
	}
	if got := app.deps.Engine.SendMessage(context.Background(), "hello", app.deps.Settings.Load()); got.Outcome != session.SendAnswered {
		t.Fatalf("Expected SendAnswered, got %v", got.Outcome)
	}
	before := app.deps.Engine.Transcript()
	if len(before) != 3 {
		t.Fatalf("Expected greeting and one exchange, got %+v", before)
	}

	app.send(DeleteChat{ChatID: first})

	if hasEntry(app.model, first) {
		t.Errorf("Expected %s to be removed from the sidebar", first)
	}
	if !hasEntry(app.model, second) {
		t.Errorf("Expected %s to stay listed", second)
	}
	if got := app.deps.Engine.ActiveID(); got != second {
		t.Errorf("Expected active chat %s, got %s", second, got)
	}
	after := app.deps.Engine.Transcript()
	if len(after) != len(before) {
		t.Fatalf("Expected transcript of %d messages, got %d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("Expected message %d to be %+v, got %+v", i, before[i], after[i])
		}
	}
	if app.model.Route() != route.Root {
		t.Errorf("Expected to stay on root, got %s", app.model.Route().Path())
	}
}

func TestAppSidebarEscClearsFilterFirst(t *testing.T) {
	app := newTestApp(t)
	app.send(Navigate{Route: route.Root})

	app.key("ctrl+b")
	app.key("/")
	if !app.model.sidebar.Filtering() {
		t.Fatal("Expected the chat list to be filtering")
	}

	app.key("esc")
	if app.model.sidebar.Filtering() {
		t.Error("Expected Esc to cancel the filter")
	}
	if !app.model.sidebar.Focused() {
		t.Error("Expected the sidebar to keep focus while cancelling the filter")
	}

	app.key("esc")
	if app.model.sidebar.Focused() {
		t.Error("Expected a second Esc to leave the sidebar")
	}
}

func TestAppDeleteChatFailureShowsAlert(t *testing.T) {
	app := newTestApp(t)
	app.send(Navigate{Route: route.Root})
	id := app.deps.Engine.ActiveID()
	app.mock.InjectFault(http.MethodDelete, "/chats/:id", http.StatusInternalServerError)

	app.send(DeleteChat{ChatID: id})

	if !app.model.dialog.IsVisible() || app.model.dialog.Text() != DeleteChatFailedText {
		t.Errorf("Expected alert %q, got visible=%v text=%q", DeleteChatFailedText, app.model.dialog.IsVisible(), app.model.dialog.Text())
	}
	if !hasEntry(app.model, id) {
		t.Error("Expected chat to stay listed after a failed delete")
	}
	if app.deps.Engine.ActiveID() != id {
		t.Error("Expected active chat to be unchanged")
	}
}

func TestAppDialogBlocksInput(t *testing.T) {
	app := newTestApp(t)
	app.send(ShowAlert{Text: "Heads up"})

	app.key("f3")
	if app.model.Route().Kind == route.Documents {
		t.Error("Navigation must be blocked while a dialog is visible")
	}
	if !app.model.dialog.IsVisible() {
		t.Fatal("Expected dialog to stay visible")
	}

	app.key("enter")
	if app.model.dialog.IsVisible() {
		t.Error("Expected Enter to dismiss the alert")
	}

	app.key("f3")
	if app.model.Route().Kind != route.Documents {
		t.Errorf("Expected documents route, got %s", app.model.Route().Path())
	}
}

func TestAppDocumentDeleteWithConfirm(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	if _, err := app.client.Upload(ctx, "report.pdf", strings.NewReader(strings.Repeat("x", 2500))); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	app.send(Navigate{Route: route.Route{Kind: route.Documents}})
	if len(app.model.documents.snapshot) != 1 {
		t.Fatalf("Expected 1 document listed, got %d", len(app.model.documents.snapshot))
	}

	app.key("d")
	want := "Are you sure you want to delete report.pdf?"
	if app.model.dialog.Text() != want {
		t.Fatalf("Expected confirm %q, got %q", want, app.model.dialog.Text())
	}

	app.key("y")
	if app.model.dialog.IsVisible() {
		t.Errorf("Unexpected dialog after delete: %s", app.model.dialog.Text())
	}
	if len(app.model.documents.snapshot) != 0 {
		t.Errorf("Expected listing to be empty, got %d", len(app.model.documents.snapshot))
	}
}

func TestAppDocumentDeleteCancelled(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.client.Upload(context.Background(), "keep.pdf", strings.NewReader("data")); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	app.send(Navigate{Route: route.Route{Kind: route.Documents}})

	app.key("d")
	app.key("n")

	docs, err := app.client.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("Expected document to survive a cancelled delete, got %d", len(docs))
	}
}

func TestAppDocumentDeleteFailureShowsAlert(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.client.Upload(context.Background(), "stuck.pdf", strings.NewReader("data")); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	app.send(Navigate{Route: route.Route{Kind: route.Documents}})
	app.mock.InjectFault(http.MethodDelete, "/documents/:name", http.StatusInternalServerError)

	app.key("d")
	app.key("y")

	if app.model.dialog.Text() != DeleteDocumentFailedText {
		t.Errorf("Expected alert %q, got %q", DeleteDocumentFailedText, app.model.dialog.Text())
	}
	if len(app.model.documents.snapshot) != 1 {
		t.Errorf("Expected listing unchanged, got %d", len(app.model.documents.snapshot))
	}
}

func TestAppSettingsSave(t *testing.T) {
	app := newTestApp(t)
	app.send(Navigate{Route: route.Route{Kind: route.Settings}})

	app.key("+")
	app.key("shift+tab")
	app.key("enter")

	if app.model.dialog.Text() != SettingsSavedText {
		t.Errorf("Expected alert %q, got %q", SettingsSavedText, app.model.dialog.Text())
	}
	saved := app.deps.Settings.Load()
	if saved.SimilarityThreshold != 0.3 {
		t.Errorf("Expected saved threshold 0.3, got %v", saved.SimilarityThreshold)
	}
}

func TestAppAnalyticsLoads(t *testing.T) {
	app := newTestApp(t)
	app.send(Navigate{Route: route.Route{Kind: route.Analytics}})

	if app.model.analytics.snapshot == nil {
		t.Fatal("Expected analytics snapshot to load")
	}
	if !strings.Contains(app.model.View(), "Total Queries") {
		t.Error("Expected analytics cards in the view")
	}
}
