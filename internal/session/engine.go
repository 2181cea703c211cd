package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"rag-chat/internal/backend"
	"rag-chat/internal/logging"
	"rag-chat/internal/models"
)

const (
	GreetingText      = "Hello! I am your RAG Chat assistant. Upload a PDF document to get started or ask me anything."
	SendFailureText   = "Sorry, something went wrong."
	UploadFailureText = "Upload failed."
)

// UploadingText is the status line appended when an upload starts
func UploadingText(name string) string {
	return fmt.Sprintf("Uploading %s...", name)
}

// UploadSuccessText is the outcome line appended when an upload succeeds
func UploadSuccessText(name string, chunks int) string {
	return fmt.Sprintf("Successfully processed %s. %d chunks created.", name, chunks)
}

// Backend is the part of the backend contract the engine drives.
// *backend.Client satisfies it.
type Backend interface {
	LoadChat(ctx context.Context, id string) ([]models.Message, error)
	Query(ctx context.Context, req backend.QueryRequest) (string, error)
	Upload(ctx context.Context, name string, content io.Reader) (int, error)
}

// Creator allocates new sessions. *directory.Sessions satisfies it.
type Creator interface {
	Create(ctx context.Context) (string, error)
}

// Engine owns the active chat session: its id, its transcript and the one
// operation allowed in flight against it. Methods are safe to call from
// concurrent goroutines; the lock is never held across a backend call.
//
// Every Resolve starts a new generation. Results of sends and uploads that
// were started under an older generation are discarded so they never land in
// another session's transcript.
type Engine struct {
	backend  Backend
	sessions Creator

	mu         sync.Mutex
	state      State
	current    models.Session
	generation uint64
	inFlight   bool

	changes chan struct{}
}

func NewEngine(b Backend, sessions Creator) *Engine {
	return &Engine{
		backend:  b,
		sessions: sessions,
		state:    StateUninitialized,
		changes:  make(chan struct{}, 1),
	}
}

// Changes delivers a signal after every transcript or state mutation.
// Signals coalesce: a receiver that falls behind sees one pending signal.
func (e *Engine) Changes() <-chan struct{} {
	return e.changes
}

func (e *Engine) notify() {
	select {
	case e.changes <- struct{}{}:
	default:
	}
}

// Resolve makes id the active session. An empty id creates a new session
// seeded with the greeting. A session that cannot be loaded is replaced by a
// new one instead of surfacing the error.
func (e *Engine) Resolve(ctx context.Context, id string) ResolveResult {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.state = StateResolving
	e.current = models.Session{}
	e.inFlight = false
	e.mu.Unlock()
	e.notify()

	if id != "" {
		messages, err := e.backend.LoadChat(ctx, id)
		if err == nil {
			if !e.install(gen, StateReady, id, mapMessages(messages)) {
				return ResolveResult{Outcome: ResolveSuperseded}
			}
			logging.Info("Loaded chat %s with %d messages", id, len(messages))
			return ResolveResult{Outcome: ResolveLoaded, ID: id}
		}

		logging.Warn("Failed to load chat %s, creating a new one: %v", id, err)
		result := e.create(ctx, gen)
		if result.Outcome == ResolveCreated {
			result.Outcome = ResolveRecreated
		}
		return result
	}

	return e.create(ctx, gen)
}

func (e *Engine) create(ctx context.Context, gen uint64) ResolveResult {
	newID, err := e.sessions.Create(ctx)
	if err != nil {
		if !e.install(gen, StateError, "", nil) {
			return ResolveResult{Outcome: ResolveSuperseded}
		}
		return ResolveResult{Outcome: ResolveFailed, Err: err}
	}

	greeting := []models.Message{models.NewAssistantMessage(GreetingText)}
	if !e.install(gen, StateReady, newID, greeting) {
		return ResolveResult{Outcome: ResolveSuperseded}
	}
	logging.Info("Created chat %s", newID)
	return ResolveResult{Outcome: ResolveCreated, ID: newID}
}

// install publishes a resolved session if gen is still current
func (e *Engine) install(gen uint64, state State, id string, transcript []models.Message) bool {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return false
	}
	e.state = state
	e.current = models.Session{ID: id, Messages: transcript}
	e.mu.Unlock()
	e.notify()
	return true
}

// mapMessages keeps role and content only
func mapMessages(in []models.Message) []models.Message {
	out := make([]models.Message, 0, len(in))
	for _, m := range in {
		out = append(out, models.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// SendMessage appends text as a user message and then exactly one assistant
// message: the answer, or a fixed failure notice. Blank text, a missing
// session, or another operation in flight reject the call without touching
// the transcript. Settings are clamped before use.
func (e *Engine) SendMessage(ctx context.Context, text string, settings models.RetrievalSettings) SendResult {
	if strings.TrimSpace(text) == "" {
		return SendResult{Outcome: SendRejectedBlank}
	}

	e.mu.Lock()
	if e.current.ID == "" {
		e.mu.Unlock()
		return SendResult{Outcome: SendRejectedNoSession}
	}
	if e.inFlight {
		e.mu.Unlock()
		return SendResult{Outcome: SendRejectedBusy}
	}
	gen := e.generation
	chatID := e.current.ID
	e.inFlight = true
	e.state = StateSending
	e.current.Messages = append(e.current.Messages, models.NewUserMessage(text))
	e.mu.Unlock()
	e.notify()

	settings = settings.Clamp()
	response, err := e.backend.Query(ctx, backend.QueryRequest{
		Query:               text,
		ChatID:              chatID,
		SimilarityThreshold: settings.SimilarityThreshold,
	})

	reply := response
	outcome := SendAnswered
	if err != nil {
		logging.Error("Failed to send message to chat %s: %v", chatID, err)
		reply = SendFailureText
		outcome = SendFailed
	}

	if !e.finish(gen, models.NewAssistantMessage(reply)) {
		logging.Debug("Dropped reply for chat %s after session switch", chatID)
		return SendResult{Outcome: SendDropped, Err: err}
	}
	return SendResult{Outcome: outcome, Err: err}
}

// UploadDocument sends one file to the backend and reports progress into the
// transcript as a status line followed by an outcome line. Documents are not
// tied to a session, so an upload goes ahead even when no session could be
// created; only an empty name, a nil reader or another operation in flight
// reject it.
func (e *Engine) UploadDocument(ctx context.Context, name string, content io.Reader) UploadResult {
	if name == "" || content == nil {
		return UploadResult{Outcome: UploadRejectedInvalid}
	}

	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return UploadResult{Outcome: UploadRejectedBusy}
	}
	gen := e.generation
	e.inFlight = true
	e.current.Messages = append(e.current.Messages, models.NewAssistantMessage(UploadingText(name)))
	e.mu.Unlock()
	e.notify()

	chunks, err := e.backend.Upload(ctx, name, content)

	line := UploadSuccessText(name, chunks)
	outcome := UploadProcessed
	if err != nil {
		logging.Error("Failed to upload %s: %v", name, err)
		line = UploadFailureText
		outcome = UploadFailed
	}

	if !e.finish(gen, models.NewAssistantMessage(line)) {
		return UploadResult{Outcome: UploadDropped, Chunks: chunks, Err: err}
	}
	return UploadResult{Outcome: outcome, Chunks: chunks, Err: err}
}

// finish appends the closing message of an in-flight operation, unless the
// session changed meanwhile. A send returns the engine to Ready; an upload
// leaves the state as it found it.
func (e *Engine) finish(gen uint64, msg models.Message) bool {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return false
	}
	e.current.Messages = append(e.current.Messages, msg)
	e.inFlight = false
	if e.state == StateSending {
		e.state = StateReady
	}
	e.mu.Unlock()
	e.notify()
	return true
}

// Transcript returns a copy of the active transcript
func (e *Engine) Transcript() []models.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Message(nil), e.current.Messages...)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) ActiveID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.ID
}

// Busy reports whether a send or upload is in flight
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}
