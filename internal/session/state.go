package session

// State is the lifecycle position of the chat session engine
type State int

const (
	StateUninitialized State = iota
	StateResolving
	StateReady
	StateSending
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateResolving:
		return "resolving"
	case StateReady:
		return "ready"
	case StateSending:
		return "sending"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ResolveOutcome tags how a Resolve call ended
type ResolveOutcome int

const (
	// ResolveLoaded means the requested session was fetched
	ResolveLoaded ResolveOutcome = iota
	// ResolveCreated means a new session was created for an empty id
	ResolveCreated
	// ResolveRecreated means loading failed and a new session replaced it
	ResolveRecreated
	// ResolveFailed means no session could be created
	ResolveFailed
	// ResolveSuperseded means a later Resolve started before this one ended
	ResolveSuperseded
)

// ResolveResult is returned by Resolve. ID is the session now active, which
// differs from the requested id when the session was recreated.
type ResolveResult struct {
	Outcome ResolveOutcome
	ID      string
	Err     error
}

// SendOutcome tags how a SendMessage call ended
type SendOutcome int

const (
	SendAnswered SendOutcome = iota
	SendFailed
	SendRejectedBlank
	SendRejectedNoSession
	SendRejectedBusy
	// SendDropped means the session changed while the query was in flight
	SendDropped
)

type SendResult struct {
	Outcome SendOutcome
	Err     error
}

// Accepted reports whether the send reached the backend
func (r SendResult) Accepted() bool {
	return r.Outcome == SendAnswered || r.Outcome == SendFailed || r.Outcome == SendDropped
}

// UploadOutcome tags how an UploadDocument call ended
type UploadOutcome int

const (
	UploadProcessed UploadOutcome = iota
	UploadFailed
	UploadRejectedInvalid
	UploadRejectedBusy
	UploadDropped
)

type UploadResult struct {
	Outcome UploadOutcome
	Chunks  int
	Err     error
}
