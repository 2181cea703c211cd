package models

const DefaultChatTitle = "New Chat"

// Session is the active chat: its backend id and the transcript held in memory.
type Session struct {
	ID       string
	Messages []Message
}

// DirectoryEntry is the lightweight listing form of a session.
type DirectoryEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// DisplayTitle returns the title shown in the chat list.
func (e DirectoryEntry) DisplayTitle() string {
	if e.Title == "" {
		return DefaultChatTitle
	}
	return e.Title
}
