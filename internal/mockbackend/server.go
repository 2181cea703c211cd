// Package mockbackend is an in-memory implementation of the RAG backend HTTP
// contract. It backs local development runs and the client integration tests.
package mockbackend

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rag-chat/internal/models"
)

const (
	// ChunkSize is the number of bytes that count as one chunk on upload.
	ChunkSize = 1000

	maxTitleLength = 40
)

// Responder produces the answer text for a query.
type Responder func(query string, threshold float64, documents []string) string

type chat struct {
	id        string
	title     string
	messages  []models.Message
	createdAt time.Time
}

type document struct {
	size      int64
	createdAt time.Time
}

type fault struct {
	method string
	route  string
}

// Server holds all chats and documents in memory.
type Server struct {
	mu        sync.Mutex
	chats     map[string]*chat
	documents map[string]document
	faults    map[fault]int
	responder Responder
	now       func() time.Time
}

// New creates an empty backend.
func New() *Server {
	return &Server{
		chats:     make(map[string]*chat),
		documents: make(map[string]document),
		faults:    make(map[fault]int),
		responder: DefaultResponder,
		now:       time.Now,
	}
}

// DefaultResponder answers with a canned grounded reply.
func DefaultResponder(query string, threshold float64, documents []string) string {
	if len(documents) == 0 {
		return fmt.Sprintf("I could not find any uploaded documents to answer **%s**. Upload a PDF to get started.", query)
	}
	return fmt.Sprintf("Based on %d document(s) (similarity threshold %.2f): %s\n\nSources: %s",
		len(documents), threshold, query, strings.Join(documents, ", "))
}

// SetResponder replaces the answer generator.
func (s *Server) SetResponder(r Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responder = r
}

// InjectFault makes every request matching method and gin route pattern
// (e.g. "/chats/:id") fail with status until ClearFaults is called.
func (s *Server) InjectFault(method, route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[fault{method: method, route: route}] = status
}

func (s *Server) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[fault]int)
}

// Handler builds the gin router serving the backend contract.
func (s *Server) Handler(allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS(allowOrigins))
	r.Use(s.faultInjection())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/chats", s.ListChats)
	r.POST("/chats", s.CreateChat)
	r.GET("/chats/:id", s.GetChat)
	r.DELETE("/chats/:id", s.DeleteChat)
	r.POST("/chat", s.Chat)
	r.POST("/upload", s.Upload)
	r.GET("/documents", s.ListDocuments)
	r.DELETE("/documents/:name", s.DeleteDocument)

	return r
}

func (s *Server) faultInjection() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		status, ok := s.faults[fault{method: c.Request.Method, route: c.FullPath()}]
		s.mu.Unlock()

		if ok {
			c.AbortWithStatusJSON(status, gin.H{"detail": "injected failure"})
			return
		}
		c.Next()
	}
}

func (s *Server) ListChats(c *gin.Context) {
	s.mu.Lock()
	chats := make([]*chat, 0, len(s.chats))
	for _, ch := range s.chats {
		chats = append(chats, ch)
	}
	s.mu.Unlock()

	sort.Slice(chats, func(i, j int) bool {
		return chats[i].createdAt.After(chats[j].createdAt)
	})

	entries := make([]models.DirectoryEntry, len(chats))
	for i, ch := range chats {
		entries[i] = models.DirectoryEntry{ID: ch.id, Title: ch.title}
	}
	c.JSON(http.StatusOK, gin.H{"chats": entries})
}

func (s *Server) CreateChat(c *gin.Context) {
	s.mu.Lock()
	ch := &chat{id: uuid.NewString(), messages: []models.Message{}, createdAt: s.now()}
	s.chats[ch.id] = ch
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"id": ch.id})
}

func (s *Server) GetChat(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.chats[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "chat not found"})
		return
	}
	messages := make([]gin.H, len(ch.messages))
	for i, m := range ch.messages {
		messages[i] = gin.H{"role": m.Role, "content": m.Content, "index": i}
	}
	c.JSON(http.StatusOK, gin.H{"id": ch.id, "title": ch.title, "messages": messages})
}

func (s *Server) DeleteChat(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	if _, ok := s.chats[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "chat not found"})
		return
	}
	delete(s.chats, id)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type chatRequest struct {
	Query               string   `json:"query"`
	ChatID              string   `json:"chat_id"`
	SimilarityThreshold *float64 `json:"similarity_threshold"`
}

func (s *Server) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "query is required"})
		return
	}

	threshold := models.DefaultSimilarityThreshold
	if req.SimilarityThreshold != nil {
		threshold = *req.SimilarityThreshold
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.chats[req.ChatID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "chat not found"})
		return
	}

	answer := s.responder(req.Query, threshold, s.documentNamesLocked())

	if ch.title == "" {
		ch.title = titleFromQuery(req.Query)
	}
	ch.messages = append(ch.messages, models.NewUserMessage(req.Query), models.NewAssistantMessage(answer))

	c.JSON(http.StatusOK, gin.H{"response": answer})
}

func (s *Server) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}

	chunks := int((fh.Size + ChunkSize - 1) / ChunkSize)
	if chunks < 1 {
		chunks = 1
	}

	s.mu.Lock()
	s.documents[fh.Filename] = document{size: fh.Size, createdAt: s.now()}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"filename": fh.Filename, "chunks": chunks})
}

func (s *Server) ListDocuments(c *gin.Context) {
	s.mu.Lock()
	docs := make([]models.Document, 0, len(s.documents))
	for name, d := range s.documents {
		docs = append(docs, models.Document{Name: name, SizeBytes: d.size, CreatedAt: d.createdAt})
	}
	s.mu.Unlock()

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Name < docs[j].Name
	})
	c.JSON(http.StatusOK, docs)
}

func (s *Server) DeleteDocument(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := c.Param("name")
	if _, ok := s.documents[name]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "document not found"})
		return
	}
	delete(s.documents, name)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) documentNamesLocked() []string {
	names := make([]string, 0, len(s.documents))
	for name := range s.documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func titleFromQuery(query string) string {
	title := strings.Join(strings.Fields(query), " ")
	runes := []rune(title)
	if len(runes) > maxTitleLength {
		return string(runes[:maxTitleLength-3]) + "..."
	}
	return title
}
