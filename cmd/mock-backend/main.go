// Command mock-backend serves the in-memory RAG backend for local runs of the
// chat client.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rag-chat/internal/mockbackend"
)

var (
	addr        = flag.String("addr", ":8000", "Address to listen on")
	debug       = flag.Bool("debug", false, "Enable gin debug logging")
	corsOrigins = flag.String("cors", "*", "Allowed CORS origin")
)

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		color.Red("Failed to create logger: %v", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}

	backend := mockbackend.New()
	srv := &http.Server{
		Addr:         *addr,
		Handler:      backend.Handler([]string{*corsOrigins}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	printBanner(*addr)

	go func() {
		logger.Info("Starting mock backend", zap.String("address", *addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func printBanner(addr string) {
	color.Cyan("RAG mock backend")
	color.Yellow("  listening on %s", addr)
	color.Green("  chunk size %d bytes, data kept in memory only", mockbackend.ChunkSize)
	color.White("  point the client at it with RAGCHAT_BACKEND_BASE_URL=http://localhost%s\n", addr)
}
