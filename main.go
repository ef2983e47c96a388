package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cr625/proethica-temporal/internal/config"
	"github.com/cr625/proethica-temporal/internal/server"
	"github.com/cr625/proethica-temporal/internal/storage"
	"github.com/cr625/proethica-temporal/internal/temporal"
)

func main() {
	// Optional .env for local development; absence is not an error.
	godotenv.Load()

	transport := flag.String("transport", "stdio", "Transport mode: stdio or http")
	port := flag.String("port", "", "HTTP port (only used with --transport http)")
	dataDir := flag.String("data-dir", "", "Directory for the case database")
	configPath := flag.String("config", "proethica.yaml", "Path to an optional YAML settings file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *dataDir != "" {
		settings.DataDir = *dataDir
	}
	if *port != "" {
		settings.Port = *port
	}

	store, err := storage.Open(settings.DataDir)
	if err != nil {
		log.Fatalf("Failed to open case store: %v", err)
	}
	defer store.Close()

	engine := temporal.New(temporal.Options{
		DefaultDurationMinutes: settings.Engine.DefaultDurationMinutes,
		EthicsKeywords:         settings.Engine.EthicsKeywords,
		KnowledgePhrases:       settings.Engine.KnowledgePhrases,
		RolePhrases:            settings.Engine.RolePhrases,
		DeadlinePhrases:        settings.Engine.DeadlinePhrases,
		Now:                    time.Now,
	})

	srv := server.New(store, engine)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch *transport {
	case "stdio":
		log.Println("Temporal analysis MCP server starting (stdio)")
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case "http":
		addr := ":" + settings.Port
		handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
			return srv
		}, nil)
		log.Printf("Temporal analysis MCP server listening on %s", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	default:
		log.Fatalf("Unknown transport: %s (use stdio or http)", *transport)
	}
}
