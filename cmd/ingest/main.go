package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ai-gateway-be/internal/config"
	"ai-gateway-be/internal/model"
	"ai-gateway-be/internal/repository/implementation"
	"ai-gateway-be/pkg/database"
	"ai-gateway-be/pkg/embedding"
	"ai-gateway-be/pkg/knowledge"

	"github.com/fatih/color"
)

// Offline knowledge ingestion:
//
//	go run ./cmd/ingest "Your knowledge text here" [source]
func main() {
	if len(os.Args) < 2 {
		color.Yellow("Usage: ingest \"Your knowledge text here\" [source]")
		os.Exit(1)
	}
	text := os.Args[1]
	source := "manual"
	if len(os.Args) > 2 {
		source = os.Args[2]
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("DB_CONNECTION_STRING is required for ingestion")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.VectorRecord{}); err != nil {
		color.Red("Failed to migrate vector_records: %v", err)
		os.Exit(1)
	}

	var embedder embedding.Provider
	if cfg.Ai.EmbeddingProvider == "mock" {
		embedder = embedding.NewMockProvider(768)
	} else {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	}

	index := implementation.NewPgVectorIndex(implementation.NewVectorRecordRepository(db))
	ingestor := knowledge.NewIngestor(index, embedder)

	color.Cyan("Embedding knowledge using %s...", cfg.Ai.EmbeddingModel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := ingestor.Ingest(ctx, text, source); err != nil {
		color.Red("Ingestion failed: %v", err)
		os.Exit(1)
	}

	preview := text
	if len(preview) > 50 {
		preview = preview[:50] + "..."
	}
	color.Green("Successfully ingested: %s", preview)
	fmt.Println()
}
