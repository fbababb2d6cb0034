// Package main provides a tool to seed the database with sample essays.
//
// Usage:
//
//	DB_PATH=~/Folio/data/db go run ./cmd/seed
//	DB_PATH=~/Folio/data/db go run ./cmd/seed --drafts  # Include unpublished drafts
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/folioapp/folio-server/internal/domain"
	"github.com/folioapp/folio-server/internal/id"
	"github.com/folioapp/folio-server/internal/store"
)

var includeDrafts = flag.Bool("drafts", false, "Also seed unpublished drafts")

type seedEssay struct {
	title       string
	description string
	content     string
	tags        []string
	published   bool
}

var seedEssays = []seedEssay{
	{
		title:       "Why I Still Write Longhand",
		description: "On drafting with pen and paper before anything touches a screen.",
		content:     "<p>Every essay on this site started in a notebook.</p>",
		tags:        []string{"craft", "process"},
		published:   true,
	},
	{
		title:       "Reading as an Apprenticeship",
		description: "What copying out paragraphs by hand taught me about sentences.",
		content:     "<p>Imitation is not theft when it is practice.</p>",
		tags:        []string{"reading", "craft"},
		published:   true,
	},
	{
		title:       "Notes Toward a Second Book",
		description: "Fragments and false starts.",
		content:     "<p>Unfinished, like everything worth doing.</p>",
		tags:        []string{"process"},
		published:   false,
	},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Folio/data/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	seeded := 0

	for _, seed := range seedEssays {
		if !seed.published && !*includeDrafts {
			continue
		}

		essayID, err := id.Generate("essay")
		if err != nil {
			log.Fatalf("Failed to generate essay ID: %v", err)
		}

		essay := &domain.Essay{
			ID:          essayID,
			Title:       seed.title,
			Description: seed.description,
			Content:     seed.content,
			Tags:        domain.NormalizeTags(seed.tags),
			Published:   seed.published,
		}
		essay.InitTimestamps()

		if err := s.CreateEssay(ctx, essay); err != nil {
			log.Printf("Skipping %q: %v", seed.title, err)
			continue
		}

		fmt.Printf("Seeded essay: %s (%s)\n", essay.Title, essay.ID)
		seeded++

		// Stagger timestamps so list ordering is visible.
		time.Sleep(5 * time.Millisecond)
	}

	fmt.Printf("\nDone. Seeded %d essays.\n", seeded)
}
