// Package main provides a tool to seed the database with test data.
//
// This creates a set of cached events and contact records to exercise the
// listing, duplicate protection, and live query features during development.
//
// Usage:
//
//	DB_PATH=~/MeetLog/data/meetlog.db go run ./cmd/seed
//	DB_PATH=~/MeetLog/data/meetlog.db go run ./cmd/seed --owner u1 --events 20
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/meetlogapp/meetlog-server/internal/domain"
	"github.com/meetlogapp/meetlog-server/internal/store"
	"github.com/meetlogapp/meetlog-server/internal/store/sqlite"
)

var (
	owner      = flag.String("owner", "dev", "Owner ID to seed events for")
	eventCount = flag.Int("events", 12, "Number of events to create")
)

var sampleTitles = []string{
	"Go Meetup", "DB Night", "Cloud Workshop", "Hack Evening",
	"Infra Talks", "Open Source Sprint", "API Design Clinic", "Release Party",
}

var sampleTags = []string{"speaker", "follow-up", "hiring", "go", "recruiter"}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/MeetLog/data/meetlog.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	events := make([]*domain.Event, 0, *eventCount)
	now := time.Now()
	for i := 0; i < *eventCount; i++ {
		start := now.Add(time.Duration(i-*eventCount/2) * 24 * time.Hour)
		end := start.Add(2 * time.Hour)
		limit := 30 + rand.Intn(120)
		events = append(events, &domain.Event{
			EventKey:  int64(1000 + i),
			Title:     fmt.Sprintf("%s #%d", sampleTitles[i%len(sampleTitles)], i+1),
			StartedAt: &start,
			EndedAt:   &end,
			Place:     "Community Hall",
			Organizer: "meetlog-dev",
			Accepted:  rand.Intn(30),
			Waiting:   rand.Intn(10),
			Limit:     &limit,
			URL:       fmt.Sprintf("https://events.example/%d", 1000+i),
		})
	}

	if err := s.ReplaceEventsForOwner(ctx, *owner, events); err != nil {
		log.Fatalf("Failed to seed events: %v", err)
	}
	fmt.Printf("Seeded %d events for owner %q\n", len(events), *owner)

	created, skipped := 0, 0
	for _, e := range events {
		// One or two contacts per event, with overlap to exercise the
		// duplicate protection.
		for p := 0; p < 1+rand.Intn(2); p++ {
			personKey := int64(1 + rand.Intn(*eventCount*2))
			c := &domain.Contact{
				EventKey:    e.EventKey,
				PersonKey:   personKey,
				PersonLabel: fmt.Sprintf("person-%d", personKey),
				Note:        "seeded contact",
				Tags:        []string{sampleTags[rand.Intn(len(sampleTags))]},
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			id, err := s.InsertContact(ctx, c)
			if err != nil {
				log.Fatalf("Failed to insert contact: %v", err)
			}
			if id == store.InsertRejected {
				skipped++
				continue
			}
			created++
		}
	}
	fmt.Printf("Seeded %d contacts (%d duplicate pairs skipped)\n", created, skipped)
}
