// Package main provides a read-only inspection tool for the MeetLog database.
//
// Usage:
//
//	DB_PATH=~/MeetLog/data/meetlog.db go run ./cmd/dbinspect
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "modernc.org/sqlite"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/MeetLog/data/meetlog.db")
	}

	db, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		log.Fatalf("Failed to read schema version: %v", err)
	}
	fmt.Printf("Schema version: %d\n\n", version)

	// Events per owner
	rows, err := db.Query("SELECT owner_id, COUNT(*) FROM events GROUP BY owner_id ORDER BY owner_id")
	if err != nil {
		log.Fatalf("Failed to query events: %v", err)
	}
	defer rows.Close()

	fmt.Println("Events per owner:")
	totalEvents := 0
	for rows.Next() {
		var owner string
		var n int
		if err := rows.Scan(&owner, &n); err != nil {
			log.Fatalf("Failed to scan event row: %v", err)
		}
		fmt.Printf("  %-20s %d\n", owner, n)
		totalEvents += n
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Error iterating events: %v", err)
	}

	var totalContacts int
	if err := db.QueryRow("SELECT COUNT(*) FROM contacts").Scan(&totalContacts); err != nil {
		log.Fatalf("Failed to count contacts: %v", err)
	}

	fmt.Println()
	fmt.Println("Busiest events (by contacts):")
	busy, err := db.Query(`
		SELECT c.event_key, COALESCE(e.title, '(not cached)'), COUNT(*) AS n
		FROM contacts c
		LEFT JOIN events e ON e.event_key = c.event_key
		GROUP BY c.event_key
		ORDER BY n DESC
		LIMIT 10`)
	if err != nil {
		log.Fatalf("Failed to query contact counts: %v", err)
	}
	defer busy.Close()
	for busy.Next() {
		var key int64
		var title string
		var n int
		if err := busy.Scan(&key, &title, &n); err != nil {
			log.Fatalf("Failed to scan contact count row: %v", err)
		}
		fmt.Printf("  [%d] %-30s %d contacts\n", key, title, n)
	}
	if err := busy.Err(); err != nil {
		log.Fatalf("Error iterating contact counts: %v", err)
	}

	fmt.Println()
	fmt.Println("Top tags:")
	tags, err := db.Query(`
		SELECT t.slug, COUNT(*) AS n
		FROM contact_tags ct
		JOIN tags t ON t.id = ct.tag_id
		GROUP BY t.slug
		ORDER BY n DESC
		LIMIT 10`)
	if err != nil {
		log.Fatalf("Failed to query tags: %v", err)
	}
	defer tags.Close()
	for tags.Next() {
		var slug string
		var n int
		if err := tags.Scan(&slug, &n); err != nil {
			log.Fatalf("Failed to scan tag row: %v", err)
		}
		fmt.Printf("  %-20s %d\n", slug, n)
	}
	if err := tags.Err(); err != nil {
		log.Fatalf("Error iterating tags: %v", err)
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Total events:   %d\n", totalEvents)
	fmt.Printf("Total contacts: %d\n", totalContacts)
}
