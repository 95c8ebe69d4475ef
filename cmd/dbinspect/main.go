// Package main provides a read-only inspection tool for a LifeDiary database.
//
// Usage:
//
//	DB_PATH=~/lifediary/lifediary.db go run ./cmd/dbinspect
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
		dbPath = os.ExpandEnv("$HOME/lifediary/lifediary.db")
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	for _, table := range []string{"users", "sessions", "tags", "time_slots", "goals", "notes"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			log.Fatalf("Failed to count %s: %v", table, err)
		}
		fmt.Printf("%-12s %d\n", table, count)
	}
	fmt.Println()

	// Per-user summary: recorded days, slot totals, fill rate of the busiest day.
	rows, err := db.Query(`
		SELECT u.email, u.display_name,
		       COUNT(DISTINCT s.date)          AS days,
		       COUNT(s.id)                     AS slots,
		       COALESCE(MAX(per_day.cnt), 0)   AS busiest
		FROM users u
		LEFT JOIN time_slots s ON s.user_id = u.id
		LEFT JOIN (
			SELECT user_id, date, COUNT(*) AS cnt
			FROM time_slots GROUP BY user_id, date
		) per_day ON per_day.user_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at`)
	if err != nil {
		log.Fatalf("Failed to query users: %v", err)
	}
	defer rows.Close()

	fmt.Println("=== Users ===")
	for rows.Next() {
		var email, name string
		var days, slots, busiest int
		if err := rows.Scan(&email, &name, &days, &slots, &busiest); err != nil {
			log.Fatalf("Failed to scan user row: %v", err)
		}
		fmt.Printf("%s (%s)\n", name, email)
		fmt.Printf("  Recorded days: %d\n", days)
		fmt.Printf("  Total slots:   %d\n", slots)
		fmt.Printf("  Busiest day:   %d/144 slots\n", busiest)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Error iterating users: %v", err)
	}
	fmt.Println()

	// Top tags across all users.
	tagRows, err := db.Query(`
		SELECT t.name, t.color, COUNT(s.id) AS used
		FROM tags t
		LEFT JOIN time_slots s ON s.tag_id = t.id
		GROUP BY t.id
		ORDER BY used DESC
		LIMIT 10`)
	if err != nil {
		log.Fatalf("Failed to query tags: %v", err)
	}
	defer tagRows.Close()

	fmt.Println("=== Top Tags ===")
	for tagRows.Next() {
		var name, color string
		var used int
		if err := tagRows.Scan(&name, &color, &used); err != nil {
			log.Fatalf("Failed to scan tag row: %v", err)
		}
		fmt.Printf("%-12s %s  %d slots (%.1f hours)\n", name, color, used, float64(used)/6)
	}
	if err := tagRows.Err(); err != nil {
		log.Fatalf("Error iterating tags: %v", err)
	}
}
