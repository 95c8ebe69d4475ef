// Package main provides a tool to seed the database with demo diary data.
//
// It creates a demo user (unless one exists) and fills the last 30 days with
// realistic time slots, goals, and daily notes so stats and feedback screens
// have something to show.
//
// Usage:
//
//	DB_PATH=~/lifediary/lifediary.db go run ./cmd/seed
//	DB_PATH=~/lifediary/lifediary.db go run ./cmd/seed --days 60
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/lifediary/lifediary-server/internal/auth"
	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/id"
	"github.com/lifediary/lifediary-server/internal/store"
	"github.com/lifediary/lifediary-server/internal/store/sqlite"
)

var (
	days     = flag.Int("days", 30, "Number of past days to fill with slots")
	email    = flag.String("email", "demo@lifediary.dev", "Email of the demo user")
	password = flag.String("password", "DemoPassword123!", "Password for the demo user")
)

// defaultTags mirrors the server's bootstrap seed so the tool works on a
// fresh database that has never been started.
var defaultTags = []struct {
	name  string
	color string
}{
	{domain.SleepTagName, "#5C6BC0"},
	{domain.RestTagName, "#81C784"},
	{domain.WakeUpTagName, "#FFB74D"},
	{"식사", "#E57373"},
	{"운동", "#4DB6AC"},
	{"공부", "#64B5F6"},
	{"이동", "#A1887F"},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/lifediary/lifediary.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	tags, err := ensureDefaultTags(ctx, s)
	if err != nil {
		log.Fatalf("Failed to seed default tags: %v", err)
	}

	user, err := ensureDemoUser(ctx, s)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	fmt.Printf("Seeding data for user: %s (%s)\n", user.DisplayName, user.ID)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	today := time.Now()
	for i := *days; i >= 1; i-- {
		date := today.AddDate(0, 0, -i)
		if err := seedDay(ctx, s, user.ID, date, tags, rng); err != nil {
			log.Fatalf("Failed to seed %s: %v", date.Format(domain.DateFormat), err)
		}
	}
	fmt.Printf("Filled %d days of slots\n", *days)

	if err := seedGoals(ctx, s, user.ID, tags); err != nil {
		log.Fatalf("Failed to seed goals: %v", err)
	}

	fmt.Println("Done.")
}

// ensureDefaultTags makes sure the shared default tags exist and returns
// them by name.
func ensureDefaultTags(ctx context.Context, s store.Store) (map[string]*domain.Tag, error) {
	tags := make(map[string]*domain.Tag, len(defaultTags))
	for _, seed := range defaultTags {
		tag, err := s.GetTagByName(ctx, domain.DefaultOwnership(), seed.name)
		if errors.Is(err, store.ErrNotFound) {
			now := time.Now()
			tag = &domain.Tag{
				ID:        id.MustGenerate("tag"),
				Name:      seed.name,
				Color:     seed.color,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.CreateTag(ctx, tag); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
		tags[tag.Name] = tag
	}
	return tags, nil
}

func ensureDemoUser(ctx context.Context, s store.Store) (*domain.User, error) {
	user, err := s.GetUserByEmail(ctx, *email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user = &domain.User{
		ID:           id.MustGenerate("usr"),
		Email:        *email,
		PasswordHash: hash,
		DisplayName:  "데모 사용자",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	fmt.Printf("Created demo user %s (password: %s)\n", *email, *password)
	return user, nil
}

// seedDay writes a plausible weekday: sleep until ~7, meals, study blocks,
// some exercise and commute, plus a short note.
func seedDay(ctx context.Context, s store.Store, userID string, date time.Time, tags map[string]*domain.Tag, rng *rand.Rand) error {
	day := domain.StartOfDay(date)
	now := time.Now()

	var slots []*domain.TimeSlot
	add := func(tagName string, fromHour, fromMin, toHour, toMin int) {
		start := domain.TimeToSlot(fromHour, fromMin)
		end := domain.TimeToSlot(toHour, toMin)
		for idx := start; idx < end; idx++ {
			slots = append(slots, &domain.TimeSlot{
				ID:        id.MustGenerate("slot"),
				UserID:    userID,
				Date:      day,
				SlotIndex: idx,
				TagID:     tags[tagName].ID,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
	}

	wake := 6 + rng.Intn(3) // wakes between 06:00 and 08:00
	add(domain.SleepTagName, 0, 0, wake, 0)
	add(domain.WakeUpTagName, wake, 0, wake, 30)
	add("식사", wake, 30, wake+1, 0)
	add("이동", 9, 0, 9, 30)
	add("공부", 9, 30, 12, 0)
	add("식사", 12, 0, 13, 0)
	add("공부", 13, 0, 17, 0+rng.Intn(3)*10)
	if rng.Intn(2) == 0 {
		add("운동", 18, 0, 19, 0)
	}
	add(domain.RestTagName, 20, 0, 22, 0)
	add(domain.SleepTagName, 23, 0, 24, 0)

	if err := s.SaveSlots(ctx, slots); err != nil {
		return err
	}

	note := &domain.Note{
		ID:        id.MustGenerate("note"),
		UserID:    userID,
		Date:      day,
		Content:   fmt.Sprintf("%s 기록. 공부에 집중한 하루.", day.Format(domain.DateFormat)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.UpsertNote(ctx, note)
}

func seedGoals(ctx context.Context, s store.Store, userID string, tags map[string]*domain.Tag) error {
	now := time.Now()
	goals := []*domain.Goal{
		{TagID: tags["공부"].ID, Period: domain.GoalPeriodDaily, TargetHours: 6},
		{TagID: tags["운동"].ID, Period: domain.GoalPeriodWeekly, TargetHours: 3},
		{TagID: tags[domain.SleepTagName].ID, Period: domain.GoalPeriodDaily, TargetHours: 7},
	}
	for _, g := range goals {
		g.ID = id.MustGenerate("goal")
		g.UserID = userID
		g.CreatedAt = now
		g.UpdatedAt = now
		if err := s.CreateGoal(ctx, g); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				continue
			}
			return err
		}
	}
	fmt.Println("Seeded goals")
	return nil
}
