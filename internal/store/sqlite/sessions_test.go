package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lifediary/lifediary-server/internal/domain"
	"github.com/lifediary/lifediary-server/internal/store"
)

// makeTestSession creates a domain.Session with sensible defaults for testing.
func makeTestSession(id, userID, tokenHash string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        now.Add(30 * 24 * time.Hour),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	sess := makeTestSession("sess-1", "user-1", "hash-abc")
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByRefreshToken(ctx, "hash-abc")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken: %v", err)
	}
	if got.ID != "sess-1" {
		t.Errorf("ID: got %q", got.ID)
	}
	if got.IsExpired() {
		t.Error("session should not be expired")
	}
}

func TestSessionRotation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	sess := makeTestSession("sess-1", "user-1", "hash-old")
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sess.RefreshTokenHash = "hash-new"
	sess.Touch()
	if err := s.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "hash-old"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected old token to be invalid, got %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-new"); err != nil {
		t.Errorf("expected new token to resolve, got %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")

	live := makeTestSession("sess-live", "user-1", "hash-live")
	if err := s.CreateSession(ctx, live); err != nil {
		t.Fatal(err)
	}
	dead := makeTestSession("sess-dead", "user-1", "hash-dead")
	dead.ExpiresAt = time.Now().Add(-time.Hour)
	if err := s.CreateSession(ctx, dead); err != nil {
		t.Fatal(err)
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}
	if _, err := s.GetSession(ctx, "sess-live"); err != nil {
		t.Errorf("live session should remain: %v", err)
	}
}

func TestDeleteAllUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1")
	seedUser(t, s, "user-2")

	if err := s.CreateSession(ctx, makeTestSession("sess-1", "user-1", "h1")); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateSession(ctx, makeTestSession("sess-2", "user-1", "h2")); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateSession(ctx, makeTestSession("sess-3", "user-2", "h3")); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteAllUserSessions(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteAllUserSessions: %v", err)
	}
	if _, err := s.GetSession(ctx, "sess-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected sess-1 gone, got %v", err)
	}
	if _, err := s.GetSession(ctx, "sess-3"); err != nil {
		t.Errorf("other user's session should remain: %v", err)
	}
}
