package session

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestService() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	return NewService(DefaultConfig(), store), store
}

func TestCreateAndValidate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	now := time.Now()

	sess, tok, err := svc.Create(ctx, now, "user-1", Metadata{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.UserID != "user-1" {
		t.Fatalf("UserID = %q, want user-1", sess.UserID)
	}
	if !strings.HasPrefix(tok, sess.ID+".") {
		t.Fatalf("token %q does not start with session id %q", tok, sess.ID)
	}
	if strings.Contains(tok, sess.RefreshHash) {
		t.Fatal("composite token must not contain the stored hash")
	}

	got, err := svc.Validate(ctx, tok)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.ID != sess.ID {
		t.Fatalf("Validate returned session %q, want %q", got.ID, sess.ID)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, raw := range []string{
		"",
		"   ",
		"no-delimiter",
		".leading",
		"trailing.",
		"unknown-session.secret",
		strings.Repeat("x", 5000),
	} {
		if _, err := svc.Validate(ctx, raw); err != ErrSessionNotActive {
			t.Fatalf("Validate(%.20q): err = %v, want ErrSessionNotActive", raw, err)
		}
	}
}

func TestRotateInvalidatesOldToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	now := time.Now()

	_, tok, err := svc.Create(ctx, now, "user-1", Metadata{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := svc.Rotate(ctx, now.Add(time.Minute), tok, Metadata{})
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if res.Status != StatusRotated {
		t.Fatalf("Status = %q, want rotated", res.Status)
	}
	if res.RefreshToken == "" || res.RefreshToken == tok {
		t.Fatal("rotation must return a fresh token")
	}

	// New token validates, old one does not.
	if _, err := svc.Validate(ctx, res.RefreshToken); err != nil {
		t.Fatalf("Validate(new): %v", err)
	}
	if _, err := svc.Validate(ctx, tok); err != ErrSessionNotActive {
		t.Fatalf("Validate(old): err = %v, want ErrSessionNotActive", err)
	}
}

func TestRotateReplayRevokesSession(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	now := time.Now()

	sess, tok, err := svc.Create(ctx, now, "user-1", Metadata{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := svc.Rotate(ctx, now.Add(time.Minute), tok, Metadata{})
	if err != nil || res.Status != StatusRotated {
		t.Fatalf("first Rotate: status=%q err=%v", res.Status, err)
	}

	// Replaying the superseded token is treated as theft: the session dies.
	replay, err := svc.Rotate(ctx, now.Add(2*time.Minute), tok, Metadata{})
	if err != nil {
		t.Fatalf("replay Rotate: %v", err)
	}
	if replay.Status != StatusReused {
		t.Fatalf("replay status = %q, want reused", replay.Status)
	}

	stored, err := store.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.RevokedAt == nil {
		t.Fatal("session should be revoked after replay")
	}

	// The legitimate holder is now locked out too.
	third, err := svc.Rotate(ctx, now.Add(3*time.Minute), res.RefreshToken, Metadata{})
	if err != nil {
		t.Fatalf("third Rotate: %v", err)
	}
	if third.Status != StatusRevoked {
		t.Fatalf("third status = %q, want revoked", third.Status)
	}
}

func TestRotateUnknownSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Rotate(ctx, time.Now(), "01ARZ3NDEKTSV4RRFFQ69G5FAV.deadbeef", Metadata{})
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if res.Status != StatusInvalid {
		t.Fatalf("Status = %q, want invalid", res.Status)
	}
}

func TestConcurrentRotateSingleWinner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	now := time.Now()

	_, tok, err := svc.Create(ctx, now, "user-1", Metadata{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const workers = 16
	results := make([]RotateResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Rotate(ctx, now.Add(time.Second), tok, Metadata{})
			if err != nil {
				t.Errorf("Rotate[%d]: %v", i, err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	var rotated int
	for _, res := range results {
		if res.Status == StatusRotated {
			rotated++
		}
	}
	if rotated != 1 {
		t.Fatalf("rotated winners = %d, want exactly 1", rotated)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	now := time.Now()

	sess, tok, err := svc.Create(ctx, now, "user-1", Metadata{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Revoke(ctx, now.Add(time.Minute), sess.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := svc.Revoke(ctx, now.Add(2*time.Minute), sess.ID); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}
	if err := svc.Revoke(ctx, now, "no-such-session"); err != nil {
		t.Fatalf("Revoke(unknown): %v", err)
	}

	if _, err := svc.Validate(ctx, tok); err != ErrSessionNotActive {
		t.Fatalf("Validate after revoke: err = %v, want ErrSessionNotActive", err)
	}
}

func TestRevokeAll(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	now := time.Now()

	var tokens []string
	for i := 0; i < 3; i++ {
		_, tok, err := svc.Create(ctx, now.Add(time.Duration(i)*time.Second), "user-1", Metadata{})
		if err != nil {
			t.Fatalf("Create[%d]: %v", i, err)
		}
		tokens = append(tokens, tok)
	}
	_, otherTok, err := svc.Create(ctx, now, "user-2", Metadata{})
	if err != nil {
		t.Fatalf("Create(other): %v", err)
	}

	if err := svc.RevokeAll(ctx, now.Add(time.Minute), "user-1"); err != nil {
		t.Fatalf("RevokeAll: %v", err)
	}
	for i, tok := range tokens {
		if _, err := svc.Validate(ctx, tok); err != ErrSessionNotActive {
			t.Fatalf("token[%d] still valid after RevokeAll", i)
		}
	}
	if _, err := svc.Validate(ctx, otherTok); err != nil {
		t.Fatalf("other user's session should survive: %v", err)
	}
}

func TestListForUserNewestFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	base := time.Now()

	var ids []string
	for i := 0; i < 3; i++ {
		sess, _, err := svc.Create(ctx, base.Add(time.Duration(i)*time.Second), "user-1", Metadata{})
		if err != nil {
			t.Fatalf("Create[%d]: %v", i, err)
		}
		ids = append(ids, sess.ID)
	}

	list, err := svc.ListForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i := range list {
		if list[i].ID != ids[len(ids)-1-i] {
			t.Fatalf("list[%d].ID = %q, want %q", i, list[i].ID, ids[len(ids)-1-i])
		}
	}
}

func TestRotateUpdatesMetadata(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	now := time.Now()

	sess, tok, err := svc.Create(ctx, now, "user-1", Metadata{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ua := "curl/8.5.0"
	ip := net.ParseIP("203.0.113.7")
	res, err := svc.Rotate(ctx, now.Add(time.Minute), tok, Metadata{UserAgent: &ua, IP: &ip})
	if err != nil || res.Status != StatusRotated {
		t.Fatalf("Rotate: status=%q err=%v", res.Status, err)
	}

	stored, err := store.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.UserAgent == nil || *stored.UserAgent != ua {
		t.Fatalf("UserAgent not updated: %v", stored.UserAgent)
	}
	if stored.IP == nil || !stored.IP.Equal(ip) {
		t.Fatalf("IP not updated: %v", stored.IP)
	}
	if !stored.LastSeenAt.After(sess.LastSeenAt) {
		t.Fatal("LastSeenAt should advance on rotation")
	}
}
