package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/castleviz/castleviz/internal/auth"
	"github.com/castleviz/castleviz/internal/events"
	"github.com/castleviz/castleviz/internal/memstore"
	"github.com/castleviz/castleviz/internal/model"
	"github.com/castleviz/castleviz/internal/testutil"
)

// fastHasher keeps Argon2id cheap in tests.
var fastHasher = auth.NewHasher(auth.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8})

var baseTime = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

// seedUser stores a user so records can reference it.
func seedUser(t *testing.T, store *memstore.Store) uuid.UUID {
	t.Helper()
	u := testutil.NewTestUser("owner", "owner@example.com")
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func mustCreateBill(t *testing.T, store *memstore.Store, b *model.Bill) {
	t.Helper()
	if err := store.CreateBill(context.Background(), b); err != nil {
		t.Fatalf("create bill: %v", err)
	}
}

func mustCreatePayment(t *testing.T, store *memstore.Store, p *model.Payment) {
	t.Helper()
	if err := store.CreatePayment(context.Background(), p); err != nil {
		t.Fatalf("create payment: %v", err)
	}
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) PublishAsync(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *capturePublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind+":"+e.Action)
	}
	return out
}
