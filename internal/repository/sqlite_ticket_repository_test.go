package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bugtrail/bugtrail/internal/config"
	"github.com/bugtrail/bugtrail/internal/domain"
	"github.com/bugtrail/bugtrail/internal/persistence"
	apperrors "github.com/bugtrail/bugtrail/pkg/util"
)

func newSQLiteStore(t *testing.T) TicketStore {
	t.Helper()
	db, err := persistence.NewSQLite(context.Background(),
		config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "tickets.db")}, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(db.Close)
	return NewSQLiteTicketRepository(db.DB)
}

func seed(t *testing.T, store TicketStore, tickets ...domain.Ticket) {
	t.Helper()
	for i := range tickets {
		if err := store.Insert(context.Background(), &tickets[i]); err != nil {
			t.Fatalf("insert %s: %v", tickets[i].ID, err)
		}
	}
}

func collectIDs(t *testing.T, store TicketStore, q TicketQuery) []string {
	t.Helper()
	var ids []string
	err := store.Stream(context.Background(), q, func(ticket domain.Ticket) error {
		ids = append(ids, ticket.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	return ids
}

func sampleTickets() []domain.Ticket {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	img := "https://img.example/b.png"
	return []domain.Ticket{
		{ID: "c", Title: "C", Status: domain.TicketStatusFixed, Owner: domain.UserRef{ID: "u1", Name: "One"}, CreatedAt: base.Add(1 * time.Hour)},
		{ID: "a", Title: "A", Status: domain.TicketStatusFixed, Owner: domain.UserRef{ID: "u1", Name: "One"}, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "b", Title: "B", Status: domain.TicketStatusUnassigned, ImageURL: &img, Owner: domain.UserRef{ID: "u2", Name: "Two"}, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "d", Title: "D", Status: domain.TicketStatusInProgress, Owner: domain.UserRef{ID: "u2"}, Assignee: &domain.UserRef{ID: "u9", Name: "Nine"}, CreatedAt: base.Add(30 * time.Minute)},
	}
}

func TestSQLiteStreamOrdersByCreatedAtDesc(t *testing.T) {
	store := newSQLiteStore(t)
	seed(t, store, sampleTickets()...)

	got := collectIDs(t, store, TicketQuery{})
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSQLiteStreamPushdown(t *testing.T) {
	store := newSQLiteStore(t)
	seed(t, store, sampleTickets()...)
	u1 := &domain.User{ID: "u1"}
	u9 := &domain.User{ID: "u9"}

	tests := []struct {
		mode domain.ViewMode
		user *domain.User
		want []string
	}{
		{domain.ViewFixed, nil, []string{"a", "c"}},
		{domain.ViewMine, u1, []string{"a", "c"}},
		{domain.ViewUnassigned, nil, []string{"b"}},
		{domain.ViewAssignedToMe, u9, []string{"d"}},
		{domain.ViewFailed, nil, nil},
	}
	for _, tt := range tests {
		q, ok := QueryForMode(tt.mode, tt.user)
		if !ok {
			t.Fatalf("QueryForMode(%s) not ok", tt.mode)
		}
		got := collectIDs(t, store, q)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.mode, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: got %v, want %v", tt.mode, got, tt.want)
				break
			}
		}
	}
}

func TestSQLiteStreamStopsOnCallbackError(t *testing.T) {
	store := newSQLiteStore(t)
	seed(t, store, sampleTickets()...)

	stop := errors.New("stop")
	calls := 0
	err := store.Stream(context.Background(), TicketQuery{}, func(domain.Ticket) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v, want stop", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestSQLiteGetByID(t *testing.T) {
	store := newSQLiteStore(t)
	seed(t, store, sampleTickets()...)

	ticket, err := store.GetByID(context.Background(), "b")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if ticket.Title != "B" || ticket.ImageURL == nil || *ticket.ImageURL != "https://img.example/b.png" {
		t.Errorf("unexpected ticket %+v", ticket)
	}
	if ticket.Owner.Name != "Two" {
		t.Errorf("owner = %+v", ticket.Owner)
	}

	withAssignee, err := store.GetByID(context.Background(), "d")
	if err != nil {
		t.Fatalf("GetByID(d): %v", err)
	}
	if withAssignee.Assignee == nil || withAssignee.Assignee.Name != "Nine" {
		t.Errorf("assignee = %+v", withAssignee.Assignee)
	}

	_, err = store.GetByID(context.Background(), "missing")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestSQLiteInsertAssignsIDAndTimestamp(t *testing.T) {
	store := newSQLiteStore(t)
	ticket := domain.Ticket{Title: "fresh", Status: domain.TicketStatusUnassigned, Owner: domain.UserRef{ID: "u1"}}
	if err := store.Insert(context.Background(), &ticket); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if ticket.ID == "" {
		t.Fatal("expected generated id")
	}
	if ticket.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp")
	}
	got, err := store.GetByID(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.CreatedAt.Equal(ticket.CreatedAt) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt, ticket.CreatedAt)
	}
}

func TestPostgresRepositoryWithoutPool(t *testing.T) {
	store := NewPostgresTicketRepository(nil)
	err := store.Stream(context.Background(), TicketQuery{}, func(domain.Ticket) error { return nil })
	if err == nil {
		t.Fatal("expected error from unconfigured postgres store")
	}
	if _, err := store.GetByID(context.Background(), "x"); err == nil {
		t.Fatal("expected error from unconfigured postgres store")
	}
}
