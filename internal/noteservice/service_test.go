package noteservice

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/storage"
)

func testService(t *testing.T) *Service {
	t.Helper()
	dbFile, err := os.CreateTemp("", "othala-svc-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := storage.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewService(store, nil)
}

func TestCreateRequiresBothFields(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	cases := []struct{ title, content string }{
		{"", ""},
		{"T", ""},
		{"", "C"},
	}
	for _, c := range cases {
		if _, err := svc.Create(ctx, "alice", c.title, c.content); !apperr.IsValidation(err) {
			t.Errorf("Create(%q, %q) err = %v, want validation error", c.title, c.content, err)
		}
	}

	n, err := svc.Create(ctx, "alice", "T", "C")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.ID == "" || n.UserID != "alice" || n.CreatedAt.IsZero() {
		t.Errorf("note = %+v", n)
	}
	if n.UpdatedAt != nil {
		t.Error("UpdatedAt should be nil at creation")
	}
}

func TestCreateGeneratesDistinctIDs(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		n, err := svc.Create(ctx, "alice", "T", "C")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, dup := seen[n.ID]; dup {
			t.Fatalf("duplicate id %s", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
}

func TestCreateRequiresOwner(t *testing.T) {
	svc := testService(t)
	if _, err := svc.Create(context.Background(), "", "T", "C"); !apperr.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, "alice", "T", "C")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Every path a non-owner can take must come back as the same not-found.
	if _, err := svc.Get(ctx, n.ID, "bob"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get by bob err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, n.ID, "bob", Patch{Title: "stolen"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Update by bob err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, n.ID, "bob"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Delete by bob err = %v, want ErrNotFound", err)
	}

	// The note is untouched.
	got, err := svc.Get(ctx, n.ID, "alice")
	if err != nil {
		t.Fatalf("Get by alice: %v", err)
	}
	if got.Title != "T" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestPartialUpdatePreservesFields(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	n, _ := svc.Create(ctx, "alice", "T", "C")

	updated, err := svc.Update(ctx, n.ID, "alice", Patch{Content: "C2"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "T" {
		t.Errorf("title = %q, want unchanged T", updated.Title)
	}
	if updated.Content != "C2" {
		t.Errorf("content = %q, want C2", updated.Content)
	}
	if updated.UpdatedAt == nil {
		t.Fatal("UpdatedAt should be set after update")
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Error("UpdatedAt before CreatedAt")
	}
}

func TestNoOpUpdateRejected(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	n, _ := svc.Create(ctx, "alice", "T", "C")
	if _, err := svc.Update(ctx, n.ID, "alice", Patch{}); !apperr.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestDeleteSingleShot(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	n, _ := svc.Create(ctx, "alice", "T", "C")
	if err := svc.Delete(ctx, n.ID, "alice"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, n.ID, "alice"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, n.ID, "alice", Patch{Title: "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("update after delete err = %v, want ErrNotFound", err)
	}
}

func TestListScopedToOwner(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, _ = svc.Create(ctx, "alice", "T1", "C1")
	_, _ = svc.Create(ctx, "alice", "T2", "C2")
	_, _ = svc.Create(ctx, "bob", "T3", "C3")

	notes, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("len = %d, want 2", len(notes))
	}

	notes, err = svc.List(ctx, "carol")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("carol sees %d notes, want 0", len(notes))
	}
}
