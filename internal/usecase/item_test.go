package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/plopper/plopper"
	"github.com/plopper/plopper/internal/domain"
)

// --- mocks ---

type mockItemRepo struct {
	items     []plopper.Item
	createErr error
	deleteErr error
	deletes   int
	nextID    int
}

func (m *mockItemRepo) Create(ctx context.Context, ownerID string, content plopper.PastedContent) (plopper.Item, error) {
	if m.createErr != nil {
		return plopper.Item{}, m.createErr
	}
	m.nextID++
	item := plopper.Item{
		ID:      fmt.Sprintf("item-%d", m.nextID),
		OwnerID: ownerID,
		Data:    content,
	}
	m.items = append(m.items, item)
	return item, nil
}

func (m *mockItemRepo) Get(ctx context.Context, ownerID string, id string) (plopper.Item, error) {
	for _, item := range m.items {
		if item.ID == id && item.OwnerID == ownerID {
			return item, nil
		}
	}
	return plopper.Item{}, domain.NotFoundError{Resource: "item"}
}

func (m *mockItemRepo) Delete(ctx context.Context, ownerID string, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes++
	kept := m.items[:0]
	for _, item := range m.items {
		if item.ID != id || item.OwnerID != ownerID {
			kept = append(kept, item)
		}
	}
	m.items = kept
	return nil
}

func (m *mockItemRepo) ListByOwner(ctx context.Context, ownerID string) ([]plopper.Item, error) {
	var owned []plopper.Item
	for _, item := range m.items {
		if item.OwnerID == ownerID {
			owned = append(owned, item)
		}
	}
	return owned, nil
}

type mockSignal struct {
	events []plopper.Event
}

func (m *mockSignal) Publish(ctx context.Context, channel string, event plopper.Event) error {
	m.events = append(m.events, event)
	return nil
}

func authedCtx(user string) context.Context {
	return context.WithValue(context.Background(), domain.RequesterIdCtxKey, user)
}

// --- tests ---

func TestItemAddAssignsOwner(t *testing.T) {
	repo := &mockItemRepo{}
	signal := &mockSignal{}
	uc := NewItemUsecase(repo, signal)

	item, err := uc.Add(authedCtx("user1"), plopper.NewText("hello", ""))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.OwnerID != "user1" {
		t.Fatalf("expected owner user1 got %s", item.OwnerID)
	}
	if item.ID == "" {
		t.Fatalf("expected store-assigned id")
	}
	if len(signal.events) != 1 || signal.events[0].Type != plopper.EventItemCreated {
		t.Fatalf("expected one created event, got %+v", signal.events)
	}
}

func TestItemAddUnauthenticated(t *testing.T) {
	repo := &mockItemRepo{}
	uc := NewItemUsecase(repo, &mockSignal{})

	_, err := uc.Add(context.Background(), plopper.NewText("hello", ""))
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated got %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("nothing must be stored for an unauthenticated add")
	}
}

func TestItemAddRejectsInvalidContent(t *testing.T) {
	uc := NewItemUsecase(&mockItemRepo{}, &mockSignal{})

	bad := plopper.PastedContent{Kind: plopper.KindURL} // missing url
	if _, err := uc.Add(authedCtx("user1"), bad); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestItemAddWrapsPersistenceError(t *testing.T) {
	repo := &mockItemRepo{createErr: errors.New("quota exceeded")}
	uc := NewItemUsecase(repo, &mockSignal{})

	_, err := uc.Add(authedCtx("user1"), plopper.NewText("hello", ""))
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected persistence error got %v", err)
	}
}

func TestItemRemoveIsIdempotent(t *testing.T) {
	repo := &mockItemRepo{}
	signal := &mockSignal{}
	uc := NewItemUsecase(repo, signal)

	ctx := authedCtx("user1")
	item, err := uc.Add(ctx, plopper.NewText("hello", ""))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := uc.Remove(ctx, item.ID); err != nil {
		t.Fatalf("first remove failed: %v", err)
	}
	if err := uc.Remove(ctx, item.ID); err != nil {
		t.Fatalf("second remove must succeed silently: %v", err)
	}
	if repo.deletes != 1 {
		t.Fatalf("expected exactly one delete, got %d", repo.deletes)
	}

	// one created + one removed event, nothing for the no-op
	if len(signal.events) != 2 || signal.events[1].Type != plopper.EventItemRemoved {
		t.Fatalf("unexpected events %+v", signal.events)
	}
}

func TestItemRemoveForeignItemIsNoop(t *testing.T) {
	repo := &mockItemRepo{}
	uc := NewItemUsecase(repo, &mockSignal{})

	item, err := uc.Add(authedCtx("user1"), plopper.NewText("mine", ""))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := uc.Remove(authedCtx("user2"), item.ID); err != nil {
		t.Fatalf("remove of foreign id must not error: %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatalf("foreign remove must not delete the item")
	}
}

func TestItemListScopedToOwner(t *testing.T) {
	repo := &mockItemRepo{}
	uc := NewItemUsecase(repo, &mockSignal{})

	if _, err := uc.Add(authedCtx("user1"), plopper.NewText("a", "")); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := uc.Add(authedCtx("user2"), plopper.NewText("b", "")); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	items, err := uc.List(authedCtx("user1"))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item got %d", len(items))
	}
	for _, item := range items {
		if item.OwnerID != "user1" {
			t.Fatalf("foreign item observable: %+v", item)
		}
	}
}

func TestItemListUnauthenticated(t *testing.T) {
	uc := NewItemUsecase(&mockItemRepo{}, &mockSignal{})
	if _, err := uc.List(context.Background()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated got %v", err)
	}
}
