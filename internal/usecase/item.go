package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/plopper/plopper"
	"github.com/plopper/plopper/internal/domain"
	"github.com/plopper/plopper/internal/service"
)

// ItemUsecase exposes the per-user item collection. Items are immutable:
// there is no update operation, only add and remove.
type ItemUsecase struct {
	repo   ItemRepository
	signal Signal
}

func NewItemUsecase(repo ItemRepository, signal Signal) *ItemUsecase {
	return &ItemUsecase{repo: repo, signal: signal}
}

// Add stores the classified content under the active user and returns the
// item with its store-assigned id.
func (uc *ItemUsecase) Add(ctx context.Context, content plopper.PastedContent) (plopper.Item, error) {
	owner, ok := domain.RequesterID(ctx)
	if !ok {
		return plopper.Item{}, domain.ErrNotAuthenticated
	}

	if err := content.Validate(); err != nil {
		return plopper.Item{}, err
	}

	item, err := uc.repo.Create(ctx, owner, content)
	if err != nil {
		return plopper.Item{}, domain.PersistenceError{Op: "create", Cause: err}
	}

	uc.notify(ctx, plopper.Event{
		Type:    plopper.EventItemCreated,
		OwnerID: owner,
		Item:    item,
	})

	return item, nil
}

// Remove deletes an owned item. Removing an id that is already gone is
// not an error; the end state is the same.
func (uc *ItemUsecase) Remove(ctx context.Context, id string) error {
	owner, ok := domain.RequesterID(ctx)
	if !ok {
		return domain.ErrNotAuthenticated
	}

	item, err := uc.repo.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return domain.PersistenceError{Op: "get", Cause: err}
	}

	if err := uc.repo.Delete(ctx, owner, id); err != nil {
		return domain.PersistenceError{Op: "delete", Cause: err}
	}

	uc.notify(ctx, plopper.Event{
		Type:    plopper.EventItemRemoved,
		OwnerID: owner,
		Item:    item,
	})

	return nil
}

// List returns the active user's collection in insertion order.
func (uc *ItemUsecase) List(ctx context.Context) ([]plopper.Item, error) {
	owner, ok := domain.RequesterID(ctx)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return uc.repo.ListByOwner(ctx, owner)
}

func (uc *ItemUsecase) notify(ctx context.Context, event plopper.Event) {
	if uc.signal == nil {
		return
	}
	if err := uc.signal.Publish(ctx, service.ItemChannel(event.OwnerID), event); err != nil {
		slog.ErrorContext(
			ctx, "Failed to publish item event",
			slog.String("error", err.Error()),
			slog.String("module", "items"),
		)
	}
}
