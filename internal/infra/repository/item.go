package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plopper/plopper"
	"github.com/plopper/plopper/internal/domain"
	"github.com/plopper/plopper/internal/infra/database/models"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create persists the content for the owner and returns the stored item
// with its assigned id. Identifiers are assigned here, never by callers.
func (r *ItemRepository) Create(ctx context.Context, ownerID string, content plopper.PastedContent) (plopper.Item, error) {

	data, err := json.Marshal(content)
	if err != nil {
		return plopper.Item{}, err
	}

	record := models.Item{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Kind:    string(content.Kind),
		Data:    string(data),
		CDate:   time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return plopper.Item{}, err
	}

	return plopper.Item{
		ID:        record.ID,
		OwnerID:   record.OwnerID,
		Data:      content,
		CreatedAt: record.CDate,
	}, nil
}

// Delete removes the item if it exists and belongs to the owner. Deleting
// an id that is already gone succeeds silently.
func (r *ItemRepository) Delete(ctx context.Context, ownerID string, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Item{}).Error
}

// Get returns one owned item.
func (r *ItemRepository) Get(ctx context.Context, ownerID string, id string) (plopper.Item, error) {
	var record models.Item
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Take(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return plopper.Item{}, domain.NotFoundError{Resource: "item"}
		}
		return plopper.Item{}, err
	}
	return toDomain(record)
}

// ListByOwner returns the owner's collection in insertion order.
func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]plopper.Item, error) {
	var records []models.Item
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("c_date asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]plopper.Item, 0, len(records))
	for _, record := range records {
		item, err := toDomain(record)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func toDomain(record models.Item) (plopper.Item, error) {
	content, err := plopper.DecodeContent([]byte(record.Data))
	if err != nil {
		return plopper.Item{}, err
	}
	return plopper.Item{
		ID:        record.ID,
		OwnerID:   record.OwnerID,
		Data:      content,
		CreatedAt: record.CDate,
	}, nil
}
