package repository

import (
	"time"

	"rossx/internal/models"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) WithTx(tx *gorm.DB) *EventRepository {
	return &EventRepository{db: tx}
}

// Append records an outbox event; callers invoke it inside the transaction
// that performs the ledger mutation the event describes.
func (r *EventRepository) Append(ev *models.Event) error {
	return r.db.Create(ev).Error
}

func (r *EventRepository) ListUndispatched(limit int) ([]models.Event, error) {
	var list []models.Event
	err := r.db.Where("dispatched_at IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *EventRepository) MarkDispatched(id uint, at time.Time) error {
	return r.db.Model(&models.Event{}).
		Where("id = ?", id).
		UpdateColumn("dispatched_at", at).Error
}

func (r *EventRepository) IncrementAttempts(id uint) error {
	return r.db.Model(&models.Event{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
}
