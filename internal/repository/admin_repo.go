package repository

import (
	"errors"
	"fmt"

	"rossx/internal/domain"
	"rossx/internal/models"

	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(a *models.AdminUser) error {
	return r.db.Create(a).Error
}

func (r *AdminRepository) GetByEmail(email string) (*models.AdminUser, error) {
	var a models.AdminUser
	err := r.db.Where("email = ?", email).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("admin %q: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.AdminUser{}).Count(&n).Error
	return n, err
}

// ChatIDs returns admin chat ids registered for alerts.
func (r *AdminRepository) ChatIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&models.AdminUser{}).
		Where("chat_id <> 0").
		Pluck("chat_id", &ids).Error
	return ids, err
}
