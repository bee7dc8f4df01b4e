package repository

import (
	"github.com/davrbek/examgate/internal/model"
	"gorm.io/gorm"
)

type AdminRepository interface {
	Create(admin *model.AdminUser) error
	FindByUsername(username string) (*model.AdminUser, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(admin *model.AdminUser) error {
	return r.db.Create(admin).Error
}

func (r *adminRepository) FindByUsername(username string) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}
