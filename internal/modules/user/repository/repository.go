package repository

import (
	"context"

	"anoa.com/recruitportal/internal/entity"
	"gorm.io/gorm"
)

// UserRepository is the credential store over the person table.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.Person, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, person *entity.Person) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.Person, error) {
	var person entity.Person
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&person).Error; err != nil {
		return nil, err
	}

	return &person, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Person{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, person *entity.Person) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(person).Error
	})
}
