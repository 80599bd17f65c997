package repository

import (
	"context"
	"fmt"

	"payments-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// userColumns maps the availability field names to their columns.
var userColumns = map[string]string{
	"username":        "username",
	"email":           "email",
	"id_number":       "id_number",
	"employee_number": "employee_number",
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID fetch a single user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Exists reports whether any user other than exclude carries value in field.
// Pass uuid.Nil to check against every row.
func (r *UserRepository) Exists(ctx context.Context, field, value string, exclude uuid.UUID) (bool, error) {
	column, ok := userColumns[field]
	if !ok {
		return false, fmt.Errorf("unknown user field %q", field)
	}

	query := r.db.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsUserField reports whether field can be passed to Exists.
func IsUserField(field string) bool {
	_, ok := userColumns[field]
	return ok
}
