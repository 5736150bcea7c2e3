package contact

import (
	"context"
	"strings"

	"github.com/example/tmstore/pkg/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FieldError mirrors the order submission error shape for consistency
// across the write endpoints.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	return "invalid contact submission"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, name, email, message string) (*models.ContactMessage, error) {
	var fields []FieldError
	if strings.TrimSpace(name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(email) == "" {
		fields = append(fields, FieldError{Field: "email", Message: "email is required"})
	}
	if strings.TrimSpace(message) == "" {
		fields = append(fields, FieldError{Field: "message", Message: "message is required"})
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	msg := &models.ContactMessage{
		ID:      uuid.NewString(),
		Name:    name,
		Email:   email,
		Message: message,
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}
