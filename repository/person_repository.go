package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/camden-git/moviearchive/catalog"
	"github.com/camden-git/moviearchive/models"
	"gorm.io/gorm"
)

// PersonRepository handles database operations for Person entities
type PersonRepository struct {
	DB *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

// FindByName retrieves a person by exact first and last name
func (r *PersonRepository) FindByName(ctx context.Context, firstName, lastName string) (*models.Person, error) {
	var person models.Person
	err := r.DB.WithContext(ctx).
		Where("first_name = ? AND last_name = ?", firstName, lastName).
		Take(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get person '%s %s': %w", firstName, lastName, err)
	}
	return &person, nil
}

// Create creates a new person record in the database
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	err := r.DB.WithContext(ctx).Create(person).Error
	if err != nil {
		return fmt.Errorf("failed to create person %s %s: %w", person.FirstName, person.LastName, classifyError(err))
	}
	return nil
}
