package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/camden-git/moviearchive/catalog"
	"github.com/camden-git/moviearchive/models"
	"gorm.io/gorm"
)

// GenreRepository handles database operations for Genre entities
type GenreRepository struct {
	DB *gorm.DB
}

// NewGenreRepository creates a new instance of GenreRepository
func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{DB: db}
}

// FindByName retrieves a genre by its exact name
func (r *GenreRepository) FindByName(ctx context.Context, name string) (*models.Genre, error) {
	var genre models.Genre
	err := r.DB.WithContext(ctx).Where("name = ?", name).Take(&genre).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get genre by name '%s': %w", name, err)
	}
	return &genre, nil
}

// Create inserts a new genre and fills in its ID
func (r *GenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	err := r.DB.WithContext(ctx).Create(genre).Error
	if err != nil {
		return fmt.Errorf("failed to create genre '%s': %w", genre.Name, classifyError(err))
	}
	return nil
}
