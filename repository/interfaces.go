package repository

import (
	"context"

	"github.com/camden-git/moviearchive/catalog"
	"github.com/camden-git/moviearchive/models"
)

// GenreRepositoryInterface defines the methods for genre data operations
type GenreRepositoryInterface interface {
	FindByName(ctx context.Context, name string) (*models.Genre, error)
	Create(ctx context.Context, genre *models.Genre) error
}

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	FindByName(ctx context.Context, firstName, lastName string) (*models.Person, error)
	Create(ctx context.Context, person *models.Person) error
}

// RoleRepositoryInterface defines the methods for role lookups. Roles are seeded, never created.
type RoleRepositoryInterface interface {
	GetByID(ctx context.Context, id uint) (*models.Role, error)
	ListAll(ctx context.Context) ([]models.Role, error)
}

var (
	_ GenreRepositoryInterface  = (*GenreRepository)(nil)
	_ PersonRepositoryInterface = (*PersonRepository)(nil)
	_ RoleRepositoryInterface   = (*RoleRepository)(nil)
	_ catalog.Repository        = (*MovieRepository)(nil)
	_ catalog.Store             = (*lookupStore)(nil)
)
