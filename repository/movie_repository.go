package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/camden-git/moviearchive/catalog"
	"github.com/camden-git/moviearchive/database"
	"github.com/camden-git/moviearchive/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovieRepository handles database operations for Movie aggregates
type MovieRepository struct {
	DB *gorm.DB
}

// NewMovieRepository creates a new instance of MovieRepository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{DB: db}
}

// lookupStore serves reconciliation lookups from inside a write transaction.
type lookupStore struct {
	genres GenreRepositoryInterface
	people PersonRepositoryInterface
	roles  RoleRepositoryInterface
}

func newLookupStore(tx *gorm.DB) *lookupStore {
	return &lookupStore{
		genres: NewGenreRepository(tx),
		people: NewPersonRepository(tx),
		roles:  NewRoleRepository(tx),
	}
}

func (s *lookupStore) FindGenreByName(ctx context.Context, name string) (*models.Genre, error) {
	return s.genres.FindByName(ctx, name)
}

func (s *lookupStore) FindPersonByName(ctx context.Context, firstName, lastName string) (*models.Person, error) {
	return s.people.FindByName(ctx, firstName, lastName)
}

func (s *lookupStore) FindRole(ctx context.Context, role models.MovieRole) (*models.Role, error) {
	return s.roles.GetByID(ctx, uint(role))
}

// CreateMovie runs build and saves its aggregate in one transaction
func (r *MovieRepository) CreateMovie(ctx context.Context, build func(catalog.Store) (*models.Movie, error)) (*models.Movie, error) {
	var created *models.Movie
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		movie, err := build(newLookupStore(tx))
		if err != nil {
			return err
		}
		if err := saveAggregate(ctx, tx, movie); err != nil {
			return err
		}
		created = movie
		return nil
	})
	if err != nil {
		return nil, classifyError(err)
	}
	return created, nil
}

// saveAggregate inserts staged genres and people, then the movie, then its
// association rows. Associations are written explicitly so that a staged row
// shared by several associations is inserted exactly once.
func saveAggregate(ctx context.Context, tx *gorm.DB, movie *models.Movie) error {
	var genres GenreRepositoryInterface = NewGenreRepository(tx)
	staged := make(map[*models.Genre]bool)
	for _, mg := range movie.MovieGenres {
		if mg.Genre == nil || mg.Genre.ID != 0 || staged[mg.Genre] {
			continue
		}
		staged[mg.Genre] = true
		if err := genres.Create(ctx, mg.Genre); err != nil {
			return err
		}
	}

	var people PersonRepositoryInterface = NewPersonRepository(tx)
	stagedPeople := make(map[*models.Person]bool)
	for _, pmr := range movie.MovieRoles {
		if pmr.Person == nil || pmr.Person.ID != 0 || stagedPeople[pmr.Person] {
			continue
		}
		stagedPeople[pmr.Person] = true
		if err := people.Create(ctx, pmr.Person); err != nil {
			return err
		}
	}

	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(movie).Error; err != nil {
		return fmt.Errorf("failed to create movie '%s': %w", movie.Title, classifyError(err))
	}

	for i := range movie.MovieGenres {
		mg := &movie.MovieGenres[i]
		mg.MovieID = movie.ID
		if mg.Genre != nil {
			mg.GenreID = mg.Genre.ID
		}
	}
	if len(movie.MovieGenres) > 0 {
		if err := tx.WithContext(ctx).Omit(clause.Associations).Create(&movie.MovieGenres).Error; err != nil {
			return fmt.Errorf("failed to link genres to movie '%s': %w", movie.Title, classifyError(err))
		}
	}

	for i := range movie.MovieRoles {
		pmr := &movie.MovieRoles[i]
		pmr.MovieID = movie.ID
		if pmr.Person != nil {
			pmr.PersonID = pmr.Person.ID
		}
		if pmr.Role != nil {
			pmr.RoleID = pmr.Role.ID
		}
	}
	if len(movie.MovieRoles) > 0 {
		if err := tx.WithContext(ctx).Omit(clause.Associations).Create(&movie.MovieRoles).Error; err != nil {
			return fmt.Errorf("failed to link people to movie '%s': %w", movie.Title, classifyError(err))
		}
	}
	return nil
}

// insertionOrder keeps association rows in the order they were written.
func insertionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("rowid ASC")
}

func (r *MovieRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("MovieGenres", insertionOrder).
		Preload("MovieGenres.Genre").
		Preload("MovieRoles", insertionOrder).
		Preload("MovieRoles.Person").
		Preload("MovieRoles.Role")
}

// GetByID retrieves a fully loaded movie by its ID
func (r *MovieRepository) GetByID(ctx context.Context, id uint) (*models.Movie, error) {
	var movie models.Movie
	err := r.withAssociations(ctx).Where("id = ?", id).Take(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get movie by ID %d: %w", id, err)
	}
	return &movie, nil
}

// GetByNormalizedTitle retrieves the oldest movie stored under a normalized title
func (r *MovieRepository) GetByNormalizedTitle(ctx context.Context, normalizedTitle string) (*models.Movie, error) {
	var movie models.Movie
	err := r.withAssociations(ctx).
		Where("normalized_title = ?", normalizedTitle).
		Order("id ASC").
		First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get movie by title '%s': %w", normalizedTitle, err)
	}
	return &movie, nil
}

// ListAll retrieves every movie in the given sort order
func (r *MovieRepository) ListAll(ctx context.Context, sortOrder string) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.withAssociations(ctx).Order(database.OrderClause(sortOrder)).Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// ListByPersonRole retrieves movies where personID held role
func (r *MovieRepository) ListByPersonRole(ctx context.Context, personID uint, role models.MovieRole) ([]models.Movie, error) {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}
	ids, err := database.MovieIDsByPersonRole(ctx, sqlDB, personID, uint(role))
	if err != nil {
		return nil, err
	}
	return r.listByIDs(ctx, ids)
}

// ListByGenre retrieves movies tagged with genreID
func (r *MovieRepository) ListByGenre(ctx context.Context, genreID uint) ([]models.Movie, error) {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}
	ids, err := database.MovieIDsByGenre(ctx, sqlDB, genreID)
	if err != nil {
		return nil, err
	}
	return r.listByIDs(ctx, ids)
}

// SearchByTitle retrieves up to limit movies whose normalized title contains
// normalizedFragment, ordered by title
func (r *MovieRepository) SearchByTitle(ctx context.Context, normalizedFragment string, limit int) ([]models.Movie, error) {
	if limit <= 0 {
		return []models.Movie{}, nil
	}
	sqlDB, err := r.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}
	ids, err := database.MovieIDsByTitleFragment(ctx, sqlDB, normalizedFragment, uint64(limit))
	if err != nil {
		return nil, err
	}
	return r.listByIDs(ctx, ids)
}

// listByIDs loads the movies for ids and returns them in the order of ids.
func (r *MovieRepository) listByIDs(ctx context.Context, ids []uint) ([]models.Movie, error) {
	if len(ids) == 0 {
		return []models.Movie{}, nil
	}

	var movies []models.Movie
	if err := r.withAssociations(ctx).Where("id IN ?", ids).Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to load movies by IDs: %w", err)
	}

	byID := make(map[uint]models.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	ordered := make([]models.Movie, 0, len(movies))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}
