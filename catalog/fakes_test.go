package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/camden-git/moviearchive/database"
	"github.com/camden-git/moviearchive/models"
	"github.com/shopspring/decimal"
)

// memoryStore is an in-memory Repository and Store. Saving mimics the sqlite
// store: staged rows get ids and unique keys are enforced.
type memoryStore struct {
	mu      sync.Mutex
	genres  []*models.Genre
	people  []*models.Person
	movies  []models.Movie
	nextID  uint
	lookups int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1}
}

func (s *memoryStore) FindGenreByName(_ context.Context, name string) (*models.Genre, error) {
	s.lookups++
	for _, g := range s.genres {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) FindPersonByName(_ context.Context, first, last string) (*models.Person, error) {
	s.lookups++
	for _, p := range s.people {
		if p.FirstName == first && p.LastName == last {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) FindRole(_ context.Context, role models.MovieRole) (*models.Role, error) {
	for _, r := range models.SeedRoles() {
		if r.ID == uint(role) {
			r := r
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memoryStore) CreateMovie(ctx context.Context, build func(Store) (*models.Movie, error)) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	movie, err := build(s)
	if err != nil {
		return nil, err
	}
	norm := models.NormalizeTitle(movie.Title)
	for _, m := range s.movies {
		if m.NormalizedTitle == norm && m.ReleaseDate == movie.ReleaseDate {
			return nil, ErrConflict
		}
	}

	for _, mg := range movie.MovieGenres {
		if mg.Genre.ID == 0 {
			mg.Genre.ID = s.id()
			s.genres = append(s.genres, mg.Genre)
		}
	}
	for _, pmr := range movie.MovieRoles {
		if pmr.Person.ID == 0 {
			pmr.Person.ID = s.id()
			s.people = append(s.people, pmr.Person)
		}
	}
	movie.ID = s.id()
	movie.NormalizedTitle = norm
	for i := range movie.MovieGenres {
		movie.MovieGenres[i].MovieID = movie.ID
		movie.MovieGenres[i].GenreID = movie.MovieGenres[i].Genre.ID
	}
	for i := range movie.MovieRoles {
		movie.MovieRoles[i].MovieID = movie.ID
		movie.MovieRoles[i].PersonID = movie.MovieRoles[i].Person.ID
	}
	s.movies = append(s.movies, *movie)
	return movie, nil
}

func (s *memoryStore) GetByID(_ context.Context, id uint) (*models.Movie, error) {
	for i := range s.movies {
		if s.movies[i].ID == id {
			return &s.movies[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) GetByNormalizedTitle(_ context.Context, normalized string) (*models.Movie, error) {
	for i := range s.movies {
		if s.movies[i].NormalizedTitle == normalized {
			return &s.movies[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) ListAll(_ context.Context, sortOrder string) ([]models.Movie, error) {
	out := append([]models.Movie{}, s.movies...)
	if sortOrder == database.SortTitleAsc {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	}
	return out, nil
}

func (s *memoryStore) ListByPersonRole(_ context.Context, personID uint, role models.MovieRole) ([]models.Movie, error) {
	out := []models.Movie{}
	for _, m := range s.movies {
		for _, pmr := range m.MovieRoles {
			if pmr.PersonID == personID && pmr.RoleID == uint(role) {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func (s *memoryStore) ListByGenre(_ context.Context, genreID uint) ([]models.Movie, error) {
	out := []models.Movie{}
	for _, m := range s.movies {
		for _, mg := range m.MovieGenres {
			if mg.GenreID == genreID {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func (s *memoryStore) SearchByTitle(_ context.Context, fragment string, limit int) ([]models.Movie, error) {
	out := []models.Movie{}
	for _, m := range s.movies {
		if strings.Contains(m.NormalizedTitle, fragment) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func datePtr(y int, m time.Month, d int) *models.Date {
	date := models.NewDate(y, m, d)
	return &date
}

func ageRatingPtr(a models.AgeRating) *models.AgeRating {
	return &a
}

// validSubmission returns a submission that passes validation.
func validSubmission(title string) Submission {
	budget := decimal.NewFromInt(63000000)
	return Submission{
		Title:       title,
		Rating:      8.7,
		ReleaseDate: datePtr(1999, time.March, 31),
		AgeRating:   ageRatingPtr(models.AgeRatingUSK16),
		Plot:        "A hacker learns the truth about reality.",
		Runtime:     136,
		Budget:      &budget,
		Genres:      []GenreInput{{Name: "Sci-Fi"}, {Name: "Action"}},
		Involvements: []InvolvementInput{
			{FirstName: "Keanu", LastName: "Reeves", Roles: []models.MovieRole{models.RoleLeadActor}},
			{FirstName: "Lana", LastName: "Wachowski", Roles: []models.MovieRole{models.RoleDirector, models.RoleWriter}},
		},
	}
}
