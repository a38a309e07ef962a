package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/camden-git/moviearchive/catalog"
	"github.com/camden-git/moviearchive/database"
	"github.com/camden-git/moviearchive/models"
	"github.com/camden-git/moviearchive/repository"
	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

const matrixBody = `{
	"title": "The Matrix",
	"rating": 8.7,
	"releaseDate": "1999-03-31",
	"ageRating": "USK16",
	"plot": "A hacker learns the truth about reality.",
	"runtime": 136,
	"budget": 63000000,
	"genres": [{"name": "Sci-Fi"}, {"name": "Action"}],
	"involvements": [
		{"firstName": "Keanu", "lastName": "Reeves", "roles": ["LEADACTOR"]},
		{"firstName": "Lana", "lastName": "Wachowski", "roles": ["DIRECTOR", "WRITER"]}
	]
}`

func newTestRouter(t *testing.T, repo catalog.Repository) http.Handler {
	t.Helper()
	if repo == nil {
		db, err := database.InitGormDB(filepath.Join(t.TempDir(), "api.db"), database.Options{LogLevel: logger.Silent}, hclog.NewNullLogger())
		require.NoError(t, err)
		t.Cleanup(func() { _ = database.Close(db) })
		require.NoError(t, database.EnsureSchema(context.Background(), db))
		repo = repository.NewMovieRepository(db)
	}

	mh := &MovieHandler{
		Catalog: catalog.NewService(repo, hclog.NewNullLogger()),
		Log:     hclog.NewNullLogger(),
	}
	r := chi.NewRouter()
	mh.RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) catalog.MovieView {
	t.Helper()
	var view catalog.MovieView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	return view
}

func decodeViews(t *testing.T, rr *httptest.ResponseRecorder) []catalog.MovieView {
	t.Helper()
	var views []catalog.MovieView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
	return views
}

func decodeErrors(t *testing.T, rr *httptest.ResponseRecorder) []APIErrorDetail {
	t.Helper()
	var resp APIErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Errors
}

func TestCreateAndFetchMovie(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/movie-archive/movies", matrixBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeView(t, rr)
	assert.Equal(t, MovieLocation(created.ID), rr.Header().Get("Location"))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	rr = do(t, h, http.MethodGet, rr.Header().Get("Location"), "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeView(t, rr)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "The Matrix", got.Title)
	assert.Len(t, got.Genres, 2)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Equal(t, float64(63000000), raw["budget"])
	assert.Equal(t, "USK16", raw["ageRating"])
	assert.Equal(t, "1999-03-31", raw["releaseDate"])

	rr = do(t, h, http.MethodGet, "/movie-archive/movie/by-title/the%20MATRIX", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created.ID, decodeView(t, rr).ID)

	rr = do(t, h, http.MethodGet, "/movie-archive/movies", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeViews(t, rr), 1)
}

func TestCreateMovieValidationErrors(t *testing.T) {
	h := newTestRouter(t, nil)

	body := strings.Replace(matrixBody, `"releaseDate": "1999-03-31",`, "", 1)
	body = strings.Replace(body, `"rating": 8.7`, `"rating": 11`, 1)

	rr := do(t, h, http.MethodPost, "/movie-archive/movies", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	byField := map[string]string{}
	for _, e := range decodeErrors(t, rr) {
		assert.Equal(t, "400", e.Status)
		byField[e.Field] = e.Code
	}
	assert.Equal(t, "missing_field", byField["releaseDate"])
	assert.Equal(t, "invalid_field", byField["rating"])
}

func TestCreateMovieMalformedBody(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/movie-archive/movies", `{"title": `)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_body", decodeErrors(t, rr)[0].Code)
}

func TestCreateMovieUnknownRole(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/movie-archive/movies", strings.Replace(matrixBody, `"LEADACTOR"`, `"PRODUCER"`, 1))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, h, http.MethodPost, "/movie-archive/movies", strings.Replace(matrixBody, `"LEADACTOR"`, `7`, 1))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCreateMovieConflict(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/movie-archive/movies", matrixBody)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, http.MethodPost, "/movie-archive/movies", strings.Replace(matrixBody, "The Matrix", "THE MATRIX", 1))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "conflict", decodeErrors(t, rr)[0].Code)
}

func TestGetMovieErrors(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		path   string
		status int
	}{
		{"/movie-archive/movie/by-id/abc", http.StatusBadRequest},
		{"/movie-archive/movie/by-id/0", http.StatusBadRequest},
		{"/movie-archive/movie/by-id/42", http.StatusNotFound},
		{"/movie-archive/movie/by-title/Predator", http.StatusNotFound},
		{"/movie-archive/movie/by-title/%20%20", http.StatusBadRequest},
		{"/movie-archive/genre/x", http.StatusBadRequest},
		{"/movie-archive/autocomplete/%20", http.StatusBadRequest},
		{"/movie-archive/movie/by-person-role?role=DIRECTOR", http.StatusBadRequest},
		{"/movie-archive/movie/by-person-role?role=PRODUCER&personId=1", http.StatusBadRequest},
		{"/movie-archive/movie/by-person-role?role=5&personId=1", http.StatusBadRequest},
		{"/movie-archive/movies?sort=filename_asc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rr := do(t, h, http.MethodGet, tt.path, "")
		assert.Equal(t, tt.status, rr.Code, tt.path)
	}
}

func TestListQueries(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/movie-archive/movies", matrixBody)
	require.Equal(t, http.StatusCreated, rr.Code)
	matrix := decodeView(t, rr)

	heat := strings.NewReplacer("The Matrix", "Heat", "Sci-Fi", "Crime").Replace(matrixBody)
	rr = do(t, h, http.MethodPost, "/movie-archive/movies", heat)
	require.Equal(t, http.StatusCreated, rr.Code)

	lana := matrix.Involvements[1]
	rr = do(t, h, http.MethodGet, "/movie-archive/movie/by-person-role?role=writer&personId="+itoa(lana.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeViews(t, rr), 2)

	rr = do(t, h, http.MethodGet, "/movie-archive/movie/by-person-role?role=LEADACTOR&personId="+itoa(lana.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/movie-archive/genre/"+itoa(matrix.Genres[0].ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	views := decodeViews(t, rr)
	require.Len(t, views, 1)
	assert.Equal(t, "The Matrix", views[0].Title)

	rr = do(t, h, http.MethodGet, "/movie-archive/genre/999", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/movie-archive/autocomplete/the", "")
	require.Equal(t, http.StatusOK, rr.Code)
	views = decodeViews(t, rr)
	require.Len(t, views, 1)
	assert.Equal(t, "The Matrix", views[0].Title)
}

func TestTitleWithLiteralPercentEscape(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/movie-archive/movies", strings.Replace(matrixBody, "The Matrix", "Rate a%41", 1))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/movie-archive/movie/by-title/Rate%20a%2541", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Rate a%41", decodeView(t, rr).Title)

	rr = do(t, h, http.MethodGet, "/movie-archive/autocomplete/a%2541", "")
	require.Equal(t, http.StatusOK, rr.Code)
	views := decodeViews(t, rr)
	require.Len(t, views, 1)
	assert.Equal(t, "Rate a%41", views[0].Title)
}

func TestTitleWithEscapedSlash(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/movie-archive/movies", strings.Replace(matrixBody, "The Matrix", "AC/DC Live", 1))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/movie-archive/movie/by-title/AC%2FDC%20Live", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "AC/DC Live", decodeView(t, rr).Title)
}

func TestZeroFilterIDsMatchNothing(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/movie-archive/movies", matrixBody)
	require.Equal(t, http.StatusCreated, rr.Code)

	for _, path := range []string{
		"/movie-archive/genre/0",
		"/movie-archive/movie/by-person-role?role=DIRECTOR&personId=0",
	} {
		rr = do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, `[]`, rr.Body.String(), path)
	}
}

// failingRepository fails every call with an unclassified error.
type failingRepository struct{ err error }

func (f failingRepository) CreateMovie(context.Context, func(catalog.Store) (*models.Movie, error)) (*models.Movie, error) {
	return nil, f.err
}
func (f failingRepository) GetByID(context.Context, uint) (*models.Movie, error) { return nil, f.err }
func (f failingRepository) GetByNormalizedTitle(context.Context, string) (*models.Movie, error) {
	return nil, f.err
}
func (f failingRepository) ListAll(context.Context, string) ([]models.Movie, error) {
	return nil, f.err
}
func (f failingRepository) ListByPersonRole(context.Context, uint, models.MovieRole) ([]models.Movie, error) {
	return nil, f.err
}
func (f failingRepository) ListByGenre(context.Context, uint) ([]models.Movie, error) {
	return nil, f.err
}
func (f failingRepository) SearchByTitle(context.Context, string, int) ([]models.Movie, error) {
	return nil, f.err
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	h := newTestRouter(t, failingRepository{err: errors.New("disk I/O error: /var/lib/secret.db")})

	rr := do(t, h, http.MethodGet, "/movie-archive/movies", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	errs := decodeErrors(t, rr)
	require.Len(t, errs, 1)
	assert.Equal(t, "internal_error", errs[0].Code)
	assert.NotContains(t, rr.Body.String(), "secret.db")

	rr = do(t, h, http.MethodPost, "/movie-archive/movies", matrixBody)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestConstraintErrorsAre422(t *testing.T) {
	h := newTestRouter(t, failingRepository{err: catalog.ErrConstraint})

	rr := do(t, h, http.MethodPost, "/movie-archive/movies", matrixBody)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "constraint_violation", decodeErrors(t, rr)[0].Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
