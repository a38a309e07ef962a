package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/camden-git/moviearchive/catalog"
	"github.com/camden-git/moviearchive/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// BasePath is the route prefix of the movie archive API.
const BasePath = "/movie-archive"

func writeJSON(w http.ResponseWriter, log hclog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error("error encoding JSON response", "error", err)
		}
	}
}

type MovieHandler struct {
	Catalog *catalog.Service
	Log     hclog.Logger
}

// RegisterRoutes mounts the movie archive endpoints on r.
func (mh *MovieHandler) RegisterRoutes(r chi.Router) {
	r.Route(BasePath, func(r chi.Router) {
		r.Post("/movies", mh.CreateMovie)
		r.Get("/movies", mh.ListMovies)
		r.Get("/movie/by-id/{movie_id}", mh.GetMovieByID)
		r.Get("/movie/by-title/{title}", mh.GetMovieByTitle)
		r.Get("/movie/by-person-role", mh.ListMoviesByPersonRole)
		r.Get("/genre/{genre_id}", mh.ListMoviesByGenre)
		r.Get("/autocomplete/{query}", mh.Autocomplete)
	})
}

// MovieLocation is the by-id URL of a movie.
func MovieLocation(id uint) string {
	return fmt.Sprintf("%s/movie/by-id/%d", BasePath, id)
}

func (mh *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var sub catalog.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		if errors.Is(err, catalog.ErrUnknownRole) {
			WriteAPIError(w, http.StatusUnprocessableEntity, "unknown_role", err.Error())
			return
		}
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return
	}

	view, err := mh.Catalog.CreateMovie(r.Context(), sub)
	if err != nil {
		mh.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", MovieLocation(view.ID))
	writeJSON(w, mh.Log, http.StatusCreated, view)
}

func (mh *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	views, err := mh.Catalog.Movies(r.Context(), r.URL.Query().Get("sort"))
	if err != nil {
		mh.writeError(w, r, err)
		return
	}
	writeJSON(w, mh.Log, http.StatusOK, views)
}

func (mh *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	movieID, err := parseID(chi.URLParam(r, "movie_id"))
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid movie ID format")
		return
	}

	view, err := mh.Catalog.Movie(r.Context(), movieID)
	if err != nil {
		mh.writeError(w, r, err)
		return
	}
	writeJSON(w, mh.Log, http.StatusOK, view)
}

func (mh *MovieHandler) GetMovieByTitle(w http.ResponseWriter, r *http.Request) {
	view, err := mh.Catalog.MovieByTitle(r.Context(), pathParam(r, "title"))
	if err != nil {
		mh.writeError(w, r, err)
		return
	}
	writeJSON(w, mh.Log, http.StatusOK, view)
}

func (mh *MovieHandler) ListMoviesByPersonRole(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	personID, err := parseFilterID(query.Get("personId"))
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_person_id", "Query parameter personId must be a positive integer")
		return
	}
	role, err := models.ParseMovieRole(query.Get("role"))
	if err != nil || !role.Valid() {
		WriteAPIError(w, http.StatusBadRequest, "invalid_role", "Query parameter role must be one of LEADACTOR, DIRECTOR, WRITER")
		return
	}

	views, err := mh.Catalog.MoviesByPersonRole(r.Context(), personID, role)
	if err != nil {
		mh.writeError(w, r, err)
		return
	}
	writeJSON(w, mh.Log, http.StatusOK, views)
}

func (mh *MovieHandler) ListMoviesByGenre(w http.ResponseWriter, r *http.Request) {
	genreID, err := parseFilterID(chi.URLParam(r, "genre_id"))
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid genre ID format")
		return
	}

	views, err := mh.Catalog.MoviesByGenre(r.Context(), genreID)
	if err != nil {
		mh.writeError(w, r, err)
		return
	}
	writeJSON(w, mh.Log, http.StatusOK, views)
}

func (mh *MovieHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	views, err := mh.Catalog.Autocomplete(r.Context(), pathParam(r, "query"))
	if err != nil {
		mh.writeError(w, r, err)
		return
	}
	writeJSON(w, mh.Log, http.StatusOK, views)
}

// writeError maps catalog errors onto HTTP responses. Unclassified errors are
// logged with a correlation id and answered with an opaque 500.
func (mh *MovieHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, verr)
	case errors.Is(err, catalog.ErrEmptyQuery):
		WriteAPIError(w, http.StatusBadRequest, "empty_query", "Query must not be empty")
	case errors.Is(err, catalog.ErrInvalidSortOrder):
		WriteAPIError(w, http.StatusBadRequest, "invalid_sort", "Sort must be one of id_asc, title_asc, release_asc, release_desc")
	case errors.Is(err, catalog.ErrNotFound):
		WriteAPIError(w, http.StatusNotFound, "not_found", "Movie not found")
	case errors.Is(err, catalog.ErrConflict):
		WriteAPIError(w, http.StatusConflict, "conflict", "Movie already exists")
	case errors.Is(err, catalog.ErrUnknownRole):
		WriteAPIError(w, http.StatusUnprocessableEntity, "unknown_role", "Data is invalid: unknown role")
	case errors.Is(err, catalog.ErrConstraint):
		WriteAPIError(w, http.StatusUnprocessableEntity, "constraint_violation", "A constraint was violated")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// the client is gone or the timeout middleware answers
		mh.Log.Debug("request abandoned", "error", err, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
	default:
		incident := uuid.NewString()
		mh.Log.Error("request failed", "incident", incident, "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "error", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Internal error, reference "+incident)
	}
}

func parseID(s string) (uint, error) {
	id, err := parseFilterID(s)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("id must be positive")
	}
	return id, nil
}

// parseFilterID accepts any unsigned id. Filters on an id nothing carries
// match no movies.
func parseFilterID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// pathParam returns the decoded value of a chi URL parameter. chi routes on
// RawPath when the request has one, leaving the parameter escaped.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw
	}
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}
