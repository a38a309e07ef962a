package catalog

import (
	"github.com/camden-git/moviearchive/models"
	"github.com/shopspring/decimal"
)

// personIdentity groups role rows by person. Saved people are keyed by ID;
// people staged in an unsaved aggregate all have ID 0 and are keyed by pointer.
type personIdentity struct {
	id     uint
	staged *models.Person
}

func identityOf(pmr models.PersonMovieRole) personIdentity {
	if pmr.PersonID != 0 {
		return personIdentity{id: pmr.PersonID}
	}
	if pmr.Person != nil && pmr.Person.ID != 0 {
		return personIdentity{id: pmr.Person.ID}
	}
	return personIdentity{staged: pmr.Person}
}

// Project flattens a loaded movie aggregate. Genres keep the aggregate's
// association order; involvements are grouped per person in order of first
// appearance, each with its distinct roles. A missing budget projects as zero.
func Project(movie *models.Movie) MovieView {
	view := MovieView{
		ID:           movie.ID,
		Title:        movie.Title,
		Rating:       movie.Rating,
		ReleaseDate:  movie.ReleaseDate,
		AgeRating:    movie.AgeRating,
		Plot:         movie.Plot,
		Runtime:      movie.Runtime,
		Budget:       decimal.Zero,
		Genres:       make([]GenreView, 0, len(movie.MovieGenres)),
		Involvements: []PersonView{},
	}
	if movie.Budget.Valid {
		view.Budget = movie.Budget.Decimal
	}

	for _, mg := range movie.MovieGenres {
		gv := GenreView{ID: mg.GenreID}
		if mg.Genre != nil {
			gv.Name = mg.Genre.Name
			if gv.ID == 0 {
				gv.ID = mg.Genre.ID
			}
		}
		view.Genres = append(view.Genres, gv)
	}

	index := make(map[personIdentity]int)
	seenRoles := make(map[personIdentity]map[models.MovieRole]bool)
	for _, pmr := range movie.MovieRoles {
		key := identityOf(pmr)
		i, ok := index[key]
		if !ok {
			pv := PersonView{ID: key.id, Roles: []models.MovieRole{}}
			if pmr.Person != nil {
				pv.FirstName = pmr.Person.FirstName
				pv.LastName = pmr.Person.LastName
			}
			view.Involvements = append(view.Involvements, pv)
			i = len(view.Involvements) - 1
			index[key] = i
			seenRoles[key] = make(map[models.MovieRole]bool)
		}

		role := models.MovieRole(pmr.RoleID)
		if pmr.RoleID == 0 && pmr.Role != nil {
			role = models.MovieRole(pmr.Role.ID)
		}
		if seenRoles[key][role] {
			continue
		}
		seenRoles[key][role] = true
		view.Involvements[i].Roles = append(view.Involvements[i].Roles, role)
	}

	return view
}

// ProjectAll projects every movie in order.
func ProjectAll(movies []models.Movie) []MovieView {
	views := make([]MovieView, 0, len(movies))
	for i := range movies {
		views = append(views, Project(&movies[i]))
	}
	return views
}
