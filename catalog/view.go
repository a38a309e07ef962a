package catalog

import (
	"github.com/camden-git/moviearchive/models"
	"github.com/shopspring/decimal"
)

func init() {
	// budgets go on the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// MovieView is the flat, client-facing form of a movie aggregate.
type MovieView struct {
	ID           uint             `json:"id"`
	Title        string           `json:"title"`
	Rating       float64          `json:"rating"`
	ReleaseDate  models.Date      `json:"releaseDate"`
	AgeRating    models.AgeRating `json:"ageRating"`
	Plot         string           `json:"plot"`
	Runtime      int              `json:"runtime"`
	Budget       decimal.Decimal  `json:"budget"`
	Involvements []PersonView     `json:"involvements"`
	Genres       []GenreView      `json:"genres"`
}

// GenreView is a genre as listed on a movie.
type GenreView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PersonView is one person on a movie with every role they held on it.
type PersonView struct {
	ID        uint               `json:"id"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Roles     []models.MovieRole `json:"roles"`
}
