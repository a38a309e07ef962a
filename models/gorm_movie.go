package models

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// Movie represents a catalog entry in the database using GORM.
// It corresponds to the 'movies' table.
type Movie struct {
	ID              uint                `gorm:"primaryKey;autoIncrement"`
	Title           string              `gorm:"not null"`
	NormalizedTitle string              `gorm:"not null;uniqueIndex:idx_movies_title_release"` // written by BeforeSave only
	Rating          float64             `gorm:"not null"`
	ReleaseDate     Date                `gorm:"type:text;not null;uniqueIndex:idx_movies_title_release"`
	AgeRating       AgeRating           `gorm:"not null"`
	Plot            string              `gorm:"not null"`
	Runtime         int                 `gorm:"not null"`  // minutes
	Budget          decimal.NullDecimal `gorm:"type:text"` // Nullable

	// Relationships
	MovieGenres []MovieGenre      `gorm:"foreignKey:MovieID"`
	MovieRoles  []PersonMovieRole `gorm:"foreignKey:MovieID"`
}

// TableName explicitly sets the table name for GORM.
func (Movie) TableName() string {
	return "movies"
}

// BeforeSave derives NormalizedTitle from Title on every write, so callers
// can never store a normalized title that disagrees with the title.
func (m *Movie) BeforeSave(tx *gorm.DB) error {
	m.NormalizedTitle = NormalizeTitle(m.Title)
	return nil
}

// NormalizeTitle composes title to NFC, lowercases it and drops every
// whitespace rune. Lookups by title must normalize their input with this same function.
func NormalizeTitle(title string) string {
	title = norm.NFC.String(title)
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
