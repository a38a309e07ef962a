package database

import (
	"context"
	"fmt"

	"github.com/camden-git/moviearchive/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// schemaStatements create the catalog tables when they are absent. There is no
// migration step; an existing database is used as is.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL CHECK (length(trim(name)) > 0 AND length(name) <= 200),
		CONSTRAINT uq_genres_name UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS people (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL CHECK (length(trim(first_name)) > 0 AND length(first_name) <= 200),
		last_name TEXT NOT NULL CHECK (length(trim(last_name)) > 0 AND length(last_name) <= 200),
		CONSTRAINT uq_people_name UNIQUE (first_name, last_name)
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL CHECK (length(trim(title)) > 0 AND length(title) <= 200),
		normalized_title TEXT NOT NULL,
		rating REAL NOT NULL CHECK (rating >= 0 AND rating <= 10),
		release_date TEXT NOT NULL CHECK (release_date BETWEEN '1895-01-01' AND '2100-12-31'),
		age_rating INTEGER NOT NULL CHECK (age_rating IN (0, 6, 12, 16, 18)),
		plot TEXT NOT NULL CHECK (length(plot) <= 10000),
		runtime INTEGER NOT NULL CHECK (runtime >= 0),
		budget TEXT CHECK (budget IS NULL OR CAST(budget AS REAL) >= 0),
		CONSTRAINT uq_movies_title_release UNIQUE (normalized_title, release_date)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id INTEGER NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		genre_id INTEGER NOT NULL REFERENCES genres(id),
		PRIMARY KEY (movie_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS person_movie_roles (
		person_id INTEGER NOT NULL REFERENCES people(id),
		movie_id INTEGER NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
		role_id INTEGER NOT NULL REFERENCES roles(id),
		PRIMARY KEY (person_id, movie_id, role_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movie_genres_genre ON movie_genres (genre_id)`,
	`CREATE INDEX IF NOT EXISTS idx_person_movie_roles_movie ON person_movie_roles (movie_id)`,
	`CREATE INDEX IF NOT EXISTS idx_person_movie_roles_person_role ON person_movie_roles (person_id, role_id)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies (title)`,
}

// EnsureSchema creates the catalog tables if needed and seeds the role lookup rows.
// It is safe to call on every boot.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range schemaStatements {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
		}

		roles := models.SeedRoles()
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
			return fmt.Errorf("failed to seed roles: %w", err)
		}
		return nil
	})
}
