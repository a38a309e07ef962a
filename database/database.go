package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// MovieIDsByPersonRole returns the ids of movies where personID held roleID, ascending.
func MovieIDsByPersonRole(ctx context.Context, db Querier, personID, roleID uint) ([]uint, error) {
	queryBuilder := psql.Select("movie_id").
		Distinct().
		From("person_movie_roles").
		Where(sq.Eq{"person_id": personID}).
		Where(sq.Eq{"role_id": roleID}).
		OrderBy("movie_id ASC")

	ids, err := queryIDs(ctx, db, queryBuilder)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies for person %d with role %d: %w", personID, roleID, err)
	}
	return ids, nil
}

// MovieIDsByGenre returns the ids of movies tagged with genreID, ascending.
func MovieIDsByGenre(ctx context.Context, db Querier, genreID uint) ([]uint, error) {
	queryBuilder := psql.Select("movie_id").
		From("movie_genres").
		Where(sq.Eq{"genre_id": genreID}).
		OrderBy("movie_id ASC")

	ids, err := queryIDs(ctx, db, queryBuilder)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies for genre %d: %w", genreID, err)
	}
	return ids, nil
}

// MovieIDsByTitleFragment returns up to limit ids of movies whose normalized
// title contains fragment, ordered by title. fragment must already be normalized.
func MovieIDsByTitleFragment(ctx context.Context, db Querier, fragment string, limit uint64) ([]uint, error) {
	queryBuilder := psql.Select("id").
		From("movies").
		Where(sq.Expr("instr(normalized_title, ?) > 0", fragment)).
		OrderBy("title ASC", "id ASC").
		Limit(limit)

	ids, err := queryIDs(ctx, db, queryBuilder)
	if err != nil {
		return nil, fmt.Errorf("failed to search movie titles for '%s': %w", fragment, err)
	}
	return ids, nil
}

func queryIDs(ctx context.Context, db Querier, queryBuilder sq.SelectBuilder) ([]uint, error) {
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL: %w", err)
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uint{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, uint(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating id rows: %w", err)
	}
	return ids, nil
}
