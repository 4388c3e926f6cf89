package repository

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/school-workshop/movie-review-challenge/internal/model"
)

var movieColumns = []string{"id", "title", "year", "genre", "poster", "plot"}

// MovieRepo encapsulates all queries on the movies table.
type MovieRepo struct {
	db Queryer
}

// NewMovieRepo constructs a MovieRepo over the given pool, connection or transaction.
func NewMovieRepo(db Queryer) *MovieRepo {
	return &MovieRepo{db: db}
}

// ListAll returns every movie ordered by id, each with its reviews attached.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	q, args, err := sq.Select(movieColumns...).From("movies").OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	movies := []model.Movie{}
	if err := sqlx.SelectContext(ctx, r.db, &movies, q, args...); err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return movies, nil
	}

	reviews, err := NewReviewRepo(r.db).ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byMovie := make(map[int64][]model.Review, len(movies))
	for _, rv := range reviews {
		byMovie[rv.MovieID] = append(byMovie[rv.MovieID], rv)
	}
	for i := range movies {
		movies[i].Reviews = reviewsOrEmpty(byMovie[movies[i].ID])
	}
	return movies, nil
}

// GetByID fetches one movie with its reviews.  It returns ErrMovieNotFound
// if no row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	q, args, err := sq.Select(movieColumns...).From("movies").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var m model.Movie
	if err := sqlx.GetContext(ctx, r.db, &m, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	reviews, err := NewReviewRepo(r.db).ListByMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Reviews = reviewsOrEmpty(reviews)
	return &m, nil
}

// Title returns the title of the movie, or ErrMovieNotFound.
func (r *MovieRepo) Title(ctx context.Context, id int64) (string, error) {
	var title string
	err := sqlx.GetContext(ctx, r.db, &title, `SELECT title FROM movies WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrMovieNotFound
	}
	return title, err
}

// Count returns the number of stored movies.
func (r *MovieRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM movies`)
	return n, err
}

// DistinctGenres returns each stored genre once, in no particular order.
func (r *MovieRepo) DistinctGenres(ctx context.Context) ([]string, error) {
	genres := []string{}
	err := sqlx.SelectContext(ctx, r.db, &genres, `SELECT DISTINCT genre FROM movies`)
	return genres, err
}

// Create inserts m and sets m.ID to the generated key.  Reviews on m are ignored.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	q, args, err := sq.Insert("movies").
		Columns("title", "year", "genre", "poster", "plot").
		Values(m.Title, m.Year, m.Genre, m.Poster, m.Plot).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// DeleteAll removes every movie and returns how many rows were deleted.
// Reviews must be removed first; the foreign key rejects orphans.
func (r *MovieRepo) DeleteAll(ctx context.Context) (int64, error) {
	q, args, err := sq.Delete("movies").ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func reviewsOrEmpty(rs []model.Review) []model.Review {
	if rs == nil {
		return []model.Review{}
	}
	return rs
}
