package repository

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/school-workshop/movie-review-challenge/internal/model"
)

var reviewColumns = []string{"id", "movie_id", "reviewer_name", "rating", "comment", "created_at"}

// ReviewRepo encapsulates all queries on the reviews table.
type ReviewRepo struct {
	db Queryer
}

func NewReviewRepo(db Queryer) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create inserts rv and sets rv.ID.  The caller sets CreatedAt.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	q, args, err := sq.Insert("reviews").
		Columns("movie_id", "reviewer_name", "rating", "comment", "created_at").
		Values(rv.MovieID, rv.ReviewerName, rv.Rating, rv.Comment, rv.CreatedAt).
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
	rv.ID = id
	return nil
}

// GetByID returns ErrReviewNotFound if no row matches.
func (r *ReviewRepo) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	q, args, err := sq.Select(reviewColumns...).From("reviews").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var rv model.Review
	if err := sqlx.GetContext(ctx, r.db, &rv, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// ListByMovie returns the reviews of one movie in insertion order.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID int64) ([]model.Review, error) {
	return r.list(ctx, sq.Eq{"movie_id": movieID})
}

// ListAll returns every review in insertion order.
func (r *ReviewRepo) ListAll(ctx context.Context) ([]model.Review, error) {
	return r.list(ctx, nil)
}

func (r *ReviewRepo) list(ctx context.Context, where sq.Sqlizer) ([]model.Review, error) {
	b := sq.Select(reviewColumns...).From("reviews").OrderBy("id")
	if where != nil {
		b = b.Where(where)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	out := []model.Review{}
	if err := sqlx.SelectContext(ctx, r.db, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Ratings returns the ratings attached to an existing movie.  Reviews whose
// movie no longer exists are not counted.
func (r *ReviewRepo) Ratings(ctx context.Context, movieID int64) ([]int, error) {
	const q = `SELECT r.rating FROM reviews r
	           JOIN movies m ON m.id = r.movie_id
	           WHERE r.movie_id = ? ORDER BY r.id`
	out := []int{}
	err := sqlx.SelectContext(ctx, r.db, &out, q, movieID)
	return out, err
}

// CountByMovie counts the reviews attached to an existing movie; 0 when the movie is absent.
func (r *ReviewRepo) CountByMovie(ctx context.Context, movieID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM reviews r
	           JOIN movies m ON m.id = r.movie_id
	           WHERE r.movie_id = ?`
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, q, movieID)
	return n, err
}

// Delete removes a review by id and reports whether a row was removed.
// A missing id is not an error.
func (r *ReviewRepo) Delete(ctx context.Context, id int64) (bool, error) {
	q, args, err := sq.Delete("reviews").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteAll removes every review.
func (r *ReviewRepo) DeleteAll(ctx context.Context) (int64, error) {
	q, args, err := sq.Delete("reviews").ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
