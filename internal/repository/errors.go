// Package repository contains data access logic for movies and reviews.
// Repositories work over a Queryer so the same code runs against the pool,
// a single scoped connection, or a transaction.
package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrMovieNotFound is returned when no movie has the requested id.
// Handlers translate it into a "Movie not found" page or a 404.
var ErrMovieNotFound = errors.New("movie not found")

// ErrReviewNotFound is returned when no review has the requested id.
var ErrReviewNotFound = errors.New("review not found")

// Queryer is satisfied by *sqlx.DB, *sqlx.Conn and *sqlx.Tx.
type Queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}
