package model

import "time"

// Review is a row of the `reviews` table.  Rating is expected to be 1–5;
// the range is checked where user input enters the system, not here.
type Review struct {
	ID           int64     `db:"id"`
	MovieID      int64     `db:"movie_id"`
	ReviewerName string    `db:"reviewer_name"`
	Rating       int       `db:"rating"`
	Comment      string    `db:"comment"`
	CreatedAt    time.Time `db:"created_at"`
}

// NewReview carries the caller-supplied fields of a review.  Callers name
// the author "name"; it is stored as reviewer_name.
type NewReview struct {
	Name    string
	Rating  int
	Comment string
}
