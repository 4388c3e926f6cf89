// Package service exposes the movie catalog operations used by the HTTP
// layer and publishes review events.
package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/school-workshop/movie-review-challenge/internal/database"
	"github.com/school-workshop/movie-review-challenge/internal/importer"
	"github.com/school-workshop/movie-review-challenge/internal/metrics"
	"github.com/school-workshop/movie-review-challenge/internal/model"
	"github.com/school-workshop/movie-review-challenge/internal/repository"
)

// Catalog runs each operation on its own pooled connection, acquired at
// the start of the call and released before it returns.  Use Session to
// run several operations on one connection.
type Catalog struct {
	db     *sqlx.DB
	now    func() time.Time
	events Publisher
}

func NewCatalog(db *sqlx.DB) *Catalog {
	return &Catalog{
		db:     db,
		now:    func() time.Time { return time.Now().UTC() },
		events: NopPublisher{},
	}
}

// SetPublisher routes review events to p.  A nil p disables events.
func (c *Catalog) SetPublisher(p Publisher) {
	if p == nil {
		p = NopPublisher{}
	}
	c.events = p
}

// Init creates the schema if absent and seeds the sample movies into an
// empty store.  Call once at process start.
func (c *Catalog) Init(ctx context.Context) error {
	if err := database.CreateSchema(ctx, c.db); err != nil {
		return err
	}
	return importer.SeedMovies(ctx, c.db)
}

// Close releases the connection pool.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Ping checks that the store is reachable.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Session acquires one connection, runs fn with it and releases it on
// every exit path.
func (c *Catalog) Session(ctx context.Context, fn func(s *Session) error) error {
	conn, err := c.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(&Session{
		movies:  repository.NewMovieRepo(conn),
		reviews: repository.NewReviewRepo(conn),
		now:     c.now,
		events:  c.events,
	})
}

func scoped[T any](ctx context.Context, c *Catalog, fn func(s *Session) (T, error)) (T, error) {
	var out T
	err := c.Session(ctx, func(s *Session) error {
		var err error
		out, err = fn(s)
		return err
	})
	return out, err
}

func (c *Catalog) LoadMovies(ctx context.Context) ([]model.Movie, error) {
	return scoped(ctx, c, func(s *Session) ([]model.Movie, error) { return s.LoadMovies(ctx) })
}

func (c *Catalog) GetMovieByID(ctx context.Context, id int64) (*model.Movie, error) {
	return scoped(ctx, c, func(s *Session) (*model.Movie, error) { return s.GetMovieByID(ctx, id) })
}

func (c *Catalog) SearchMovies(ctx context.Context, query string) ([]model.Movie, error) {
	return scoped(ctx, c, func(s *Session) ([]model.Movie, error) { return s.SearchMovies(ctx, query) })
}

func (c *Catalog) GetMoviesByGenre(ctx context.Context, genre string) ([]model.Movie, error) {
	return scoped(ctx, c, func(s *Session) ([]model.Movie, error) { return s.GetMoviesByGenre(ctx, genre) })
}

func (c *Catalog) GetAverageRating(ctx context.Context, movieID int64) (float64, error) {
	return scoped(ctx, c, func(s *Session) (float64, error) { return s.GetAverageRating(ctx, movieID) })
}

func (c *Catalog) GetTopRatedMovies(ctx context.Context, limit int) ([]RatedMovie, error) {
	return scoped(ctx, c, func(s *Session) ([]RatedMovie, error) { return s.GetTopRatedMovies(ctx, limit) })
}

func (c *Catalog) CountReviews(ctx context.Context, movieID int64) (int, error) {
	return scoped(ctx, c, func(s *Session) (int, error) { return s.CountReviews(ctx, movieID) })
}

func (c *Catalog) GetAllGenres(ctx context.Context) ([]string, error) {
	return scoped(ctx, c, func(s *Session) ([]string, error) { return s.GetAllGenres(ctx) })
}

func (c *Catalog) GetReview(ctx context.Context, id int64) (*model.Review, error) {
	return scoped(ctx, c, func(s *Session) (*model.Review, error) { return s.GetReview(ctx, id) })
}

func (c *Catalog) AddReview(ctx context.Context, movieID int64, in model.NewReview) (*model.Review, error) {
	return scoped(ctx, c, func(s *Session) (*model.Review, error) { return s.AddReview(ctx, movieID, in) })
}

func (c *Catalog) DeleteReview(ctx context.Context, reviewID int64) error {
	return c.Session(ctx, func(s *Session) error { return s.DeleteReview(ctx, reviewID) })
}

// Session is a set of catalog operations bound to one connection.
type Session struct {
	movies  *repository.MovieRepo
	reviews *repository.ReviewRepo
	now     func() time.Time
	events  Publisher
}

// LoadMovies returns every movie ordered by id with reviews attached.
func (s *Session) LoadMovies(ctx context.Context) ([]model.Movie, error) {
	return s.movies.ListAll(ctx)
}

// GetMovieByID returns repository.ErrMovieNotFound when no movie has the id.
func (s *Session) GetMovieByID(ctx context.Context, id int64) (*model.Movie, error) {
	return s.movies.GetByID(ctx, id)
}

// SearchMovies returns movies whose title contains query, ignoring case.
// An empty query returns every movie.
func (s *Session) SearchMovies(ctx context.Context, query string) ([]model.Movie, error) {
	movies, err := s.movies.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return MatchTitle(movies, query), nil
}

// GetMoviesByGenre returns movies whose genre equals genre, ignoring case.
// An empty genre returns every movie.
func (s *Session) GetMoviesByGenre(ctx context.Context, genre string) ([]model.Movie, error) {
	movies, err := s.movies.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return MatchGenre(movies, genre), nil
}

// GetAverageRating is 0 for a movie without reviews and for an unknown id.
func (s *Session) GetAverageRating(ctx context.Context, movieID int64) (float64, error) {
	ratings, err := s.reviews.Ratings(ctx, movieID)
	if err != nil {
		return 0, err
	}
	return meanRating(ratings), nil
}

// MoviesWithRatings loads every movie and computes each average from the
// reviews already in memory.
func (s *Session) MoviesWithRatings(ctx context.Context) ([]RatedMovie, error) {
	movies, err := s.movies.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Rate(movies), nil
}

// GetTopRatedMovies returns up to limit reviewed movies, best average first.
func (s *Session) GetTopRatedMovies(ctx context.Context, limit int) ([]RatedMovie, error) {
	rated, err := s.MoviesWithRatings(ctx)
	if err != nil {
		return nil, err
	}
	return TopRated(rated, limit), nil
}

func (s *Session) CountReviews(ctx context.Context, movieID int64) (int, error) {
	return s.reviews.CountByMovie(ctx, movieID)
}

// GetAllGenres returns each genre once in ascending byte order.
func (s *Session) GetAllGenres(ctx context.Context) ([]string, error) {
	genres, err := s.movies.DistinctGenres(ctx)
	if err != nil {
		return nil, err
	}
	slices.Sort(genres)
	return slices.Compact(genres), nil
}

func (s *Session) GetReview(ctx context.Context, id int64) (*model.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// AddReview stores a review for movieID stamped with the current time.  It
// returns repository.ErrMovieNotFound when the movie does not exist.
func (s *Session) AddReview(ctx context.Context, movieID int64, in model.NewReview) (*model.Review, error) {
	title, err := s.movies.Title(ctx, movieID)
	if err != nil {
		return nil, err
	}
	rv := &model.Review{
		MovieID:      movieID,
		ReviewerName: in.Name,
		Rating:       in.Rating,
		Comment:      in.Comment,
		CreatedAt:    s.now(),
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	metrics.ReviewsCreated.Inc()
	emit(s.events, reviewCreatedEvent(title, rv))
	return rv, nil
}

// DeleteReview removes the review if present; an unknown id is a no-op.
func (s *Session) DeleteReview(ctx context.Context, reviewID int64) error {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if errors.Is(err, repository.ErrReviewNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	removed, err := s.reviews.Delete(ctx, reviewID)
	if err != nil {
		return err
	}
	if removed {
		metrics.ReviewsDeleted.Inc()
		emit(s.events, reviewDeletedEvent(rv, s.now()))
	}
	return nil
}
