// Package handler exposes the HTTP handlers of the movie review service:
// server-rendered pages under / and a JSON API under /api.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/school-workshop/movie-review-challenge/internal/model"
	"github.com/school-workshop/movie-review-challenge/internal/repository"
	"github.com/school-workshop/movie-review-challenge/internal/service"
	"github.com/school-workshop/movie-review-challenge/internal/validation"
)

// FeaturedCount is how many top rated movies the home page lists.
const FeaturedCount = 5

// MovieHandler serves movie pages and the JSON API from one Catalog.
type MovieHandler struct {
	Catalog *service.Catalog
}

// reviewForm is the review submission, posted as a form by the movie page
// and as JSON by API clients.
type reviewForm struct {
	ReviewerName string `form:"reviewer_name" json:"name" validate:"notblank,max=100"`
	Rating       int    `form:"rating" json:"rating" validate:"min=1,max=5"`
	Comment      string `form:"comment" json:"comment" validate:"notblank"`
}

func (f reviewForm) toNewReview() model.NewReview {
	return model.NewReview{Name: f.ReviewerName, Rating: f.Rating, Comment: f.Comment}
}

var errMovieNotFound = echo.NewHTTPError(http.StatusNotFound, "Movie not found")

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// Home lists every movie with its average, the featured top rated movies
// and the genre list, all read over one connection.
func (h *MovieHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()
	var page homePage
	err := h.Catalog.Session(ctx, func(s *service.Session) error {
		rated, err := s.MoviesWithRatings(ctx)
		if err != nil {
			return err
		}
		page.Movies = ratedViews(rated)
		page.TopMovies = ratedViews(service.TopRated(rated, FeaturedCount))
		page.Genres, err = s.GetAllGenres(ctx)
		return err
	})
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, PageIndex, page)
}

// Search renders the movies whose title contains q.
func (h *MovieHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	movies, err := h.Catalog.SearchMovies(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, PageIndex, homePage{
		Movies:      movieViews(movies),
		SearchQuery: q,
		Searched:    true,
	})
}

func (h *MovieHandler) Genre(c echo.Context) error {
	ctx := c.Request().Context()
	genre := c.Param("genre")
	movies, err := h.Catalog.GetMoviesByGenre(ctx, genre)
	if err != nil {
		return err
	}
	genres, err := h.Catalog.GetAllGenres(ctx)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, PageIndex, homePage{
		Movies: movieViews(movies),
		Genres: genres,
		Genre:  genre,
	})
}

func (h *MovieHandler) MovieDetail(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errMovieNotFound
	}
	return h.renderMovie(c, http.StatusOK, id, reviewForm{Rating: 5}, nil)
}

func (h *MovieHandler) renderMovie(c echo.Context, status int, id int64, form reviewForm, errs map[string]string) error {
	m, err := h.Catalog.GetMovieByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return errMovieNotFound
	}
	if err != nil {
		return err
	}
	return c.Render(status, PageMovie, moviePage{
		Movie:  toMovieView(*m, service.AverageRating(m.Reviews)),
		Form:   form,
		Errors: errs,
	})
}

// SubmitReview stores a review posted from the movie page and redirects
// back to it.  Invalid input re-renders the page with the messages.
func (h *MovieHandler) SubmitReview(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errMovieNotFound
	}

	var form reviewForm
	if err := c.Bind(&form); err != nil {
		return h.renderMovie(c, http.StatusBadRequest, id, form,
			map[string]string{"form": "rating must be a number between 1 and 5"})
	}
	if err := c.Validate(&form); err != nil {
		var ve *validation.RequestValidationError
		if errors.As(err, &ve) {
			return h.renderMovie(c, http.StatusBadRequest, id, form, ve.Messages())
		}
		return err
	}

	_, err := h.Catalog.AddReview(c.Request().Context(), id, form.toNewReview())
	if errors.Is(err, repository.ErrMovieNotFound) {
		return errMovieNotFound
	}
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/movie/%d", id))
}

// DeleteReview removes a review and redirects to its movie, or home when the
// review no longer exists.
func (h *MovieHandler) DeleteReview(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	ctx := c.Request().Context()

	rv, err := h.Catalog.GetReview(ctx, id)
	if errors.Is(err, repository.ErrReviewNotFound) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteReview(ctx, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/movie/%d", rv.MovieID))
}
