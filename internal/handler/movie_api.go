package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/school-workshop/movie-review-challenge/internal/repository"
	"github.com/school-workshop/movie-review-challenge/internal/validation"
)

// ListMovies returns every movie with reviews and averages as {"items": [...]}.
func (h *MovieHandler) ListMovies(c echo.Context) error {
	movies, err := h.Catalog.LoadMovies(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movieViews(movies)})
}

func (h *MovieHandler) GetMovie(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}
	ctx := c.Request().Context()
	m, err := h.Catalog.GetMovieByID(ctx, id)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return errMovieNotFound
	}
	if err != nil {
		return err
	}
	avg, err := h.Catalog.GetAverageRating(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMovieView(*m, avg))
}

// TopRated returns up to ?limit= (default 5) reviewed movies, best first.
func (h *MovieHandler) TopRated(c echo.Context) error {
	limit := FeaturedCount
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = n
	}
	top, err := h.Catalog.GetTopRatedMovies(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ratedViews(top)})
}

func (h *MovieHandler) ListGenres(c echo.Context) error {
	genres, err := h.Catalog.GetAllGenres(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"items": genres})
}

func (h *MovieHandler) SearchAPI(c echo.Context) error {
	movies, err := h.Catalog.SearchMovies(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movieViews(movies)})
}

// CreateReview accepts {"name", "rating", "comment"} and answers 201 with
// the stored review.
func (h *MovieHandler) CreateReview(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}

	var req reviewForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		var ve *validation.RequestValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, ve.ToAPIError())
		}
		return err
	}

	rv, err := h.Catalog.AddReview(c.Request().Context(), id, req.toNewReview())
	if errors.Is(err, repository.ErrMovieNotFound) {
		return errMovieNotFound
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReviewView(*rv))
}

// RemoveReview answers 204 whether or not the review existed.
func (h *MovieHandler) RemoveReview(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review id")
	}
	if err := h.Catalog.DeleteReview(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
