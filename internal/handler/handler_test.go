package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-workshop/movie-review-challenge/internal/database/dbtest"
	"github.com/school-workshop/movie-review-challenge/internal/handler"
	"github.com/school-workshop/movie-review-challenge/internal/model"
	"github.com/school-workshop/movie-review-challenge/internal/router"
	"github.com/school-workshop/movie-review-challenge/internal/service"
	"github.com/school-workshop/movie-review-challenge/internal/validation"
	"github.com/school-workshop/movie-review-challenge/web"
)

func itoa(i int64) string { return strconv.FormatInt(i, 10) }

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func newServer(t *testing.T) (*echo.Echo, *service.Catalog) {
	t.Helper()
	catalog := service.NewCatalog(dbtest.Open(t))
	require.NoError(t, catalog.Init(context.Background()))

	renderer, err := handler.NewRenderer(web.FS)
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.Validator = validation.EchoValidator{}
	e.HTTPErrorHandler = handler.ErrorHandler

	h := &handler.MovieHandler{Catalog: catalog}
	router.RegisterRoutes(e, catalog)
	router.RegisterPages(e, h, passThrough)
	router.RegisterAPI(e, h, passThrough)
	return e, catalog
}

func do(e *echo.Echo, method, target string, body string, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postForm(e *echo.Echo, target string, form url.Values) *httptest.ResponseRecorder {
	return do(e, http.MethodPost, target, form.Encode(), echo.MIMEApplicationForm)
}

func TestHomePage(t *testing.T) {
	e, catalog := newServer(t)
	_, err := catalog.AddReview(context.Background(), 4, model.NewReview{Name: "a", Rating: 5, Comment: "c"})
	require.NoError(t, err)

	rec := do(e, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The Dark Knight")
	assert.Contains(t, body, "Top Rated")
	assert.Contains(t, body, "/genre/Sci-Fi")
	assert.Contains(t, body, "★★★★★")
}

func TestMovieDetailPage(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/movie/2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Inception")
	assert.Contains(t, rec.Body.String(), "No reviews yet")

	for _, target := range []string{"/movie/999", "/movie/abc"} {
		rec = do(e, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "Movie not found", target)
	}
}

func TestSubmitReviewForm(t *testing.T) {
	e, catalog := newServer(t)
	ctx := context.Background()

	rec := postForm(e, "/movie/1/review", url.Values{
		"reviewer_name": {"Alice"}, "rating": {"5"}, "comment": {"Amazing!"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movie/1", rec.Header().Get(echo.HeaderLocation))

	m, err := catalog.GetMovieByID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, m.Reviews, 1)
	assert.Equal(t, "Alice", m.Reviews[0].ReviewerName)

	rec = do(e, http.MethodGet, "/movie/1", "", "")
	assert.Contains(t, rec.Body.String(), "Amazing!")
}

func TestSubmitReviewFormInvalid(t *testing.T) {
	e, catalog := newServer(t)

	rec := postForm(e, "/movie/1/review", url.Values{
		"reviewer_name": {"Alice"}, "rating": {"7"}, "comment": {"too good"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "rating must be at most 5")
	assert.Contains(t, rec.Body.String(), "too good", "entered values are kept")

	rec = postForm(e, "/movie/1/review", url.Values{
		"reviewer_name": {"Alice"}, "rating": {"five"}, "comment": {"x"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postForm(e, "/movie/999/review", url.Values{
		"reviewer_name": {"Alice"}, "rating": {"3"}, "comment": {"x"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	n, err := catalog.CountReviews(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteReviewForm(t *testing.T) {
	e, catalog := newServer(t)
	ctx := context.Background()
	rv, err := catalog.AddReview(ctx, 3, model.NewReview{Name: "a", Rating: 4, Comment: "c"})
	require.NoError(t, err)

	rec := do(e, http.MethodPost, "/review/"+itoa(rv.ID)+"/delete", "", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movie/3", rec.Header().Get(echo.HeaderLocation))

	rec = do(e, http.MethodPost, "/review/"+itoa(rv.ID)+"/delete", "", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	n, err := catalog.CountReviews(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSearchAndGenrePages(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/search?q=dark", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Search results for: dark")
	assert.Contains(t, rec.Body.String(), "The Dark Knight")
	assert.NotContains(t, rec.Body.String(), "Inception")

	rec = do(e, http.MethodGet, "/genre/drama", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Parasite")
	assert.NotContains(t, rec.Body.String(), "Toy Story")
}

type movieJSON struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	AvgRating float64 `json:"avg_rating"`
	Reviews   []struct {
		ID           int64  `json:"id"`
		MovieID      int64  `json:"movie_id"`
		ReviewerName string `json:"reviewer_name"`
		Name         string `json:"name"`
		Rating       int    `json:"rating"`
		Comment      string `json:"comment"`
		CreatedAt    string `json:"created_at"`
	} `json:"reviews"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAPIReviewLifecycle(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodPost, "/api/movies/1/reviews",
		`{"name":"Alice","rating":5,"comment":"Amazing!"}`, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "Alice", created["name"])
	assert.Equal(t, "Alice", created["reviewer_name"])
	assert.Regexp(t, `^\d{2} [A-Z][a-z]{2} \d{4} at \d{2}:\d{2}$`, created["created_at"])

	rec = do(e, http.MethodGet, "/api/movies/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode[movieJSON](t, rec)
	assert.Equal(t, "The Dark Knight", m.Title)
	assert.Equal(t, 5.0, m.AvgRating)
	require.Len(t, m.Reviews, 1)
	assert.Equal(t, "Amazing!", m.Reviews[0].Comment)

	rec = do(e, http.MethodDelete, "/api/reviews/"+itoa(m.Reviews[0].ID), "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(e, http.MethodDelete, "/api/reviews/"+itoa(m.Reviews[0].ID), "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code, "deleting an absent review is a no-op")
}

func TestAPICreateReviewInvalid(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodPost, "/api/movies/1/reviews",
		`{"name":" ","rating":0,"comment":"x"}`, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decode[validation.APIError](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "name is required", apiErr.Fields["name"])
	assert.Equal(t, "rating must be at least 1", apiErr.Fields["rating"])

	rec = do(e, http.MethodPost, "/api/movies/999/reviews",
		`{"name":"a","rating":3,"comment":"x"}`, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Movie not found"}`, rec.Body.String())
}

func TestAPIReads(t *testing.T) {
	e, catalog := newServer(t)
	ctx := context.Background()
	for _, r := range []struct {
		movie  int64
		rating int
	}{{2, 4}, {2, 5}, {3, 5}, {1, 3}} {
		_, err := catalog.AddReview(ctx, r.movie, model.NewReview{Name: "r", Rating: r.rating, Comment: "c"})
		require.NoError(t, err)
	}

	rec := do(e, http.MethodGet, "/api/movies", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[struct{ Items []movieJSON }](t, rec)
	assert.Len(t, all.Items, 12)

	rec = do(e, http.MethodGet, "/api/movies/top?limit=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	top := decode[struct{ Items []movieJSON }](t, rec)
	require.Len(t, top.Items, 2)
	assert.Equal(t, int64(3), top.Items[0].ID)
	assert.Equal(t, int64(2), top.Items[1].ID)
	assert.Equal(t, 4.5, top.Items[1].AvgRating)

	rec = do(e, http.MethodGet, "/api/movies/top?limit=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/genres", "", "")
	genres := decode[struct{ Items []string }](t, rec)
	assert.Equal(t, []string{"Action", "Animation", "Crime", "Drama", "Sci-Fi"}, genres.Items)

	rec = do(e, http.MethodGet, "/api/search?q=SPIDER", "", "")
	found := decode[struct{ Items []movieJSON }](t, rec)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Spider-Man: Into the Spider-Verse", found.Items[0].Title)

	rec = do(e, http.MethodGet, "/api/movies/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("down") }

func TestHealth(t *testing.T) {
	e, _ := newServer(t)
	rec := do(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	down := echo.New()
	down.GET("/healthz", handler.Health(downStore{}))
	rec = do(down, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRouteRendersErrorPage(t *testing.T) {
	e, _ := newServer(t)

	rec := do(e, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Back to all movies")

	rec = do(e, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}
