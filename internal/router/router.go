// Package router registers the HTTP routes of the movie review service.
package router

import (
	"io/fs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/school-workshop/movie-review-challenge/internal/handler"
)

// RegisterRoutes registers operational endpoints that every deployment
// exposes: /healthz for load balancers and /metrics for prometheus.
func RegisterRoutes(e *echo.Echo, store handler.Pinger) {
	e.GET("/healthz", handler.Health(store))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterStatic serves the files of static (the root of the asset tree)
// under /static.
func RegisterStatic(e *echo.Echo, static fs.FS) {
	e.StaticFS("/static", static)
}

// RegisterPages registers the server-rendered pages.  reviewLimit guards
// review submission only; reads are never limited.
func RegisterPages(e *echo.Echo, h *handler.MovieHandler, reviewLimit echo.MiddlewareFunc) {
	e.GET("/", h.Home)
	e.GET("/search", h.Search)
	e.GET("/genre/:genre", h.Genre)
	e.GET("/movie/:id", h.MovieDetail)
	e.POST("/movie/:id/review", h.SubmitReview, reviewLimit)
	e.POST("/review/:id/delete", h.DeleteReview)
}

// RegisterAPI registers the JSON API under /api.
func RegisterAPI(e *echo.Echo, h *handler.MovieHandler, reviewLimit echo.MiddlewareFunc) {
	g := e.Group("/api")
	g.GET("/movies", h.ListMovies)
	// static segment wins over :id in echo's router
	g.GET("/movies/top", h.TopRated)
	g.GET("/movies/:id", h.GetMovie)
	g.GET("/genres", h.ListGenres)
	g.GET("/search", h.SearchAPI)
	g.POST("/movies/:id/reviews", h.CreateReview, reviewLimit)
	g.DELETE("/reviews/:id", h.RemoveReview)
}
