package handler

import (
	"github.com/school-workshop/movie-review-challenge/internal/model"
	"github.com/school-workshop/movie-review-challenge/internal/service"
)

// ReviewTimeLayout is how review timestamps are shown, in server local time.
const ReviewTimeLayout = "02 Jan 2006 at 15:04"

// MovieView is the boundary form of a movie for templates and JSON.
type MovieView struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Year      int          `json:"year"`
	Genre     string       `json:"genre"`
	Poster    string       `json:"poster"`
	Plot      string       `json:"plot"`
	AvgRating float64      `json:"avg_rating"`
	Reviews   []ReviewView `json:"reviews"`
}

// ReviewView carries the reviewer under both reviewer_name and name; older
// clients read name.
type ReviewView struct {
	ID           int64  `json:"id"`
	MovieID      int64  `json:"movie_id"`
	ReviewerName string `json:"reviewer_name"`
	Name         string `json:"name"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"created_at"`
}

func toReviewView(rv model.Review) ReviewView {
	return ReviewView{
		ID:           rv.ID,
		MovieID:      rv.MovieID,
		ReviewerName: rv.ReviewerName,
		Name:         rv.ReviewerName,
		Rating:       rv.Rating,
		Comment:      rv.Comment,
		CreatedAt:    rv.CreatedAt.Local().Format(ReviewTimeLayout),
	}
}

func toMovieView(m model.Movie, avg float64) MovieView {
	reviews := make([]ReviewView, len(m.Reviews))
	for i, rv := range m.Reviews {
		reviews[i] = toReviewView(rv)
	}
	return MovieView{
		ID:        m.ID,
		Title:     m.Title,
		Year:      m.Year,
		Genre:     m.Genre,
		Poster:    m.Poster,
		Plot:      m.Plot,
		AvgRating: avg,
		Reviews:   reviews,
	}
}

func ratedViews(rated []service.RatedMovie) []MovieView {
	out := make([]MovieView, len(rated))
	for i, rm := range rated {
		out[i] = toMovieView(rm.Movie, rm.AvgRating)
	}
	return out
}

// movieViews computes each average from the reviews already loaded.
func movieViews(movies []model.Movie) []MovieView {
	return ratedViews(service.Rate(movies))
}

type homePage struct {
	Movies      []MovieView
	TopMovies   []MovieView
	Genres      []string
	Genre       string
	SearchQuery string
	Searched    bool
}

type moviePage struct {
	Movie  MovieView
	Form   reviewForm
	Errors map[string]string
}

type errorPage struct {
	Status  int
	Message string
}
