package service

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/school-workshop/movie-review-challenge/internal/model"
)

// RatedMovie pairs a movie with its computed average rating.
type RatedMovie struct {
	model.Movie
	AvgRating float64
}

// AverageRating is the mean of the review ratings rounded to one decimal
// place (half away from zero).  No reviews yields 0.
func AverageRating(reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	ratings := make([]int, len(reviews))
	for i, rv := range reviews {
		ratings[i] = rv.Rating
	}
	return meanRating(ratings)
}

func meanRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}

// Rate computes the average rating of every movie from its loaded reviews.
func Rate(movies []model.Movie) []RatedMovie {
	out := make([]RatedMovie, len(movies))
	for i, m := range movies {
		out[i] = RatedMovie{Movie: m, AvgRating: AverageRating(m.Reviews)}
	}
	return out
}

// TopRated keeps the movies with an average above zero, orders them with
// higherRated and returns at most limit of them.
func TopRated(movies []RatedMovie, limit int) []RatedMovie {
	if limit <= 0 {
		return []RatedMovie{}
	}
	rated := make([]RatedMovie, 0, len(movies))
	for _, m := range movies {
		if m.AvgRating > 0 {
			rated = append(rated, m)
		}
	}
	slices.SortStableFunc(rated, higherRated)
	if len(rated) > limit {
		rated = rated[:limit]
	}
	return rated
}

// higherRated orders by average rating descending.  Ties go to the movie
// with more reviews, then to the lower id.
func higherRated(a, b RatedMovie) int {
	if c := cmp.Compare(b.AvgRating, a.AvgRating); c != 0 {
		return c
	}
	if c := cmp.Compare(len(b.Reviews), len(a.Reviews)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// MatchTitle keeps movies whose title contains query, ignoring case.
// An empty query keeps everything.
func MatchTitle(movies []model.Movie, query string) []model.Movie {
	if query == "" {
		return movies
	}
	needle := strings.ToLower(query)
	out := []model.Movie{}
	for _, m := range movies {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			out = append(out, m)
		}
	}
	return out
}

// MatchGenre keeps movies whose genre equals genre, ignoring case.
// An empty genre keeps everything.
func MatchGenre(movies []model.Movie, genre string) []model.Movie {
	if genre == "" {
		return movies
	}
	out := []model.Movie{}
	for _, m := range movies {
		if strings.EqualFold(m.Genre, genre) {
			out = append(out, m)
		}
	}
	return out
}
