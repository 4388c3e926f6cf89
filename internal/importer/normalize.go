// Package importer seeds the sample catalog and bulk-loads movies from an
// external TMDB export.
package importer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/school-workshop/movie-review-challenge/internal/model"
)

// Source field names of the TMDB export.
const (
	FieldTitle       = "Title"
	FieldReleaseDate = "Release_Date"
	FieldGenre       = "Genre"
	FieldOverview    = "Overview"
	FieldPosterURL   = "Poster_Url"
)

const (
	// PlaceholderPoster replaces a missing or oversized poster URL.
	PlaceholderPoster = "https://via.placeholder.com/300x450?text=No+Poster"
	UnknownGenre      = "Unknown"

	maxTitle  = 200
	maxGenre  = 50
	maxPoster = 500
)

// Record is one row of the source, keyed by column name.
type Record map[string]string

// ExtractYear returns the year of a date like "2021-12-15" or "2021/12/15",
// and 0 when the text before the first separator is not four digits.
func ExtractYear(releaseDate string) int {
	s := strings.TrimSpace(releaseDate)
	if i := strings.IndexAny(s, "-/"); i >= 0 {
		s = s[:i]
	}
	if len(s) != 4 {
		return 0
	}
	year, err := strconv.Atoi(s)
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

// PrimaryGenre returns the first entry of a comma-separated genre list.
func PrimaryGenre(genres string) string {
	first, _, _ := strings.Cut(genres, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return UnknownGenre
	}
	return truncate(first, maxGenre)
}

// Normalize maps a source record to a movie.  ok is false when the title,
// year or plot is missing.
func Normalize(rec Record) (m model.Movie, ok bool) {
	title := strings.TrimSpace(rec[FieldTitle])
	plot := strings.TrimSpace(rec[FieldOverview])
	year := ExtractYear(rec[FieldReleaseDate])
	if title == "" || year == 0 || plot == "" {
		return model.Movie{}, false
	}

	poster := strings.TrimSpace(rec[FieldPosterURL])
	if poster == "" || len(poster) > maxPoster {
		poster = PlaceholderPoster
	}
	return model.Movie{
		Title:  truncate(title, maxTitle),
		Year:   year,
		Genre:  PrimaryGenre(rec[FieldGenre]),
		Poster: poster,
		Plot:   plot,
	}, true
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
