package importer

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/school-workshop/movie-review-challenge/internal/model"
	"github.com/school-workshop/movie-review-challenge/internal/repository"
)

// SampleMovies is the catalog inserted into an empty store.
var SampleMovies = []model.Movie{
	{
		Title:  "The Dark Knight",
		Year:   2008,
		Genre:  "Action",
		Poster: "https://m.media-amazon.com/images/M/MV5BMTMxNTMwODM0NF5BMl5BanBnXkFtZTcwODAyMTk2Mw@@._V1_SX300.jpg",
		Plot:   "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
	},
	{
		Title:  "Inception",
		Year:   2010,
		Genre:  "Sci-Fi",
		Poster: "https://m.media-amazon.com/images/M/MV5BMjAxMzY3NjcxNF5BMl5BanBnXkFtZTcwNTI5OTM0Mw@@._V1_SX300.jpg",
		Plot:   "A thief who steals corporate secrets through the use of dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O.",
	},
	{
		Title:  "Spider-Man: Into the Spider-Verse",
		Year:   2018,
		Genre:  "Animation",
		Poster: "https://m.media-amazon.com/images/M/MV5BMjMwNDkxMTgzOF5BMl5BanBnXkFtZTgwNTkwNTQ3NjM@._V1_SX300.jpg",
		Plot:   "Teen Miles Morales becomes the Spider-Man of his universe, and must join with five spider-powered individuals from other dimensions to stop a threat for all realities.",
	},
	{
		Title:  "The Shawshank Redemption",
		Year:   1994,
		Genre:  "Drama",
		Poster: "https://m.media-amazon.com/images/M/MV5BNDE3ODcxYzMtY2YzZC00NmNlLWJiNDMtZDViZWM2MzIxZDYwXkEyXkFqcGdeQXVyNjAwNDUxODI@._V1_SX300.jpg",
		Plot:   "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
	},
	{
		Title:  "Interstellar",
		Year:   2014,
		Genre:  "Sci-Fi",
		Poster: "https://m.media-amazon.com/images/M/MV5BZjdkOTU3MDktN2IxOS00OGEyLWFmMjktY2FiMmZkNWIyODZiXkEyXkFqcGdeQXVyMTMxODk2OTU@._V1_SX300.jpg",
		Plot:   "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
	},
	{
		Title:  "The Lion King",
		Year:   1994,
		Genre:  "Animation",
		Poster: "https://m.media-amazon.com/images/M/MV5BYTYxNGMyZTYtMjE3MS00MzNjLWFjNmYtMDk3N2FmM2JiM2M1XkEyXkFqcGdeQXVyNjY5NDU4NzI@._V1_SX300.jpg",
		Plot:   "Lion prince Simba and his father are targeted by his bitter uncle, who wants to ascend the throne himself.",
	},
	{
		Title:  "Avengers: Endgame",
		Year:   2019,
		Genre:  "Action",
		Poster: "https://m.media-amazon.com/images/M/MV5BMTc5MDE2ODcwNV5BMl5BanBnXkFtZTgwMzI2NzQ2NzM@._V1_SX300.jpg",
		Plot:   "After the devastating events of Infinity War, the Avengers assemble once more to reverse Thanos' actions and restore balance to the universe.",
	},
	{
		Title:  "Parasite",
		Year:   2019,
		Genre:  "Drama",
		Poster: "https://m.media-amazon.com/images/M/MV5BYWZjMjk3ZTItODQ2ZC00NTY5LWE0ZDYtZTI3MjcwN2Q5NTVkXkEyXkFqcGdeQXVyODk4OTc3MTY@._V1_SX300.jpg",
		Plot:   "Greed and class discrimination threaten the newly formed symbiotic relationship between the wealthy Park family and the destitute Kim clan.",
	},
	{
		Title:  "The Matrix",
		Year:   1999,
		Genre:  "Sci-Fi",
		Poster: "https://m.media-amazon.com/images/M/MV5BNzQzOTk3OTAtNDQ0Zi00ZTVkLWI0MTEtMDllZjNkYzNjNTc4L2ltYWdlXkEyXkFqcGdeQXVyNjU0OTQ0OTY@._V1_SX300.jpg",
		Plot:   "A computer hacker learns about the true nature of reality and his role in the war against its controllers.",
	},
	{
		Title:  "Forrest Gump",
		Year:   1994,
		Genre:  "Drama",
		Poster: "https://m.media-amazon.com/images/M/MV5BNWIwODRlZTUtY2U3ZS00Yzg1LWJhNzYtMmZiYmEyNmU1NjMzXkEyXkFqcGdeQXVyMTQxNzMzNDI@._V1_SX300.jpg",
		Plot:   "The history of the United States from the 1950s to the '70s unfolds from the perspective of an Alabama man with an IQ of 75.",
	},
	{
		Title:  "Toy Story",
		Year:   1995,
		Genre:  "Animation",
		Poster: "https://m.media-amazon.com/images/M/MV5BMDU2ZWJlMjktMTRhMy00ZTA5LWEzNDgtYmNmZTEwZTViZWJkXkEyXkFqcGdeQXVyNDQ2OTk4MzI@._V1_SX300.jpg",
		Plot:   "A cowboy doll is profoundly threatened and jealous when a new spaceman action figure supplants him as top toy in a boy's bedroom.",
	},
	{
		Title:  "Pulp Fiction",
		Year:   1994,
		Genre:  "Crime",
		Poster: "https://m.media-amazon.com/images/M/MV5BNGNhMDIzZTUtNTBlZi00MTRlLWFjM2ItYzViMjE3YzI5MjljXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_SX300.jpg",
		Plot:   "The lives of two mob hitmen, a boxer, a gangster and his wife intertwine in four tales of violence and redemption.",
	},
}

// SeedMovies inserts SampleMovies in one transaction when the store holds
// no movie.  It does nothing otherwise.
func SeedMovies(ctx context.Context, db *sqlx.DB) (err error) {
	n, err := repository.NewMovieRepo(db).Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	movies := repository.NewMovieRepo(tx)
	for _, m := range SampleMovies {
		if err = movies.Create(ctx, &m); err != nil {
			return err
		}
	}
	return nil
}
