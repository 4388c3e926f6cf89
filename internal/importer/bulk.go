package importer

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/school-workshop/movie-review-challenge/internal/logging"
	"github.com/school-workshop/movie-review-challenge/internal/metrics"
	"github.com/school-workshop/movie-review-challenge/internal/repository"
)

// BatchSize is the number of inserted movies per commit.
const BatchSize = 500

// Result tallies a bulk load.
type Result struct {
	Cleared int64 // movies removed before the import
	Loaded  int   // movies inserted
	Skipped int   // records missing title, year or plot
}

// BulkLoad replaces the whole catalog with the records of src.  All reviews
// and then all movies are deleted in one transaction; records are then
// normalized and inserted, committing every BatchSize movies.  limit > 0
// bounds the number of source records read.
func BulkLoad(ctx context.Context, db *sqlx.DB, src Source, limit int) (Result, error) {
	var res Result
	log := logging.With("importer")

	cleared, err := clearCatalog(ctx, db)
	if err != nil {
		return res, fmt.Errorf("clear catalog: %w", err)
	}
	res.Cleared = cleared
	if cleared > 0 {
		log.Info().Int64("movies", cleared).Msg("cleared existing movies")
	}

	var tx *sqlx.Tx
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()
	pending := 0

	for read := 0; limit <= 0 || read < limit; read++ {
		rec, err := src.Next()
		if isEOF(err) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read record %d: %w", read+1, err)
		}

		m, ok := Normalize(rec)
		if !ok {
			res.Skipped++
			metrics.ImportRecords.WithLabelValues("skipped").Inc()
			continue
		}

		if tx == nil {
			if tx, err = db.BeginTxx(ctx, nil); err != nil {
				return res, err
			}
		}
		if err := repository.NewMovieRepo(tx).Create(ctx, &m); err != nil {
			return res, fmt.Errorf("insert %q: %w", m.Title, err)
		}
		res.Loaded++
		pending++
		metrics.ImportRecords.WithLabelValues("loaded").Inc()

		if pending == BatchSize {
			err := tx.Commit()
			tx, pending = nil, 0
			if err != nil {
				return res, err
			}
			log.Info().Int("loaded", res.Loaded).Msg("batch committed")
		}
	}

	if tx != nil {
		err := tx.Commit()
		tx = nil
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// clearCatalog deletes reviews before movies so no review is left pointing
// at a removed movie.
func clearCatalog(ctx context.Context, db *sqlx.DB) (cleared int64, err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = repository.NewReviewRepo(tx).DeleteAll(ctx); err != nil {
		return 0, err
	}
	return repository.NewMovieRepo(tx).DeleteAll(ctx)
}
