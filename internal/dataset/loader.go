// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

// ErrMissingFile marks a required dataset file that does not exist. Startup
// treats it as a fatal configuration error.
var ErrMissingFile = errors.New("required dataset file missing")

// loader wraps a transient in-memory DuckDB connection used to ingest and
// aggregate the CSV files. The connection lives only for the duration of
// Load; the resulting Dataset is plain Go memory.
type loader struct {
	conn *sql.DB
	cfg  *config.DataConfig
}

// Load reads the three MovieLens CSV files, joins them on movieId and
// returns the immutable in-memory catalog. Any missing file is a fatal
// configuration error surfaced before the server starts.
func Load(ctx context.Context, cfg *config.DataConfig) (*Dataset, error) {
	start := time.Now()
	log := logging.WithComponent("dataset")

	paths := []string{cfg.MoviesPath(), cfg.RatingsPath(), cfg.TagsPath()}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
	}

	conn, err := openDuckDB(cfg)
	if err != nil {
		return nil, err
	}
	l := &loader{conn: conn, cfg: cfg}
	defer closeQuietly(conn)

	movies, err := l.loadMovies(ctx)
	if err != nil {
		return nil, err
	}

	ratings, ratingCount, err := l.loadRatings(ctx)
	if err != nil {
		return nil, err
	}

	tags, tagCount, err := l.loadTags(ctx)
	if err != nil {
		return nil, err
	}

	// Left joins: movies without ratings keep 0.0, without tags keep "".
	for i := range movies {
		m := &movies[i]
		if avg, ok := ratings[m.ID]; ok {
			m.Rating = avg
			m.Rated = true
		}
		m.TagText = strings.Join(tags[m.ID], " ")
		m.Doc = BuildDocument(m.TagText, m.GenresRaw)
	}

	ds := New(movies)
	ds.stats.Ratings = ratingCount
	ds.stats.Tags = tagCount
	ds.stats.Duration = time.Since(start)

	metrics.RecordDatasetLoad(ds.stats.Duration, ds.stats.Movies, ds.stats.Ratings, ds.stats.Tags)
	log.Info().
		Int("movies", ds.stats.Movies).
		Int("ratings", ds.stats.Ratings).
		Int("tags", ds.stats.Tags).
		Dur("duration", ds.stats.Duration).
		Msg("Dataset loaded")

	return ds, nil
}

// openDuckDB opens an in-memory DuckDB instance tuned by the data config.
func openDuckDB(cfg *config.DataConfig) (*sql.DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Empty path means in-memory. Auto-install/auto-load are disabled to
	// prevent hangs in restricted network environments.
	connStr := fmt.Sprintf("?threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return conn, nil
}

// loadMovies reads movies.csv ordered by movieId so corpus positions are
// deterministic across restarts.
func (l *loader) loadMovies(ctx context.Context) ([]Movie, error) {
	query := fmt.Sprintf(
		`SELECT movieId, title, genres
		 FROM read_csv(%s, header = true, types = {'movieId': 'BIGINT', 'title': 'VARCHAR', 'genres': 'VARCHAR'})
		 ORDER BY movieId`,
		quoteCSVPath(l.cfg.MoviesPath()))

	start := time.Now()
	rows, err := l.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("SELECT", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to read movies csv: %w", err)
	}
	defer closeQuietly(rows)

	var movies []Movie
	for rows.Next() {
		var (
			id     int64
			title  sql.NullString
			genres sql.NullString
		)
		if err := rows.Scan(&id, &title, &genres); err != nil {
			return nil, fmt.Errorf("failed to scan movie row: %w", err)
		}
		movies = append(movies, Movie{
			ID:        id,
			Title:     NormalizeTitle(title.String),
			RawTitle:  title.String,
			GenresRaw: genres.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movie rows: %w", err)
	}
	return movies, nil
}

// loadRatings aggregates ratings.csv to a mean rating per movie. The second
// return value is the total number of rating rows.
func (l *loader) loadRatings(ctx context.Context) (map[int64]float64, int, error) {
	query := fmt.Sprintf(
		`SELECT movieId, avg(rating) AS avg_rating, count(*) AS n
		 FROM read_csv(%s, header = true, types = {'movieId': 'BIGINT', 'rating': 'DOUBLE'})
		 GROUP BY movieId`,
		quoteCSVPath(l.cfg.RatingsPath()))

	start := time.Now()
	rows, err := l.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("SELECT", "ratings", time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read ratings csv: %w", err)
	}
	defer closeQuietly(rows)

	ratings := make(map[int64]float64)
	total := 0
	for rows.Next() {
		var (
			id  int64
			avg float64
			n   int
		)
		if err := rows.Scan(&id, &avg, &n); err != nil {
			return nil, 0, fmt.Errorf("failed to scan rating row: %w", err)
		}
		ratings[id] = avg
		total += n
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate rating rows: %w", err)
	}
	return ratings, total, nil
}

// loadTags collects tag text per movie in file order, so the concatenated
// tag document is deterministic. The second return value is the total number
// of tag rows.
func (l *loader) loadTags(ctx context.Context) (map[int64][]string, int, error) {
	// parallel = false keeps the CSV reader single-threaded so row_number()
	// reflects the on-disk order of tag applications.
	query := fmt.Sprintf(
		`SELECT movieId, tag FROM (
		   SELECT movieId, tag, row_number() OVER () AS rn
		   FROM read_csv(%s, header = true, types = {'movieId': 'BIGINT', 'tag': 'VARCHAR'}, parallel = false)
		 ) ORDER BY rn`,
		quoteCSVPath(l.cfg.TagsPath()))

	start := time.Now()
	rows, err := l.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("SELECT", "tags", time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read tags csv: %w", err)
	}
	defer closeQuietly(rows)

	tags := make(map[int64][]string)
	total := 0
	for rows.Next() {
		var (
			id  int64
			tag sql.NullString
		)
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, 0, fmt.Errorf("failed to scan tag row: %w", err)
		}
		total++
		cleaned := strings.ToLower(strings.TrimSpace(tag.String))
		if cleaned == "" {
			continue
		}
		tags[id] = append(tags[id], cleaned)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate tag rows: %w", err)
	}
	return tags, total, nil
}

// buildGenreIndex splits every movie's genre string, title-cases the tokens,
// discards the "(No Genres Listed)" sentinel and records frequencies. The
// ten most frequent genres are exposed for the life of the process.
func (d *Dataset) buildGenreIndex() {
	counts := make(map[string]int)
	for i := range d.movies {
		for _, token := range strings.Split(d.movies[i].GenresRaw, "|") {
			genre := TitleCase(strings.TrimSpace(token))
			if genre == "" || genre == noGenresSentinel {
				continue
			}
			counts[genre]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	// Most frequent first; ties broken alphabetically for determinism.
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > topGenreCount {
		names = names[:topGenreCount]
	}
	d.topGenres = names
	d.genreCounts = counts
}

// quoteCSVPath wraps a file path in single quotes for interpolation into a
// read_csv call. Table functions do not accept bound parameters, so the
// path is escaped by doubling embedded quotes.
func quoteCSVPath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", "''") + "'"
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
