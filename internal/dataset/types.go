// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package dataset

import "time"

// Movie is one row of the joined catalog. All fields are computed once at
// load time; a Dataset is immutable after Load returns.
type Movie struct {
	// ID is the MovieLens movieId.
	ID int64

	// Title is the display title with a leading article restored,
	// e.g. "Matrix, The (1999)" becomes "The Matrix (1999)".
	Title string

	// RawTitle is the title exactly as it appears in movies.csv.
	RawTitle string

	// GenresRaw is the pipe-delimited genre string exactly as it appears
	// in movies.csv. Genre filtering matches against this string.
	GenresRaw string

	// TagText is the lower-cased, space-joined tag text for the movie,
	// in file order. Empty when the movie has no tags.
	TagText string

	// Rating is the arithmetic mean of all ratings for the movie.
	// Movies with no ratings have Rating 0.0, which sorts them last
	// under rating-descending order.
	Rating float64

	// Rated reports whether at least one rating exists for the movie.
	Rated bool

	// Doc is the corpus document the similarity strategies encode:
	// lower-cased, trimmed "tag text + space + genre text" with pipes
	// replaced by spaces.
	Doc string
}

// Stats summarizes a completed dataset load.
type Stats struct {
	Movies         int
	Ratings        int
	Tags           int
	RatedMovies    int
	DistinctGenres int
	Duration       time.Duration
}

// Dataset is the in-memory movie catalog. It is built once at startup and
// never mutated, so all methods are safe for concurrent use.
type Dataset struct {
	movies      []Movie
	topGenres   []string
	genreCounts map[string]int
	stats       Stats
}

// New builds a catalog from already-prepared movies, deriving the genre
// index and the stats that do not depend on the source files. CSV loading
// goes through Load; New serves in-memory construction.
func New(movies []Movie) *Dataset {
	d := &Dataset{movies: movies}
	d.buildGenreIndex()

	rated := 0
	for i := range movies {
		if movies[i].Rated {
			rated++
		}
	}
	d.stats = Stats{
		Movies:         len(movies),
		RatedMovies:    rated,
		DistinctGenres: len(d.genreCounts),
	}
	return d
}

// Len returns the number of movies in the catalog.
func (d *Dataset) Len() int {
	return len(d.movies)
}

// Movies returns all movies ordered by movieId ascending. The returned
// slice is shared; callers must not modify it.
func (d *Dataset) Movies() []Movie {
	return d.movies
}

// Movie returns the movie at corpus position i. Corpus positions are stable
// for the life of the process and match the order of Docs.
func (d *Dataset) Movie(i int) Movie {
	return d.movies[i]
}

// Docs returns the corpus documents in movie order, one per movie.
func (d *Dataset) Docs() []string {
	docs := make([]string, len(d.movies))
	for i := range d.movies {
		docs[i] = d.movies[i].Doc
	}
	return docs
}

// Stats returns load statistics.
func (d *Dataset) Stats() Stats {
	return d.stats
}
