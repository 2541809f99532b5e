// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package dataset

import (
	"sort"
	"strings"
)

const (
	// noGenresSentinel is the title-cased form of the MovieLens marker
	// for movies without genres. It is excluded from the genre index.
	noGenresSentinel = "(No Genres Listed)"

	// topGenreCount is how many genre names TopGenres exposes.
	topGenreCount = 10
)

// TopGenres returns the most frequent genre names, most frequent first with
// alphabetical tie-breaks. The list is fixed for the life of the process.
func (d *Dataset) TopGenres() []string {
	out := make([]string, len(d.topGenres))
	copy(out, d.topGenres)
	return out
}

// GenreCount returns how many movies carry the given title-cased genre.
func (d *Dataset) GenreCount(genre string) int {
	return d.genreCounts[genre]
}

// MoviesByGenre returns up to limit movies whose raw genre string contains
// the title-cased form of genre, ordered by rating descending with movieId
// ascending as tie-break. Matching is a substring test against GenresRaw,
// so "sci" matches Sci-Fi; an empty genre after trimming matches nothing.
func (d *Dataset) MoviesByGenre(genre string, limit int) []Movie {
	needle := TitleCase(strings.TrimSpace(genre))
	if needle == "" || limit <= 0 {
		return nil
	}

	var matched []Movie
	for i := range d.movies {
		if strings.Contains(d.movies[i].GenresRaw, needle) {
			matched = append(matched, d.movies[i])
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Rating != matched[j].Rating {
			return matched[i].Rating > matched[j].Rating
		}
		return matched[i].ID < matched[j].ID
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}
