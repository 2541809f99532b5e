// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/cinegraph/internal/config"
)

const (
	testMoviesCSV = `movieId,title,genres
1,"Matrix, The (1999)",Action|Sci-Fi|Thriller
2,Inception (2010),Action|Sci-Fi
3,Clerks (1994),Comedy
4,Unseen Film (2020),(no genres listed)
5,"Quiet Drama, A (2001)",Drama
`

	testRatingsCSV = `userId,movieId,rating,timestamp
1,1,3.0,964982703
2,1,4.0,964982931
3,1,5.0,964982224
1,2,5.0,964983815
2,3,2.5,964982400
3,5,4.5,964982500
`

	testTagsCSV = `userId,movieId,tag,timestamp
1,1,bullet time,1445714994
2,1,Dystopia,1445714996
1,2,dreams,1445715000
2,3,"indie, low budget",1445715100
`
)

// writeTestDataset writes the fixture CSVs to a temp dir and returns the
// data config pointing at them.
func writeTestDataset(t *testing.T) *config.DataConfig {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"movies.csv":  testMoviesCSV,
		"ratings.csv": testRatingsCSV,
		"tags.csv":    testTagsCSV,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	return &config.DataConfig{
		Dir:         dir,
		MoviesFile:  "movies.csv",
		RatingsFile: "ratings.csv",
		TagsFile:    "tags.csv",
		MaxMemory:   "512MB",
	}
}

func loadTestDataset(t *testing.T) *Dataset {
	t.Helper()

	ds, err := Load(context.Background(), writeTestDataset(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return ds
}

func TestLoad(t *testing.T) {
	ds := loadTestDataset(t)

	if ds.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", ds.Len())
	}

	stats := ds.Stats()
	if stats.Movies != 5 {
		t.Errorf("Stats().Movies = %d, want 5", stats.Movies)
	}
	if stats.Ratings != 6 {
		t.Errorf("Stats().Ratings = %d, want 6", stats.Ratings)
	}
	if stats.Tags != 4 {
		t.Errorf("Stats().Tags = %d, want 4", stats.Tags)
	}
	if stats.RatedMovies != 4 {
		t.Errorf("Stats().RatedMovies = %d, want 4", stats.RatedMovies)
	}
}

func TestLoad_MoviesOrderedByID(t *testing.T) {
	ds := loadTestDataset(t)

	var prev int64
	for _, m := range ds.Movies() {
		if m.ID <= prev {
			t.Fatalf("movies not ordered by ID: %d after %d", m.ID, prev)
		}
		prev = m.ID
	}
}

func TestLoad_TitleNormalization(t *testing.T) {
	ds := loadTestDataset(t)

	m := ds.Movie(0)
	if m.Title != "The Matrix (1999)" {
		t.Errorf("Movie(0).Title = %q, want %q", m.Title, "The Matrix (1999)")
	}
	if m.RawTitle != "Matrix, The (1999)" {
		t.Errorf("Movie(0).RawTitle = %q, want %q", m.RawTitle, "Matrix, The (1999)")
	}

	if got := ds.Movie(4).Title; got != "A Quiet Drama (2001)" {
		t.Errorf("Movie(4).Title = %q, want %q", got, "A Quiet Drama (2001)")
	}
	if got := ds.Movie(1).Title; got != "Inception (2010)" {
		t.Errorf("Movie(1).Title = %q, want %q", got, "Inception (2010)")
	}
}

func TestLoad_MeanRatings(t *testing.T) {
	ds := loadTestDataset(t)

	tests := []struct {
		idx    int
		rating float64
		rated  bool
	}{
		{0, 4.0, true},  // mean of 3, 4, 5
		{1, 5.0, true},  // single rating
		{2, 2.5, true},  // single rating
		{3, 0.0, false}, // no ratings
		{4, 4.5, true},
	}

	for _, tt := range tests {
		m := ds.Movie(tt.idx)
		if m.Rating != tt.rating {
			t.Errorf("Movie(%d).Rating = %v, want %v", tt.idx, m.Rating, tt.rating)
		}
		if m.Rated != tt.rated {
			t.Errorf("Movie(%d).Rated = %v, want %v", tt.idx, m.Rated, tt.rated)
		}
	}
}

func TestLoad_TagTextFileOrder(t *testing.T) {
	ds := loadTestDataset(t)

	// Tags are lower-cased and joined in file order.
	if got := ds.Movie(0).TagText; got != "bullet time dystopia" {
		t.Errorf("Movie(0).TagText = %q, want %q", got, "bullet time dystopia")
	}

	// Quoted tag with an embedded comma survives CSV parsing.
	if got := ds.Movie(2).TagText; got != "indie, low budget" {
		t.Errorf("Movie(2).TagText = %q, want %q", got, "indie, low budget")
	}

	// Movies without tags have empty tag text.
	if got := ds.Movie(3).TagText; got != "" {
		t.Errorf("Movie(3).TagText = %q, want empty", got)
	}
}

// TestLoad_TagOrderInterleaved verifies a movie's tag text follows the
// on-disk row order even when its rows are interleaved with other movies'.
func TestLoad_TagOrderInterleaved(t *testing.T) {
	cfg := writeTestDataset(t)
	interleaved := `userId,movieId,tag,timestamp
1,2,zeta,1445715000
1,1,first,1445714990
2,2,alpha,1445715001
2,1,second,1445714991
3,1,third,1445714992
`
	if err := os.WriteFile(filepath.Join(cfg.Dir, "tags.csv"), []byte(interleaved), 0o600); err != nil {
		t.Fatalf("failed to write tags.csv: %v", err)
	}

	ds, err := Load(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := ds.Movie(0).TagText; got != "first second third" {
		t.Errorf("Movie(0).TagText = %q, want %q", got, "first second third")
	}
	if got := ds.Movie(1).TagText; got != "zeta alpha" {
		t.Errorf("Movie(1).TagText = %q, want %q", got, "zeta alpha")
	}
}

func TestLoad_CorpusDocuments(t *testing.T) {
	ds := loadTestDataset(t)

	tests := []struct {
		idx int
		doc string
	}{
		{0, "bullet time dystopia action sci-fi thriller"},
		{1, "dreams action sci-fi"},
		{2, "indie, low budget comedy"},
		{3, "(no genres listed)"},
		{4, "drama"},
	}

	for _, tt := range tests {
		if got := ds.Movie(tt.idx).Doc; got != tt.doc {
			t.Errorf("Movie(%d).Doc = %q, want %q", tt.idx, got, tt.doc)
		}
	}

	docs := ds.Docs()
	if len(docs) != ds.Len() {
		t.Fatalf("Docs() length = %d, want %d", len(docs), ds.Len())
	}
	if docs[0] != ds.Movie(0).Doc {
		t.Error("Docs() not aligned with movie order")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	files := []string{"movies.csv", "ratings.csv", "tags.csv"}

	for _, missing := range files {
		t.Run(missing, func(t *testing.T) {
			cfg := writeTestDataset(t)
			if err := os.Remove(filepath.Join(cfg.Dir, missing)); err != nil {
				t.Fatalf("failed to remove %s: %v", missing, err)
			}

			_, err := Load(context.Background(), cfg)
			if err == nil {
				t.Fatal("Load() = nil error, want missing-file error")
			}
			if !errors.Is(err, ErrMissingFile) {
				t.Errorf("Load() error = %v, want ErrMissingFile", err)
			}
		})
	}
}

func TestLoad_GenreIndex(t *testing.T) {
	ds := loadTestDataset(t)

	stats := ds.Stats()
	// Action, Sci-Fi, Thriller, Comedy, Drama; sentinel excluded.
	if stats.DistinctGenres != 5 {
		t.Errorf("Stats().DistinctGenres = %d, want 5", stats.DistinctGenres)
	}

	if got := ds.GenreCount("Action"); got != 2 {
		t.Errorf("GenreCount(Action) = %d, want 2", got)
	}
	if got := ds.GenreCount("(No Genres Listed)"); got != 0 {
		t.Errorf("GenreCount(sentinel) = %d, want 0", got)
	}

	top := ds.TopGenres()
	if len(top) != 5 {
		t.Fatalf("TopGenres() length = %d, want 5", len(top))
	}
	// Action and Sci-Fi both appear twice; alphabetical tie-break.
	if top[0] != "Action" || top[1] != "Sci-Fi" {
		t.Errorf("TopGenres()[:2] = %v, want [Action Sci-Fi]", top[:2])
	}
}

func TestQuoteCSVPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"plain path", "/data/movies.csv", "'/data/movies.csv'"},
		{"embedded quote", "/data/o'brien/movies.csv", "'/data/o''brien/movies.csv'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quoteCSVPath(tt.path); got != tt.want {
				t.Errorf("quoteCSVPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
