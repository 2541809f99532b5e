// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/dataset"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/recommend/strategy"
)

// testMovies is a small catalog with known ratings and corpus documents.
// Documents are pre-built the way the loader builds them: lower-cased tag
// text plus the genre tokens.
func testMovies() []dataset.Movie {
	return []dataset.Movie{
		{ID: 1, Title: "The Matrix (1999)", GenresRaw: "Action|Sci-Fi", Rating: 4.5, Rated: true,
			Doc: "dystopia hacker simulation action sci-fi"},
		{ID: 2, Title: "Paprika (2006)", GenresRaw: "Animation|Sci-Fi", Rating: 4.8, Rated: true,
			Doc: "dream dystopia surreal animation sci-fi"},
		{ID: 3, Title: "Stand Up (2010)", GenresRaw: "Comedy", Rating: 3.0, Rated: true,
			Doc: "standup jokes comedy"},
		{ID: 4, Title: "Unseen (2001)", GenresRaw: "Documentary", Rating: 0, Rated: false,
			Doc: "archival footage documentary"},
		{ID: 5, Title: "Punchline (2015)", GenresRaw: "Action|Comedy", Rating: 4.0, Rated: true,
			Doc: "martial arts jokes action comedy"},
	}
}

// newTestServer builds a full router over the fixture catalog with the
// lexical strategy, ready for httptest requests.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Security.RateLimitDisabled = true

	ds := dataset.New(testMovies())
	strat := strategy.NewTFIDF(cfg.Engine.TFIDF)
	eng := recommend.NewEngine(ds, strat, nil, cfg.API.DefaultRecommendN)
	if err := eng.EncodeCorpus(context.Background()); err != nil {
		t.Fatalf("EncodeCorpus failed: %v", err)
	}

	srv := httptest.NewServer(NewRouter(cfg, ds, eng).SetupChi())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding %s response: %v", url, err)
	}
	return resp
}

func TestRoot(t *testing.T) {
	srv := newTestServer(t)

	var body RootResponse
	resp := getJSON(t, srv.URL+"/", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body.Message != "Cinegraph API running!" {
		t.Errorf("message = %q", body.Message)
	}
	if body.Mode != "lexical" {
		t.Errorf("mode = %q, want lexical", body.Mode)
	}
}

func TestTopGenres(t *testing.T) {
	srv := newTestServer(t)

	var genres []string
	getJSON(t, srv.URL+"/top-genres", &genres)

	if len(genres) == 0 || len(genres) > 10 {
		t.Fatalf("got %d genres, want 1..10", len(genres))
	}
	// Action, Comedy and Sci-Fi each appear on two movies; the three-way
	// tie is broken alphabetically.
	want := []string{"Action", "Comedy", "Sci-Fi"}
	for i, g := range want {
		if genres[i] != g {
			t.Errorf("genres[%d] = %q, want %q (full list %v)", i, genres[i], g, genres)
		}
	}
	for _, g := range genres {
		if g == "(No Genres Listed)" {
			t.Error("sentinel genre leaked into top genres")
		}
	}
}

func TestRecommend(t *testing.T) {
	srv := newTestServer(t)

	var results []recommend.RankedMovie
	resp := getJSON(t, srv.URL+"/recommend?query=dystopia&n=2", &results)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Movies 1 and 2 both mention dystopia; within the candidate set the
	// higher-rated Paprika (4.8) outranks The Matrix (4.5).
	if results[0].MovieID != 2 || results[1].MovieID != 1 {
		t.Errorf("order = [%d %d], want [2 1]", results[0].MovieID, results[1].MovieID)
	}
	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("results[%d].Rank = %d, want %d", i, r.Rank, i+1)
		}
	}
	if results[0].Rating != 4.8 {
		t.Errorf("top rating = %v, want 4.8", results[0].Rating)
	}
}

func TestRecommendEmptyQuery(t *testing.T) {
	srv := newTestServer(t)

	for _, q := range []string{"", "query=", "query=%20%20"} {
		url := srv.URL + "/recommend"
		if q != "" {
			url += "?" + q
		}
		var results []recommend.RankedMovie
		resp := getJSON(t, url, &results)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", url, resp.StatusCode)
		}
		if len(results) != 0 {
			t.Errorf("GET %s returned %d results, want 0", url, len(results))
		}
	}
}

func TestRecommendIdempotent(t *testing.T) {
	srv := newTestServer(t)

	var first, second []recommend.RankedMovie
	getJSON(t, srv.URL+"/recommend?query=jokes&n=5", &first)
	getJSON(t, srv.URL+"/recommend?query=jokes&n=5", &second)

	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("results[%d] differ: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRecommendMalformedNUsesDefault(t *testing.T) {
	srv := newTestServer(t)

	// A bad n must not error; the full fixture catalog fits under the
	// default of 100 so all five movies come back.
	for _, n := range []string{"abc", "-3", "0", "1.5"} {
		var results []recommend.RankedMovie
		resp := getJSON(t, srv.URL+"/recommend?query=dystopia&n="+n, &results)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("n=%s status = %d, want 200", n, resp.StatusCode)
		}
		if len(results) != 5 {
			t.Errorf("n=%s returned %d results, want 5", n, len(results))
		}
	}
}

func TestMoviesByGenre(t *testing.T) {
	srv := newTestServer(t)

	var results []recommend.RankedMovie
	resp := getJSON(t, srv.URL+"/movies-by-genre?genre=action&limit=2", &results)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Action movies are 1 (4.5) and 5 (4.0); rating descending.
	if results[0].MovieID != 1 || results[1].MovieID != 5 {
		t.Errorf("order = [%d %d], want [1 5]", results[0].MovieID, results[1].MovieID)
	}
	if results[0].Rank != 1 || results[1].Rank != 2 {
		t.Errorf("ranks = [%d %d], want [1 2]", results[0].Rank, results[1].Rank)
	}
}

func TestMoviesByGenreMissingParam(t *testing.T) {
	srv := newTestServer(t)

	var results []recommend.RankedMovie
	resp := getJSON(t, srv.URL+"/movies-by-genre", &results)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for missing genre, want 0", len(results))
	}
}

func TestFeedback(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantOK     bool
		wantError  string
	}{
		{"accepted", `{"message": "great site"}`, http.StatusOK, true, ""},
		{"with email", `{"message": "more genres please", "email": "a@b.c"}`, http.StatusOK, true, ""},
		{"empty message", `{"message": ""}`, http.StatusOK, false, "Message is empty."},
		{"whitespace message", `{"message": "   "}`, http.StatusOK, false, "Message is empty."},
		{"invalid body", `{not json`, http.StatusBadRequest, false, "Invalid request body."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/feedback", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var ack FeedbackResponse
			if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if ack.OK != tt.wantOK {
				t.Errorf("ok = %v, want %v", ack.OK, tt.wantOK)
			}
			if ack.Error != tt.wantError {
				t.Errorf("error = %q, want %q", ack.Error, tt.wantError)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	var health HealthResponse
	resp := getJSON(t, srv.URL+"/healthz", &health)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
	if health.Strategy != "lexical" {
		t.Errorf("strategy = %q, want lexical", health.Strategy)
	}
	if health.Movies != 5 {
		t.Errorf("movies = %d, want 5", health.Movies)
	}
}

func TestIntParam(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 50},
		{"n=10", 10},
		{"n=abc", 50},
		{"n=0", 50},
		{"n=-7", 50},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/recommend?"+tt.query, nil)
		if got := intParam(r, "n", 50); got != tt.want {
			t.Errorf("intParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
