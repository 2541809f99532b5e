// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import "math"

// RankedMovie is one row of a ranked result list, for both query
// recommendations and genre listings.
type RankedMovie struct {
	// Rank is the 1-based position in the result list.
	Rank int `json:"rank"`

	// MovieID is the MovieLens movieId.
	MovieID int64 `json:"movieId"`

	// Title is the display title with a leading article restored.
	Title string `json:"title"`

	// Rating is the mean rating rounded to two decimal places. Movies
	// with no ratings report 0.
	Rating float64 `json:"rating"`
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
