// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package dataset

import (
	"regexp"
	"strings"
	"unicode"
)

// titleArticleRe matches the MovieLens "Name, Article (Year)" title
// convention. The trailing parenthesized 4-digit year is required; titles
// without it pass through unchanged.
var titleArticleRe = regexp.MustCompile(`^(.*?),\s(The|A|An)\s(\(\d{4}\))$`)

// NormalizeTitle restores a leading article to a MovieLens-style title:
// "Matrix, The (1999)" becomes "The Matrix (1999)". Titles that do not
// match the convention are returned unchanged.
func NormalizeTitle(title string) string {
	m := titleArticleRe.FindStringSubmatch(title)
	if m == nil {
		return title
	}
	// Trim the name so "Matrix , The (1999)" does not keep its stray space.
	return m[2] + " " + strings.TrimSpace(m[1]) + " " + m[3]
}

// BuildDocument builds the corpus document for one movie: tag text and the
// genre string (pipes replaced by spaces) joined with a space, lower-cased
// and trimmed. A movie with neither tags nor genres yields an empty document.
func BuildDocument(tagText, genresRaw string) string {
	genreText := strings.ReplaceAll(genresRaw, "|", " ")
	return strings.TrimSpace(strings.ToLower(tagText + " " + genreText))
}

// TitleCase upper-cases the first letter of every alphabetic run and
// lower-cases the rest, so "sci-fi" becomes "Sci-Fi" and "(no genres listed)"
// becomes "(No Genres Listed)". This is a replacement for the deprecated
// strings.Title that also capitalizes after non-letter characters, matching
// how genre names like Film-Noir are written in the dataset.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}
