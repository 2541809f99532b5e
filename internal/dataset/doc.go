// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package dataset loads the MovieLens-style CSV files into an immutable
in-memory catalog and derives everything the recommendation engine and the
API need from it: normalized titles, mean ratings, corpus documents and the
genre index.

# Input Files

Three CSV files are required; startup aborts if any is missing:

  - movies.csv:  movieId,title,genres
  - ratings.csv: userId,movieId,rating,timestamp
  - tags.csv:    userId,movieId,tag,timestamp

The files are ingested through a transient in-memory DuckDB instance, which
handles CSV quoting, type coercion and the rating aggregation. The DuckDB
connection is closed before Load returns; the Dataset itself is plain Go
memory.

# Derived Fields

For every movie the loader computes:

  - Title: "Matrix, The (1999)" becomes "The Matrix (1999)" (leading article
    restored when the trailing parenthesized year is present)
  - Rating: arithmetic mean of all its ratings, 0.0 when unrated
  - TagText: lower-cased space-joined tags in file order
  - Doc: the corpus document handed to the similarity strategies

The genre index splits every genre string on "|", title-cases the tokens,
discards the "(no genres listed)" sentinel and keeps the ten most frequent
names.

# Concurrency

A Dataset is never mutated after Load returns, so all methods are safe for
concurrent use without locking.
*/
package dataset
