// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package strategy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/tomtom215/cinegraph/internal/config"
)

const (
	// defaultMaxFeatures caps the vocabulary when the configured limit
	// is missing or non-positive.
	defaultMaxFeatures = 50000

	// minTokenRunes drops single-character tokens, matching the
	// \b\w\w+\b token pattern used by scikit-learn vectorizers.
	minTokenRunes = 2

	// ctxCheckInterval is how many documents are encoded between
	// context cancellation checks.
	ctxCheckInterval = 1024
)

// ErrCorpusNotEncoded is returned when a query is encoded before the
// corpus has been fitted.
var ErrCorpusNotEncoded = errors.New("corpus not encoded")

// posting is one document's weight for a vocabulary feature.
type posting struct {
	doc    int32
	weight float64
}

// termWeight pairs a vocabulary feature index with a tf-idf weight.
type termWeight struct {
	feature int
	weight  float64
}

// tfidfQuery is the encoded form of a lexical query: the query's
// L2-normalized tf-idf vector, sparse over the fitted vocabulary.
type tfidfQuery struct {
	terms []termWeight
}

// TFIDF scores documents by cosine similarity over tf-idf vectors. It
// reproduces the fit/transform behavior of scikit-learn's
// TfidfVectorizer with English stop words, word n-grams and smooth idf:
//
//	idf(t)  = ln((1 + numDocs) / (1 + df(t))) + 1
//	tfidf   = tf(t, d) * idf(t), then L2-normalized per document
//
// Vocabulary selection keeps the maxFeatures most frequent terms by
// total corpus count, ties broken alphabetically. Documents and queries
// with no in-vocabulary terms encode to zero vectors and score zero
// against everything.
//
// EncodeCorpus must be called exactly once before queries are encoded;
// after that the index is read-only and safe for concurrent use.
type TFIDF struct {
	maxFeatures int
	ngramMin    int
	ngramMax    int

	vocab    map[string]int
	idf      []float64
	postings [][]posting
	numDocs  int
	encoded  bool
}

// NewTFIDF builds an unfitted lexical strategy from configuration.
// Out-of-range n-gram bounds are clamped to sane values.
func NewTFIDF(cfg config.TFIDFConfig) *TFIDF {
	maxFeatures := cfg.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = defaultMaxFeatures
	}
	ngramMin := cfg.NGramMin
	if ngramMin < 1 {
		ngramMin = 1
	}
	ngramMax := cfg.NGramMax
	if ngramMax < ngramMin {
		ngramMax = ngramMin
	}
	return &TFIDF{
		maxFeatures: maxFeatures,
		ngramMin:    ngramMin,
		ngramMax:    ngramMax,
	}
}

// Name implements Strategy.
func (t *TFIDF) Name() string { return "lexical" }

// VocabSize reports the number of fitted vocabulary terms.
func (t *TFIDF) VocabSize() int { return len(t.vocab) }

// EncodeCorpus fits the vocabulary, idf weights and inverted index from
// the corpus documents. Document order defines the index space that
// Score reports similarities in.
func (t *TFIDF) EncodeCorpus(ctx context.Context, docs []string) error {
	if t.encoded {
		return errors.New("corpus already encoded")
	}

	// First pass: per-document term counts plus corpus-wide totals.
	docCounts := make([]map[string]int, len(docs))
	totals := make(map[string]int)
	docFreq := make(map[string]int)
	for i, doc := range docs {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("corpus encoding canceled: %w", err)
			}
		}
		counts := make(map[string]int)
		for _, term := range t.analyze(doc) {
			counts[term]++
		}
		docCounts[i] = counts
		for term, c := range counts {
			totals[term] += c
			docFreq[term]++
		}
	}

	// Keep the most frequent terms, alphabetical on ties, then assign
	// feature indices in term order for determinism.
	type termStat struct {
		term  string
		count int
		df    int
	}
	stats := make([]termStat, 0, len(totals))
	for term, count := range totals {
		stats = append(stats, termStat{term: term, count: count, df: docFreq[term]})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].term < stats[j].term
	})
	if len(stats) > t.maxFeatures {
		stats = stats[:t.maxFeatures]
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].term < stats[j].term })

	t.numDocs = len(docs)
	t.vocab = make(map[string]int, len(stats))
	t.idf = make([]float64, len(stats))
	for j, s := range stats {
		t.vocab[s.term] = j
		t.idf[j] = math.Log(float64(1+t.numDocs)/float64(1+s.df)) + 1
	}

	// Second pass: L2-normalize each document vector and scatter the
	// weights into per-feature posting lists.
	t.postings = make([][]posting, len(stats))
	weights := make([]termWeight, 0, 64)
	for i, counts := range docCounts {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("corpus encoding canceled: %w", err)
			}
		}
		weights = weights[:0]
		var sumSq float64
		for term, count := range counts {
			j, ok := t.vocab[term]
			if !ok {
				continue
			}
			w := float64(count) * t.idf[j]
			weights = append(weights, termWeight{feature: j, weight: w})
			sumSq += w * w
		}
		if sumSq == 0 {
			continue
		}
		norm := math.Sqrt(sumSq)
		for _, tw := range weights {
			t.postings[tw.feature] = append(t.postings[tw.feature], posting{
				doc:    int32(i),
				weight: tw.weight / norm,
			})
		}
	}

	t.encoded = true
	return nil
}

// EncodeQuery transforms a query into its sparse tf-idf vector using the
// fitted vocabulary and idf weights. Out-of-vocabulary queries encode to
// an empty vector.
func (t *TFIDF) EncodeQuery(_ context.Context, query string) (Query, error) {
	if !t.encoded {
		return nil, ErrCorpusNotEncoded
	}
	counts := make(map[string]int)
	for _, term := range t.analyze(query) {
		counts[term]++
	}
	terms := make([]termWeight, 0, len(counts))
	var sumSq float64
	for term, count := range counts {
		j, ok := t.vocab[term]
		if !ok {
			continue
		}
		w := float64(count) * t.idf[j]
		terms = append(terms, termWeight{feature: j, weight: w})
		sumSq += w * w
	}
	if sumSq > 0 {
		norm := math.Sqrt(sumSq)
		for i := range terms {
			terms[i].weight /= norm
		}
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].feature < terms[j].feature })
	return tfidfQuery{terms: terms}, nil
}

// Score computes the cosine similarity of the encoded query against
// every corpus document. Both sides are unit-length, so the similarity
// is a plain sparse dot product over the inverted index.
func (t *TFIDF) Score(q Query) []float64 {
	sims := make([]float64, t.numDocs)
	tq, ok := q.(tfidfQuery)
	if !ok {
		return sims
	}
	for _, tw := range tq.terms {
		for _, p := range t.postings[tw.feature] {
			sims[p.doc] += tw.weight * p.weight
		}
	}
	return sims
}

// analyze lower-cases the text, tokenizes it, drops English stop words
// and expands the surviving token stream into word n-grams.
func (t *TFIDF) analyze(text string) []string {
	tokens := tokenize(strings.ToLower(text))
	kept := tokens[:0]
	for _, tok := range tokens {
		if !isStopWord(tok) {
			kept = append(kept, tok)
		}
	}
	if t.ngramMin == 1 && t.ngramMax == 1 {
		return kept
	}
	terms := make([]string, 0, len(kept)*(t.ngramMax-t.ngramMin+1))
	for n := t.ngramMin; n <= t.ngramMax; n++ {
		if n == 1 {
			terms = append(terms, kept...)
			continue
		}
		for i := 0; i+n <= len(kept); i++ {
			terms = append(terms, strings.Join(kept[i:i+n], " "))
		}
	}
	return terms
}

// tokenize splits text into maximal runs of letters, digits and
// underscores, keeping runs of at least minTokenRunes runes.
func tokenize(text string) []string {
	tokens := make([]string, 0, 16)
	start := -1
	runes := 0
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			if start < 0 {
				start = i
				runes = 0
			}
			runes++
			continue
		}
		if start >= 0 {
			if runes >= minTokenRunes {
				tokens = append(tokens, text[start:i])
			}
			start = -1
		}
	}
	if start >= 0 && runes >= minTokenRunes {
		tokens = append(tokens, text[start:])
	}
	return tokens
}
