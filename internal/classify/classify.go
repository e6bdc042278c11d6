// Package classify assigns one of the seven life-category layers to a
// piece of text using keyword scoring.
//
// The built-in keyword table is an immutable constant. Caller-supplied
// keywords are merged functionally into a fresh table per call, so
// concurrent classification can never interfere.
package classify

import (
	"sort"
	"strings"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

// locationBonus is added to the travel score when the caller reports a
// populated location field.
const locationBonus = 2

// Result is the outcome of classifying one text.
type Result struct {
	// Layer is the winning category.
	Layer domain.Layer

	// Score is the winning category's keyword count, including any
	// location bonus.
	Score int

	// Matched lists the keywords found in the text, in table order.
	Matched []string
}

// Options adjusts classification for one call.
type Options struct {
	// Extra extends the built-in keyword table per layer. The built-in
	// table is never mutated.
	Extra map[domain.Layer][]string

	// MinScore is the confidence floor; below it the default layer is
	// returned. Zero means domain.DefaultMinScore.
	MinScore int

	// HasLocation adds a fixed bonus to the travel score.
	HasLocation bool
}

// builtinKeywords is the immutable base table. Matching is substring
// based over lower-cased input, so multi-word phrases work too.
var builtinKeywords = map[domain.Layer][]string{
	domain.LayerEconomics: {
		"salary", "invoice", "purchase", "bank", "payment", "bill",
		"rent", "tax", "investment", "bought", "price", "paid",
		"shopping", "budget", "loan", "insurance", "refund",
	},
	domain.LayerEducation: {
		"school", "university", "course", "exam", "lecture", "study",
		"homework", "degree", "semester", "teacher", "tuition",
		"graduation", "classroom", "thesis", "scholarship",
	},
	domain.LayerWork: {
		"meeting", "project", "deadline", "office", "client",
		"interview", "presentation", "standup", "sprint", "conference",
		"colleague", "promotion", "shift", "workday", "review",
	},
	domain.LayerHealth: {
		"doctor", "dentist", "gym", "workout", "hospital", "medication",
		"therapy", "vaccine", "checkup", "yoga", "surgery", "diet",
		"illness", "pharmacy", "running",
	},
	domain.LayerRelationships: {
		"birthday", "wedding", "anniversary", "family", "friend",
		"party", "reunion", "engagement", "date night", "dinner with",
		"visit from", "baby shower", "farewell",
	},
	domain.LayerTravel: {
		"flight", "hotel", "vacation", "trip", "airport", "travel",
		"booking", "itinerary", "visa", "passport", "beach",
		"sightseeing", "train", "cruise", "holiday", "road trip",
	},
	domain.LayerMedia: {
		"photo", "movie", "concert", "music", "video", "book", "game",
		"album", "podcast", "festival", "exhibition", "reading",
		"screenshot", "recording",
	},
}

// Classify scores text against every layer and returns the winner.
// Ties break by the fixed layer-priority order, not by match order, so
// the outcome is deterministic. A score below the floor falls back to
// the default layer with zero score.
func Classify(text string, opts Options) Result {
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = domain.DefaultMinScore
	}

	lower := strings.ToLower(text)
	best := Result{Layer: domain.DefaultLayer}

	for _, layer := range domain.Layers() {
		score, matched := scoreLayer(lower, layer, opts)
		// Strictly greater: earlier layers in priority order win ties.
		if score > best.Score {
			best = Result{Layer: layer, Score: score, Matched: matched}
		}
	}

	if best.Score < minScore {
		return Result{Layer: domain.DefaultLayer}
	}
	return best
}

// ClassifyFields concatenates several structured fields (title, notes,
// category labels) before scoring, so a keyword in any of them counts.
func ClassifyFields(fields []string, opts Options) Result {
	return Classify(strings.Join(fields, " "), opts)
}

// ClassifyAll returns every layer with a positive score, ordered by
// score descending, ties in layer-priority order.
func ClassifyAll(text string, opts Options) []Result {
	lower := strings.ToLower(text)

	var results []Result
	for _, layer := range domain.Layers() {
		score, matched := scoreLayer(lower, layer, opts)
		if score > 0 {
			results = append(results, Result{Layer: layer, Score: score, Matched: matched})
		}
	}

	// Layers() already yields priority order; a stable sort keeps it
	// for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// scoreLayer counts keyword hits for one layer over lower-cased text.
func scoreLayer(lower string, layer domain.Layer, opts Options) (int, []string) {
	score := 0
	var matched []string
	for _, kw := range keywordsFor(layer, opts.Extra) {
		if strings.Contains(lower, kw) {
			score++
			matched = append(matched, kw)
		}
	}
	if layer == domain.LayerTravel && opts.HasLocation {
		score += locationBonus
	}
	return score, matched
}

// keywordsFor merges built-in and caller keywords into a fresh slice.
// The built-in table is shared state and must never be appended to.
func keywordsFor(layer domain.Layer, extra map[domain.Layer][]string) []string {
	builtin := builtinKeywords[layer]
	added := extra[layer]
	if len(added) == 0 {
		return builtin
	}
	merged := make([]string, 0, len(builtin)+len(added))
	merged = append(merged, builtin...)
	for _, kw := range added {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			merged = append(merged, kw)
		}
	}
	return merged
}
