package catalog

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to limit catalog names close to name, best match first.
// Exact and prefix matches rank above edit-distance matches.
func Suggest(name string, list []string, limit int) []string {
	token := strings.ToLower(strings.TrimSpace(name))
	if token == "" || limit <= 0 {
		return nil
	}

	type scored struct {
		val   string
		score float64
	}
	results := make([]scored, 0, len(list))
	for _, cand := range list {
		lower := strings.ToLower(cand)
		var score float64
		switch {
		case lower == token:
			score = 1.0
		case strings.HasPrefix(lower, token):
			score = 0.9
		case strings.Contains(lower, token):
			score = 0.8
		default:
			dist := levenshtein.ComputeDistance(token, lower)
			if dist > distanceLimit(utf8.RuneCountInString(lower)) {
				continue
			}
			score = 0.72 - 0.08*float64(dist)
		}
		results = append(results, scored{val: cand, score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].val < results[j].val
		}
		return results[i].score > results[j].score
	})

	out := make([]string, 0, limit)
	for _, r := range results {
		if len(out) >= limit {
			break
		}
		out = append(out, r.val)
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
