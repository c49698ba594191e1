package artwork

import (
	"sort"
	"strings"

	"posterlang/internal/config"
	"posterlang/internal/language"
)

// Kind identifies the artwork slot a candidate fills.
type Kind string

const (
	KindPoster   Kind = "poster"
	KindBackdrop Kind = "backdrop"
	KindLogo     Kind = "logo"
)

// Strategy selects the ranking bonus scheme. Values mirror the
// configuration strings.
type Strategy string

const (
	OriginalLanguageFirst Strategy = config.StrategyOriginalLanguageFirst
	NoTextPosterFirst     Strategy = config.StrategyNoTextPosterFirst
	HighestRatingFirst    Strategy = config.StrategyHighestRatingFirst
)

// ParseStrategy normalizes a strategy string. Unknown values degrade to
// pure rating order rather than failing.
func ParseStrategy(value string) Strategy {
	switch Strategy(strings.ToLower(strings.TrimSpace(value))) {
	case OriginalLanguageFirst:
		return OriginalLanguageFirst
	case NoTextPosterFirst:
		return NoTextPosterFirst
	default:
		return HighestRatingFirst
	}
}

// Candidate is one image under consideration.
type Candidate struct {
	Kind        Kind    `json:"kind"`
	Path        string  `json:"path"`
	Language    string  `json:"language"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
}

// Bonus values added to a candidate's vote average during scoring.
const (
	bonusStrong = 20.0
	bonusWeak   = 10.0
)

// Score computes a candidate's ranking score against the title's original
// language. Tagged candidates match by primary subtag; untagged candidates
// score by how much the strategy values textless artwork.
func Score(c Candidate, originalLanguage string, strategy Strategy) float64 {
	score := c.VoteAverage
	untagged := strings.TrimSpace(c.Language) == ""
	matches := !untagged && language.Match(c.Language, originalLanguage)

	switch strategy {
	case OriginalLanguageFirst:
		if matches {
			score += bonusStrong
		} else if untagged {
			score += bonusWeak
		}
	case NoTextPosterFirst:
		if untagged {
			score += bonusStrong
		} else if matches {
			score += bonusWeak
		}
	}
	return score
}

// Rank orders candidates best-first: score descending, vote count
// descending on ties, input order preserved beyond that. Candidates with
// an empty path are dropped. The input slice is not modified.
func Rank(candidates []Candidate, originalLanguage string, strategy Strategy) []Candidate {
	type scored struct {
		candidate Candidate
		score     float64
	}

	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.Path) == "" {
			continue
		}
		ranked = append(ranked, scored{candidate: c, score: Score(c, originalLanguage, strategy)})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ranked[a].candidate.VoteCount > ranked[b].candidate.VoteCount
	})

	out := make([]Candidate, len(ranked))
	for i, s := range ranked {
		out[i] = s.candidate
	}
	return out
}

// DisplayLanguage picks the language stamped on a selected image:
// the configured display language when set, else the candidate's own
// tag, else the title's original language.
func DisplayLanguage(preferred, candidateTag, originalLanguage string) string {
	if lang := strings.TrimSpace(preferred); lang != "" {
		return lang
	}
	if lang := strings.TrimSpace(candidateTag); lang != "" {
		return lang
	}
	return strings.TrimSpace(originalLanguage)
}
