package aigame

import (
	"math/rand"
	"strings"
)

// Level tunes how the engine opponent picks among candidate moves.
type Level string

const (
	LevelNovice       Level = "novice"
	LevelIntermediate Level = "intermediate"
	LevelMaster       Level = "master"
)

// ParseLevel maps a request value to a Level. Unknown values fall back to
// master.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(LevelNovice):
		return LevelNovice
	case string(LevelIntermediate):
		return LevelIntermediate
	default:
		return LevelMaster
	}
}

// preset holds the per-level selection knobs. PrimaryChoices bounds how far
// into the eval-sorted candidate list a pick may reach, CandidateWeights
// bias the draw toward the front and EvalNoise blurs scores before sorting.
type preset struct {
	PrimaryChoices   int
	CandidateWeights []float64
	EvalNoise        int
	UseBook          bool
}

func presetFor(l Level) preset {
	switch l {
	case LevelNovice:
		return preset{
			PrimaryChoices:   8,
			CandidateWeights: []float64{1, 1, 1, 1, 1, 1, 1, 1},
			EvalNoise:        150,
		}
	case LevelIntermediate:
		return preset{
			PrimaryChoices:   3,
			CandidateWeights: []float64{0.6, 0.25, 0.15},
			EvalNoise:        40,
			UseBook:          true,
		}
	default:
		return preset{
			PrimaryChoices:   1,
			CandidateWeights: []float64{1},
			UseBook:          true,
		}
	}
}

type candidate struct {
	Move   string
	EvalCP int
}

// selectCandidate draws one move from the eval-sorted candidates using the
// preset's weights. Candidates must be non-empty.
func selectCandidate(p preset, candidates []candidate, r *rand.Rand) candidate {
	limit := p.PrimaryChoices
	if limit > len(candidates) {
		limit = len(candidates)
	}
	total := 0.0
	for i := 0; i < limit; i++ {
		total += weightAt(p, i)
	}
	if total <= 0 {
		return candidates[0]
	}
	threshold := r.Float64() * total
	for i := 0; i < limit; i++ {
		threshold -= weightAt(p, i)
		if threshold <= 0 {
			return candidates[i]
		}
	}
	return candidates[0]
}

func weightAt(p preset, i int) float64 {
	if i < len(p.CandidateWeights) {
		return p.CandidateWeights[i]
	}
	return 1
}
