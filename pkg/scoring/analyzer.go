// Package scoring turns a noisy transcript plus a recognizer confidence into
// a deterministic 0-100 pronunciation score and diagnostic hints.
package scoring

import (
	"math"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/antzucaro/matchr"

	"github.com/wordwhiz/wordwhiz/pkg/phonetic"
)

// Result is the outcome of analyzing one pronunciation attempt.
type Result struct {
	Score         int
	PhonemeErrors []string
	Success       bool
}

const (
	// successThreshold is the banded score at which an attempt passes.
	successThreshold = 80
	// exactMatchConfidence gates the perfect-match fast path.
	exactMatchConfidence = 0.85

	phoneticWeight   = 0.4
	stringWeight     = 0.2
	confidenceWeight = 0.4
)

// Analyze scores a spoken attempt against the target word. The scoring bands
// and weights are load-bearing: attempt history persisted by earlier versions
// uses the same scale, so any change here breaks comparability.
func Analyze(targetWord, transcript string, confidence float64) Result {
	target := strings.ToLower(strings.TrimSpace(targetWord))
	spoken := strings.ToLower(strings.TrimSpace(transcript))

	// Unambiguous high-confidence match skips the phonetic penalty entirely.
	if spoken == target && confidence > exactMatchConfidence {
		return Result{Score: 100, PhonemeErrors: []string{}, Success: true}
	}

	targetKey := phonetic.Key(target)
	spokenKey := phonetic.Key(spoken)

	maxLen := len(targetKey)
	if len(spokenKey) > maxLen {
		maxLen = len(spokenKey)
	}
	phoneticSim := 0.0
	if maxLen > 0 {
		distance := matchr.Levenshtein(targetKey, spokenKey)
		phoneticSim = 1 - float64(distance)/float64(maxLen)
	}

	stringSim := bigramSimilarity(target, spoken)

	base := phoneticWeight*phoneticSim + stringWeight*stringSim + confidenceWeight*confidence

	// Piecewise rescale: stretch the top bands so near-perfect blends land
	// near 100 instead of compressing toward 80.
	var score float64
	switch {
	case base >= 0.80:
		score = math.Round(80 + (base-0.80)*100)
	case base >= 0.60:
		score = math.Round(60 + (base-0.60)*100)
	default:
		score = math.Round(base * 100)
	}

	return Result{
		Score:         clampScore(int(score)),
		PhonemeErrors: identifyErrors(target, spoken),
		Success:       score >= successThreshold,
	}
}

func bigramSimilarity(a, b string) float64 {
	dice := metrics.NewSorensenDice()
	dice.NgramSize = 2
	return strutil.Similarity(a, b, dice)
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
