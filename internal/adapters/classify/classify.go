package classify

import "context"

// Verdict is the classification outcome for one image. ClassIndex is the
// winning class after argmax; Person is true when that index equals the
// configured person class.
type Verdict struct {
	ClassIndex int
	Person     bool
	Scores     []float32
}

// Classifier judges whether an image contains a person. Implementations are
// deterministic for identical input within a single model version. Inference
// is a slow external call; callers bound it with a context deadline and
// never hold a lock across it.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (Verdict, error)
}

// ArgMax returns the index of the highest score. Ties resolve to the lowest
// index: the scan only replaces the winner on a strictly greater score.
// Returns -1 for an empty score vector.
func ArgMax(scores []float32) int {
	if len(scores) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

// VerdictFrom builds a Verdict from a raw score vector and the person class
// index.
func VerdictFrom(scores []float32, personClass int) Verdict {
	idx := ArgMax(scores)
	return Verdict{
		ClassIndex: idx,
		Person:     idx >= 0 && idx == personClass,
		Scores:     scores,
	}
}
