package search

// Relaxation defaults. The cutoff is lowered by Step until enough
// candidates pass or Floor is hit.
const (
	DefaultRelaxStep = 0.05
	DefaultFloor     = 0.0
)

// relaxation holds the adaptive threshold parameters.
type relaxation struct {
	floor float64
	step  float64
}

// applyThreshold selects candidates from a ranked (descending) list using
// an adaptively relaxed similarity cutoff:
//
//  1. keep candidates scoring >= threshold; if at least minResults pass,
//     return the top limit of them;
//  2. otherwise lower the threshold by step (monotonically) and re-filter,
//     stopping once minResults pass or the floor is reached;
//  3. at the floor, return whatever passes, possibly fewer than
//     minResults. Results are never fabricated.
//
// Scores are true similarities throughout; selection never reorders. The
// effective threshold that produced the final set is returned alongside.
func applyThreshold(ranked []candidate, threshold float64, minResults, limit int, relax relaxation) ([]candidate, float64) {
	if len(ranked) == 0 {
		return nil, threshold
	}

	step := relax.step
	if step <= 0 {
		step = DefaultRelaxStep
	}

	effective := threshold
	for {
		passing := countAtOrAbove(ranked, effective)
		if passing >= minResults || effective <= relax.floor {
			if passing > limit {
				passing = limit
			}
			return ranked[:passing], effective
		}
		effective -= step
		if effective < relax.floor {
			effective = relax.floor
		}
	}
}

// countAtOrAbove returns how many candidates score >= cutoff. The list is
// sorted descending, so passing candidates form a prefix.
func countAtOrAbove(ranked []candidate, cutoff float64) int {
	n := 0
	for _, c := range ranked {
		if c.score < cutoff {
			break
		}
		n++
	}
	return n
}
