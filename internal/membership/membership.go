// Package membership implements guess_set (§4.6): combinatorial
// membership detection over a candidate set of image files.
package membership

import (
	"context"
	"io"

	"github.com/Anthya1104/raid-forensic/internal/scan"
	"github.com/Anthya1104/raid-forensic/internal/workerpool"
)

// Mode selects how a combination is accepted.
type Mode int

const (
	// FirstMatch accepts a combination as soon as any sampled page
	// passes parity; fast, but a zero-filled or sparse page can pass
	// by coincidence.
	FirstMatch Mode = iota
	// TestAll accepts a combination only if every sampled page
	// passes; robust, at the cost of scanning every page.
	TestAll
)

// CandidateFile is one image file eligible for membership.
type CandidateFile struct {
	ID     string
	Reader io.ReaderAt
}

// Combination is one accepted unordered subset of candidates.
type Combination struct {
	Files []CandidateFile
}

// GuessSet enumerates all C(len(candidates), n) unordered combinations
// of candidates, evaluating parity per page, and returns those accepted
// under mode. The outer loop over combinations runs on a workers-sized
// pool; FirstMatch combinations exit their own scan early but the outer
// enumeration always evaluates every combination (the pool has no
// global early-exit, matching §4.6: "returns all accepted
// combinations").
func GuessSet(ctx context.Context, candidates []CandidateFile, n int, pageSize int64, pages []int64, mode Mode, workers int) ([]Combination, error) {
	combos := combinations(candidates, n)

	type result struct {
		ok bool
		c  Combination
	}

	results, err := workerpool.Map(ctx, workers, combos, func(_ int, combo []CandidateFile) result {
		accepted, scanErr := evaluate(ctx, combo, pageSize, pages, mode)
		if scanErr != nil {
			return result{ok: false}
		}
		return result{ok: accepted, c: Combination{Files: combo}}
	})
	if err != nil {
		return nil, err
	}

	var accepted []Combination
	for _, r := range results {
		if r.ok {
			accepted = append(accepted, r.c)
		}
	}
	return accepted, nil
}

func evaluate(ctx context.Context, combo []CandidateFile, pageSize int64, pages []int64, mode Mode) (bool, error) {
	readers := make([]io.ReaderAt, len(combo))
	for i, c := range combo {
		readers[i] = c.Reader
	}

	switch mode {
	case TestAll:
		v, err := scan.TestParity(ctx, readers, pageSize, pages)
		if err != nil {
			return false, err
		}
		return v.Passed, nil
	default: // FirstMatch
		for _, p := range pages {
			v, err := scan.TestParity(ctx, readers, pageSize, []int64{p})
			if err != nil {
				return false, err
			}
			if v.Passed {
				return true, nil
			}
		}
		return false, nil
	}
}

// combinations returns every n-element unordered subset of items,
// preserving items' relative order within each subset.
func combinations(items []CandidateFile, n int) [][]CandidateFile {
	var out [][]CandidateFile
	if n <= 0 || n > len(items) {
		return out
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	for {
		combo := make([]CandidateFile, n)
		for i, v := range idx {
			combo[i] = items[v]
		}
		out = append(out, combo)

		i := n - 1
		for i >= 0 && idx[i] == i+len(items)-n {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < n; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
