// Package order implements the page classifier and rotational order /
// page size inference (§4.7): using a heuristic "looks like structured
// data" bit per page to locate the RAID5 parity signature and recover
// member order and page size.
package order

import (
	"context"
	"io"

	"github.com/Anthya1104/raid-forensic/internal/config"
	"github.com/Anthya1104/raid-forensic/internal/page"
	"github.com/Anthya1104/raid-forensic/internal/workerpool"
)

// IsPrintablePage returns false for an all-zero page; otherwise true
// iff the number of distinct byte values is strictly less than
// config.DistinctValueThreshold.
func IsPrintablePage(p page.Page) bool {
	var seen [256]bool
	distinct := 0
	allZero := true

	for _, b := range p {
		if b != 0 {
			allZero = false
		}
		if !seen[b] {
			seen[b] = true
			distinct++
		}
	}

	if allZero {
		return false
	}
	return distinct < config.DistinctValueThreshold
}

// ClassifyRange computes the classifier bit for every page in
// [firstPage, firstPage+count) of r, in parallel over workers, and
// returns the bit-string in input page order (the map is
// order-preserving, as §5's concurrency model requires).
func ClassifyRange(ctx context.Context, r io.ReaderAt, pageSize int64, firstPage, count int64, workers int) ([]bool, error) {
	indices := make([]int64, count)
	for i := range indices {
		indices[i] = firstPage + int64(i)
	}

	return workerpool.Map(ctx, workers, indices, func(_ int, idx int64) bool {
		p, err := page.ReadPage(r, pageSize, idx)
		if err != nil {
			return false
		}
		return IsPrintablePage(p)
	})
}
