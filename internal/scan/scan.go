// Package scan implements the parity check scanner (§4.5): evaluating
// parity over a page range of an ordered tuple of member files.
package scan

import (
	"context"
	"fmt"
	"io"

	"github.com/Anthya1104/raid-forensic/internal/page"
	"github.com/Anthya1104/raid-forensic/internal/parity"
)

// Verdict is the outcome of a parity scan.
type Verdict struct {
	Passed       bool
	FailingPages []int64
}

// TestParity reads, for each page in pages, the N pages at that index
// across files (which MUST be in column-correct order) and evaluates
// ParityHolds. It never mutates state and is interruptible at page
// granularity via ctx.
func TestParity(ctx context.Context, files []io.ReaderAt, pageSize int64, pages []int64) (Verdict, error) {
	var failing []int64

	for _, idx := range pages {
		select {
		case <-ctx.Done():
			return Verdict{}, ctx.Err()
		default:
		}

		bufs := make([]page.Page, len(files))
		for i, f := range files {
			p, err := page.ReadPage(f, pageSize, idx)
			if err != nil {
				return Verdict{}, fmt.Errorf("scan: reading page %d from column %d: %w", idx, i, err)
			}
			bufs[i] = p
		}

		ok, err := parity.ParityHolds(bufs)
		if err != nil {
			return Verdict{}, fmt.Errorf("scan: parity check on page %d: %w", idx, err)
		}
		if !ok {
			failing = append(failing, idx)
		}
	}

	return Verdict{Passed: len(failing) == 0, FailingPages: failing}, nil
}
