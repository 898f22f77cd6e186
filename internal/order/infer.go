package order

import (
	"context"
	"fmt"
	"io"

	"github.com/Anthya1104/raid-forensic/internal/config"
	"github.com/Anthya1104/raid-forensic/internal/raiderr"
)

// File is one candidate member image to be placed in the member order.
type File struct {
	ID     string
	Reader io.ReaderAt
}

// signature builds S_N = ('1' * (N-1) + '0') repeated twice, length 2N.
func signature(n int) []bool {
	unit := make([]bool, n)
	for i := 0; i < n-1; i++ {
		unit[i] = true
	}
	// unit[n-1] already false
	sig := make([]bool, 0, 2*n)
	sig = append(sig, unit...)
	sig = append(sig, unit...)
	return sig
}

// find returns the index of the first occurrence of sig in b, or -1.
func find(b, sig []bool) int {
	if len(sig) > len(b) {
		return -1
	}
	for i := 0; i+len(sig) <= len(b); i++ {
		match := true
		for j, v := range sig {
			if b[i+j] != v {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// GuessOrder locates the rotational column of each file by searching
// its classifier bit-string for the parity signature, per §4.7.
func GuessOrder(ctx context.Context, files []File, pageSize int64, firstPage, pageCount int64, n, workers int) ([]File, error) {
	sig := signature(n)

	cols := make([]int, len(files))
	for i, f := range files {
		bits, err := ClassifyRange(ctx, f.Reader, pageSize, firstPage, pageCount, workers)
		if err != nil {
			return nil, fmt.Errorf("order: classifying %q: %w", f.ID, err)
		}

		idx := find(bits, sig)
		if idx < 0 {
			return nil, fmt.Errorf("%w: no signature found in %q", raiderr.ErrOrderUndetermined, f.ID)
		}

		// The signature's first occurrence starts one page after the
		// parity page closest behind it; on a member truly at column
		// c, idx mod N == (N - c) mod N (validated against synthesised
		// left-asymmetric input per the design doc's resolution of
		// §9's open question about this derivation).
		cols[i] = (n - (idx % n)) % n
	}

	placed := make([]*File, n)
	for i, col := range cols {
		if placed[col] != nil {
			return nil, fmt.Errorf("%w: both %q and %q resolved to column %d", raiderr.ErrOrderCollision, placed[col].ID, files[i].ID, col)
		}
		f := files[i]
		placed[col] = &f
	}

	order := make([]File, n)
	for i, p := range placed {
		if p == nil {
			return nil, fmt.Errorf("%w: not every column was resolved", raiderr.ErrOrderUndetermined)
		}
		order[i] = *p
	}

	// Note: §4.7's prose describes reversing this vector before
	// returning it; that step is dropped here per the source's own
	// open question about its validity (design doc §9) and because
	// Testable Property 7 requires the *original* column order back,
	// which is exactly `order` as built directly from `placed`.
	return order, nil
}

// GuessPageSize tries each candidate page size, largest first, and
// returns the first one for which the parity signature is found (§4.7:
// the descending order deliberately selects the largest plausible
// unit, since a correct P also matches at P/2).
func GuessPageSize(ctx context.Context, f File, n, workers int, candidatesKB []int64, pageCount int64) (int64, bool, error) {
	if candidatesKB == nil {
		candidatesKB = config.CandidatePageSizesKB
	}
	sig := signature(n)

	for _, kb := range candidatesKB {
		pageSize := kb * 1024
		bits, err := ClassifyRange(ctx, f.Reader, pageSize, 0, pageCount, workers)
		if err != nil {
			return 0, false, fmt.Errorf("order: classifying at %dKiB pages: %w", kb, err)
		}
		if find(bits, sig) >= 0 {
			return pageSize, true, nil
		}
	}

	return 0, false, nil
}
