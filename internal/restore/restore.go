// Package restore implements the restore operation (§6.4): writing the
// reconstructed logical volume as a raw binary file.
package restore

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/Anthya1104/raid-forensic/internal/config"
	"github.com/Anthya1104/raid-forensic/internal/page"
	"github.com/Anthya1104/raid-forensic/internal/parity"
	"github.com/Anthya1104/raid-forensic/internal/raiderr"
	"github.com/Anthya1104/raid-forensic/internal/stripe"
	"github.com/sirupsen/logrus"
)

// ProgressFunc is invoked after every config.RestoreProgressEveryPages
// stripes have been written.
type ProgressFunc func(done, total int64)

// Run reads every stripe in pages from files (column-correct order),
// verifies parity, and appends the N-1 data pages in ascending logical
// order to out. No header, no trailer. It aborts with
// ErrParityMismatch on the first broken stripe, leaving out partially
// written.
func Run(ctx context.Context, files []io.ReaderAt, pageSize int64, pages []int64, out io.Writer, progress ProgressFunc) error {
	n := len(files)

	for i, st := range pages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		bufs := make([]page.Page, n)
		for col, f := range files {
			p, err := page.ReadPage(f, pageSize, st)
			if err != nil {
				return fmt.Errorf("restore: reading stripe %d column %d: %w", st, col, err)
			}
			bufs[col] = p
		}

		ok, err := parity.ParityHolds(bufs)
		if err != nil {
			return fmt.Errorf("restore: parity check on stripe %d: %w", st, err)
		}
		if !ok {
			return fmt.Errorf("%w: stripe %d", raiderr.ErrParityMismatch, st)
		}

		slots := stripe.Map(n, st)
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool { return slots[order[i]] < slots[order[j]] })
		// order[0]'s slot value is always stripe.Parity; drop it.
		for _, col := range order[1:] {
			if _, err := out.Write(bufs[col]); err != nil {
				return fmt.Errorf("restore: writing stripe %d column %d: %w", st, col, err)
			}
		}

		if progress != nil && (i+1)%config.RestoreProgressEveryPages == 0 {
			progress(int64(i+1), int64(len(pages)))
		}
		if (i+1)%config.RestoreProgressEveryPages == 0 {
			logrus.Infof("[restore] progress: %d/%d stripes", i+1, len(pages))
		}
	}

	return nil
}
