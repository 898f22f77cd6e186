// Package healthreport renders a parity scan's verdict into the
// human-readable summary the paritycheck subcommand prints, in the
// teacher's periodic-milestone logging idiom adapted into a final
// report rather than a live rebuild log.
package healthreport

import "fmt"

// Report summarizes one parity scan.
type Report struct {
	PagesChecked int
	PagesFailed  int
}

// PercentHealthy returns the share of checked pages whose parity held,
// 100 when no pages were checked.
func (r Report) PercentHealthy() float64 {
	if r.PagesChecked == 0 {
		return 100
	}
	passed := r.PagesChecked - r.PagesFailed
	return 100 * float64(passed) / float64(r.PagesChecked)
}

func (r Report) String() string {
	return fmt.Sprintf("checked %d page(s), %d failed (%.1f%% healthy)",
		r.PagesChecked, r.PagesFailed, r.PercentHealthy())
}
