package cobra

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Anthya1104/raid-forensic/internal/raiderr"
)

// ParsePageRange parses --page-range's comma-separated tokens, each
// either an integer, a dash-range "a-b" (inclusive), or the literal
// "all". "all" expands against maxPage (a known-covered page count),
// since the spec's page ranges are always scoped to a concrete scan.
func ParsePageRange(spec string, maxPage int64) ([]int64, error) {
	var pages []int64
	seen := map[int64]bool{}
	add := func(p int64) {
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}

	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if tok == "all" {
			for p := int64(0); p < maxPage; p++ {
				add(p)
			}
			continue
		}
		if dash := strings.Index(tok, "-"); dash > 0 {
			loStr, hiStr := tok[:dash], tok[dash+1:]
			lo, err := strconv.ParseInt(loStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid page range token %q", raiderr.ErrArgument, tok)
			}
			hi, err := strconv.ParseInt(hiStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid page range token %q", raiderr.ErrArgument, tok)
			}
			if hi < lo {
				return nil, fmt.Errorf("%w: invalid page range token %q", raiderr.ErrArgument, tok)
			}
			for p := lo; p <= hi; p++ {
				add(p)
			}
			continue
		}
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid page range token %q", raiderr.ErrArgument, tok)
		}
		add(v)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: page range %q selected no pages", raiderr.ErrArgument, spec)
	}
	return pages, nil
}
