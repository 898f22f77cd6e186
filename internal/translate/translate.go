// Package translate implements the block translator (§4.4): mapping a
// logical byte range on the reconstructed volume to the per-member page
// reads that satisfy it.
package translate

import (
	"fmt"
	"io"
	"sort"

	"github.com/Anthya1104/raid-forensic/internal/geometry"
	"github.com/Anthya1104/raid-forensic/internal/page"
	"github.com/Anthya1104/raid-forensic/internal/raiderr"
	"github.com/Anthya1104/raid-forensic/internal/stripe"
)

// MemberOpener resolves a zero-based RAID member index to a handle the
// translator can positionally read from. Implementations own member
// file lifetimes; the translator never opens or closes anything.
type MemberOpener interface {
	Member(idx int) (io.ReaderAt, error)
}

// Reader serves pread requests against a fixed geometry.
type Reader struct {
	Geometry *geometry.Geometry
	Members  MemberOpener
}

// New returns a Reader bound to geometry and an opener for the member
// handles it needs.
func New(g *geometry.Geometry, members MemberOpener) *Reader {
	return &Reader{Geometry: g, Members: members}
}

// PRead fills out with len(out) bytes starting at logical byte offset
// offset, per §4.4's algorithm. It terminates as soon as out is full and
// never caches results between calls.
func (t *Reader) PRead(out []byte, offset int64) (int, error) {
	length := int64(len(out))
	if length == 0 {
		return 0, fmt.Errorf("%w: zero-length read", raiderr.ErrBadShape)
	}

	g := t.Geometry
	n := g.N
	p := g.PageSize
	s := p * int64(n-1) // logical stripe byte size

	firstStripe := offset / s
	lastStripe := (offset + length - 1) / s
	headSkip := offset % s

	written := int64(0)
	for st := firstStripe; st <= lastStripe && written < length; st++ {
		stripeBuf, err := t.readStripe(st)
		if err != nil {
			return int(written), err
		}

		start := int64(0)
		if st == firstStripe {
			start = headSkip
		}
		avail := int64(len(stripeBuf)) - start
		if avail < 0 {
			avail = 0
		}
		remain := length - written
		take := avail
		if take > remain {
			take = remain
		}
		if take > 0 {
			copy(out[written:written+take], stripeBuf[start:start+take])
			written += take
		}
	}

	if written < length {
		return int(written), fmt.Errorf("%w: read terminated short at %d/%d bytes", raiderr.ErrIoShort, written, length)
	}
	return int(written), nil
}

// readStripe assembles the logical stripe byte buffer for stripe index
// st, by visiting the N-1 data columns in ascending logical-page order
// (§4.4 step 2b) and appending their pages.
func (t *Reader) readStripe(st int64) ([]byte, error) {
	g := t.Geometry
	n := g.N
	p := g.PageSize

	slots := stripe.Map(n, st)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return slots[order[i]] < slots[order[j]] })
	// slots[order[0]] == stripe.Parity always sorts first; drop it.
	dataColumns := order[1:]

	buf := make([]byte, 0, p*int64(n-1))
	for _, m := range dataColumns {
		handle, err := t.Members.Member(m)
		if err != nil {
			return nil, fmt.Errorf("%w: opening member %d: %v", raiderr.ErrGeometryGap, m, err)
		}

		addr := st * p
		if _, err := g.Locate(m, addr); err != nil {
			return nil, err
		}
		pg, err := page.ReadPage(handle, p, addr/p)
		if err != nil {
			return nil, err
		}
		buf = append(buf, pg...)
	}

	return buf, nil
}
