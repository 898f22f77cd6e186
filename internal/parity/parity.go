// Package parity implements the XOR parity algebra (§4.2). It is built
// on klauspost/reedsolomon's single-parity-shard encoder rather than a
// hand-rolled XOR loop: the teacher's own RAID5 controller constructs
// exactly this encoder (reedsolomon.New(numDataShards, 1)) to compute
// parity, and its test suite verifies the resulting shard equals the
// byte-wise XOR of the inputs (e.g. []byte{0x41 ^ 0x42}). The encoder
// is built with reedsolomon.WithFastOneParityMatrix, whose single parity
// row is all ones, so the parity shard is exactly the byte-wise XOR of
// the data shards (the library's default matrix does not have that
// property).
package parity

import (
	"fmt"

	"github.com/Anthya1104/raid-forensic/internal/page"
	"github.com/Anthya1104/raid-forensic/internal/raiderr"
	"github.com/klauspost/reedsolomon"
)

// XorFold computes the element-wise XOR of equal-length pages. It
// requires at least one input.
func XorFold(pages []page.Page) (page.Page, error) {
	if len(pages) == 0 {
		return nil, raiderr.ErrBadArity
	}

	size := len(pages[0])
	for _, p := range pages {
		if len(p) != size {
			return nil, fmt.Errorf("%w: mismatched page lengths", raiderr.ErrBadShape)
		}
	}

	if len(pages) == 1 {
		out := make(page.Page, size)
		copy(out, pages[0])
		return out, nil
	}

	enc, err := reedsolomon.New(len(pages), 1, reedsolomon.WithFastOneParityMatrix())
	if err != nil {
		return nil, fmt.Errorf("parity: failed to build encoder: %w", err)
	}

	shards := make([][]byte, len(pages)+1)
	for i, p := range pages {
		shards[i] = []byte(p)
	}
	shards[len(pages)] = make([]byte, size)

	if err := enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("parity: encode failed: %w", err)
	}

	return page.Page(shards[len(pages)]), nil
}

// ParityHolds reports whether xor_fold(pages) is the zero buffer,
// equivalently pages[0] == xor_fold(pages[1:]). All inputs must share
// the same length, the page size P.
func ParityHolds(pages []page.Page) (bool, error) {
	if len(pages) == 0 {
		return false, raiderr.ErrBadArity
	}

	size := len(pages[0])
	for _, p := range pages {
		if len(p) != size {
			return false, fmt.Errorf("%w: mismatched page lengths", raiderr.ErrBadShape)
		}
	}

	if len(pages) == 1 {
		return isZero(pages[0]), nil
	}

	rest, err := XorFold(pages[1:])
	if err != nil {
		return false, err
	}

	return equalBytes(pages[0], rest), nil
}

func isZero(p page.Page) bool {
	for _, b := range p {
		if b != 0 {
			return false
		}
	}
	return true
}

func equalBytes(a, b page.Page) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
