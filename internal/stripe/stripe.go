// Package stripe implements the left-asymmetric RAID5 stripe map (§4.3):
// the rule that assigns data and parity roles to the N columns of a
// stripe.
//
// §4.3's prose formula and its own S1/S2/S3 examples do not agree with
// each other (S3 is even flagged in the spec with an explicit
// "(Correction: ...)" aside), so this package follows
// original_source/recovery.py's raid5_stripes instead: data disk d (0
// <= d < N-1) for stripe pageIndex lands in column (d - r) mod N, where
// r = pageIndex mod N, carrying value d + pageIndex*(N-1); the column
// never hit by any d is parity. Equivalently, starting from startSlot =
// (N - r) mod N and walking N-1 columns forward with wraparound
// assigns strictly increasing values; the one column skipped by that
// walk is parity. Reading the columns in that circular order (not
// raw left-to-right column order) is what increases monotonically.
package stripe

// Parity is the sentinel value marking the parity slot in a Map result.
const Parity = -1

// Map returns a length-N vector whose slot k is either Parity or a
// non-negative linear data-page index.
func Map(n int, pageIndex int64) []int64 {
	r := mod(pageIndex, int64(n))
	startSlot := int(mod(int64(n)-r, int64(n)))
	base := pageIndex * int64(n-1)

	slots := make([]int64, n)
	for i := range slots {
		slots[i] = Parity
	}
	for step := 0; step < n-1; step++ {
		slot := (startSlot + step) % n
		slots[slot] = base + int64(step)
	}

	return slots
}

// ParitySlot returns the column index holding parity for pageIndex.
func ParitySlot(n int, pageIndex int64) int {
	r := mod(pageIndex, int64(n))
	return int(mod(int64(n-1)-r, int64(n)))
}

func mod(a, n int64) int64 {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
