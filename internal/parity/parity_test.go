package parity_test

import (
	"testing"

	"github.com/Anthya1104/raid-forensic/internal/page"
	"github.com/Anthya1104/raid-forensic/internal/parity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(b byte, n int) page.Page {
	p := make(page.Page, n)
	for i := range p {
		p[i] = b
	}
	return p
}

func TestXorFold_TwoInputs(t *testing.T) {
	out, err := parity.XorFold([]page.Page{
		{0x41, 0x41},
		{0x42, 0x00},
	})
	require.NoError(t, err)
	assert.Equal(t, page.Page{0x41 ^ 0x42, 0x41}, out)
}

func TestXorFold_SingleInput(t *testing.T) {
	out, err := parity.XorFold([]page.Page{{0x01, 0x02}})
	require.NoError(t, err)
	assert.Equal(t, page.Page{0x01, 0x02}, out)
}

func TestXorFold_MismatchedLengths(t *testing.T) {
	_, err := parity.XorFold([]page.Page{{0x01}, {0x01, 0x02}})
	assert.Error(t, err)
}

func TestParityHolds_ThreeDisks(t *testing.T) {
	d1 := uniform(0x01, 8)
	d2 := uniform(0x02, 8)
	d3 := uniform(0x03, 8)

	parityPage, err := parity.XorFold([]page.Page{d1, d2})
	require.NoError(t, err)
	assert.Equal(t, d3, parityPage)

	ok, err := parity.ParityHolds([]page.Page{parityPage, d1, d2})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParityHolds_BrokenParity(t *testing.T) {
	d1 := uniform(0x01, 8)
	d2 := uniform(0x02, 8)
	bad := uniform(0xFF, 8)

	ok, err := parity.ParityHolds([]page.Page{bad, d1, d2})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParityHolds_SingleDisk(t *testing.T) {
	ok, err := parity.ParityHolds([]page.Page{uniform(0x00, 8)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = parity.ParityHolds([]page.Page{uniform(0x01, 8)})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParityHolds_EmptyArity(t *testing.T) {
	_, err := parity.ParityHolds(nil)
	assert.Error(t, err)
}
