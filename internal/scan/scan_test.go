package scan_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/Anthya1104/raid-forensic/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestParity_AllPass(t *testing.T) {
	a := bytes.NewReader([]byte{0x01, 0x01, 0x01, 0x01})
	b := bytes.NewReader([]byte{0x02, 0x02, 0x02, 0x02})
	c := bytes.NewReader([]byte{0x03, 0x03, 0x03, 0x03}) // 0x01^0x02 == 0x03

	v, err := scan.TestParity(context.Background(), []io.ReaderAt{a, b, c}, 4, []int64{0})
	require.NoError(t, err)
	assert.True(t, v.Passed)
	assert.Empty(t, v.FailingPages)
}

func TestTestParity_Failure(t *testing.T) {
	a := bytes.NewReader([]byte{0x01, 0x01, 0x01, 0x01})
	b := bytes.NewReader([]byte{0x02, 0x02, 0x02, 0x02})
	c := bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff})

	v, err := scan.TestParity(context.Background(), []io.ReaderAt{a, b, c}, 4, []int64{0})
	require.NoError(t, err)
	assert.False(t, v.Passed)
	assert.Equal(t, []int64{0}, v.FailingPages)
}

func TestTestParity_Cancellation(t *testing.T) {
	a := bytes.NewReader(bytes.Repeat([]byte{0x01}, 40))
	b := bytes.NewReader(bytes.Repeat([]byte{0x02}, 40))
	c := bytes.NewReader(bytes.Repeat([]byte{0x03}, 40))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scan.TestParity(ctx, []io.ReaderAt{a, b, c}, 4, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.Error(t, err)
}
