package blockdev_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Anthya1104/raid-forensic/internal/blockdev"
	"github.com/Anthya1104/raid-forensic/internal/stripe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthMembers(d []byte, n int, p int64) [][]byte {
	stripes := len(d) / int(p*int64(n-1))
	members := make([][]byte, n)
	for i := range members {
		members[i] = make([]byte, stripes*int(p))
	}
	for st := 0; st < stripes; st++ {
		slots := stripe.Map(n, int64(st))
		parityPage := make([]byte, p)
		for col, val := range slots {
			if val == stripe.Parity {
				continue
			}
			off := int(val) * int(p)
			src := d[off : off+int(p)]
			copy(members[col][st*int(p):(st+1)*int(p)], src)
			for i := range parityPage {
				parityPage[i] ^= src[i]
			}
		}
		for col, val := range slots {
			if val == stripe.Parity {
				copy(members[col][st*int(p):(st+1)*int(p)], parityPage)
			}
		}
	}
	return members
}

// makeData builds n bytes of deterministic, non-zero filler.
func makeData(n int) []byte {
	d := make([]byte, n)
	for i := range d {
		d[i] = byte(1 + i%250)
	}
	return d
}

func TestDevice_OpenSizePRead(t *testing.T) {
	dir := t.TempDir()

	const n = 3
	const p = int64(1024) // 1 KiB pages, the smallest legal page size
	d := makeData(2 * int(p) * (n - 1))
	members := synthMembers(d, n, p)

	endKB := len(members[0]) / 1024

	var content string
	for i, m := range members {
		path := filepath.Join(dir, fmt.Sprintf("disk%d.img", i))
		require.NoError(t, os.WriteFile(path, m, 0o600))
		content += fmt.Sprintf("d%d %d %s 0 %d\n", i, i, path, endKB)
	}

	geomPath := filepath.Join(dir, "geometry.txt")
	require.NoError(t, os.WriteFile(geomPath, []byte(content), 0o600))

	var dev blockdev.Device
	dev.Configure("geometryfile", geomPath)
	dev.Configure("pagesizeKB", "1")

	h, err := dev.Open(true)
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, uint64(len(d)), blockdev.Size(h))

	out := make([]byte, len(d))
	written, err := blockdev.PRead(h, out, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, len(d), written)
	assert.Equal(t, d, out)
}

// TestDevice_PRead_SplitMember exercises a member backed by two image
// files at a non-zero Start, the "possibly partial" member case (§3,
// §4.4) that a single ReadAt-without-Locate shortcut would miss.
func TestDevice_PRead_SplitMember(t *testing.T) {
	dir := t.TempDir()

	const n = 3
	const p = int64(1024)
	d := makeData(4 * int(p) * (n - 1))
	members := synthMembers(d, n, p)

	endKB := len(members[0]) / 1024
	halfKB := endKB / 2
	half := halfKB * 1024

	var content string
	for i, m := range members {
		if i != 0 {
			path := filepath.Join(dir, fmt.Sprintf("disk%d.img", i))
			require.NoError(t, os.WriteFile(path, m, 0o600))
			content += fmt.Sprintf("d%d %d %s 0 %d\n", i, i, path, endKB)
			continue
		}

		pathA := filepath.Join(dir, "disk0a.img")
		pathB := filepath.Join(dir, "disk0b.img")
		require.NoError(t, os.WriteFile(pathA, m[:half], 0o600))
		require.NoError(t, os.WriteFile(pathB, m[half:], 0o600))
		content += fmt.Sprintf("d0a 0 %s 0 %d\n", pathA, halfKB)
		content += fmt.Sprintf("d0b 0 %s %d %d\n", pathB, halfKB, endKB)
	}

	geomPath := filepath.Join(dir, "geometry.txt")
	require.NoError(t, os.WriteFile(geomPath, []byte(content), 0o600))

	var dev blockdev.Device
	dev.Configure("geometryfile", geomPath)
	dev.Configure("pagesizeKB", "1")

	h, err := dev.Open(true)
	require.NoError(t, err)
	defer h.Close()

	out := make([]byte, len(d))
	written, err := blockdev.PRead(h, out, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, len(d), written)
	assert.Equal(t, d, out)
}

func TestDevice_Open_RejectsWrite(t *testing.T) {
	var dev blockdev.Device
	_, err := dev.Open(false)
	assert.Error(t, err)
}

func TestDevice_Open_MissingConfig(t *testing.T) {
	var dev blockdev.Device
	_, err := dev.Open(true)
	assert.Error(t, err)
}
