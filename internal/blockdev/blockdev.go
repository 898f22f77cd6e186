// Package blockdev is the callback surface the host server invokes
// (§6.1): configure, open, size, pread. It is a thin adapter over
// internal/geometry and internal/translate; it implements no striping
// logic of its own.
package blockdev

import (
	"fmt"
	"io"
	"os"

	"github.com/Anthya1104/raid-forensic/internal/config"
	"github.com/Anthya1104/raid-forensic/internal/geometry"
	"github.com/Anthya1104/raid-forensic/internal/raiderr"
	"github.com/Anthya1104/raid-forensic/internal/translate"
	"github.com/sirupsen/logrus"
)

// Device accumulates configuration via Configure, then serves one mount
// through Open.
type Device struct {
	cfg config.Config
}

// Handle is the opaque object returned by Open; it owns the per-member
// file handles for the lifetime of the mount.
type Handle struct {
	geometry *geometry.Geometry
	reader   *translate.Reader
	files    map[string]*os.File
	members  map[int]*memberReaderAt
}

// memberReaderAt presents one RAID member, possibly backed by more
// than one image file, as a single io.ReaderAt addressed by the
// member's own logical byte offset. It resolves each read against
// geometry.Locate rather than assuming a single covering file.
type memberReaderAt struct {
	idx   int
	geo   *geometry.Geometry
	files map[string]*os.File
}

func (m *memberReaderAt) ReadAt(p []byte, off int64) (int, error) {
	img, err := m.geo.Locate(m.idx, off)
	if err != nil {
		return 0, err
	}
	f, ok := m.files[img.Path]
	if !ok {
		return 0, fmt.Errorf("%w: no open handle for image %q", raiderr.ErrGeometryGap, img.Path)
	}
	return f.ReadAt(p, off-img.Start)
}

// Configure accepts geometryfile=<path> and pagesizeKB=<int>; any other
// key is ignored with a warning.
func (d *Device) Configure(key, value string) {
	if !d.cfg.Configure(key, value) {
		logrus.Warnf("blockdev: ignoring unknown configuration key %q", key)
	}
}

// Open parses the geometry file, opens every member image, and returns
// an opaque handle. It rejects a write intent.
func (d *Device) Open(readOnly bool) (*Handle, error) {
	if !readOnly {
		return nil, fmt.Errorf("%w: this device is read-only", raiderr.ErrArgument)
	}
	if d.cfg.GeometryFile == "" {
		return nil, fmt.Errorf("%w: geometryfile was not configured", raiderr.ErrArgument)
	}

	pageSize := d.cfg.PageSizeKB * 1024
	if pageSize <= 0 {
		// The geometry file format does not carry a page size, so a
		// missing pagesizeKB is a configuration error.
		return nil, fmt.Errorf("%w: pagesizeKB was not configured", raiderr.ErrArgument)
	}

	f, err := os.Open(d.cfg.GeometryFile)
	if err != nil {
		return nil, fmt.Errorf("blockdev: opening geometry file: %w", err)
	}
	defer f.Close()

	g, err := geometry.ParseFile(f, pageSize)
	if err != nil {
		return nil, err
	}

	files := map[string]*os.File{}
	for idx, imgs := range g.Images {
		for _, img := range imgs {
			if _, ok := files[img.Path]; ok {
				continue
			}
			mf, err := os.Open(img.Path)
			if err != nil {
				closeAll(files)
				return nil, fmt.Errorf("blockdev: opening member %d image %q: %w", idx, img.Path, err)
			}
			files[img.Path] = mf
		}
	}

	h := &Handle{geometry: g, files: files, members: map[int]*memberReaderAt{}}
	h.reader = translate.New(g, h)
	return h, nil
}

// Member implements translate.MemberOpener.
func (h *Handle) Member(idx int) (io.ReaderAt, error) {
	if _, ok := h.geometry.Images[idx]; !ok {
		return nil, fmt.Errorf("%w: no open handle for member %d", raiderr.ErrGeometryGap, idx)
	}
	m, ok := h.members[idx]
	if !ok {
		m = &memberReaderAt{idx: idx, geo: h.geometry, files: h.files}
		h.members[idx] = m
	}
	return m, nil
}

// Close releases every open image file handle owned by the mount.
func (h *Handle) Close() error {
	closeAll(h.files)
	return nil
}

func closeAll(files map[string]*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

// Size returns Σ member_extent_bytes * (N-1)/N.
func Size(h *Handle) uint64 {
	return h.geometry.LogicalSize()
}

// PRead fills out with len(out) bytes starting at logical byte offset
// offset (§4.4). flags is accepted for interface parity with the host
// server's callback surface; this implementation does not interpret
// any flag bits.
func PRead(h *Handle, out []byte, offset int64, flags uint32) (int, error) {
	return h.reader.PRead(out, offset)
}
