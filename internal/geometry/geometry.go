// Package geometry models a mounted RAID5 array: its page size, member
// count, and the per-member image extents that cover the array (§3).
package geometry

import (
	"fmt"
	"sort"

	"github.com/Anthya1104/raid-forensic/internal/raiderr"
)

const bytesPerKB = 1024

// MemberImage is one image file's contribution to a RAID member's
// logical byte range, expressed in bytes, half-open [Start, End).
type MemberImage struct {
	ID        string
	Path      string
	RaidIndex int
	Start     int64
	End       int64
}

func (m MemberImage) Len() int64 { return m.End - m.Start }

// Geometry is the immutable description of a mounted array.
type Geometry struct {
	PageSize int64 // P, in bytes
	N        int
	// Images holds, per member index, that member's images sorted by
	// Start. The union of a member's images' extents must be
	// non-empty and page-aligned.
	Images map[int][]MemberImage
}

// New validates and constructs a Geometry from a flat list of member
// images sharing a page size.
func New(pageSize int64, images []MemberImage) (*Geometry, error) {
	if pageSize <= 0 || pageSize%bytesPerKB != 0 {
		return nil, fmt.Errorf("%w: page size must be a positive multiple of 1KiB, got %d", raiderr.ErrArgument, pageSize)
	}

	byMember := map[int][]MemberImage{}
	maxIndex := -1
	for _, img := range images {
		if img.RaidIndex < 0 {
			return nil, fmt.Errorf("%w: negative raid index for image %q", raiderr.ErrArgument, img.ID)
		}
		if img.Start < 0 || img.End <= img.Start {
			return nil, fmt.Errorf("%w: invalid extent [%d,%d) for image %q", raiderr.ErrArgument, img.Start, img.End, img.ID)
		}
		if img.Start%pageSize != 0 || img.End%pageSize != 0 {
			return nil, fmt.Errorf("%w: extent of image %q is not page-aligned to %d bytes", raiderr.ErrArgument, img.ID, pageSize)
		}
		byMember[img.RaidIndex] = append(byMember[img.RaidIndex], img)
		if img.RaidIndex > maxIndex {
			maxIndex = img.RaidIndex
		}
	}

	n := maxIndex + 1
	if n < 3 {
		return nil, fmt.Errorf("%w: array must have at least 3 members, saw %d", raiderr.ErrArgument, n)
	}

	for idx := 0; idx < n; idx++ {
		imgs, ok := byMember[idx]
		if !ok || len(imgs) == 0 {
			return nil, fmt.Errorf("%w: member index %d has no covering image", raiderr.ErrArgument, idx)
		}
		sort.Slice(imgs, func(i, j int) bool { return imgs[i].Start < imgs[j].Start })
		byMember[idx] = imgs
	}

	return &Geometry{PageSize: pageSize, N: n, Images: byMember}, nil
}

// LogicalSize returns the logical device size in bytes:
// sum(member extents) * (N-1)/N.
func (g *Geometry) LogicalSize() uint64 {
	var total int64
	for _, imgs := range g.Images {
		for _, img := range imgs {
			total += img.Len()
		}
	}
	return uint64(total) * uint64(g.N-1) / uint64(g.N)
}

// Locate returns the member image covering the page-start byte address
// addr on member idx, or ErrGeometryGap if none does.
func (g *Geometry) Locate(idx int, addr int64) (MemberImage, error) {
	for _, img := range g.Images[idx] {
		if addr >= img.Start && addr < img.End {
			return img, nil
		}
	}
	return MemberImage{}, fmt.Errorf("%w: member %d has no image covering byte %d", raiderr.ErrGeometryGap, idx, addr)
}
