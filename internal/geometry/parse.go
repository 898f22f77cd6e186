package geometry

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Anthya1104/raid-forensic/internal/raiderr"
)

// ParseFile reads the geometry file format (§6.2): one record per
// non-blank, non-comment line, five whitespace-separated fields
// "<id> <raid_index> <path> <startKB> <endKB>". startKB/endKB are
// decimal, possibly fractional, kilobyte offsets, multiplied by 1024
// and truncated to integer bytes.
func ParseFile(r io.Reader, pageSize int64) (*Geometry, error) {
	var images []MemberImage

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, fmt.Errorf("%w: geometry file line %d: expected 5 fields, got %d", raiderr.ErrArgument, lineNo, len(fields))
		}

		id, raidIndexStr, path, startKBStr, endKBStr := fields[0], fields[1], fields[2], fields[3], fields[4]

		raidIndex, err := strconv.Atoi(raidIndexStr)
		if err != nil || raidIndex < 0 {
			return nil, fmt.Errorf("%w: geometry file line %d: invalid raid_index %q", raiderr.ErrArgument, lineNo, raidIndexStr)
		}

		startKB, err := strconv.ParseFloat(startKBStr, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: geometry file line %d: invalid startKB %q", raiderr.ErrArgument, lineNo, startKBStr)
		}

		endKB, err := strconv.ParseFloat(endKBStr, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: geometry file line %d: invalid endKB %q", raiderr.ErrArgument, lineNo, endKBStr)
		}

		images = append(images, MemberImage{
			ID:        id,
			Path:      path,
			RaidIndex: raidIndex,
			Start:     int64(startKB * bytesPerKB),
			End:       int64(endKB * bytesPerKB),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("geometry: reading geometry file: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: geometry file contains no records", raiderr.ErrArgument)
	}

	return New(pageSize, images)
}
