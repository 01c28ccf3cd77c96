package recording

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/m-wu/EMDAT/internal/fsutil"
)

// ReadRestPupilSizes reads a table of rest pupil sizes, one
// "scene_id<TAB>size" line per scene. A first line whose size column is not
// a number is treated as a header.
func ReadRestPupilSizes(fsys fsutil.FileSystem, path string) (map[string]float64, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rest pupil sizes: %w", err)
	}
	defer f.Close()

	out := make(map[string]float64)
	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s:%d: expected scene id and size", path, n)
		}
		size, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			if n == 1 {
				continue
			}
			return nil, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		out[strings.TrimSpace(fields[0])] = size
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read rest pupil sizes: %w", err)
	}
	return out, nil
}
