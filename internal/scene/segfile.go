package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// SegmentDef is one line of a '.seg' file.
type SegmentDef struct {
	ID    string
	Start int64
	End   int64
}

// SceneDef names a scene and its segments in definition order.
type SceneDef struct {
	ID       string
	Segments []SegmentDef
}

// ReadSegFile reads scene definitions from a '.seg' file.
func ReadSegFile(path string) ([]SceneDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seg file: %w", err)
	}
	defer f.Close()

	defs, err := ReadSegs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// ReadSegs parses lines of the form
//
//	scene_id<TAB>segment_id<TAB>start_ms<TAB>end_ms
//
// Lines sharing a scene id build that scene's segment list. Scenes are
// returned in order of first appearance.
func ReadSegs(r io.Reader) ([]SceneDef, error) {
	var defs []SceneDef
	index := make(map[string]int)

	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d: expected 4 tab-separated fields, got %d", n, len(fields))
		}
		start, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: start: %w", n, err)
		}
		end, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: end: %w", n, err)
		}

		scid := strings.TrimSpace(fields[0])
		i, ok := index[scid]
		if !ok {
			i = len(defs)
			index[scid] = i
			defs = append(defs, SceneDef{ID: scid})
		}
		defs[i].Segments = append(defs[i].Segments, SegmentDef{
			ID:    strings.TrimSpace(fields[1]),
			Start: start,
			End:   end,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read seg lines: %w", err)
	}
	return defs, nil
}

// WriteSegs serialises scene definitions in the format read by ReadSegs.
func WriteSegs(w io.Writer, defs []SceneDef) error {
	bw := bufio.NewWriter(w)
	for _, d := range defs {
		for _, s := range d.Segments {
			if _, err := fmt.Fprintf(bw, "%s\t%s\t%d\t%d\n", d.ID, s.ID, s.Start, s.End); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
