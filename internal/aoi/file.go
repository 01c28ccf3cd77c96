package aoi

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/m-wu/EMDAT/internal/geom"
)

// ErrOrphanIntervals is returned when an active-interval line does not
// follow a polygon line.
var ErrOrphanIntervals = errors.New("active-interval line without a preceding AOI polygon")

// intervalMarker starts the optional second line of an AOI record.
const intervalMarker = "#"

// ReadFile reads AOIs from a '.aoi' file.
func ReadFile(path string) ([]*AOI, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open AOI file: %w", err)
	}
	defer f.Close()

	aois, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return aois, nil
}

// Read parses AOIs from r. See ParseLines for the format.
func Read(r io.Reader) ([]*AOI, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read AOI lines: %w", err)
	}
	return ParseLines(lines)
}

// ParseLines parses AOI records. Each record is a polygon line
//
//	name<TAB>x1,y1<TAB>x2,y2<TAB>...
//
// optionally followed by an active-interval line
//
//	#<TAB>start1,end1<TAB>start2,end2<TAB>...
//
// A record without an interval line is a global AOI. Coordinate pairs may be
// written with surrounding parentheses. Blank lines are ignored.
func ParseLines(lines []string) ([]*AOI, error) {
	var (
		out     []*AOI
		name    string
		polygon geom.Polygon
		pending bool
	)
	seen := make(map[string]bool)

	flush := func(intervals []geom.Interval) error {
		a, err := New(name, polygon, intervals)
		if err != nil {
			return err
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate AOI name %q", a.Name)
		}
		seen[a.Name] = true
		out = append(out, a)
		pending = false
		polygon = nil
		return nil
	}

	for n, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		chunks := strings.Split(line, "\t")
		if strings.HasPrefix(chunks[0], intervalMarker) {
			if !pending {
				return nil, fmt.Errorf("line %d: %w", n+1, ErrOrphanIntervals)
			}
			intervals := make([]geom.Interval, 0, len(chunks)-1)
			for _, c := range chunks[1:] {
				a, b, err := parsePair(c)
				if err != nil {
					return nil, fmt.Errorf("line %d: interval %q: %w", n+1, c, err)
				}
				intervals = append(intervals, geom.Interval{Start: int64(a), End: int64(b)})
			}
			if err := flush(intervals); err != nil {
				return nil, fmt.Errorf("line %d: %w", n+1, err)
			}
			continue
		}

		if pending {
			if err := flush(nil); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
		}
		name = strings.TrimSpace(chunks[0])
		for _, c := range chunks[1:] {
			x, y, err := parsePair(c)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex %q: %w", n+1, c, err)
			}
			polygon = append(polygon, geom.Point{X: x, Y: y})
		}
		pending = true
	}
	if pending {
		if err := flush(nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// parsePair parses "a,b" or "(a, b)".
func parsePair(s string) (float64, float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two comma-separated numbers")
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// Write serialises AOIs in the '.aoi' format read by ParseLines.
func Write(w io.Writer, aois []*AOI) error {
	bw := bufio.NewWriter(w)
	for _, a := range aois {
		fields := []string{a.Name}
		for _, v := range a.Polygon {
			fields = append(fields, formatNum(v.X)+","+formatNum(v.Y))
		}
		if _, err := bw.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
		if a.IsGlobal() {
			continue
		}
		fields = []string{intervalMarker}
		for _, iv := range a.Intervals {
			fields = append(fields, strconv.FormatInt(iv.Start, 10)+","+strconv.FormatInt(iv.End, 10))
		}
		if _, err := bw.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
