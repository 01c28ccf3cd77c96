// Package pupilplot exports per-sample pupil size traces for a participant,
// as a tab-separated table and as a PNG line chart with one line per scene.
package pupilplot

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/m-wu/EMDAT/internal/fsutil"
	"github.com/m-wu/EMDAT/internal/participant"
	"github.com/m-wu/EMDAT/internal/security"
)

// Point is one pupil reading. Offset is milliseconds since scene start.
type Point struct {
	Timestamp int64
	Offset    int64
	PupilSize float64
}

// Trend is the pupil trace of one scene.
type Trend struct {
	SceneID string
	Points  []Point
}

// SceneTrends collects the pupil readings of every scene of p in segment
// order. Samples without a usable pupil size are skipped.
func SceneTrends(p *participant.Participant) []Trend {
	trends := make([]Trend, 0, len(p.Scenes))
	for _, sc := range p.Scenes {
		start := sc.Window().Start
		tr := Trend{SceneID: sc.ID}
		for _, seg := range sc.Segments {
			for _, d := range seg.Samples {
				ps := d.PupilSize()
				if ps <= 0 {
					continue
				}
				tr.Points = append(tr.Points, Point{
					Timestamp: d.Timestamp,
					Offset:    d.Timestamp - start,
					PupilSize: ps,
				})
			}
		}
		trends = append(trends, tr)
	}
	return trends
}

// WriteTSV writes one row per reading: participant, scene, timestamp,
// offset and pupil size.
func WriteTSV(w io.Writer, participantID string, trends []Trend) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write([]string{"Part_id", "Sc_id", "timestamp", "offset_ms", "pupilsize"}); err != nil {
		return err
	}
	for _, tr := range trends {
		for _, pt := range tr.Points {
			rec := []string{
				participantID,
				tr.SceneID,
				strconv.FormatInt(pt.Timestamp, 10),
				strconv.FormatInt(pt.Offset, 10),
				strconv.FormatFloat(pt.PupilSize, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Render draws the trends as a PNG. Scenes without readings get no line.
func Render(w io.Writer, title string, trends []Trend) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time since scene start (s)"
	p.Y.Label.Text = "Pupil size"

	colors := palette(len(trends))
	for i, tr := range trends {
		if len(tr.Points) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(tr.Points))
		for j, pt := range tr.Points {
			pts[j] = plotter.XY{X: float64(pt.Offset) / 1000, Y: pt.PupilSize}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("scene %s line: %w", tr.SceneID, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(tr.SceneID, line)
	}
	p.Legend.Top = true
	p.Legend.Left = false

	wt, err := p.WriterTo(14*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("encode plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save writes the pupil table and chart of p under dir as
// <id>_pupil.tsv and <id>_pupil.png, with the id made safe for file names.
func Save(fsys fsutil.FileSystem, dir string, p *participant.Participant) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	trends := SceneTrends(p)
	base := security.SanitizeFilename(p.ID)

	if err := writeFile(fsys, filepath.Join(dir, base+"_pupil.tsv"), func(w io.Writer) error {
		return WriteTSV(w, p.ID, trends)
	}); err != nil {
		return err
	}
	return writeFile(fsys, filepath.Join(dir, base+"_pupil.png"), func(w io.Writer) error {
		return Render(w, "Participant "+p.ID+" pupil size", trends)
	})
}

func writeFile(fsys fsutil.FileSystem, path string, fn func(io.Writer) error) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// palette spreads n hues around the colour wheel.
func palette(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := range colors {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.7, 0.45)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q
	return channel(p, q, h+1.0/3), channel(p, q, h), channel(p, q, h-1.0/3)
}

func channel(p, q, t float64) uint8 {
	switch {
	case t < 0:
		t++
	case t > 1:
		t--
	}
	v := p
	switch {
	case t < 1.0/6:
		v = p + (q-p)*6*t
	case t < 1.0/2:
		v = q
	case t < 2.0/3:
		v = p + (q-p)*(2.0/3-t)*6
	}
	return uint8(v * 255)
}
