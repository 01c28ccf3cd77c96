package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/m-wu/EMDAT/internal/quality"
)

// RenderValidityCharts writes an HTML page with the discard rates per
// participant and, when sweep rows are given, the share of valid segments
// per longest-gap threshold.
func RenderValidityCharts(w io.Writer, discarded []DiscardRow, sweep []SweepRow) error {
	x := make([]string, len(discarded))
	segs := make([]opts.BarData, len(discarded))
	samples := make([]opts.BarData, len(discarded))
	for i, r := range discarded {
		x[i] = r.ParticipantID
		segs[i] = opts.BarData{Value: r.PercentSegments()}
		samples[i] = opts.BarData{Value: r.PercentSamples()}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Segment validity", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Discarded data", Subtitle: fmt.Sprintf("participants=%d", len(discarded))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Min: 0, Max: 100}),
	)
	bar.SetXAxis(x).
		AddSeries("segments", segs).
		AddSeries("samples", samples)

	page := components.NewPage()
	page.AddCharts(bar)

	if thresholds, shares := validShareByGap(sweep); len(thresholds) > 0 {
		data := make([]opts.LineData, len(shares))
		for i, s := range shares {
			data[i] = opts.LineData{Value: s}
		}
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
			charts.WithTitleOpts(opts.Title{Title: "Valid segments by longest-gap threshold"}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: "max gap (ms)"}),
			charts.WithYAxisOpts(opts.YAxis{Name: "% valid", Min: 0, Max: 100}),
		)
		line.SetXAxis(thresholds).AddSeries("valid", data)
		page.AddCharts(line)
	}

	return page.Render(w)
}

// validShareByGap returns, for each longest-gap threshold in first-seen
// order, the percentage of segments valid under it.
func validShareByGap(rows []SweepRow) ([]string, []float64) {
	var order []float64
	total := make(map[float64]int)
	valid := make(map[float64]int)
	for _, r := range rows {
		if r.Method != quality.LongestGap {
			continue
		}
		if _, seen := total[r.Threshold]; !seen {
			order = append(order, r.Threshold)
		}
		total[r.Threshold]++
		if r.Valid {
			valid[r.Threshold]++
		}
	}
	labels := make([]string, len(order))
	shares := make([]float64, len(order))
	for i, th := range order {
		labels[i] = ftoa(th)
		shares[i] = percent(valid[th], total[th])
	}
	return labels, shares
}
