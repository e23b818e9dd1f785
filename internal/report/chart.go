package report

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/vicanso/go-charts/v2"

	"feeCompare/internal/finance"
)

const (
	defaultChartTitle = "Cumulative Returns: Index Funds vs Actively Managed Funds (After Fees)"
	defaultMaxPoints  = 400
)

// Chart renders cumulative growth curves to a PNG. The image is kept in memory
// after Plot and written to Path on Flush.
type Chart struct {
	Path      string
	Title     string
	Width     int
	Height    int
	MaxPoints int

	img []byte
}

func NewChart(path string) *Chart {
	return &Chart{Path: path, Title: defaultChartTitle, Width: 1200, Height: 600, MaxPoints: defaultMaxPoints}
}

func (c *Chart) ReportReturns(string, map[string]float64) error       { return nil }
func (c *Chart) ReportExpenseRatios(string, map[string]float64) error { return nil }
func (c *Chart) ReportAverageExpense(string, float64) error           { return nil }

func (c *Chart) Plot(curves map[string]map[string]finance.CumulativeSeries) error {
	img, err := RenderCumulative(curves, c.Title, c.Width, c.Height, c.MaxPoints)
	if err != nil {
		return err
	}
	c.img = img
	return nil
}

// Bytes returns the last rendered PNG, or nil before Plot.
func (c *Chart) Bytes() []byte { return c.img }

func (c *Chart) Flush() error {
	if c.Path == "" || c.img == nil {
		return nil
	}
	if err := os.WriteFile(c.Path, c.img, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

type curve struct {
	name   string
	points []finance.ReturnPoint
}

// RenderCumulative draws every curve of every group on one line chart. Groups
// may have different date axes: the x axis is the union of all dates, each
// curve holds its last value across gaps and starts at 1.0.
func RenderCumulative(curves map[string]map[string]finance.CumulativeSeries, title string, width, height, maxPoints int) ([]byte, error) {
	groups := make([]string, 0, len(curves))
	for g := range curves {
		groups = append(groups, g)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(groups))) // "Index Funds" before "Active Funds"

	var list []curve
	seen := map[time.Time]bool{}
	for _, g := range groups {
		syms := make([]string, 0, len(curves[g]))
		for s := range curves[g] {
			syms = append(syms, s)
		}
		sort.Strings(syms)
		for _, s := range syms {
			pts := curves[g][s].Points
			for _, p := range pts {
				seen[p.Date] = true
			}
			list = append(list, curve{name: fmt.Sprintf("%s (%s)", s, g), points: pts})
		}
	}
	if len(list) == 0 {
		return nil, errors.New("no curves to plot")
	}
	axis := make([]time.Time, 0, len(seen))
	for d := range seen {
		axis = append(axis, d)
	}
	if len(axis) < 2 {
		return nil, errors.New("not enough data points")
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i].Before(axis[j]) })
	axis = downsample(axis, maxPoints)

	layout := "Jan 02"
	if axis[len(axis)-1].Sub(axis[0]) > 2*365*24*time.Hour {
		layout = "Jan '06"
	}
	xLabels := make([]string, len(axis))
	for i, d := range axis {
		xLabels[i] = d.Format(layout)
	}

	values := make([][]float64, len(list))
	names := make([]string, len(list))
	minVal, maxVal := 1.0, 1.0
	for i, cv := range list {
		values[i] = sampleOnAxis(cv.points, axis)
		names[i] = cv.name
		for _, v := range values[i] {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = maxVal * 0.05
	}
	yMin := minVal - padding
	if yMin < 0 {
		yMin = 0
	}
	yMax := maxVal + padding

	splitNum := 10
	if len(xLabels) <= 30 {
		splitNum = len(xLabels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}
	p, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title, "x: Date • y: Cumulative Return (growth of 1)"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xLabels, BoundaryGap: charts.FalseFlag(), SplitNumber: splitNum}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Top: charts.PositionBottom}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// downsample keeps every n-th date so at most max remain, always keeping the last.
func downsample(axis []time.Time, max int) []time.Time {
	if max <= 1 || len(axis) <= max {
		return axis
	}
	stride := (len(axis) + max - 1) / max
	out := make([]time.Time, 0, max+1)
	for i := 0; i < len(axis); i += stride {
		out = append(out, axis[i])
	}
	if last := axis[len(axis)-1]; !out[len(out)-1].Equal(last) {
		out = append(out, last)
	}
	return out
}

// sampleOnAxis reads the curve at each axis date, carrying the last known
// value forward and using 1.0 before the curve starts.
func sampleOnAxis(pts []finance.ReturnPoint, axis []time.Time) []float64 {
	out := make([]float64, len(axis))
	j := 0
	last := 1.0
	for i, d := range axis {
		for j < len(pts) && !pts[j].Date.After(d) {
			last = pts[j].Value
			j++
		}
		out[i] = last
	}
	return out
}
