package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeCompare/internal/compare"
	"feeCompare/internal/finance"
	"feeCompare/internal/funds"
)

var t0 = time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

func cumulative(sym string, values ...float64) finance.CumulativeSeries {
	pts := make([]finance.ReturnPoint, len(values))
	for i, v := range values {
		pts[i] = finance.ReturnPoint{Date: t0.AddDate(0, 0, i+1), Value: v}
	}
	return finance.CumulativeSeries{Symbol: sym, Points: pts}
}

func fundResult(sym, ratio string, annual float64, curve ...float64) compare.FundResult {
	c := cumulative(sym, curve...)
	return compare.FundResult{
		Fund:         funds.Fund{Symbol: sym, ExpenseRatio: decimal.RequireFromString(ratio)},
		Cumulative:   c,
		FinalGrowth:  c.Last(),
		ElapsedYears: 2,
		AnnualReturn: annual,
	}
}

func testComparison() *compare.Comparison {
	return &compare.Comparison{
		Start:          t0,
		End:            t0.AddDate(2, 0, 0),
		PeriodsPerYear: 252,
		Index: compare.GroupResult{
			Name: funds.IndexGroup, Label: "Index Funds", AverageExpense: decimal.RequireFromString("0.03"),
			Funds: []compare.FundResult{
				fundResult("VTI", "0.03", 9.5, 1.01, 1.1, 1.2),
				fundResult("VOO", "0.03", 10, 1.02, 1.1, 1.21),
			},
		},
		Active: compare.GroupResult{
			Name: funds.ActiveGroup, Label: "Active Funds", AverageExpense: decimal.RequireFromString("0.54"),
			Funds: []compare.FundResult{fundResult("FCNTX", "0.54", 8.25, 0.99, 1.05, 1.17)},
		},
	}
}

// recorder logs every call it receives.
type recorder struct {
	calls []string
	fail  string
}

func (r *recorder) log(call string) error {
	r.calls = append(r.calls, call)
	if call == r.fail {
		return errors.New("fail " + call)
	}
	return nil
}

func (r *recorder) ReportReturns(g string, v map[string]float64) error {
	return r.log(fmt.Sprintf("returns %s %d", g, len(v)))
}
func (r *recorder) ReportExpenseRatios(g string, v map[string]float64) error {
	return r.log(fmt.Sprintf("ratios %s %d", g, len(v)))
}
func (r *recorder) ReportAverageExpense(g string, v float64) error {
	return r.log(fmt.Sprintf("average %s %.2f", g, v))
}
func (r *recorder) Plot(c map[string]map[string]finance.CumulativeSeries) error {
	return r.log(fmt.Sprintf("plot %d", len(c)))
}

type flushingRecorder struct{ recorder }

func (r *flushingRecorder) Flush() error { return r.log("flush") }

func TestPublish_Order(t *testing.T) {
	r := &flushingRecorder{}
	require.NoError(t, Publish(testComparison(), r))
	assert.Equal(t, []string{
		"returns Index Funds 2",
		"returns Active Funds 1",
		"plot 2",
		"ratios Index Funds 2",
		"ratios Active Funds 1",
		"average Index Funds 0.03",
		"average Active Funds 0.54",
		"flush",
	}, r.calls)
}

func TestPublish_StopsOnError(t *testing.T) {
	r := &recorder{fail: "plot 2"}
	err := Publish(testComparison(), r)
	assert.EqualError(t, err, "fail plot 2")
	assert.Equal(t, "plot 2", r.calls[len(r.calls)-1])
}

func TestMulti(t *testing.T) {
	a, b := &flushingRecorder{}, &recorder{}
	md := NewMarkdown(&bytes.Buffer{}, "")
	md.Plain = true
	m := Multi{a, b, md}
	require.NoError(t, Publish(testComparison(), m))
	assert.Equal(t, a.calls[:len(a.calls)-1], b.calls)
	assert.Equal(t, "flush", a.calls[len(a.calls)-1])
	assert.Contains(t, md.Document(), "Growth of $10,000.00", "growth is forwarded to growth reporters")
}

func TestMulti_FlushJoinsErrors(t *testing.T) {
	a := &flushingRecorder{recorder{fail: "flush"}}
	b := &flushingRecorder{recorder{fail: "flush"}}
	err := Multi{a, b}.Flush()
	require.Error(t, err)
	assert.Equal(t, 2, strings.Count(err.Error(), "fail flush"))
}

func TestMarkdown_Plain(t *testing.T) {
	var buf bytes.Buffer
	md := NewMarkdown(&buf, "Index vs Active")
	md.Plain = true
	md.Subtitle = "2020-01-02 to 2022-01-02"
	md.ChartPath = "out.png"
	md.SetCommentary("  Fees matter.\n")
	require.NoError(t, Publish(testComparison(), md))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Index vs Active\n\n_2020-01-02 to 2022-01-02_"))
	for _, want := range []string{
		"## Average annual returns (after fees)",
		"### Index Funds",
		"| VOO | 10.00% | $12,100.00 |",
		"| FCNTX | 8.25% | $11,700.00 |",
		"Cumulative returns chart: `out.png`",
		"## Expense ratios",
		"| FCNTX | 0.54% |",
		"| Active Funds | 0.54% |",
		"## Commentary\n\nFees matter.",
	} {
		assert.Contains(t, out, want)
	}
	// Symbols are sorted within a group; groups keep report order.
	assert.Less(t, strings.Index(out, "| VOO | 10.00%"), strings.Index(out, "| VTI | 9.50%"))
	assert.Less(t, strings.Index(out, "### Index Funds"), strings.Index(out, "### Active Funds"))
}

func TestMarkdown_Rendered(t *testing.T) {
	var buf bytes.Buffer
	md := NewMarkdown(&buf, "Index vs Active")
	require.NoError(t, Publish(testComparison(), md))
	assert.Contains(t, buf.String(), "VOO")
	assert.Contains(t, buf.String(), "FCNTX")
}

func TestFormatDollars(t *testing.T) {
	assert.Equal(t, "$10,000.00", formatDollars(10000))
	assert.Equal(t, "$12,345.68", formatDollars(12345.678))
}

func TestChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	c := NewChart(path)
	c.Width, c.Height = 600, 300
	assert.Nil(t, c.Bytes())
	require.NoError(t, Publish(testComparison(), c))

	img := c.Bytes()
	require.NotEmpty(t, img)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, img, onDisk)
}

func TestRenderCumulative_Empty(t *testing.T) {
	_, err := RenderCumulative(nil, "t", 600, 300, 100)
	assert.Error(t, err)
	_, err = RenderCumulative(map[string]map[string]finance.CumulativeSeries{"g": {"A": cumulative("A", 1.1)}}, "t", 600, 300, 100)
	assert.Error(t, err, "one date is not a line")
}

func TestSampleOnAxis(t *testing.T) {
	pts := []finance.ReturnPoint{{Date: t0.AddDate(0, 0, 2), Value: 1.1}, {Date: t0.AddDate(0, 0, 4), Value: 1.2}}
	axis := []time.Time{t0.AddDate(0, 0, 1), t0.AddDate(0, 0, 2), t0.AddDate(0, 0, 3), t0.AddDate(0, 0, 4), t0.AddDate(0, 0, 5)}
	assert.Equal(t, []float64{1, 1.1, 1.1, 1.2, 1.2}, sampleOnAxis(pts, axis))
}

func TestDownsample(t *testing.T) {
	axis := make([]time.Time, 10)
	for i := range axis {
		axis[i] = t0.AddDate(0, 0, i)
	}
	assert.Equal(t, axis, downsample(axis, 20))
	got := downsample(axis, 4)
	assert.Equal(t, []time.Time{axis[0], axis[3], axis[6], axis[9]}, got)
	got = downsample(axis, 3)
	assert.Equal(t, []time.Time{axis[0], axis[4], axis[8], axis[9]}, got)
}

type fakeSender struct {
	texts  []string
	photos []string
}

func (f *fakeSender) SendText(text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeSender) SendPhoto(name string, img []byte, caption string) error {
	f.photos = append(f.photos, name)
	return nil
}

func TestTelegram(t *testing.T) {
	md := NewMarkdown(&bytes.Buffer{}, "Report")
	md.Plain = true
	chart := NewChart("")
	chart.Width, chart.Height = 600, 300
	s := &fakeSender{}
	require.NoError(t, Publish(testComparison(), Multi{md, chart, NewTelegram(s, md, chart)}))

	assert.Equal(t, []string{"cumulative_returns.png"}, s.photos)
	require.Len(t, s.texts, 1)
	assert.Contains(t, s.texts[0], "| FCNTX | 0.54% |")
}

func TestSummary(t *testing.T) {
	s := Summary(testComparison())
	assert.Contains(t, s, "Window: 2020-01-02 to 2022-01-02, 252 periods per year")
	assert.Contains(t, s, "Active Funds (average expense ratio 0.54%)")
	assert.Contains(t, s, "VOO: expense 0.03%, annual return 10.00% after fees, growth x1.210 over 2.0 years")
}
