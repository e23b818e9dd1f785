package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"

	"feeCompare/internal/finance"
)

// DefaultInvestment is the notional starting amount of the growth column, in dollars.
const DefaultInvestment = 10000

// Markdown collects the report as a markdown document and writes it on Flush,
// rendered for the terminal through glamour unless Plain is set.
type Markdown struct {
	Out        io.Writer
	Title      string
	Subtitle   string
	Plain      bool
	WordWrap   int
	Investment float64
	ChartPath  string

	groups     []string
	returns    map[string]map[string]float64
	growth     map[string]map[string]float64
	ratios     map[string]map[string]float64
	averages   map[string]float64
	commentary string
}

func NewMarkdown(out io.Writer, title string) *Markdown {
	return &Markdown{
		Out:        out,
		Title:      title,
		WordWrap:   100,
		Investment: DefaultInvestment,
		returns:    map[string]map[string]float64{},
		growth:     map[string]map[string]float64{},
		ratios:     map[string]map[string]float64{},
		averages:   map[string]float64{},
	}
}

func (m *Markdown) see(group string) {
	for _, g := range m.groups {
		if g == group {
			return
		}
	}
	m.groups = append(m.groups, group)
}

func (m *Markdown) ReportReturns(group string, v map[string]float64) error {
	m.see(group)
	m.returns[group] = v
	return nil
}

func (m *Markdown) ReportGrowth(group string, v map[string]float64) error {
	m.see(group)
	m.growth[group] = v
	return nil
}

func (m *Markdown) ReportExpenseRatios(group string, v map[string]float64) error {
	m.see(group)
	m.ratios[group] = v
	return nil
}

func (m *Markdown) ReportAverageExpense(group string, v float64) error {
	m.see(group)
	m.averages[group] = v
	return nil
}

// Plot is a no-op: the chart itself is produced by Chart.
func (m *Markdown) Plot(map[string]map[string]finance.CumulativeSeries) error { return nil }

// SetCommentary appends a free-text section to the report.
func (m *Markdown) SetCommentary(text string) { m.commentary = strings.TrimSpace(text) }

// Document returns the raw markdown collected so far.
func (m *Markdown) Document() string {
	var sb strings.Builder
	if m.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", m.Title)
	}
	if m.Subtitle != "" {
		fmt.Fprintf(&sb, "_%s_\n\n", m.Subtitle)
	}

	if len(m.returns) > 0 {
		sb.WriteString("## Average annual returns (after fees)\n\n")
		for _, g := range m.groups {
			rets, ok := m.returns[g]
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "### %s\n\n", g)
			growth := m.growth[g]
			if growth != nil {
				fmt.Fprintf(&sb, "| Fund | Annual return | Growth of %s |\n|---|---:|---:|\n", formatDollars(m.Investment))
			} else {
				sb.WriteString("| Fund | Annual return |\n|---|---:|\n")
			}
			for _, sym := range sortedKeys(rets) {
				if growth != nil {
					fmt.Fprintf(&sb, "| %s | %.2f%% | %s |\n", sym, rets[sym], formatDollars(m.Investment*growth[sym]))
				} else {
					fmt.Fprintf(&sb, "| %s | %.2f%% |\n", sym, rets[sym])
				}
			}
			sb.WriteString("\n")
		}
	}

	if m.ChartPath != "" {
		fmt.Fprintf(&sb, "Cumulative returns chart: `%s`\n\n", m.ChartPath)
	}

	if len(m.ratios) > 0 {
		sb.WriteString("## Expense ratios\n\n")
		for _, g := range m.groups {
			ratios, ok := m.ratios[g]
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "### %s\n\n| Fund | Expense ratio |\n|---|---:|\n", g)
			for _, sym := range sortedKeys(ratios) {
				fmt.Fprintf(&sb, "| %s | %.2f%% |\n", sym, ratios[sym])
			}
			sb.WriteString("\n")
		}
	}

	if len(m.averages) > 0 {
		sb.WriteString("## Average expense ratio\n\n| Group | Average |\n|---|---:|\n")
		for _, g := range m.groups {
			if avg, ok := m.averages[g]; ok {
				fmt.Fprintf(&sb, "| %s | %.2f%% |\n", g, avg)
			}
		}
		sb.WriteString("\n")
	}

	if m.commentary != "" {
		fmt.Fprintf(&sb, "## Commentary\n\n%s\n", m.commentary)
	}
	return sb.String()
}

func (m *Markdown) Flush() error {
	doc := m.Document()
	if m.Plain {
		_, err := io.WriteString(m.Out, doc)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(m.WordWrap))
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(doc)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(m.Out, out)
	return err
}

func formatDollars(v float64) string {
	return money.New(int64(math.Round(v*100)), money.USD).Display()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
