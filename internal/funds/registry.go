// Package funds holds the fixed set of funds being compared and their expense ratios.
package funds

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"feeCompare/internal/finance"
)

// Fund is a ticker with its annual expense ratio, in percent.
type Fund struct {
	Symbol       string
	ExpenseRatio decimal.Decimal
}

// Group is an ordered, non-empty set of funds with unique symbols.
type Group struct {
	Name  string // short key, e.g. "index"
	Label string // display name, e.g. "Index Funds"
	Funds []Fund
}

const (
	IndexGroup  = "index"
	ActiveGroup = "active"
)

// Registry holds the index and active groups. It is not modified after New.
type Registry struct {
	Index  Group
	Active Group
}

// New validates both groups and returns the registry. Symbols are upper-cased.
func New(index, active []Fund) (*Registry, error) {
	ig, err := newGroup(IndexGroup, "Index Funds", index)
	if err != nil {
		return nil, err
	}
	ag, err := newGroup(ActiveGroup, "Active Funds", active)
	if err != nil {
		return nil, err
	}
	for _, f := range ag.Funds {
		if _, ok := ig.Lookup(f.Symbol); ok {
			return nil, fmt.Errorf("%w: %s is listed in both index and active groups", finance.ErrConfiguration, f.Symbol)
		}
	}
	return &Registry{Index: ig, Active: ag}, nil
}

func newGroup(name, label string, funds []Fund) (Group, error) {
	if len(funds) == 0 {
		return Group{}, fmt.Errorf("%w: %s group is empty", finance.ErrConfiguration, name)
	}
	seen := make(map[string]bool, len(funds))
	out := make([]Fund, 0, len(funds))
	for i, f := range funds {
		sym := strings.ToUpper(strings.TrimSpace(f.Symbol))
		if sym == "" {
			return Group{}, fmt.Errorf("%w: %s group: empty symbol at position %d", finance.ErrConfiguration, name, i+1)
		}
		if seen[sym] {
			return Group{}, fmt.Errorf("%w: %s group: duplicate symbol %s", finance.ErrConfiguration, name, sym)
		}
		if f.ExpenseRatio.IsNegative() {
			return Group{}, fmt.Errorf("%w: %s group: negative expense ratio %s for %s", finance.ErrConfiguration, name, f.ExpenseRatio, sym)
		}
		seen[sym] = true
		out = append(out, Fund{Symbol: sym, ExpenseRatio: f.ExpenseRatio})
	}
	return Group{Name: name, Label: label, Funds: out}, nil
}

// Default is the built-in comparison: three Vanguard index funds against
// three large actively managed growth funds.
func Default() *Registry {
	r, err := New(
		[]Fund{
			{"VOO", decimal.RequireFromString("0.03")},  // Vanguard S&P 500
			{"VTI", decimal.RequireFromString("0.03")},  // Vanguard Total Stock Market
			{"VXUS", decimal.RequireFromString("0.08")}, // Vanguard Total International Stock
		},
		[]Fund{
			{"FCNTX", decimal.RequireFromString("0.54")}, // Fidelity Contrafund
			{"AGTHX", decimal.RequireFromString("0.63")}, // American Funds Growth Fund
			{"TRBCX", decimal.RequireFromString("0.70")}, // T. Rowe Price Blue Chip Growth
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Groups returns index then active.
func (r *Registry) Groups() []Group { return []Group{r.Index, r.Active} }

// Symbols lists the group's symbols in registry order.
func (g Group) Symbols() []string {
	out := make([]string, len(g.Funds))
	for i, f := range g.Funds {
		out[i] = f.Symbol
	}
	return out
}

func (g Group) Lookup(symbol string) (Fund, bool) {
	for _, f := range g.Funds {
		if f.Symbol == symbol {
			return f, true
		}
	}
	return Fund{}, false
}

// AverageExpense is the arithmetic mean of the group's expense ratios, in percent.
func (g Group) AverageExpense() decimal.Decimal {
	if len(g.Funds) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, f := range g.Funds {
		sum = sum.Add(f.ExpenseRatio)
	}
	return sum.Div(decimal.NewFromInt(int64(len(g.Funds))))
}
