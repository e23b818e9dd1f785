// Package report presents a comparison: markdown tables for the terminal, a
// PNG chart of cumulative growth, and an optional Telegram delivery. Nothing
// here computes; all numbers come from compare.Comparison.
package report

import (
	"errors"

	"feeCompare/internal/compare"
	"feeCompare/internal/finance"
)

// Reporter is the presentation boundary of the pipeline.
type Reporter interface {
	ReportReturns(group string, annualReturns map[string]float64) error
	ReportExpenseRatios(group string, ratios map[string]float64) error
	ReportAverageExpense(group string, percent float64) error
	Plot(curves map[string]map[string]finance.CumulativeSeries) error
}

// GrowthReporter is implemented by reporters that also show final growth factors.
type GrowthReporter interface {
	ReportGrowth(group string, growth map[string]float64) error
}

// Flusher is implemented by reporters that buffer output until the report is complete.
type Flusher interface {
	Flush() error
}

// Publish feeds c to r in report order: returns per group, the chart, expense
// ratios per group, then the group averages.
func Publish(c *compare.Comparison, r Reporter) error {
	groups := c.Groups()
	for _, g := range groups {
		if err := r.ReportReturns(g.Label, annualReturns(g)); err != nil {
			return err
		}
		if gr, ok := r.(GrowthReporter); ok {
			if err := gr.ReportGrowth(g.Label, finalGrowth(g)); err != nil {
				return err
			}
		}
	}

	curves := make(map[string]map[string]finance.CumulativeSeries, len(groups))
	for _, g := range groups {
		m := make(map[string]finance.CumulativeSeries, len(g.Funds))
		for _, f := range g.Funds {
			m[f.Fund.Symbol] = f.Cumulative
		}
		curves[g.Label] = m
	}
	if err := r.Plot(curves); err != nil {
		return err
	}

	for _, g := range groups {
		if err := r.ReportExpenseRatios(g.Label, expenseRatios(g)); err != nil {
			return err
		}
	}
	for _, g := range groups {
		if err := r.ReportAverageExpense(g.Label, g.AverageExpense.InexactFloat64()); err != nil {
			return err
		}
	}
	if f, ok := r.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func annualReturns(g compare.GroupResult) map[string]float64 {
	out := make(map[string]float64, len(g.Funds))
	for _, f := range g.Funds {
		out[f.Fund.Symbol] = f.AnnualReturn
	}
	return out
}

func finalGrowth(g compare.GroupResult) map[string]float64 {
	out := make(map[string]float64, len(g.Funds))
	for _, f := range g.Funds {
		out[f.Fund.Symbol] = f.FinalGrowth
	}
	return out
}

func expenseRatios(g compare.GroupResult) map[string]float64 {
	out := make(map[string]float64, len(g.Funds))
	for _, f := range g.Funds {
		out[f.Fund.Symbol] = f.Fund.ExpenseRatio.InexactFloat64()
	}
	return out
}

// Multi fans every call out to all of its reporters.
type Multi []Reporter

func (m Multi) ReportReturns(group string, v map[string]float64) error {
	return m.each(func(r Reporter) error { return r.ReportReturns(group, v) })
}

func (m Multi) ReportExpenseRatios(group string, v map[string]float64) error {
	return m.each(func(r Reporter) error { return r.ReportExpenseRatios(group, v) })
}

func (m Multi) ReportAverageExpense(group string, v float64) error {
	return m.each(func(r Reporter) error { return r.ReportAverageExpense(group, v) })
}

func (m Multi) Plot(curves map[string]map[string]finance.CumulativeSeries) error {
	return m.each(func(r Reporter) error { return r.Plot(curves) })
}

func (m Multi) ReportGrowth(group string, v map[string]float64) error {
	return m.each(func(r Reporter) error {
		if gr, ok := r.(GrowthReporter); ok {
			return gr.ReportGrowth(group, v)
		}
		return nil
	})
}

// Flush flushes every reporter and joins their errors.
func (m Multi) Flush() error {
	var errs []error
	for _, r := range m {
		if f, ok := r.(Flusher); ok {
			if err := f.Flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (m Multi) each(fn func(Reporter) error) error {
	for _, r := range m {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
