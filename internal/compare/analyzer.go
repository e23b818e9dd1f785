// Package compare runs the fee-adjusted return pipeline for every fund group.
package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"feeCompare/internal/finance"
	"feeCompare/internal/funds"
)

// FundResult is the outcome of the pipeline for one fund.
type FundResult struct {
	Fund         funds.Fund
	Cumulative   finance.CumulativeSeries
	FinalGrowth  float64
	ElapsedYears float64
	AnnualReturn float64 // percent
}

// GroupResult collects the results of one fund group, in registry order.
type GroupResult struct {
	Name           string
	Label          string
	Funds          []FundResult
	AverageExpense decimal.Decimal
}

// Comparison is the result of a full run.
type Comparison struct {
	Start, End     time.Time
	PeriodsPerYear int
	Index, Active  GroupResult
}

// Groups returns index then active.
func (c *Comparison) Groups() []GroupResult { return []GroupResult{c.Index, c.Active} }

// Analyzer wires a price provider into the return pipeline.
type Analyzer struct {
	Provider       finance.Provider
	PeriodsPerYear int
	Logger         zerolog.Logger
}

func NewAnalyzer(p finance.Provider, periodsPerYear int, log zerolog.Logger) *Analyzer {
	return &Analyzer{Provider: p, PeriodsPerYear: periodsPerYear, Logger: log}
}

// Compare analyzes both groups of reg, index first. Any failure aborts the run.
func (a *Analyzer) Compare(ctx context.Context, reg *funds.Registry, start, end time.Time) (*Comparison, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: window end %s is not after start %s", finance.ErrConfiguration, end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	idx, err := a.AnalyzeGroup(ctx, reg.Index, start, end)
	if err != nil {
		return nil, err
	}
	act, err := a.AnalyzeGroup(ctx, reg.Active, start, end)
	if err != nil {
		return nil, err
	}
	return &Comparison{Start: start, End: end, PeriodsPerYear: a.PeriodsPerYear, Index: idx, Active: act}, nil
}

// AnalyzeGroup fetches the group's prices on one date axis and runs
// Returns -> ApplyDailyFee -> Compound -> Annualize for each fund.
func (a *Analyzer) AnalyzeGroup(ctx context.Context, g funds.Group, start, end time.Time) (GroupResult, error) {
	symbols := g.Symbols()
	log := a.Logger.With().Str("group", g.Name).Logger()
	log.Info().Strs("symbols", symbols).Str("start", start.Format("2006-01-02")).Str("end", end.Format("2006-01-02")).Msg("fetching prices")

	prices, err := a.Provider.Fetch(ctx, symbols, start, end)
	if err != nil {
		return GroupResult{}, fmt.Errorf("%s group: %w", g.Name, err)
	}
	if err := finance.CheckAligned(prices, symbols); err != nil {
		return GroupResult{}, fmt.Errorf("%s group: %w", g.Name, err)
	}

	out := GroupResult{Name: g.Name, Label: g.Label, AverageExpense: g.AverageExpense()}
	for _, f := range g.Funds {
		fr, err := a.analyzeFund(f, prices[f.Symbol])
		if err != nil {
			return GroupResult{}, fmt.Errorf("%s group: %w", g.Name, err)
		}
		log.Info().Str("symbol", f.Symbol).Float64("annual_return", fr.AnnualReturn).Float64("years", fr.ElapsedYears).Msg("fund analyzed")
		out.Funds = append(out.Funds, fr)
	}
	return out, nil
}

func (a *Analyzer) analyzeFund(f funds.Fund, prices finance.PriceSeries) (FundResult, error) {
	returns, err := finance.Returns(prices)
	if err != nil {
		return FundResult{}, err
	}
	adjusted, err := finance.ApplyDailyFee(returns, f.ExpenseRatio.InexactFloat64(), a.PeriodsPerYear)
	if err != nil {
		return FundResult{}, err
	}
	cum, err := finance.Compound(adjusted)
	if err != nil {
		return FundResult{}, err
	}
	years := finance.ElapsedYears(prices.Points[0].Date, prices.Points[len(prices.Points)-1].Date)
	annual, err := finance.Annualize(cum.Last(), years)
	if err != nil {
		return FundResult{}, fmt.Errorf("%s: %w", f.Symbol, err)
	}
	return FundResult{
		Fund:         f,
		Cumulative:   cum,
		FinalGrowth:  cum.Last(),
		ElapsedYears: years,
		AnnualReturn: annual,
	}, nil
}
