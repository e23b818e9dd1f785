package report

import (
	"fmt"

	"feeCompare/internal/finance"
)

// Sender delivers text and images to a chat.
type Sender interface {
	SendText(text string) error
	SendPhoto(name string, img []byte, caption string) error
}

// Telegram forwards the finished markdown document and chart to a chat. It
// reads from the shared Markdown and Chart reporters, so it must be flushed
// after them.
type Telegram struct {
	Sender   Sender
	Markdown *Markdown
	Chart    *Chart
}

func NewTelegram(s Sender, md *Markdown, chart *Chart) *Telegram {
	return &Telegram{Sender: s, Markdown: md, Chart: chart}
}

func (t *Telegram) ReportReturns(string, map[string]float64) error       { return nil }
func (t *Telegram) ReportExpenseRatios(string, map[string]float64) error { return nil }
func (t *Telegram) ReportAverageExpense(string, float64) error           { return nil }
func (t *Telegram) Plot(map[string]map[string]finance.CumulativeSeries) error {
	return nil
}

func (t *Telegram) Flush() error {
	if t.Chart != nil && t.Chart.Bytes() != nil {
		if err := t.Sender.SendPhoto("cumulative_returns.png", t.Chart.Bytes(), t.Chart.Title); err != nil {
			return fmt.Errorf("telegram photo: %w", err)
		}
	}
	if t.Markdown != nil {
		if err := t.Sender.SendText(t.Markdown.Document()); err != nil {
			return fmt.Errorf("telegram text: %w", err)
		}
	}
	return nil
}
