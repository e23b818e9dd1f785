package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"feeCompare/internal/compare"
	"feeCompare/internal/config"
	"feeCompare/internal/finance"
	"feeCompare/internal/openai"
	"feeCompare/internal/report"
	"feeCompare/internal/storage"
	"feeCompare/internal/telegram"
)

type compareCmd struct {
	configPath string
	years      int
	chartPath  string
	plain      bool
	noCache    bool
	commentary bool
	telegram   bool

	// provider replaces the Yahoo provider in tests.
	provider finance.Provider
	now      func() time.Time
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare after-fee returns of index and active funds" }
func (*compareCmd) Usage() string {
	return `feecompare compare [-config <file>] [-years n] [-chart <png>] [-plain] [-no-cache] [-commentary] [-telegram]

  Fetches adjusted closes for both fund groups, subtracts expense ratios as a
  daily drag, and prints average annual returns and expense ratios. A chart of
  cumulative growth is written as PNG.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "YAML config file (defaults to built-in funds and settings)")
	f.IntVar(&c.years, "years", 0, "lookback window in years (overrides config)")
	f.StringVar(&c.chartPath, "chart", "", "chart output path (overrides config; \"-\" disables)")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown instead of rendering it")
	f.BoolVar(&c.noCache, "no-cache", false, "bypass the sqlite price cache")
	f.BoolVar(&c.commentary, "commentary", false, "append a short narrative generated with OpenAI")
	f.BoolVar(&c.telegram, "telegram", false, "also send the report to the configured Telegram chat")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig(c.configPath)
	if err != nil {
		return fail(err)
	}
	if c.years > 0 {
		cfg.LookbackYears = c.years
	}
	switch c.chartPath {
	case "":
	case "-":
		cfg.ChartPath = ""
	default:
		cfg.ChartPath = c.chartPath
	}

	reg, err := cfg.Registry()
	if err != nil {
		return fail(err)
	}

	var store *storage.Store
	if s, closeDB, err := openStore(cfg.DBPath, log); err != nil {
		log.Warn().Err(err).Msg("db: unavailable, continuing without cache and history")
	} else {
		defer closeDB()
		store = s
	}

	provider := c.provider
	if provider == nil {
		var src finance.Source = finance.NewYahooSource(cfg.FetchTimeout, log.With().Str("component", "yahoo").Logger())
		if store != nil && !c.noCache {
			src = finance.NewCachedSource(src, store, cfg.CacheTTL, log.With().Str("component", "cache").Logger())
		}
		provider = finance.NewAligningProvider(src, cfg.FetchPause, log)
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	start, end := cfg.Window(now())
	analyzer := compare.NewAnalyzer(provider, cfg.PeriodsPerYear, log)
	cmp, err := analyzer.Compare(ctx, reg, start, end)
	if err != nil {
		return fail(err)
	}

	if store != nil {
		if id, err := store.RecordRun(toRun(cmp, now())); err != nil {
			log.Warn().Err(err).Msg("db: failed to record run")
		} else {
			log.Debug().Int64("run_id", id).Msg("db: run recorded")
		}
	}

	if err := c.publish(ctx, cfg, cmp, log); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

func (c *compareCmd) publish(ctx context.Context, cfg *config.Config, cmp *compare.Comparison, log zerolog.Logger) error {
	md := report.NewMarkdown(stdout, "Index Funds vs Actively Managed Funds (after fees)")
	md.Subtitle = fmt.Sprintf("%s to %s, %d-year lookback, fees applied over %d periods per year",
		cmp.Start.Format("2006-01-02"), cmp.End.Format("2006-01-02"), cfg.LookbackYears, cmp.PeriodsPerYear)
	md.Plain = c.plain
	md.ChartPath = cfg.ChartPath

	if c.commentary {
		if cfg.OpenAI.APIKey == "" {
			log.Warn().Msg("commentary requested but no OpenAI key configured")
		} else {
			cctx, cancel := context.WithTimeout(ctx, 45*time.Second)
			text, err := openai.NewCommentator(cfg.OpenAI.APIKey, cfg.OpenAI.Model).Comment(cctx, report.Summary(cmp))
			cancel()
			if err != nil {
				log.Warn().Err(err).Msg("commentary failed, skipping")
			} else {
				md.SetCommentary(text)
			}
		}
	}

	chart := report.NewChart(cfg.ChartPath)
	reporters := report.Multi{md, chart}
	if c.telegram {
		if !cfg.TelegramEnabled() {
			return fmt.Errorf("%w: -telegram needs TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID", finance.ErrConfiguration)
		}
		bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		reporters = append(reporters, report.NewTelegram(bot, md, chart))
	}
	if err := report.Publish(cmp, reporters); err != nil {
		return err
	}
	if cfg.ChartPath != "" {
		log.Info().Str("path", cfg.ChartPath).Msg("chart written")
	}
	return nil
}

func toRun(cmp *compare.Comparison, ranAt time.Time) storage.Run {
	run := storage.Run{
		RanAt:          ranAt.Unix(),
		Start:          cmp.Start.Unix(),
		End:            cmp.End.Unix(),
		PeriodsPerYear: cmp.PeriodsPerYear,
	}
	for _, g := range cmp.Groups() {
		for _, f := range g.Funds {
			run.Results = append(run.Results, storage.RunResult{
				Group:        g.Name,
				Symbol:       f.Fund.Symbol,
				ExpenseRatio: f.Fund.ExpenseRatio.InexactFloat64(),
				AnnualReturn: f.AnnualReturn,
				FinalGrowth:  f.FinalGrowth,
			})
		}
	}
	return run
}
