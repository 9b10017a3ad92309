package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klokku/marketevents/internal/config"
	"github.com/klokku/marketevents/internal/utils"
	"github.com/klokku/marketevents/pkg/dashboard"
	"github.com/klokku/marketevents/pkg/marketevent"
	"github.com/klokku/marketevents/pkg/render"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	baseURL    string
	symbol     string
	jsonOutput bool

	clock utils.Clock
	cfg   config.Application
}

// Execute runs the marketevents command line.
func Execute() error {
	return NewRootCommand(utils.SystemClock{}).Execute()
}

// NewRootCommand builds the command tree. clock drives "today" and the
// default date ranges.
func NewRootCommand(clock utils.Clock) *cobra.Command {
	o := &options{clock: clock}

	rootCmd := &cobra.Command{
		Use:          "marketevents <command>",
		Short:        "Economic calendar for a market symbol",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipConfig"] == "true" {
				return nil
			}
			return o.loadConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&o.configPath, "config", config.DefaultPath, "path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&o.baseURL, "base-url", "", "market events API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&o.symbol, "symbol", "", "market symbol (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&o.jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "events", Title: "Events:"},
		&cobra.Group{ID: "server", Title: "Server:"},
	)

	rootCmd.AddCommand(newServeCmd(o))
	rootCmd.AddCommand(newUpcomingCmd(o))
	rootCmd.AddCommand(newRangeCmd(o))
	rootCmd.AddCommand(newTodayCmd(o))
	rootCmd.AddCommand(newHighImpactCmd(o))
	rootCmd.AddCommand(newExportICSCmd(o))
	rootCmd.AddCommand(newConfigCmd(o))

	return rootCmd
}

func (o *options) loadConfig() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.baseURL != "" {
		cfg.API.BaseURL = o.baseURL
	}
	if o.symbol != "" {
		cfg.Symbol = o.symbol
	}
	o.cfg = cfg
	return nil
}

func (o *options) client() *marketevent.ClientImpl {
	return marketevent.NewClient(o.cfg.API.BaseURL, o.cfg.API.Timeout)
}

func (o *options) symbolOrDefault() string {
	if o.cfg.Symbol == "" {
		return marketevent.DefaultSymbol
	}
	return o.cfg.Symbol
}

// dateRange returns start and end, defaulting to today and today+rangedays,
// with the same rangedays fallback as the dashboard.
func (o *options) dateRange(start string, end string) (string, string, error) {
	rangeDays := o.cfg.RangeDays
	if rangeDays <= 0 {
		rangeDays = dashboard.DefaultRangeDays
	}
	defaultStart, defaultEnd := utils.DateRange(o.clock, rangeDays)
	if start == "" {
		start = defaultStart
	}
	if end == "" {
		end = defaultEnd
	}
	s, err := utils.ParseDate(start)
	if err != nil {
		return "", "", fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", start)
	}
	e, err := utils.ParseDate(end)
	if err != nil {
		return "", "", fmt.Errorf("invalid end date %q: expected YYYY-MM-DD", end)
	}
	if e.Before(s) {
		return "", "", fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return start, end, nil
}

func (o *options) printEvents(w io.Writer, symbol string, events []marketevent.MarketEvent) error {
	if o.jsonOutput {
		data, err := json.MarshalIndent(marketevent.EventsResponse{
			Events: events,
			Count:  len(events),
			Symbol: symbol,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling events: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	render.WriteTable(w, events)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func stdout(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
