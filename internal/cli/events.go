package cli

import (
	"fmt"
	"os"

	"github.com/klokku/marketevents/pkg/marketevent"
	"github.com/klokku/marketevents/pkg/notify"
	"github.com/spf13/cobra"
)

func newUpcomingCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "upcoming",
		Short:   "List upcoming events",
		GroupID: "events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := o.symbolOrDefault()
			resp, err := o.client().FetchUpcomingEvents(commandContext(cmd), symbol)
			if err != nil {
				return err
			}
			return o.printEvents(stdout(cmd), symbol, resp.Events)
		},
	}
}

func newRangeCmd(o *options) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:     "range",
		Short:   "List events between two dates",
		GroupID: "events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, endDate, err := o.dateRange(start, end)
			if err != nil {
				return err
			}
			symbol := o.symbolOrDefault()
			resp, err := o.client().FetchEventsByDateRange(commandContext(cmd), symbol, startDate, endDate)
			if err != nil {
				return err
			}
			return o.printEvents(stdout(cmd), symbol, resp.Events)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&end, "end", "", "last date, YYYY-MM-DD (default today + rangedays)")
	return cmd
}

func newTodayCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "today",
		Short:   "List upcoming events taking place today",
		GroupID: "events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := o.symbolOrDefault()
			resp, err := o.client().FetchUpcomingEvents(commandContext(cmd), symbol)
			if err != nil {
				return err
			}
			return o.printEvents(stdout(cmd), symbol, marketevent.GetTodayEvents(resp.Events, o.clock))
		},
	}
}

func newHighImpactCmd(o *options) *cobra.Command {
	var sendNotification bool
	cmd := &cobra.Command{
		Use:     "high-impact",
		Short:   "List upcoming high impact events",
		GroupID: "events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			symbol := o.symbolOrDefault()
			resp, err := o.client().FetchUpcomingEvents(ctx, symbol)
			if err != nil {
				return err
			}
			if err := o.printEvents(stdout(cmd), symbol, marketevent.GetHighImpactEvents(resp.Events)); err != nil {
				return err
			}
			if !sendNotification {
				return nil
			}

			var host notify.Host = notify.LogHost{}
			if o.cfg.Notifications.WebhookURL != "" {
				host = notify.NewWebhookHost(o.cfg.Notifications.WebhookURL)
			}
			err = notify.NewNotifier(host, o.cfg.Notifications.Icon).NotifyHighImpactEvents(ctx, resp.Events).Wait(ctx)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Notification not sent: %v\n", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sendNotification, "notify", false, "also send a notification for the events")
	return cmd
}

func newExportICSCmd(o *options) *cobra.Command {
	var start, end, output string
	cmd := &cobra.Command{
		Use:     "export-ics",
		Short:   "Export events between two dates as an iCalendar file",
		GroupID: "events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, endDate, err := o.dateRange(start, end)
			if err != nil {
				return err
			}
			symbol := o.symbolOrDefault()
			resp, err := o.client().FetchEventsByDateRange(commandContext(cmd), symbol, startDate, endDate)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return marketevent.WriteICS(stdout(cmd), symbol, resp.Events, o.clock.Now())
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := marketevent.WriteICS(f, symbol, resp.Events, o.clock.Now()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d events to %s\n", len(resp.Events), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&end, "end", "", "last date, YYYY-MM-DD (default today + rangedays)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
