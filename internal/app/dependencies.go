package app

import (
	"github.com/klokku/marketevents/internal/config"
	"github.com/klokku/marketevents/internal/event_bus"
	"github.com/klokku/marketevents/internal/utils"
	"github.com/klokku/marketevents/pkg/dashboard"
	"github.com/klokku/marketevents/pkg/dom"
	"github.com/klokku/marketevents/pkg/marketevent"
	"github.com/klokku/marketevents/pkg/notify"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	MarketEventClient marketevent.Client
	Document          *dom.Document
	Bootstrap         *dashboard.Bootstrap
	DashboardHandler  *dashboard.Handler

	NotificationHost notify.Host
	Notifier         *notify.Notifier
}

// BuildDependencies wires the services using the HTTP market events client.
func BuildDependencies(cfg config.Application) *Dependencies {
	return BuildDependenciesWithClient(cfg, marketevent.NewClient(cfg.API.BaseURL, cfg.API.Timeout), utils.SystemClock{})
}

func BuildDependenciesWithClient(cfg config.Application, client marketevent.Client, clock utils.Clock) *Dependencies {
	var host notify.Host
	if cfg.Notifications.Enabled {
		host = notificationHost(cfg.Notifications)
	}
	return buildDependencies(cfg, client, clock, host)
}

// buildDependencies subscribes the notifier only when notifications are
// enabled and host is not nil.
func buildDependencies(cfg config.Application, client marketevent.Client, clock utils.Clock, host notify.Host) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = clock
	deps.EventBus = event_bus.NewEventBus()

	deps.MarketEventClient = client
	deps.Document = dashboard.NewDocument()
	deps.Bootstrap = dashboard.NewBootstrap(deps.MarketEventClient, deps.Document, deps.Clock, deps.EventBus, cfg.Symbol, cfg.RangeDays)
	deps.DashboardHandler = dashboard.NewHandler(deps.Bootstrap)

	if cfg.Notifications.Enabled && host != nil {
		deps.NotificationHost = host
		deps.Notifier = notify.NewNotifier(deps.NotificationHost, cfg.Notifications.Icon)
		event_bus.SubscribeTyped(deps.EventBus, event_bus.UpcomingEventsLoaded, func(e event_bus.EventT[event_bus.EventsLoaded]) error {
			deps.Notifier.NotifyChangedHighImpactEvents(e.Context(), e.Data.Events).Detach()
			return nil
		})
	}

	return deps
}

func notificationHost(cfg config.Notifications) notify.Host {
	if cfg.WebhookURL != "" {
		log.Infof("High impact notifications will be posted to the configured webhook")
		return notify.NewWebhookHost(cfg.WebhookURL)
	}
	return notify.LogHost{}
}
