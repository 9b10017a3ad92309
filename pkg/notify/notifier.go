package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/klokku/marketevents/internal/metrics"
	"github.com/klokku/marketevents/pkg/marketevent"
	log "github.com/sirupsen/logrus"
)

const DefaultIcon = "/static/images/alert-icon.png"

var (
	ErrNothingToNotify  = errors.New("no high impact events to notify about")
	ErrUnavailable      = errors.New("notifications are not available")
	ErrPermissionDenied = errors.New("notification permission denied")
	ErrAlreadyNotified  = errors.New("high impact events already notified")
)

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

type Notification struct {
	ID    uuid.UUID
	Title string
	Body  string
	Icon  string
}

// Host is the environment capable of displaying notifications.
type Host interface {
	Available() bool
	RequestPermission(ctx context.Context) (Permission, error)
	Show(ctx context.Context, n Notification) error
}

type Notifier struct {
	host Host
	icon string

	mu           sync.Mutex
	lastNotified string
}

// NewNotifier returns a Notifier showing notifications on host. An empty
// icon falls back to DefaultIcon.
func NewNotifier(host Host, icon string) *Notifier {
	if icon == "" {
		icon = DefaultIcon
	}
	return &Notifier{host: host, icon: icon}
}

// BuildNotification returns the notification summarising highImpact.
func BuildNotification(highImpact []marketevent.MarketEvent, icon string) Notification {
	titles := make([]string, 0, len(highImpact))
	for _, e := range highImpact {
		titles = append(titles, e.Title)
	}
	if icon == "" {
		icon = DefaultIcon
	}
	return Notification{
		ID:    uuid.New(),
		Title: fmt.Sprintf("%d High Impact Events Coming", len(highImpact)),
		Body:  strings.Join(titles, ", "),
		Icon:  icon,
	}
}

// NotifyHighImpactEvents shows a single notification for the high impact
// subset of events. The returned task completes immediately when there is
// nothing to show or no usable host.
func (n *Notifier) NotifyHighImpactEvents(ctx context.Context, events []marketevent.MarketEvent) *Task {
	highImpact := marketevent.GetHighImpactEvents(events)
	if len(highImpact) == 0 {
		log.Debug("No high impact events, skipping notification")
		return completedTask(ErrNothingToNotify)
	}
	if n == nil || n.host == nil || !n.host.Available() {
		log.Debug("Notification host unavailable, skipping notification")
		return completedTask(ErrUnavailable)
	}

	task := newTask()
	notification := BuildNotification(highImpact, n.icon)
	go func() {
		task.complete(n.deliver(ctx, notification))
	}()
	return task
}

// NotifyChangedHighImpactEvents is NotifyHighImpactEvents for repeated loads:
// a high impact set equal to the last one delivered, or still being
// delivered, completes with ErrAlreadyNotified. A failed delivery is
// forgotten before its task completes, so the next load retries it.
func (n *Notifier) NotifyChangedHighImpactEvents(ctx context.Context, events []marketevent.MarketEvent) *Task {
	highImpact := marketevent.GetHighImpactEvents(events)
	if len(highImpact) == 0 {
		log.Debug("No high impact events, skipping notification")
		return completedTask(ErrNothingToNotify)
	}
	if n == nil || n.host == nil || !n.host.Available() {
		log.Debug("Notification host unavailable, skipping notification")
		return completedTask(ErrUnavailable)
	}

	key := highImpactKey(highImpact)
	n.mu.Lock()
	if key == n.lastNotified {
		n.mu.Unlock()
		log.Debug("High impact events unchanged, skipping notification")
		return completedTask(ErrAlreadyNotified)
	}
	n.lastNotified = key
	n.mu.Unlock()

	task := newTask()
	notification := BuildNotification(highImpact, n.icon)
	go func() {
		err := n.deliver(ctx, notification)
		if err != nil {
			n.mu.Lock()
			if n.lastNotified == key {
				n.lastNotified = ""
			}
			n.mu.Unlock()
		}
		task.complete(err)
	}()
	return task
}

func highImpactKey(highImpact []marketevent.MarketEvent) string {
	parts := make([]string, 0, len(highImpact))
	for _, e := range highImpact {
		parts = append(parts, e.EventDate+"|"+e.EventTime+"|"+e.Title)
	}
	return strings.Join(parts, "\n")
}

func (n *Notifier) deliver(ctx context.Context, notification Notification) error {
	permission, err := n.host.RequestPermission(ctx)
	if err != nil {
		metrics.ObserveNotification("error")
		return fmt.Errorf("requesting notification permission: %w", err)
	}
	if permission != PermissionGranted {
		metrics.ObserveNotification("denied")
		return ErrPermissionDenied
	}
	if err := n.host.Show(ctx, notification); err != nil {
		metrics.ObserveNotification("error")
		return fmt.Errorf("showing notification %s: %w", notification.ID, err)
	}
	metrics.ObserveNotification("shown")
	return nil
}

// Task is the pending outcome of a notification request.
type Task struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func completedTask(err error) *Task {
	t := newTask()
	t.complete(err)
	return t
}

func (t *Task) complete(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the outcome, or nil while the task is still running.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task completes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Detach logs the outcome once the task completes.
func (t *Task) Detach() {
	go func() {
		<-t.done
		switch {
		case t.err == nil:
			log.Debug("High impact notification shown")
		case errors.Is(t.err, ErrNothingToNotify), errors.Is(t.err, ErrUnavailable), errors.Is(t.err, ErrPermissionDenied),
			errors.Is(t.err, ErrAlreadyNotified):
			log.Debugf("High impact notification not shown: %v", t.err)
		default:
			log.Errorf("High impact notification failed: %v", t.err)
		}
	}()
}
