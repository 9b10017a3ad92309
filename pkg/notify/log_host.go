package notify

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogHost writes notifications to the log. It is always available and
// never asks for permission.
type LogHost struct{}

func (LogHost) Available() bool {
	return true
}

func (LogHost) RequestPermission(ctx context.Context) (Permission, error) {
	return PermissionGranted, nil
}

func (LogHost) Show(ctx context.Context, n Notification) error {
	log.WithFields(log.Fields{
		"id":   n.ID.String(),
		"icon": n.Icon,
	}).Infof("%s: %s", n.Title, n.Body)
	return nil
}
