package notify

import (
	"context"
	"sync"
)

type StubHost struct {
	mu         sync.Mutex
	available  bool
	permission Permission
	permErr    error
	showErr    error
	shown      []Notification
	requests   int
}

func NewStubHost(available bool, permission Permission) *StubHost {
	return &StubHost{available: available, permission: permission}
}

func (s *StubHost) SetErrors(permErr, showErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permErr = permErr
	s.showErr = showErr
}

func (s *StubHost) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

func (s *StubHost) RequestPermission(ctx context.Context) (Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	if s.permErr != nil {
		return PermissionDefault, s.permErr
	}
	return s.permission, nil
}

func (s *StubHost) Show(ctx context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.showErr != nil {
		return s.showErr
	}
	s.shown = append(s.shown, n)
	return nil
}

func (s *StubHost) Shown() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.shown...)
}

func (s *StubHost) PermissionRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}
