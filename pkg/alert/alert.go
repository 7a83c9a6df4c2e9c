package alert

import (
	"context"
	"errors"
	"fmt"
)

// Notification announces that one of a producer's posts entered the
// trending set.
type Notification struct {
	Producer  string  `json:"producer"`
	PostID    string  `json:"post_id"`
	Title     string  `json:"title"`
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
	Plays7d   float64 `json:"plays_7d"`
	Likes     int     `json:"likes"`
	Saves     int     `json:"saves"`
}

// Notifier delivers alerts to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, n *Notification) error
}

// Manager broadcasts notifications to all registered notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new alert manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Broadcast sends a notification to all registered notifiers.
func (m *Manager) Broadcast(ctx context.Context, n *Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
