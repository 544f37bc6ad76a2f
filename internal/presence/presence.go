// Package presence stores the local user's presence status: a small fixed
// enumeration plus an optional short custom message, persisted as JSON under
// a single named key in local device storage.
package presence

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"
)

// StorageKey is the single key the status record lives under.
const StorageKey = "userStatus"

// MaxCustomMessageLen bounds the custom message, in runes.
const MaxCustomMessageLen = 20

// Status is the user-facing presence state.
type Status string

const (
	StatusAvailable  Status = "available"
	StatusDND        Status = "dnd"
	StatusAway       Status = "away"
	StatusBusy       Status = "busy"
	StatusOpenToChat Status = "open-to-chat"
	StatusOffline    Status = "offline"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusDND, StatusAway, StatusBusy, StatusOpenToChat, StatusOffline:
		return true
	}
	return false
}

var (
	ErrInvalidStatus        = errors.New("invalid presence status")
	ErrCustomMessageTooLong = errors.New("custom message exceeds maximum length")
)

// Record is the persisted presence value.
type Record struct {
	Status        Status    `json:"status"`
	CustomMessage string    `json:"customMessage"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// Validate checks a record before persisting it.
func (r Record) Validate() error {
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	if utf8.RuneCountInString(r.CustomMessage) > MaxCustomMessageLen {
		return ErrCustomMessageTooLong
	}
	return nil
}

// Online reports whether the status counts as online for display.
func (r Record) Online() bool {
	return r.Status != StatusOffline
}

// DefaultRecord is the value used when nothing has been persisted yet.
func DefaultRecord(now time.Time) Record {
	return Record{
		Status:      StatusAvailable,
		LastUpdated: now,
	}
}

// Store persists the single presence record.
type Store interface {
	Get(ctx context.Context) (Record, error)
	Set(ctx context.Context, rec Record) error
}

// AppState mirrors the host application's foreground state.
type AppState string

const (
	AppStateActive     AppState = "active"
	AppStateBackground AppState = "background"
	AppStateInactive   AppState = "inactive"
)

// awayAfter is how long the app must sit in the background before an
// available user is shown as away.
const awayAfter = 5 * time.Minute

// NextOnAppState computes the automatic status transition for an app-state
// change, returning the new status and whether a transition applies. The
// caller owns the idle timer; this is pure.
func NextOnAppState(rec Record, state AppState, idleFor time.Duration) (Status, bool) {
	switch state {
	case AppStateActive:
		if rec.Status == StatusAway {
			return StatusAvailable, true
		}
	case AppStateBackground, AppStateInactive:
		if idleFor >= awayAfter && (rec.Status == StatusAvailable || rec.Status == StatusOpenToChat) {
			return StatusAway, true
		}
	}
	return rec.Status, false
}
