package presence

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWhenUnset(t *testing.T) {
	store := NewMemoryStore()

	rec, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, rec.Status)
	assert.Empty(t, rec.CustomMessage)
	assert.True(t, rec.Online())
}

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	want := Record{
		Status:        StatusOpenToChat,
		CustomMessage: "at the meetup",
		LastUpdated:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Set(ctx, want))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		wantErr error
	}{
		{"valid", Record{Status: StatusBusy}, nil},
		{"unknown status", Record{Status: "sleeping"}, ErrInvalidStatus},
		{"message at limit", Record{Status: StatusDND, CustomMessage: strings.Repeat("x", MaxCustomMessageLen)}, nil},
		{"message too long", Record{Status: StatusDND, CustomMessage: strings.Repeat("x", MaxCustomMessageLen+1)}, ErrCustomMessageTooLong},
		{"runes not bytes", Record{Status: StatusDND, CustomMessage: strings.Repeat("é", MaxCustomMessageLen)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presence.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	rec, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, rec.Status)

	want := Record{
		Status:        StatusAway,
		CustomMessage: "back at 3pm",
		LastUpdated:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Set(ctx, want))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Overwrite under the same key, no second row.
	want.Status = StatusOffline
	require.NoError(t, store.Set(ctx, want))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusOffline, got.Status)
	assert.False(t, got.Online())
}

func TestSQLiteRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presence.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	err = store.Set(context.Background(), Record{Status: "nope"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNextOnAppState(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		state   AppState
		idleFor time.Duration
		want    Status
		changed bool
	}{
		{"away becomes available on activity", Record{Status: StatusAway}, AppStateActive, 0, StatusAvailable, true},
		{"available stays on activity", Record{Status: StatusAvailable}, AppStateActive, 0, StatusAvailable, false},
		{"available idles to away", Record{Status: StatusAvailable}, AppStateBackground, 5 * time.Minute, StatusAway, true},
		{"open-to-chat idles to away", Record{Status: StatusOpenToChat}, AppStateInactive, 6 * time.Minute, StatusAway, true},
		{"dnd never auto-transitions", Record{Status: StatusDND}, AppStateBackground, time.Hour, StatusDND, false},
		{"short idle does nothing", Record{Status: StatusAvailable}, AppStateBackground, time.Minute, StatusAvailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := NextOnAppState(tt.rec, tt.state, tt.idleFor)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}
