package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	saved []*Record
	err   error
}

func (m *memoryStore) Save(_ context.Context, rec *Record) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, rec)
	return nil
}

func (m *memoryStore) Name() string { return "memory" }

func TestService_Receive(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	svc.now = func() time.Time { return fixed }

	payload := json.RawMessage(`{"event":"frame_added"}`)
	rec, err := svc.Receive(context.Background(), payload)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, fixed.UTC(), rec.ReceivedAt)
	assert.JSONEq(t, string(payload), string(rec.Payload))
	require.Len(t, store.saved, 1)
	assert.Same(t, rec, store.saved[0])

	other, err := svc.Receive(context.Background(), payload)
	require.NoError(t, err)
	assert.NotEqual(t, rec.ID, other.ID)
}

func TestService_StoreError(t *testing.T) {
	svc := NewService(&memoryStore{err: errors.New("redis down")})
	rec, err := svc.Receive(context.Background(), json.RawMessage(`{}`))
	assert.Nil(t, rec)
	assert.EqualError(t, err, "redis down")
}

func TestService_FallsBackToLogStore(t *testing.T) {
	svc := NewService(nil)
	assert.Equal(t, "log", svc.store.Name())

	rec, err := svc.Receive(context.Background(), json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
}
