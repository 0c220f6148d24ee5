package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookclub/internal/domain/order"
	"github.com/xiebiao/bookclub/pkg/circuitbreaker"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/mq"
)

type fakePublisher struct {
	err   error
	calls int
	keys  []string
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.calls++
	p.keys = append(p.keys, routingKey)
	return p.err
}

type fakeInbox struct {
	mu    sync.Mutex
	items map[uint][][]byte
	err   error
}

func (i *fakeInbox) Push(_ context.Context, userID uint, payload []byte) error {
	if i.err != nil {
		return i.err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.items == nil {
		i.items = make(map[uint][][]byte)
	}
	i.items[userID] = append(i.items[userID], payload)
	return nil
}

func sampleNotification() order.Notification {
	return order.Notification{
		UserID:    9,
		Kind:      order.KindOrderReceived,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		OrderCode: "ZX81QP",
	}
}

func TestMQNotifier_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	breaker := circuitbreaker.NewCircuitBreaker("notify", circuitbreaker.Config{Timeout: time.Minute})
	n := NewMQNotifier(pub, "order.received", breaker, logger.Nop())

	require.NoError(t, n.Notify(context.Background(), sampleNotification()))
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, []string{"order.received"}, pub.keys)
}

func TestMQNotifier_BreakerOpensAfterFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	breaker := circuitbreaker.NewCircuitBreaker("notify", circuitbreaker.Config{
		Timeout:     time.Minute,
		ReadyToTrip: func(c circuitbreaker.Counts) bool { return c.ConsecutiveFailures >= 2 },
	})
	n := NewMQNotifier(pub, "order.received", breaker, logger.Nop())

	for range 2 {
		err := n.Notify(context.Background(), sampleNotification())
		require.Error(t, err)
	}
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())

	err := n.Notify(context.Background(), sampleNotification())
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Equal(t, 2, pub.calls, "熔断打开后不再访问Broker")
}

func TestInboxNotifier_WritesJSON(t *testing.T) {
	inbox := &fakeInbox{}
	n := NewInboxNotifier(inbox)

	require.NoError(t, n.Notify(context.Background(), sampleNotification()))
	require.Len(t, inbox.items[9], 1)

	var got order.Notification
	require.NoError(t, json.Unmarshal(inbox.items[9][0], &got))
	assert.Equal(t, sampleNotification(), got)
}

func TestInboxHandler(t *testing.T) {
	valid, err := json.Marshal(sampleNotification())
	require.NoError(t, err)

	tests := []struct {
		name     string
		body     []byte
		inboxErr error
		wantDrop bool
		wantErr  bool
	}{
		{name: "valid message is stored", body: valid},
		{name: "malformed json is dropped", body: []byte("{"), wantDrop: true, wantErr: true},
		{name: "missing user is dropped", body: []byte(`{"kind":"OrderReceived"}`), wantDrop: true, wantErr: true},
		{name: "inbox failure is retried", body: valid, inboxErr: errors.New("redis down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inbox := &fakeInbox{err: tt.inboxErr}
			err := InboxHandler(inbox)(context.Background(), tt.body)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, inbox.items[9], 1)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantDrop, errors.Is(err, mq.ErrDrop))
		})
	}
}
