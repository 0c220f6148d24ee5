package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookclub/pkg/logger"
)

type publishedMsg struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu        sync.Mutex
	published []publishedMsg
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMsg{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error { return nil }

// fakeAck 记录Ack/Nack调用
type fakeAck struct {
	mu      sync.Mutex
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (a *fakeAck) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAck) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = append(a.nacked, tag)
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *fakeAck) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type orderReceived struct {
	UserID    uint   `json:"user_id"`
	OrderCode string `json:"order_code"`
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisherWithChannel(ch, "bookclub.events", logger.Nop())

	err := p.Publish(context.Background(), "order.received", orderReceived{UserID: 7, OrderCode: "AB12CD"})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "bookclub.events", got.exchange)
	assert.Equal(t, "order.received", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var body orderReceived
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "AB12CD", body.OrderCode)
}

func TestPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	p := NewPublisherWithChannel(ch, "bookclub.events", logger.Nop())

	err := p.Publish(context.Background(), "order.received", orderReceived{})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestDispatch_AckAndNack(t *testing.T) {
	ack := &fakeAck{}
	msgs := make(chan amqp.Delivery, 3)
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("ok")}
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("bad")}
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte("retry")}
	close(msgs)

	handler := func(_ context.Context, body []byte) error {
		switch string(body) {
		case "bad":
			return fmt.Errorf("解析失败: %w", ErrDrop)
		case "retry":
			return errors.New("redis unavailable")
		default:
			return nil
		}
	}

	err := Dispatch(context.Background(), "order.notification", msgs, handler, logger.Nop())
	require.Error(t, err, "channel关闭后应返回错误")

	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2, 3}, ack.nacked)
	assert.Equal(t, []bool{false, true}, ack.requeue)
}

func TestDispatch_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan amqp.Delivery)

	done := make(chan error, 1)
	go func() {
		done <- Dispatch(ctx, "order.notification", msgs, func(context.Context, []byte) error { return nil }, logger.Nop())
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Dispatch未在ctx取消后退出")
	}
}
