package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeChannel struct {
	mu         sync.Mutex
	exchanges  []string
	bindings   []string
	published  []amqp.Publishing
	keys       []string
	deliveries chan amqp.Delivery
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp.Table) error {
	f.exchanges = append(f.exchanges, name+":"+kind)
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	f.bindings = append(f.bindings, exchange+"->"+name+"/"+key)
	return nil
}

func (f *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type fakeAck struct {
	mu       sync.Mutex
	acked    []uint64
	nacked   []uint64
	rejected []uint64
}

func (a *fakeAck) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAck) Nack(tag uint64, _, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked = append(a.nacked, tag)
	return nil
}

func (a *fakeAck) Reject(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rejected = append(a.rejected, tag)
	return nil
}

func TestNewClientDeclaresTopology(t *testing.T) {
	ch := &fakeChannel{}
	_, err := newClient(nil, ch, Config{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"order:topic"}, ch.exchanges)
	assert.Equal(t, []string{"order->order_events/order.#"}, ch.bindings)
}

func TestPublishJSON(t *testing.T) {
	ch := &fakeChannel{}
	c, err := newClient(nil, ch, Config{Exchange: "pos"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, c.PublishJSON(context.Background(), "order.invoiced", map[string]any{"order_id": 41}))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "order.invoiced", ch.keys[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	var body map[string]any
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &body))
	assert.EqualValues(t, 41, body["order_id"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.PublishJSON(ctx, "order.invoiced", nil), context.Canceled)

	require.NoError(t, c.Close())
	assert.True(t, ch.closed)
}

func TestConsumeOrderEventsAcksNacksAndRejects(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 3)}
	c, err := newClient(nil, ch, Config{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ack := &fakeAck{}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, RoutingKey: "order.invoiced", Body: []byte(`{"order_id":1}`)}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, RoutingKey: "order.invoiced", Body: []byte(`{"order_id":2}`)}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, RoutingKey: "order.invoiced", Body: []byte(`not json`)}
	close(ch.deliveries)

	var seen []string
	handler := func(_ context.Context, key string, body []byte) error {
		seen = append(seen, key)
		if string(body) == `{"order_id":2}` {
			return errors.New("transient")
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.ConsumeOrderEvents(ctx, handler))

	assert.Len(t, seen, 2)
	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2}, ack.nacked)
	assert.Equal(t, []uint64{3}, ack.rejected)
}

func TestConsumeOrderEventsStopsOnCancel(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery)}
	c, err := newClient(nil, ch, Config{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.ConsumeOrderEvents(ctx, func(context.Context, string, []byte) error { return nil }), context.Canceled)
}
