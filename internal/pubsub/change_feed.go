// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pubsub

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-live-watch/internal/config"
	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeKind     = "topic"
	consumerPrefetch = 16
)

// IDGenerator names consumers and their queues.
type IDGenerator interface {
	Generate() string
}

// ChangeFeed is an AMQP subscriber for the backend change feed. It shares one
// connection between subscriptions and redials lazily when the connection
// has been lost.
type ChangeFeed struct {
	url         string
	exchange    string
	queuePrefix string
	dial        Dialer
	ids         IDGenerator
	now         func() time.Time
	logger      *logger.Logger

	mu     sync.Mutex
	conn   Connection
	subs   map[string]*consumer
	closed bool
}

type consumer struct {
	tag   string
	topic string
	ch    Channel
	stop  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// NewChangeFeed creates a transport for cfg. Nothing is dialed until the
// first Subscribe. A nil dial uses DialAMQP.
func NewChangeFeed(cfg config.ClientBroker, dial Dialer, ids IDGenerator, log *logger.Logger) (*ChangeFeed, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrNoURL
	}
	if dial == nil {
		dial = DialAMQP
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ChangeFeed{
		url:         cfg.URL,
		exchange:    cfg.Exchange,
		queuePrefix: cfg.QueuePrefix,
		dial:        dial,
		ids:         ids,
		now:         time.Now,
		logger:      log.Component("change_feed"),
		subs:        make(map[string]*consumer),
	}, nil
}

// Subscribe binds a fresh exclusive queue to topic and delivers every message
// to onPayload until Unsubscribe, ctx cancellation or a broker failure. On
// failure onError is called once and the subscription is dead.
func (f *ChangeFeed) Subscribe(ctx context.Context, topic string, onPayload func(models.TransportPayload), onError func(error)) (string, error) {
	conn, err := f.connection()
	if err != nil {
		return "", err
	}

	ch, err := conn.Channel()
	if err != nil {
		return "", fmt.Errorf("%w: open channel: %w", ErrChannelClosed, err)
	}

	tag := f.ids.Generate()
	msgs, err := f.declare(ch, topic, tag)
	if err != nil {
		_ = ch.Close()
		return "", err
	}

	c := &consumer{tag: tag, topic: topic, ch: ch, stop: make(chan struct{})}
	closeCh := ch.NotifyClose(make(chan *amqp.Error, 1))

	f.mu.Lock()
	f.subs[tag] = c
	f.mu.Unlock()

	c.wg.Add(1)
	go f.consume(ctx, c, msgs, closeCh, onPayload, onError)

	f.logger.Info().
		Str("topic", topic).
		Str("consumer", tag).
		Str("broker", redactURL(f.url)).
		Msg("consumer started")
	return tag, nil
}

// Unsubscribe cancels the consumer and closes its channel. Unknown or
// already failed handles are ignored.
func (f *ChangeFeed) Unsubscribe(handle string) error {
	f.mu.Lock()
	c, ok := f.subs[handle]
	delete(f.subs, handle)
	f.mu.Unlock()
	if !ok {
		return nil
	}

	c.once.Do(func() { close(c.stop) })
	_ = c.ch.Cancel(c.tag, false)
	err := c.ch.Close()
	c.wg.Wait()

	if err != nil && !isAlreadyClosed(err) {
		return fmt.Errorf("close channel for %s: %w", c.topic, err)
	}
	return nil
}

// Close unsubscribes everything and closes the connection.
func (f *ChangeFeed) Close() error {
	f.mu.Lock()
	f.closed = true
	tags := make([]string, 0, len(f.subs))
	for tag := range f.subs {
		tags = append(tags, tag)
	}
	conn := f.conn
	f.conn = nil
	f.mu.Unlock()

	for _, tag := range tags {
		_ = f.Unsubscribe(tag)
	}
	if conn != nil && !conn.IsClosed() {
		return conn.Close()
	}
	return nil
}

func (f *ChangeFeed) connection() (Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}
	if f.conn != nil && !f.conn.IsClosed() {
		return f.conn, nil
	}

	conn, err := f.dial(f.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDial, err)
	}
	f.conn = conn
	f.logger.Info().Str("broker", redactURL(f.url)).Msg("connected to broker")
	return conn, nil
}

func (f *ChangeFeed) declare(ch Channel, topic, tag string) (<-chan amqp.Delivery, error) {
	if err := ch.Qos(consumerPrefetch, 0, false); err != nil {
		return nil, fmt.Errorf("%w: qos: %w", ErrTopology, err)
	}
	if err := ch.ExchangeDeclare(f.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%w: exchange %s: %w", ErrTopology, f.exchange, err)
	}

	q, err := ch.QueueDeclare(f.queueName(topic, tag), false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: queue: %w", ErrTopology, err)
	}
	if err = ch.QueueBind(q.Name, topic, f.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("%w: bind %s: %w", ErrTopology, topic, err)
	}

	msgs, err := ch.Consume(q.Name, tag, false, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: consume: %w", ErrTopology, err)
	}
	return msgs, nil
}

func (f *ChangeFeed) consume(ctx context.Context, c *consumer, msgs <-chan amqp.Delivery, closeCh chan *amqp.Error,
	onPayload func(models.TransportPayload), onError func(error)) {
	defer c.wg.Done()

	fail := func(err error) {
		f.mu.Lock()
		_, live := f.subs[c.tag]
		delete(f.subs, c.tag)
		f.mu.Unlock()
		if !live {
			return
		}
		f.logger.Warn().Str("topic", c.topic).Str("consumer", c.tag).Err(err).Msg("consumer lost")
		_ = c.ch.Close()
		onError(err)
	}

	for {
		select {
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		case amqpErr, ok := <-closeCh:
			if !ok || amqpErr == nil {
				fail(ErrChannelClosed)
			} else {
				fail(fmt.Errorf("%w: %w", ErrChannelClosed, amqpErr))
			}
			return
		case d, ok := <-msgs:
			if !ok {
				select {
				case <-c.stop:
					return
				default:
				}
				fail(ErrChannelClosed)
				return
			}
			onPayload(f.toPayload(c.topic, d))
			// malformed payloads are dropped downstream, never redelivered
			_ = d.Ack(false)
		}
	}
}

func (f *ChangeFeed) toPayload(topic string, d amqp.Delivery) models.TransportPayload {
	received := d.Timestamp
	if received.IsZero() {
		received = f.now()
	}
	contentType := d.ContentType
	if contentType == "" {
		contentType = models.ContentTypeJSON
	}
	return models.TransportPayload{
		Topic:       topic,
		ContentType: contentType,
		Body:        d.Body,
		ReceivedAt:  received,
	}
}

func (f *ChangeFeed) queueName(topic, tag string) string {
	prefix := f.queuePrefix
	if prefix == "" {
		return topic + "." + tag
	}
	return prefix + "." + topic + "." + tag
}

func isAlreadyClosed(err error) bool {
	return errors.Is(err, amqp.ErrClosed)
}

// redactURL drops credentials from a broker URL for logging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Redacted()
}
