package controlbus

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	commandsQueue  = "commands"
	colorsQueue    = "colors"
	reconnectDelay = 30 * time.Second
)

// AMQPBus is the production Source, backed by a durable, non-auto-delete
// "commands" queue (plus an optional "colors" queue in server mode).
// Mirrors PikaConnection's lazy-reconnect-on-demand behavior: a dropped
// connection is silently discarded and rebuilt on the next call rather
// than treated as fatal.
type AMQPBus struct {
	url        string
	serverMode bool
	log        *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPBus builds a bus that lazily connects on first use.
func NewAMQPBus(url string, serverMode bool, log *zap.Logger) *AMQPBus {
	return &AMQPBus{url: url, serverMode: serverMode, log: log}
}

// channel returns a live channel, reconnecting if the cached one has
// dropped. Returns an error (never panics) if the broker is unreachable;
// callers retry with their own backoff loop per spec.md §7.
func (b *AMQPBus) channel() (*amqp.Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil && b.conn.IsClosed() {
		b.conn = nil
		b.ch = nil
	}
	if b.ch != nil && b.ch.IsClosed() {
		b.ch = nil
	}
	if b.conn != nil && b.ch != nil {
		return b.ch, nil
	}

	conn, err := amqp.Dial(b.url)
	if err != nil {
		return nil, fmt.Errorf("controlbus: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("controlbus: open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(commandsQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("controlbus: declare commands queue: %w", err)
	}
	if b.serverMode {
		if _, err := ch.QueueDeclare(colorsQueue, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("controlbus: declare colors queue: %w", err)
		}
	}

	b.conn, b.ch = conn, ch
	return ch, nil
}

// connectWithBackoff retries channel() every reconnectDelay until it
// succeeds, logging each failure, matching driver.py's wait() loop.
func (b *AMQPBus) connectWithBackoff() (*amqp.Channel, error) {
	for {
		ch, err := b.channel()
		if err == nil {
			return ch, nil
		}
		if b.log != nil {
			b.log.Warn("controlbus connect failed, retrying", zap.Error(err), zap.Duration("backoff", reconnectDelay))
		}
		time.Sleep(reconnectDelay)
	}
}

// WaitForCommand blocks (reconnecting as needed) until exactly one command
// arrives, acking it immediately, then cancels the consumer — matching the
// original's "consume one, then cancel" idle-wait pattern.
func (b *AMQPBus) WaitForCommand() (Command, error) {
	ch, err := b.connectWithBackoff()
	if err != nil {
		return Command{}, err
	}

	consumerTag := "pilight-wait-" + uuid.NewString()
	deliveries, err := ch.Consume(commandsQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return Command{}, fmt.Errorf("controlbus: consume: %w", err)
	}
	defer ch.Cancel(consumerTag, false)

	d, ok := <-deliveries
	if !ok {
		return Command{}, fmt.Errorf("controlbus: delivery channel closed")
	}
	_ = d.Ack(false)

	cmd, err := DecodeCommand(d.Body)
	if err != nil {
		// Malformed command: never propagate, just report an empty command
		// (no kind), which the idle loop ignores.
		return Command{}, nil
	}
	return cmd, nil
}

// Poll performs a non-destructive basic.get, used while a run is active so
// the broker isn't hammered (spec.md §4.5). Returns ok=false when the
// queue is currently empty.
func (b *AMQPBus) Poll() (Command, bool, error) {
	ch, err := b.channel()
	if err != nil {
		// Broker unreachable: treat as "nothing to report" per spec.md §7's
		// transient-I/O-error handling, not a fatal loop error.
		if b.log != nil {
			b.log.Warn("controlbus poll: broker unavailable", zap.Error(err))
		}
		return Command{}, false, nil
	}

	msg, ok, err := ch.Get(commandsQueue, true)
	if err != nil {
		return Command{}, false, nil
	}
	if !ok {
		return Command{}, false, nil
	}

	cmd, err := DecodeCommand(msg.Body)
	if err != nil {
		return Command{}, false, nil
	}
	return cmd, true, nil
}

// Purge drops any commands left over from before this run.
func (b *AMQPBus) Purge() error {
	ch, err := b.connectWithBackoff()
	if err != nil {
		return err
	}
	_, err = ch.QueuePurge(commandsQueue, false)
	return err
}

// Close releases the connection; safe to call even if never connected.
func (b *AMQPBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch != nil {
		b.ch.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}

// PublishColorFrame publishes a pre-encoded client-mode pixel frame to the
// colors queue, used by the "client" output device (spec.md §6: the colors
// queue carries base64-encoded raw pixel blobs; callers are responsible for
// base64-encoding body before calling this, matching devices/client.py's
// base64.b64encode(self.to_data(colors)) before basic_publish).
func (b *AMQPBus) PublishColorFrame(body []byte) error {
	ch, err := b.channel()
	if err != nil {
		return err
	}
	return ch.Publish("", colorsQueue, false, false, amqp.Publishing{
		ContentType: "text/plain",
		Body:        body,
	})
}

// QueueDepth reports the colors queue's current message count, used by the
// client device to decide when to purge under backpressure.
func (b *AMQPBus) QueueDepth() (int, error) {
	ch, err := b.channel()
	if err != nil {
		return 0, err
	}
	q, err := ch.QueueInspect(colorsQueue)
	if err != nil {
		return 0, err
	}
	return q.Messages, nil
}

// PurgeColorQueue drops all pending color frames, used when queue depth
// exceeds the client device's high-water mark.
func (b *AMQPBus) PurgeColorQueue() error {
	ch, err := b.channel()
	if err != nil {
		return err
	}
	_, err = ch.QueuePurge(colorsQueue, false)
	return err
}
