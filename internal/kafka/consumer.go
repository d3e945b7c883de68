package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/gammazero/workerpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/scanbridge/scanbridge/internal/config"
	"github.com/segmentio/kafka-go"
)

var consumeMetrics = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "kafka_messages_consumed",
	Help: "Duration of consumed Kafka messages by result",
}, []string{"status", "topic", "group"})

// Handler processes one Kafka message. A returned error is logged and the
// message is not redelivered; poison messages must not wedge the group.
type Handler func(ctx context.Context, msg kafka.Message) error

type Consumer struct {
	reader         *kafka.Reader
	pool           *workerpool.WorkerPool
	handler        Handler
	consumeTimeout time.Duration
	done           chan struct{}
}

func NewConsumer(conf config.KafkaConfig, maxWorkers int, handler Handler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     conf.Brokers,
		Topic:       conf.Topic,
		GroupID:     conf.GroupID,
		StartOffset: kafka.LastOffset,
	})

	return &Consumer{
		reader:         reader,
		pool:           workerpool.New(maxWorkers),
		handler:        handler,
		consumeTimeout: 30 * time.Second,
		done:           make(chan struct{}),
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	log.Infof(ctx, "Starting Kafka consumer for topic: %s", c.reader.Config().Topic)
	groupID := c.reader.Config().GroupID

	for ctx.Err() == nil {
		select {
		case <-c.done:
			return nil
		default:
		}

		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.Errorw(ctx, "Error reading message", "error", err)
			continue
		}

		c.pool.Submit(func() {
			c.processMessage(ctx, msg, groupID)
		})
	}
	return nil
}

func (c *Consumer) Stop(ctx context.Context) error {
	log.Infof(ctx, "Stopping Kafka consumer")
	close(c.done)
	c.pool.StopWait()
	return c.reader.Close()
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message, groupID string) {
	start := time.Now()
	lagMs := start.Sub(msg.Time).Milliseconds()

	err := c.handle(ctx, msg)
	duration := time.Since(start)

	status := "success"
	content := "consumed message"
	if err != nil {
		status = "error"
		content = err.Error()
	}

	args := []any{
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"lag_ms", lagMs,
		"key", string(msg.Key),
		"value", json.RawMessage(msg.Value),
	}
	if err != nil {
		log.Errorw(ctx, content, args...)
	} else {
		log.Infow(ctx, content, args...)
	}

	consumeMetrics.
		WithLabelValues(status, msg.Topic, groupID).
		Observe(duration.Seconds())
}

func (c *Consumer) handle(msgCtx context.Context, msg kafka.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			length := runtime.Stack(stack, false)
			err = fmt.Errorf("PANIC RECOVER: %+v / %s", r, string(stack[:length]))
		}
	}()

	ctx, cancel := context.WithTimeout(msgCtx, c.consumeTimeout)
	defer cancel()

	return c.handler(ctx, msg)
}
