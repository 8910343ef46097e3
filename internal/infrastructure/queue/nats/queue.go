// Package nats carries processing jobs from the API intake to the
// worker pool.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mediscan/ai-service/internal/core/domain"
	"github.com/mediscan/ai-service/internal/infrastructure/resilience"
)

// All workers join one queue group, so each job is delivered to exactly
// one of them.
const workerGroup = "workers"

type Queue struct {
	conn     *nats.Conn
	subject  string
	executor *resilience.Executor
}

func New(url, subject string) (*Queue, error) {
	return NewWithOptions(url, subject, Options{})
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func NewWithOptions(url, subject string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("mediscan-ai-service"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("nats reconnected: %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:     conn,
		subject:  subject,
		executor: options.ResilienceExecutor,
	}, nil
}

// Publish enqueues one job, stamped with the enqueue time so consumers
// can report queue lag.
func (q *Queue) Publish(ctx context.Context, job domain.ProcessingJob) error {
	now := time.Now().UTC()
	job.EnqueuedAt = &now

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	call := func(_ context.Context) error {
		if err := q.conn.Publish(q.subject, data); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	var pubErr error
	if q.executor != nil {
		pubErr = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		pubErr = call(ctx)
	}
	if pubErr != nil {
		return wrapTemporaryIfNeeded(pubErr)
	}
	return nil
}

// Subscribe consumes jobs in the shared worker group until ctx ends.
// Malformed messages are logged and dropped; redelivering them would
// poison the group.
func (q *Queue) Subscribe(ctx context.Context, handler func(context.Context, domain.ProcessingJob)) error {
	sub, err := q.conn.QueueSubscribe(q.subject, workerGroup, func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}

		var job domain.ProcessingJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			log.Printf("drop malformed job message: %v", err)
			return
		}

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		handler(handlerCtx, job)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

// Close drains the connection so in-flight handlers finish before the
// process exits.
func (q *Queue) Close(ctx context.Context) error {
	if q.conn == nil {
		return nil
	}

	done := make(chan struct{})
	q.conn.SetClosedHandler(func(*nats.Conn) { close(done) })

	if err := q.conn.Drain(); err != nil {
		q.conn.Close()
		return fmt.Errorf("nats drain: %w", err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		q.conn.Close()
		return ctx.Err()
	}
}
