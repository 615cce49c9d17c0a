package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeEmailSend = "email:send"
	QueueName     = "notifications"
)

// QueueSender hands messages to an asynq queue instead of sending them.
// Tasks are enqueued with MaxRetry(0): delivery is at most once.
type QueueSender struct {
	client  *asynq.Client
	timeout time.Duration
}

func NewQueueSender(client *asynq.Client, timeout time.Duration) *QueueSender {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &QueueSender{client: client, timeout: timeout}
}

func NewEmailTask(msg Message) (*asynq.Task, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal email payload: %w", err)
	}
	return asynq.NewTask(TypeEmailSend, payload), nil
}

func (q *QueueSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	task, err := NewEmailTask(msg)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueName),
		asynq.MaxRetry(0),
		asynq.Timeout(q.timeout),
	); err != nil {
		return fmt.Errorf("enqueue email to %s: %w", msg.To, err)
	}
	return nil
}

// Worker consumes queued emails and delivers them with a concrete Sender.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *zap.Logger
}

func NewWorker(redisOpt asynq.RedisConnOpt, concurrency int, sender Sender, log *zap.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 5
	}
	log = log.With(zap.String("component", "notification_worker"))

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueName: 1},
		Logger:      log.Sugar(),
	})

	w := &Worker{server: server, mux: asynq.NewServeMux(), log: log}
	w.mux.HandleFunc(TypeEmailSend, HandleEmailTask(sender, log))
	return w
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	w.log.Info("Starting notification worker")
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// HandleEmailTask delivers one queued email. Failures are logged and not retried.
func HandleEmailTask(sender Sender, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var msg Message
		if err := json.Unmarshal(task.Payload(), &msg); err != nil {
			log.Error("Invalid email task payload", zap.Error(err))
			return fmt.Errorf("decode email task: %v: %w", err, asynq.SkipRetry)
		}

		if err := sender.Send(ctx, msg); err != nil {
			log.Warn("Failed to deliver queued email",
				zap.Error(err),
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
			)
			return fmt.Errorf("deliver email: %v: %w", err, asynq.SkipRetry)
		}
		return nil
	}
}
