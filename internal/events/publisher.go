// Package events hands task mutation events to a Redis stream. Publishing is
// best-effort: it never blocks the HTTP response and failures are only logged.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/evolvetodo/todo-api/internal/models"
)

// Event types emitted after task mutations.
const (
	TaskCreated   = "task.created"
	TaskUpdated   = "task.updated"
	TaskCompleted = "task.completed"
	TaskReopened  = "task.reopened"
	TaskDeleted   = "task.deleted"
)

const publishTimeout = 5 * time.Second

// TaskEvent is the record handed to the stream. Consumers own delivery and
// ordering guarantees; this core makes none.
type TaskEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	TaskID    uint64       `json:"task_id"`
	UserID    uint64       `json:"user_id"`
	Task      *models.Task `json:"task,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewTaskEvent builds the event record for a task mutation.
func NewTaskEvent(eventType string, task *models.Task, userID uint64) TaskEvent {
	return TaskEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		TaskID:    task.ID,
		UserID:    userID,
		Task:      task,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher writes task events to a Redis stream. A nil Publisher is a no-op,
// so callers never have to guard the event path.
type Publisher struct {
	rdb    *redis.Client
	stream string
}

// NewPublisher creates a Publisher writing to the given stream.
func NewPublisher(rdb *redis.Client, stream string) *Publisher {
	return &Publisher{rdb: rdb, stream: stream}
}

// PublishTask fires the event from its own goroutine with an independent
// timeout. Errors are swallowed after logging.
func (p *Publisher) PublishTask(eventType string, task *models.Task, userID uint64) {
	if p == nil || p.rdb == nil {
		return
	}

	event := NewTaskEvent(eventType, task, userID)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.publish(ctx, event); err != nil {
			log.Printf("events: failed to publish %s for task %d: %v", event.EventType, event.TaskID, err)
		}
	}()
}

func (p *Publisher) publish(ctx context.Context, event TaskEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"event_id":   event.EventID,
			"event_type": event.EventType,
			"payload":    payload,
		},
	}).Err()
}
