package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolvetodo/todo-api/internal/models"
)

func TestNewTaskEvent(t *testing.T) {
	task := &models.Task{
		ID:     42,
		UserID: 7,
		Title:  "Buy milk",
	}

	event := NewTaskEvent(TaskCompleted, task, 7)

	assert.Equal(t, TaskCompleted, event.EventType)
	assert.Equal(t, uint64(42), event.TaskID)
	assert.Equal(t, uint64(7), event.UserID)
	assert.Equal(t, task, event.Task)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Minute)

	_, err := uuid.Parse(event.EventID)
	assert.NoError(t, err)
}

func TestNewTaskEvent_DistinctIDs(t *testing.T) {
	task := &models.Task{ID: 1}

	first := NewTaskEvent(TaskCreated, task, 1)
	second := NewTaskEvent(TaskCreated, task, 1)

	assert.NotEqual(t, first.EventID, second.EventID)
}

func TestTaskEvent_Payload(t *testing.T) {
	task := &models.Task{
		ID:     42,
		UserID: 7,
		Title:  "Buy milk",
	}

	event := NewTaskEvent(TaskDeleted, task, 7)

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "task.deleted", decoded["event_type"])
	assert.Equal(t, float64(42), decoded["task_id"])
	assert.NotEmpty(t, decoded["event_id"])
	assert.NotNil(t, decoded["task"])
}

func TestPublishTask_NilPublisherIsNoOp(t *testing.T) {
	var p *Publisher

	assert.NotPanics(t, func() {
		p.PublishTask(TaskCreated, &models.Task{ID: 1}, 1)
	})
}
