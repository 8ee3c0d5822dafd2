package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type stubSchedulerConfig struct {
	redisURL    string
	tlsInsecure bool
	queue       string
	concurrency int
}

func (c stubSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c stubSchedulerConfig) GetRedisTLSInsecure() bool { return c.tlsInsecure }
func (c stubSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c stubSchedulerConfig) GetAsynqConcurrency() int  { return c.concurrency }

func TestNewClientRequiresRedisURL(t *testing.T) {
	_, err := NewClient(stubSchedulerConfig{})
	if err == nil {
		t.Fatal("expected error for missing redis url")
	}
}

func TestNewClientRejectsMalformedRedisURL(t *testing.T) {
	_, err := NewClient(stubSchedulerConfig{redisURL: "://not-a-url"})
	if err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}

func TestScheduleApprovalReminderEnqueuesTask(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(stubSchedulerConfig{
		redisURL: "redis://" + srv.Addr(),
		queue:    "reminders",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	payload := ApprovalReminderPayload{
		ApprovalID:  uuid.NewString(),
		OwnerID:     uuid.NewString(),
		PublicToken: "tok123",
	}

	err = client.ScheduleApprovalReminder(context.Background(), payload, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(srv.Keys()) == 0 {
		t.Fatal("expected scheduled task to be stored in redis")
	}
}

func TestScheduleApprovalReminderOnNilClientIsNoop(t *testing.T) {
	var client *Client
	err := client.ScheduleApprovalReminder(context.Background(), ApprovalReminderPayload{}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApprovalReminderTaskRoundTrip(t *testing.T) {
	payload := ApprovalReminderPayload{
		ApprovalID:  uuid.NewString(),
		OwnerID:     uuid.NewString(),
		PublicToken: "tok456",
	}

	task, err := NewApprovalReminderTask(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskApprovalReminder {
		t.Errorf("task type = %q, want %q", task.Type(), TaskApprovalReminder)
	}

	parsed, err := ParseApprovalReminderPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != payload {
		t.Errorf("parsed payload = %+v, want %+v", parsed, payload)
	}
}
