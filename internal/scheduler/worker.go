package scheduler

import (
	"context"
	"fmt"
	"time"

	"archject_backend/internal/approvals/repository"
	"archject_backend/internal/events"
	"archject_backend/platform/config"
	"archject_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskApprovalReminder, w.handleApprovalReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleApprovalReminder re-checks the approval when the task fires: requests
// decided in the meantime are skipped, requests past their deadline are
// marked expired, and everything still pending gets a reminder event.
func (w *Worker) handleApprovalReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseApprovalReminderPayload(task)
	if err != nil {
		return err
	}

	approvalID, err := uuid.Parse(payload.ApprovalID)
	if err != nil {
		return err
	}

	ownerID, err := uuid.Parse(payload.OwnerID)
	if err != nil {
		return err
	}

	state, err := w.repo.GetReminderState(ctx, approvalID)
	if err != nil {
		return err
	}

	if state.Status != "pending" {
		return nil
	}

	if state.Deadline != nil && !state.Deadline.After(time.Now()) {
		if err := w.repo.MarkExpired(ctx, approvalID); err != nil {
			return err
		}
		w.log.Info("approval marked expired", "approvalId", approvalID)
		return nil
	}

	if w.bus == nil || state.Deadline == nil {
		return nil
	}

	w.bus.Publish(ctx, events.ApprovalReminderDue{
		BaseEvent:   events.NewBaseEvent(),
		ApprovalID:  approvalID,
		OwnerID:     ownerID,
		Title:       state.Title,
		ClientEmail: state.ClientEmail,
		PublicToken: payload.PublicToken,
		Deadline:    *state.Deadline,
	})

	return nil
}
