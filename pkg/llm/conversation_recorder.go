package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/repositories"
)

const recordTimeout = 10 * time.Second

// ConversationRecorder records LLM calls to the database.
type ConversationRecorder interface {
	// Record queues a completed call for async persistence.
	Record(conv *models.LLMConversation)

	// SavePending synchronously inserts a pending row before the call starts.
	SavePending(ctx context.Context, conv *models.LLMConversation) error

	// RecordCompletion queues an update for a pending row once the call returns.
	RecordCompletion(conv *models.LLMConversation)
}

type recordOp struct {
	conv     *models.LLMConversation
	isUpdate bool
}

// AsyncConversationRecorder persists records on a background goroutine so
// chat turns never wait on the audit write.
type AsyncConversationRecorder struct {
	repo   repositories.LLMConversationRepository
	logger *zap.Logger
	queue  chan recordOp
	done   chan struct{}
}

// NewAsyncConversationRecorder creates a new async recorder.
// queueSize controls the buffer size; when full, records are dropped with a warning.
func NewAsyncConversationRecorder(
	repo repositories.LLMConversationRepository,
	logger *zap.Logger,
	queueSize int,
) *AsyncConversationRecorder {
	if queueSize <= 0 {
		queueSize = 100
	}

	r := &AsyncConversationRecorder{
		repo:   repo,
		logger: logger.Named("conversation-recorder"),
		queue:  make(chan recordOp, queueSize),
		done:   make(chan struct{}),
	}

	go r.processQueue()

	return r
}

// Record queues a call for async persistence.
func (r *AsyncConversationRecorder) Record(conv *models.LLMConversation) {
	r.enqueue(recordOp{conv: conv})
}

// SavePending synchronously inserts a pending row so in-flight calls are visible.
func (r *AsyncConversationRecorder) SavePending(ctx context.Context, conv *models.LLMConversation) error {
	conv.Status = models.LLMConversationStatusPending

	if err := r.repo.Save(ctx, conv); err != nil {
		r.logger.Error("Failed to save pending LLM conversation",
			zap.String("purpose", conv.Purpose),
			zap.String("model", conv.Model),
			zap.Error(err))
		return err
	}

	r.logger.Debug("Saved pending LLM conversation",
		zap.String("id", conv.ID.String()),
		zap.String("purpose", conv.Purpose))

	return nil
}

// RecordCompletion queues an update for a pending row.
func (r *AsyncConversationRecorder) RecordCompletion(conv *models.LLMConversation) {
	r.enqueue(recordOp{conv: conv, isUpdate: true})
}

func (r *AsyncConversationRecorder) enqueue(op recordOp) {
	select {
	case r.queue <- op:
	default:
		r.logger.Warn("Conversation record queue full, dropping entry",
			zap.String("id", op.conv.ID.String()),
			zap.Bool("update", op.isUpdate))
	}
}

// Close stops the recorder and waits for queued records to be written.
func (r *AsyncConversationRecorder) Close() {
	close(r.queue)
	<-r.done
}

func (r *AsyncConversationRecorder) processQueue() {
	defer close(r.done)

	for op := range r.queue {
		r.persist(op)
	}
}

func (r *AsyncConversationRecorder) persist(op recordOp) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	var err error
	if op.isUpdate {
		err = r.repo.Update(ctx, op.conv)
	} else {
		err = r.repo.Save(ctx, op.conv)
	}
	if err != nil {
		r.logger.Error("Failed to persist LLM conversation",
			zap.String("id", op.conv.ID.String()),
			zap.String("status", op.conv.Status),
			zap.Bool("update", op.isUpdate),
			zap.Error(err))
		return
	}

	r.logger.Debug("Persisted LLM conversation",
		zap.String("id", op.conv.ID.String()),
		zap.String("status", op.conv.Status),
		zap.Int("duration_ms", op.conv.DurationMs))
}

var _ ConversationRecorder = (*AsyncConversationRecorder)(nil)
