package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/google/uuid"
)

type LinkValidator interface {
	ValidateNewLink(trigger, result model.NodeRef, existing []model.Link, approvalToken string) model.Verdict
}

// Committer serializes edge insertion: the snapshot is reloaded and the edge
// re-validated while holding the write lock, so two concurrent commits cannot
// jointly close a cycle.
type Committer struct {
	Store     LinkStore
	Validator LinkValidator

	UUIDGenerator func() string
	Now           func() time.Time

	log *slog.Logger
	mu  sync.Mutex
}

func NewCommitter(s LinkStore, v LinkValidator, log *slog.Logger) *Committer {
	return &Committer{
		Store:         s,
		Validator:     v,
		UUIDGenerator: func() string { return uuid.New().String() },
		Now:           func() time.Time { return time.Now().UTC() },
		log:           log,
	}
}

// Commit persists the edge only when the verdict is valid and needs no further
// approval. An edge that is already stored is not rewritten; its stored record
// is returned. The returned record is nil when the verdict blocked the write.
func (c *Committer) Commit(ctx context.Context, trigger, result model.NodeRef, approvalToken string) (model.Verdict, *Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.Store.Links(ctx)
	if err != nil {
		return model.Verdict{}, nil, fmt.Errorf("failed to load link snapshot: %w", err)
	}

	verdict := c.Validator.ValidateNewLink(trigger, result, existing, approvalToken)
	if !verdict.IsValid || verdict.RequiresCheckpoint {
		c.log.Info("link not committed",
			"trigger_id", trigger.ID,
			"result_id", result.ID,
			"valid", verdict.IsValid,
			"requires_checkpoint", verdict.RequiresCheckpoint)
		return verdict, nil, nil
	}

	stored, err := c.Store.Record(ctx, model.Link{TriggerID: trigger.ID, ResultID: result.ID})
	if err == nil {
		c.log.Info("link already committed", "uuid", stored.UUID, "trigger_id", trigger.ID, "result_id", result.ID)
		return verdict, stored, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return verdict, nil, fmt.Errorf("failed to look up link %s -> %s: %w", trigger.ID, result.ID, err)
	}

	rec := &Record{
		UUID:          c.UUIDGenerator(),
		TriggerID:     trigger.ID,
		TriggerName:   trigger.Name,
		ResultID:      result.ID,
		ResultName:    result.Name,
		ApprovalToken: approvalToken,
		CreatedAt:     c.Now(),
	}
	if err := c.Store.SaveLink(ctx, *rec); err != nil {
		return verdict, nil, fmt.Errorf("failed to commit link %s -> %s: %w", trigger.ID, result.ID, err)
	}

	c.log.Info("link committed", "uuid", rec.UUID, "trigger_id", trigger.ID, "result_id", result.ID)
	return verdict, rec, nil
}
