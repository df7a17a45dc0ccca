// Package store holds the persisted causal-link snapshot and serializes
// validate-then-commit for single-writer deployments.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/agenthands/causalgraph/internal/core/model"
)

// Record is a committed causal link.
type Record struct {
	UUID          string    `json:"uuid"`
	TriggerID     string    `json:"trigger_id"`
	TriggerName   string    `json:"trigger_name,omitempty"`
	ResultID      string    `json:"result_id"`
	ResultName    string    `json:"result_name,omitempty"`
	ApprovalToken string    `json:"approval_token,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r Record) Link() model.Link {
	return model.Link{TriggerID: r.TriggerID, ResultID: r.ResultID}
}

var ErrRecordNotFound = errors.New("link record not found")

type LinkStore interface {
	// Links returns a point-in-time snapshot of every persisted edge.
	Links(ctx context.Context) ([]model.Link, error)
	// Record returns the stored record for a link, or ErrRecordNotFound.
	Record(ctx context.Context, l model.Link) (*Record, error)
	SaveLink(ctx context.Context, rec Record) error
	Close(ctx context.Context) error
}
