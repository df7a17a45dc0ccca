package store

import (
	"context"
	"fmt"
	"time"

	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/agenthands/causalgraph/internal/driver"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphStore reads and writes links through a Cypher graph database.
type GraphStore struct {
	Driver driver.GraphDriver
}

func NewGraphStore(d driver.GraphDriver) *GraphStore {
	return &GraphStore{Driver: d}
}

func (s *GraphStore) Links(ctx context.Context) ([]model.Link, error) {
	res, err := s.Driver.ExecuteQuery(ctx, driver.GetCausalLinksQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load causal links: %w", err)
	}

	links := make([]model.Link, 0, len(res.Records))
	for _, rec := range res.Records {
		trigger, _ := rec.Get("trigger_id")
		result, _ := rec.Get("result_id")
		triggerID, ok1 := trigger.(string)
		resultID, ok2 := result.(string)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("unexpected causal link record: %v", rec.Values)
		}
		links = append(links, model.Link{TriggerID: triggerID, ResultID: resultID})
	}
	return links, nil
}

func (s *GraphStore) Record(ctx context.Context, l model.Link) (*Record, error) {
	params := map[string]interface{}{"trigger_id": l.TriggerID, "result_id": l.ResultID}
	res, err := s.Driver.ExecuteQuery(ctx, driver.GetCausalLinkQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load link %s -> %s: %w", l.TriggerID, l.ResultID, err)
	}
	if len(res.Records) == 0 {
		return nil, ErrRecordNotFound
	}

	row := res.Records[0]
	rec := &Record{TriggerID: l.TriggerID, ResultID: l.ResultID}
	rec.UUID = stringValue(row, "uuid")
	rec.TriggerName = stringValue(row, "trigger_name")
	rec.ResultName = stringValue(row, "result_name")
	rec.ApprovalToken = stringValue(row, "approval_token")

	if v, ok := row.Get("created_at"); ok {
		switch t := v.(type) {
		case time.Time:
			rec.CreatedAt = t
		case neo4j.LocalDateTime:
			rec.CreatedAt = t.Time()
		}
	}
	return rec, nil
}

func stringValue(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	s, _ := v.(string)
	return s
}

func (s *GraphStore) SaveLink(ctx context.Context, rec Record) error {
	params := map[string]interface{}{
		"uuid":           rec.UUID,
		"trigger_id":     rec.TriggerID,
		"trigger_name":   rec.TriggerName,
		"result_id":      rec.ResultID,
		"result_name":    rec.ResultName,
		"approval_token": rec.ApprovalToken,
		"created_at":     rec.CreatedAt,
	}

	if _, err := s.Driver.ExecuteQuery(ctx, driver.SaveCausalLinkQuery, params); err != nil {
		return fmt.Errorf("failed to save causal link: %w", err)
	}
	return nil
}

func (s *GraphStore) Close(ctx context.Context) error {
	return s.Driver.Close(ctx)
}
