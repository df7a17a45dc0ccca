package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/agenthands/causalgraph/internal/core"
	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/agenthands/causalgraph/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, year int) model.NodeRef {
	return model.NodeRef{ID: id, Name: id, Date: model.YearOf(year)}
}

func newTestCommitter(s LinkStore) *Committer {
	c := NewCommitter(s, core.NewValidator(core.DefaultConfig(), nil), logger.Discard())
	c.UUIDGenerator = func() string { return "fixed-uuid" }
	c.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c
}

func TestCommitter_CommitsApprovedLink(t *testing.T) {
	s := NewMemoryStore()
	c := newTestCommitter(s)

	verdict, rec, err := c.Commit(context.Background(), node("a", 1450), node("b", 1517), "curator-7")
	require.NoError(t, err)
	assert.True(t, verdict.IsValid)
	assert.False(t, verdict.RequiresCheckpoint)
	require.NotNil(t, rec)
	assert.Equal(t, "fixed-uuid", rec.UUID)
	assert.Equal(t, "curator-7", rec.ApprovalToken)
	assert.Equal(t, 2026, rec.CreatedAt.Year())

	links, _ := s.Links(context.Background())
	assert.Equal(t, []model.Link{{TriggerID: "a", ResultID: "b"}}, links)
}

func TestCommitter_RecommitReturnsStoredRecord(t *testing.T) {
	s := NewMemoryStore()
	c := newTestCommitter(s)
	ctx := context.Background()

	_, first, err := c.Commit(ctx, node("a", 1450), node("b", 1517), "curator-7")
	require.NoError(t, err)
	require.NotNil(t, first)

	c.UUIDGenerator = func() string { return "never-stored" }
	verdict, again, err := c.Commit(ctx, node("a", 1450), node("b", 1517), "curator-9")
	require.NoError(t, err)
	assert.True(t, verdict.IsValid)
	require.NotNil(t, again)
	assert.Equal(t, first.UUID, again.UUID)
	assert.Equal(t, "curator-7", again.ApprovalToken)

	links, _ := s.Links(ctx)
	assert.Len(t, links, 1)
}

func TestCommitter_PendingLinkNotPersisted(t *testing.T) {
	s := NewMemoryStore()
	c := newTestCommitter(s)

	verdict, rec, err := c.Commit(context.Background(), node("a", 1450), node("b", 1517), "")
	require.NoError(t, err)
	assert.True(t, verdict.IsValid)
	assert.True(t, verdict.RequiresCheckpoint)
	assert.Nil(t, rec)

	links, _ := s.Links(context.Background())
	assert.Empty(t, links)
}

func TestCommitter_InvalidLinkNotPersisted(t *testing.T) {
	s := NewMemoryStore()
	c := newTestCommitter(s)

	verdict, rec, err := c.Commit(context.Background(), node("a", 1517), node("b", 1450), "curator-7")
	require.NoError(t, err)
	assert.False(t, verdict.IsValid)
	assert.True(t, verdict.HasCode(model.CodeAnachronism))
	assert.Nil(t, rec)

	links, _ := s.Links(context.Background())
	assert.Empty(t, links)
}

func TestCommitter_RejectsCycleAgainstStoredLinks(t *testing.T) {
	s := NewMemoryStore()
	c := newTestCommitter(s)
	ctx := context.Background()

	_, _, err := c.Commit(ctx, node("a", 1), node("b", 2), "ok")
	require.NoError(t, err)
	_, _, err = c.Commit(ctx, node("b", 2), node("c", 3), "ok")
	require.NoError(t, err)

	verdict, rec, err := c.Commit(ctx, model.NodeRef{ID: "c"}, model.NodeRef{ID: "a"}, "ok")
	require.NoError(t, err)
	assert.Nil(t, rec)
	require.True(t, verdict.HasCode(model.CodeCausalCycle))
	assert.Equal(t, []string{"c", "a", "b", "c"}, verdict.Errors[0].Details["cycle_path"])
}

// Two edges that are each acyclic alone but form a cycle together must never
// both be persisted.
func TestCommitter_ConcurrentCommitsCannotCloseCycle(t *testing.T) {
	for i := 0; i < 20; i++ {
		s := NewMemoryStore()
		c := newTestCommitter(s)
		ctx := context.Background()

		var wg sync.WaitGroup
		committed := make([]bool, 2)
		pairs := [][2]string{{"x", "y"}, {"y", "x"}}
		for j, p := range pairs {
			wg.Add(1)
			go func(j int, trigger, result string) {
				defer wg.Done()
				_, rec, err := c.Commit(ctx, model.NodeRef{ID: trigger}, model.NodeRef{ID: result}, "ok")
				assert.NoError(t, err)
				committed[j] = rec != nil
			}(j, p[0], p[1])
		}
		wg.Wait()

		assert.True(t, committed[0] != committed[1], "exactly one edge should be committed")
		links, _ := s.Links(ctx)
		assert.Len(t, links, 1)
	}
}

type failingStore struct {
	MemoryStore
	loadErr, saveErr, recordErr error
}

func (f *failingStore) Links(ctx context.Context) ([]model.Link, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return nil, nil
}

func (f *failingStore) SaveLink(ctx context.Context, rec Record) error { return f.saveErr }

func (f *failingStore) Record(ctx context.Context, l model.Link) (*Record, error) {
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	return nil, ErrRecordNotFound
}

func TestCommitter_StoreErrors(t *testing.T) {
	ctx := context.Background()

	c := newTestCommitter(&failingStore{loadErr: errors.New("disk gone")})
	_, _, err := c.Commit(ctx, node("a", 1), node("b", 2), "ok")
	assert.ErrorContains(t, err, "disk gone")

	c = newTestCommitter(&failingStore{recordErr: errors.New("lookup timed out")})
	_, rec, err := c.Commit(ctx, node("a", 1), node("b", 2), "ok")
	assert.ErrorContains(t, err, "lookup timed out")
	assert.Nil(t, rec)

	c = newTestCommitter(&failingStore{saveErr: errors.New("write refused")})
	verdict, rec, err := c.Commit(ctx, node("a", 1), node("b", 2), "ok")
	assert.ErrorContains(t, err, "write refused")
	assert.True(t, verdict.IsValid)
	assert.Nil(t, rec)
}
