package account_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"improved-initiative/core/account"
	"improved-initiative/core/store"
	storemocks "improved-initiative/core/store/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSaver struct {
	mock.Mock
}

func (m *mockSaver) SaveBatch(ctx context.Context, slug string, items []any) error {
	args := m.Called(ctx, slug, items)
	return args.Error(0)
}

func candidate(id string, ts int64) account.Candidate {
	return account.Candidate{
		ID:           id,
		LastUpdateMs: ts,
		Load: func(ctx context.Context) (any, error) {
			return map[string]any{"Id": id, "LastUpdateMs": ts}, nil
		},
	}
}

func TestReconciler_SkipsSyncedItems(t *testing.T) {
	ctx := context.Background()
	ledger := store.NewMemory()
	saver := new(mockSaver)
	saver.On("SaveBatch", ctx, "spells", mock.Anything).Return(nil)

	r := account.NewReconciler(saver, ledger, zap.NewNop())
	targets := []account.Target{{Slug: "spells", Candidates: []account.Candidate{candidate("a", 10), candidate("b", 20)}}}

	summary, err := r.SaveAllUnsynced(ctx, targets, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Pushed)

	summary, err = r.SaveAllUnsynced(ctx, targets, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.AlreadySynced)
	assert.Equal(t, 0, summary.ToPush)
	saver.AssertNumberOfCalls(t, "SaveBatch", 1)

	// A newer local edit is pushed again.
	targets[0].Candidates[0] = candidate("a", 11)
	plan, err := r.BuildPlan(ctx, targets)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, "a", plan.Actions[0].ID)
	assert.Contains(t, plan.Actions[0].Reason, "newer than pushed 10")
}

func TestReconciler_BatchesAndProgress(t *testing.T) {
	ctx := context.Background()
	saver := new(mockSaver)
	saver.On("SaveBatch", ctx, "statblocks", mock.Anything).Return(nil)

	var candidates []account.Candidate
	for i := range 250 {
		candidates = append(candidates, candidate(fmt.Sprintf("sb%03d", i), 1))
	}

	var progress []account.Progress
	r := account.NewReconciler(saver, store.NewMemory(), zap.NewNop())
	summary, err := r.SaveAllUnsynced(ctx, []account.Target{{Slug: "statblocks", Candidates: candidates}}, 100,
		func(p account.Progress) { progress = append(progress, p) })
	require.NoError(t, err)

	assert.Equal(t, 250, summary.Pushed)
	saver.AssertNumberOfCalls(t, "SaveBatch", 3)
	assert.Len(t, saver.Calls[2].Arguments.Get(2).([]any), 50)
	assert.Equal(t, []account.Progress{
		{Slug: "statblocks", Done: 100, Total: 250},
		{Slug: "statblocks", Done: 200, Total: 250},
		{Slug: "statblocks", Done: 250, Total: 250},
	}, progress)
}

func TestReconciler_RejectedBatchIsRetriedNextTime(t *testing.T) {
	ctx := context.Background()
	ledger := store.NewMemory()
	saver := new(mockSaver)
	saver.On("SaveBatch", ctx, "spells", mock.Anything).Return(errors.New("503")).Once()
	saver.On("SaveBatch", ctx, "spells", mock.Anything).Return(nil).Once()

	r := account.NewReconciler(saver, ledger, zap.NewNop())
	targets := []account.Target{{Slug: "spells", Candidates: []account.Candidate{candidate("a", 1)}}}

	summary, err := r.SaveAllUnsynced(ctx, targets, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)

	summary, err = r.SaveAllUnsynced(ctx, targets, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pushed)
	saver.AssertExpectations(t)
}

func TestReconciler_LoadFailureSkipsItem(t *testing.T) {
	ctx := context.Background()
	saver := new(mockSaver)
	saver.On("SaveBatch", ctx, "spells", []any{map[string]any{"Id": "ok", "LastUpdateMs": int64(1)}}).Return(nil)

	broken := account.Candidate{ID: "broken", LastUpdateMs: 1, Load: func(context.Context) (any, error) { return nil, errors.New("gone") }}
	r := account.NewReconciler(saver, store.NewMemory(), zap.NewNop())
	summary, err := r.SaveAllUnsynced(ctx, []account.Target{{Slug: "spells", Candidates: []account.Candidate{broken, candidate("ok", 1)}}}, 100, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pushed)
	assert.Equal(t, 1, summary.Failed)
	saver.AssertExpectations(t)
}

func TestReconciler_DryRunAndUnconfirmed(t *testing.T) {
	ctx := context.Background()
	saver := new(mockSaver)
	r := account.NewReconciler(saver, store.NewMemory(), zap.NewNop())

	plan, err := r.BuildPlan(ctx, []account.Target{{Slug: "spells", Candidates: []account.Candidate{candidate("a", 1)}}})
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Summary.ToPush)

	for _, opts := range []account.Options{{DryRun: true, Confirmed: true}, {}} {
		summary, err := r.ApplyPlan(ctx, plan, opts, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Pushed)
	}
	saver.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciler_LedgerUnavailable(t *testing.T) {
	ledger := new(storemocks.Store)
	ledger.On("LoadAll", mock.Anything, account.LedgerNamespace).Return(nil, errors.New("locked"))

	r := account.NewReconciler(new(mockSaver), ledger, zap.NewNop())
	_, err := r.SaveAllUnsynced(context.Background(), nil, 100, nil)
	assert.ErrorContains(t, err, "failed to load sync ledger")
}
