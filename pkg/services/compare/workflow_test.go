package compare

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/store/selections"
)

func storeWith(t *testing.T, sels ...domain.SavedSelection) selections.Store {
	t.Helper()
	s, err := selections.NewFileStore(filepath.Join(t.TempDir(), "sel.json"))
	require.NoError(t, err)
	for _, sel := range sels {
		require.NoError(t, s.Save(context.Background(), sel))
	}
	return s
}

func TestWorkflow_FullCycle(t *testing.T) {
	ctx := context.Background()
	a := sel(t, "2024-01-01", "2024-01-31")
	b := sel(t, "2024-02-01", "2024-02-29")

	w := NewWorkflow()
	assert.Equal(t, StateIdle, w.State())

	require.NoError(t, w.LoadSelections(ctx, storeWith(t, a, b)))
	assert.Equal(t, StateReady, w.State())
	assert.Len(t, w.Available(), 2)

	require.NoError(t, w.Begin())
	assert.Equal(t, StateAwaitingPair, w.State())

	require.NoError(t, w.Choose(a, b))
	assert.Equal(t, StateComparing, w.State())
	assert.Equal(t, []domain.SavedSelection{a, b}, w.Chosen())

	w.Complete()
	assert.Equal(t, StateReady, w.State())
	assert.Empty(t, w.Chosen())
}

func TestWorkflow_EmptyStore_StaysIdle(t *testing.T) {
	w := NewWorkflow()
	require.NoError(t, w.LoadSelections(context.Background(), storeWith(t)))
	assert.Equal(t, StateIdle, w.State())
}

func TestWorkflow_Choose_WrongCount_StaysAwaitingPair(t *testing.T) {
	a := sel(t, "2024-01-01", "2024-01-31")

	w := NewWorkflow()
	require.NoError(t, w.LoadSelections(context.Background(), storeWith(t, a)))
	require.NoError(t, w.Begin())

	err := w.Choose(a)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StateAwaitingPair, w.State())

	err = w.Choose(a, a, a)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StateAwaitingPair, w.State())
}

func TestWorkflow_Begin_FromIdle_IsError(t *testing.T) {
	w := NewWorkflow()
	assert.Error(t, w.Begin())
}
