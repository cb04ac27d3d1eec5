package selections

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraos/retail-insights/pkg/models/domain"
)

func testStore(t *testing.T) (Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "date_selections.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	return s, path
}

func sel(t *testing.T, start, end string) domain.SavedSelection {
	t.Helper()
	r, err := domain.ParseDateRange(start, end)
	require.NoError(t, err)
	return domain.SavedSelection{Start: r.Start, End: r.End}
}

func TestFileStore_Load_MissingFile_ReturnsEmpty(t *testing.T) {
	s, _ := testStore(t)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStore_SaveThenLoad_RoundTripsInOrder(t *testing.T) {
	s, path := testStore(t)
	ctx := context.Background()

	first := sel(t, "2024-01-01", "2024-01-31")
	second := sel(t, "2024-02-01", "2024-02-29")

	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	// A fresh store instance must see the same sequence from disk.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := reopened.Load(ctx)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, first, got[0])
	assert.Equal(t, second, got[1])
}

func TestFileStore_Save_AllowsDuplicates(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	same := sel(t, "2024-03-01", "2024-03-31")
	require.NoError(t, s.Save(ctx, same))
	require.NoError(t, s.Save(ctx, same))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFileStore_Save_RejectsReversedRange(t *testing.T) {
	s, _ := testStore(t)

	bad := domain.SavedSelection{
		Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	err := s.Save(context.Background(), bad)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestFileStore_Load_CorruptFile_IsPersistenceError(t *testing.T) {
	s, path := testStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := s.Load(context.Background())

	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Op)
}

func TestFileStore_Load_UnparseableDates_IsPersistenceError(t *testing.T) {
	s, path := testStore(t)
	corrupt := `[{"start_date":"not-a-date","end_date":"2024-01-31"}]`
	require.NoError(t, os.WriteFile(path, []byte(corrupt), 0o644))

	_, err := s.Load(context.Background())

	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
}

func TestFileStore_Save_KeepsPreviousContentsOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "date_selections.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sel(t, "2024-01-01", "2024-01-31")))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// Make the directory unwritable so the temp file cannot be created.
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err = s.Save(ctx, sel(t, "2024-02-01", "2024-02-29"))
	var perr *domain.PersistenceError
	if !errors.As(err, &perr) {
		// Running as root the chmod has no effect; nothing to assert.
		t.Skip("directory permissions not enforced in this environment")
	}

	require.NoError(t, os.Chmod(dir, 0o755))
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
