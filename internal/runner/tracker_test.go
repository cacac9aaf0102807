package runner

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracker_Record(t *testing.T) {
	t.Parallel()

	tracker := NewTracker([]string{"b", "a", "c"})
	require.Equal(t, []string{"a", "b", "c"}, tracker.Pending())
	require.Empty(t, tracker.List())

	require.NoError(t, tracker.Record(ServerResult{Name: "b", Description: "second"}))

	res, ok := tracker.Get("b")
	require.True(t, ok)
	require.Equal(t, "second", res.Description)

	_, ok = tracker.Get("a")
	require.False(t, ok)

	err := tracker.Record(ServerResult{Name: "unknown"})
	require.ErrorIs(t, err, ErrNotTracked)
	require.Contains(t, err.Error(), "unknown")

	require.Equal(t, []string{"a", "c"}, tracker.Pending())
}

func TestTracker_ConcurrentRecord(t *testing.T) {
	t.Parallel()

	names := make([]string, 50)
	for i := range names {
		names[i] = fmt.Sprintf("server-%02d", i)
	}
	tracker := NewTracker(names)

	errs := make([]error, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = tracker.Record(ServerResult{Name: name})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	list := tracker.List()
	require.Len(t, list, 50)
	require.Empty(t, tracker.Pending())
	for i, res := range list {
		require.Equal(t, names[i], res.Name)
	}
}
