package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCounterRepository_Increment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	repo := NewFileCounterRepository(path)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Increment(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lastNumber":3}`, string(data))
}

func TestFileCounterRepository_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	ctx := context.Background()

	_, err := NewFileCounterRepository(path).Increment(ctx)
	require.NoError(t, err)

	got, err := NewFileCounterRepository(path).Increment(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}

func TestFileCounterRepository_RecoversFromCorruptState(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "garbage", content: "{not json"},
		{name: "empty", content: ""},
		{name: "negative", content: `{"lastNumber":-7}`},
		{name: "wrong type", content: `{"lastNumber":"five"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "counter.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			got, err := NewFileCounterRepository(path).Increment(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(1), got)
		})
	}
}

func TestFileCounterRepository_ConcurrentIncrements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.json")
	repo := NewFileCounterRepository(path)

	const n = 50
	seen := make(chan int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.Increment(context.Background())
			if err != nil {
				t.Errorf("Increment() error = %v", err)
				return
			}
			seen <- v
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool)
	for v := range seen {
		assert.False(t, unique[v], "duplicate counter value %d", v)
		unique[v] = true
	}
	assert.Len(t, unique, n)
	assert.Equal(t, int64(n), repo.Current())
}

func TestFileCounterRepository_CanceledContext(t *testing.T) {
	repo := NewFileCounterRepository(filepath.Join(t.TempDir(), "counter.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Increment(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
