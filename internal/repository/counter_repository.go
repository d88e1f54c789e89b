package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// CounterState is the persisted order counter.
type CounterState struct {
	LastNumber int64 `json:"lastNumber"`
}

// CounterRepository defines access to the persisted order counter
type CounterRepository interface {
	// Increment advances the counter by one and returns the new value.
	// The new value is durable before Increment returns.
	Increment(ctx context.Context) (int64, error)
}

// FileCounterRepository keeps CounterState in a JSON file.
//
// Increments are serialized by a mutex within the process and by an
// advisory lock file (<path>.lock) across processes. The state file is
// replaced atomically, so a crash never leaves a half-written counter.
type FileCounterRepository struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

// NewFileCounterRepository creates a repository backed by path. The file is
// created on first use.
func NewFileCounterRepository(path string) *FileCounterRepository {
	return &FileCounterRepository{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Increment implements CounterRepository.
func (r *FileCounterRepository) Increment(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.lock.Lock(); err != nil {
		return 0, fmt.Errorf("lock counter file: %w", err)
	}
	defer r.lock.Unlock()

	state := r.read()
	state.LastNumber++

	if err := r.write(state); err != nil {
		return 0, err
	}
	return state.LastNumber, nil
}

// Current returns the last issued number without changing it.
func (r *FileCounterRepository) Current() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read().LastNumber
}

// read loads the state; a missing, unreadable or corrupt file counts as zero.
func (r *FileCounterRepository) read() CounterState {
	var state CounterState

	data, err := os.ReadFile(r.path)
	if err != nil {
		return CounterState{}
	}
	if err := json.Unmarshal(data, &state); err != nil || state.LastNumber < 0 {
		return CounterState{}
	}
	return state
}

func (r *FileCounterRepository) write(state CounterState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode counter: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp counter file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write counter: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync counter: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close counter: %w", err)
	}

	// rename is atomic on POSIX: readers see the old or the new state
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace counter file: %w", err)
	}
	return nil
}
