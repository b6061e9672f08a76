package queue

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/playtube/account-service/internal/core/ports"
)

type recordingStorage struct {
	mu      sync.Mutex
	deleted []string
	failFor map[string]bool
	done    chan string
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{
		failFor: make(map[string]bool),
		done:    make(chan string, 16),
	}
}

func (s *recordingStorage) Upload(context.Context, string, io.Reader) (*ports.UploadedMedia, error) {
	return nil, errors.New("not used")
}

func (s *recordingStorage) Delete(_ context.Context, publicID string) error {
	defer func() { s.done <- publicID }()
	if s.failFor[publicID] {
		return errors.New("provider error")
	}
	s.mu.Lock()
	s.deleted = append(s.deleted, publicID)
	s.mu.Unlock()
	return nil
}

func (s *recordingStorage) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-s.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for deletion %d of %d", i+1, n)
		}
	}
}

func TestCleanupDispatcher_DeletesEnqueuedAssets(t *testing.T) {
	storage := newRecordingStorage()
	d := NewCleanupDispatcher(2, storage, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("pub/a")
	d.Enqueue("pub/b")
	storage.wait(t, 2)

	storage.mu.Lock()
	defer storage.mu.Unlock()
	if len(storage.deleted) != 2 {
		t.Fatalf("expected 2 deletions, got %v", storage.deleted)
	}
}

func TestCleanupDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	storage := newRecordingStorage()
	storage.failFor["pub/bad"] = true

	// Single worker so both ids land on the same goroutine.
	d := NewCleanupDispatcher(1, storage, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("pub/bad")
	d.Enqueue("pub/good")
	storage.wait(t, 2)

	storage.mu.Lock()
	defer storage.mu.Unlock()
	if len(storage.deleted) != 1 || storage.deleted[0] != "pub/good" {
		t.Fatalf("worker should survive a failed delete, got %v", storage.deleted)
	}
}

func TestCleanupDispatcher_EmptyIDIsIgnored(t *testing.T) {
	storage := newRecordingStorage()
	d := NewCleanupDispatcher(1, storage, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("")
	d.Enqueue("pub/only")
	storage.wait(t, 1)

	storage.mu.Lock()
	defer storage.mu.Unlock()
	if len(storage.deleted) != 1 || storage.deleted[0] != "pub/only" {
		t.Fatalf("empty id must be dropped, got %v", storage.deleted)
	}
}
