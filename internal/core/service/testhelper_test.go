package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Mesbahzade/tdesktop/internal/storage"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/metric"
)

// recordingStore is a SettingsStore that records every write and can be
// told to fail.
type recordingStore struct {
	*storage.MemorySettingsStore

	mu      sync.Mutex
	writes  [][]byte
	failing error
	written chan struct{}
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		MemorySettingsStore: storage.NewMemorySettingsStore(),
		written:             make(chan struct{}, 64),
	}
}

func (r *recordingStore) WriteSettings(ctx context.Context, userID string, blob []byte) error {
	r.mu.Lock()
	err := r.failing
	if err == nil {
		r.writes = append(r.writes, append([]byte(nil), blob...))
	}
	r.mu.Unlock()

	if err == nil {
		err = r.MemorySettingsStore.WriteSettings(ctx, userID, blob)
	}
	r.written <- struct{}{}
	return err
}

func (r *recordingStore) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failing = err
}

func (r *recordingStore) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

func (r *recordingStore) lastWrite() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.writes) == 0 {
		return nil
	}
	return r.writes[len(r.writes)-1]
}

// waitWrite blocks until a write attempt happened.
func (r *recordingStore) waitWrite(t *testing.T) {
	t.Helper()
	select {
	case <-r.written:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a write")
	}
}

// noWrite asserts that no write attempt happens within d.
func (r *recordingStore) noWrite(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case <-r.written:
		t.Fatal("unexpected write")
	case <-time.After(d):
	}
}

type recordingPrivacy struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *recordingPrivacy) SavePhoneP2PDisallowAll(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

var errDiskFull = errors.New("disk full")

// assertMetric scrapes reg and checks that the exposition contains line.
func assertMetric(t *testing.T, reg *metric.Registry, line string) {
	t.Helper()
	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), line) {
		t.Errorf("metrics missing %s", line)
	}
}
