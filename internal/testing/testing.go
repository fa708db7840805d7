// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/studyhub/internal/services"
	"github.com/desertthunder/studyhub/internal/shared"
)

// MockPlatform is a test double for [services.VideoPlatform].
//
// Search maps channel ids to the video ids a search returns; Details maps video ids to their metadata.
// SearchErr fails the search for a channel and DetailsErr fails any details call that includes the video id.
// SearchDelay holds a channel's search back, which lets tests control completion order.
type MockPlatform struct {
	Search      map[string][]string
	Details     map[string]services.VideoDetail
	SearchErr   map[string]error
	DetailsErr  map[string]error
	SearchDelay map[string]time.Duration

	mu           sync.Mutex
	searchCalls  []string
	detailsCalls [][]string
	inFlight     int
	maxInFlight  int
}

func (m *MockPlatform) SearchChannel(ctx context.Context, channelID string) ([]string, error) {
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, channelID)
	m.inFlight++
	m.maxInFlight = max(m.maxInFlight, m.inFlight)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if d := m.SearchDelay[channelID]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := m.SearchErr[channelID]; err != nil {
		return nil, err
	}
	return append([]string(nil), m.Search[channelID]...), nil
}

func (m *MockPlatform) VideoDetails(ctx context.Context, ids []string) ([]services.VideoDetail, error) {
	m.mu.Lock()
	m.detailsCalls = append(m.detailsCalls, append([]string(nil), ids...))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]services.VideoDetail, 0, len(ids))
	for _, id := range ids {
		if err := m.DetailsErr[id]; err != nil {
			return nil, err
		}
		if d, ok := m.Details[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MockPlatform) Name() string { return "mock" }

// SearchCalls returns the channels searched, in call order.
func (m *MockPlatform) SearchCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searchCalls...)
}

// DetailsCalls returns the id lists passed to VideoDetails, in call order.
func (m *MockPlatform) DetailsCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.detailsCalls...)
}

// MaxInFlight returns the highest number of concurrent searches observed.
func (m *MockPlatform) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// MemoryKV is an in-memory key-value store with the same contract as the persistent backends.
type MemoryKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	SetErr error
	sets   int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, shared.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.sets++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Close() error { return nil }

// Sets returns how many successful writes the store has seen.
func (m *MemoryKV) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
