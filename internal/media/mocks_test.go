package media

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/orbitads/orbit/backend/internal/account"
	"github.com/orbitads/orbit/backend/internal/events"
	"github.com/orbitads/orbit/backend/internal/media/progress"
	"github.com/orbitads/orbit/backend/internal/storage"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(asset *Asset) error {
	return m.Called(asset).Error(0)
}

func (m *mockRepository) Get(id uuid.UUID) (*Asset, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Asset), args.Error(1)
}

func (m *mockRepository) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockRepository) ListByBrand(brandID uuid.UUID) ([]Asset, error) {
	args := m.Called(brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Asset), args.Error(1)
}

type mockAccounts struct {
	mock.Mock
}

func (m *mockAccounts) GetUser(id uuid.UUID) (*account.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *mockAccounts) GetBrand(id uuid.UUID) (*account.Brand, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Brand), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, r io.Reader, size int64, key, contentType string, metadata map[string]string) (*storage.PutResult, error) {
	if r != nil {
		io.Copy(io.Discard, r)
	}
	args := m.Called(ctx, size, key, contentType, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PutResult), args.Error(1)
}

func (m *mockStore) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStore) Stat(ctx context.Context, key string) (*storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ObjectInfo), args.Error(1)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

type mockTranscoder struct {
	mock.Mock
}

func (m *mockTranscoder) GeneratePreview(ctx context.Context, inputPath, outputPath string, onProgress func(percent int)) error {
	return m.Called(ctx, inputPath, outputPath, onProgress).Error(0)
}

func (m *mockTranscoder) GenerateThumbnail(ctx context.Context, inputPath, outputPath string) error {
	return m.Called(ctx, inputPath, outputPath).Error(0)
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, event *events.AssetEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockProducer) Close() error {
	return m.Called().Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockCache) Close() error {
	return m.Called().Error(0)
}

// recordedEvent pairs a session id with the event sent to it
type recordedEvent struct {
	SessionID string
	Event     progress.Event
}

// progressRecorder captures published progress for assertions
type progressRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
	closed []string
}

func (p *progressRecorder) Publish(sessionID string, event progress.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{SessionID: sessionID, Event: event})
}

func (p *progressRecorder) CloseAfter(sessionID string, delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, sessionID)
}

func (p *progressRecorder) Events() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEvent(nil), p.events...)
}

func (p *progressRecorder) Closed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.closed...)
}

// stages returns the distinct stage sequence observed
func (p *progressRecorder) stages() []string {
	var out []string
	for _, rec := range p.Events() {
		if len(out) == 0 || out[len(out)-1] != rec.Event.Stage {
			out = append(out, rec.Event.Stage)
		}
	}
	return out
}
