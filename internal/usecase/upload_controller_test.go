package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/styleseeker/client/internal/domain"
	"github.com/styleseeker/client/pkg/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockSearchClient is a mock implementation of domain.SearchClient
type MockSearchClient struct {
	mu      sync.Mutex
	calls   int
	results []domain.SearchResult
	err     error
	onCall  func(ctx context.Context, file *domain.SelectedFile)
	doPanic bool
}

func (m *MockSearchClient) Search(ctx context.Context, file *domain.SelectedFile) ([]domain.SearchResult, error) {
	m.mu.Lock()
	m.calls++
	onCall := m.onCall
	m.mu.Unlock()

	if onCall != nil {
		onCall(ctx, file)
	}
	if m.doPanic {
		panic("connection reset")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *MockSearchClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// recordingNotifier collects notices for assertions
type recordingNotifier struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (n *recordingNotifier) Notify(ctx context.Context, notice domain.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) all() []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notice(nil), n.notices...)
}

func jpeg() *domain.SelectedFile {
	return &domain.SelectedFile{Name: "query.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")}
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	log.SetLogger(zap.New(core))
	t.Cleanup(func() { log.SetLogger(zap.NewNop()) })
	return logs
}

func TestUploadController_SelectFile(t *testing.T) {
	controller := NewUploadController(&MockSearchClient{})
	state := domain.NewViewState()

	controller.SelectFile(state, jpeg())
	assert.Equal(t, "query.jpg", state.SelectedFile().Name)

	png := &domain.SelectedFile{Name: "other.png", ContentType: "image/png"}
	controller.SelectFile(state, png)
	assert.Same(t, png, state.SelectedFile())
}

func TestSubmitSearch_NoFileSelected(t *testing.T) {
	ctx := context.Background()
	client := &MockSearchClient{}
	controller := NewUploadController(client)
	notifier := &recordingNotifier{}

	state := domain.NewViewState()
	token := state.BeginSearch()
	state.ApplyResults(token, []domain.SearchResult{{ID: "old.jpg", ProductName: "Old"}})
	state.EndSearch(token)

	err := controller.SubmitSearch(ctx, state, notifier)

	assert.ErrorIs(t, err, domain.ErrNoFileSelected)
	assert.Equal(t, 0, client.Calls(), "no network call without a file")

	snap := state.Snapshot()
	require.Len(t, snap.Results, 1, "results unchanged")
	assert.Equal(t, "Old", snap.Results[0].ProductName)
	assert.False(t, snap.IsLoading)

	notices := notifier.all()
	require.Len(t, notices, 1)
	assert.Equal(t, domain.NoticeWarning, notices[0].Level)
	assert.Equal(t, domain.MessageNoFileSelected, notices[0].Message)
}

func TestSubmitSearch_Success(t *testing.T) {
	ctx := context.Background()
	client := &MockSearchClient{results: []domain.SearchResult{
		{ID: `images\42.jpg`, ProductName: "Blue Shirt"},
		{ID: "7.jpg", ProductName: "Red Dress"},
	}}
	controller := NewUploadController(client)
	notifier := &recordingNotifier{}
	state := domain.NewViewState()
	controller.SelectFile(state, jpeg())

	err := controller.SubmitSearch(ctx, state, notifier)

	require.NoError(t, err)
	assert.Equal(t, 1, client.Calls())
	assert.Empty(t, notifier.all())

	snap := state.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.Equal(t, client.results, snap.Results)
}

func TestSubmitSearch_EmptyResultsRenderPrompt(t *testing.T) {
	ctx := context.Background()
	controller := NewUploadController(&MockSearchClient{results: []domain.SearchResult{}})
	state := domain.NewViewState()
	controller.SelectFile(state, jpeg())

	require.NoError(t, controller.SubmitSearch(ctx, state, &recordingNotifier{}))

	model := NewResultsRenderer("http://localhost:8000/images").Render(state.Snapshot())
	assert.Equal(t, RenderEmpty, model.State)
	assert.Equal(t, EmptyPrompt, model.Message)
}

func TestSubmitSearch_FailureKinds(t *testing.T) {
	kinds := []struct {
		name string
		err  error
	}{
		{"transport failure", domain.ErrSearchAPIFailure},
		{"non-success status", errors.Join(domain.ErrUnexpectedStatus, errors.New("status 500"))},
		{"malformed body", domain.ErrMalformedResponse},
	}

	for _, kind := range kinds {
		t.Run(kind.name, func(t *testing.T) {
			logs := observeLogs(t)
			ctx := context.Background()
			controller := NewUploadController(&MockSearchClient{err: kind.err})
			notifier := &recordingNotifier{}
			state := domain.NewViewState()
			controller.SelectFile(state, jpeg())

			err := controller.SubmitSearch(ctx, state, notifier)

			assert.ErrorIs(t, err, domain.ErrSearchFailed)

			snap := state.Snapshot()
			assert.False(t, snap.IsLoading)
			assert.Empty(t, snap.Results)

			notices := notifier.all()
			require.Len(t, notices, 1, "exactly one failure notice")
			assert.Equal(t, domain.NoticeError, notices[0].Level)
			assert.Equal(t, domain.MessageSearchFailed, notices[0].Message)

			assert.Equal(t, 1, logs.FilterMessage("Search failed").FilterLevelExact(zapcore.ErrorLevel).Len())
		})
	}
}

func TestSubmitSearch_LoadingDuringRequest(t *testing.T) {
	ctx := context.Background()
	state := domain.NewViewState()

	var during domain.ViewSnapshot
	client := &MockSearchClient{
		results: []domain.SearchResult{{ID: "1.jpg", ProductName: "Shirt"}},
		onCall: func(ctx context.Context, file *domain.SelectedFile) {
			during = state.Snapshot()
		},
	}
	controller := NewUploadController(client)

	token := state.BeginSearch()
	state.ApplyResults(token, []domain.SearchResult{{ID: "old.jpg", ProductName: "Old"}})
	state.EndSearch(token)
	controller.SelectFile(state, jpeg())

	require.NoError(t, controller.SubmitSearch(ctx, state, &recordingNotifier{}))

	assert.True(t, during.IsLoading, "loading while request is in flight")
	assert.Empty(t, during.Results, "results cleared before request")
	assert.False(t, state.Snapshot().IsLoading)
}

func TestSubmitSearch_ClientPanicClearsLoading(t *testing.T) {
	ctx := context.Background()
	controller := NewUploadController(&MockSearchClient{doPanic: true})
	notifier := &recordingNotifier{}
	state := domain.NewViewState()
	controller.SelectFile(state, jpeg())

	err := controller.SubmitSearch(ctx, state, notifier)

	assert.ErrorIs(t, err, domain.ErrSearchFailed)
	assert.False(t, state.Snapshot().IsLoading)
	assert.Len(t, notifier.all(), 1)
}

func TestSubmitSearch_OverlappingSubmissions(t *testing.T) {
	ctx := context.Background()
	state := domain.NewViewState()

	release := make(chan struct{})
	started := make(chan struct{})
	slow := &MockSearchClient{
		results: []domain.SearchResult{{ID: "slow.jpg", ProductName: "Slow"}},
		onCall: func(ctx context.Context, file *domain.SelectedFile) {
			close(started)
			<-release
		},
	}
	fast := &MockSearchClient{results: []domain.SearchResult{{ID: "fast.jpg", ProductName: "Fast"}}}

	slowController := NewUploadController(slow)
	fastController := NewUploadController(fast)
	slowController.SelectFile(state, jpeg())

	slowErr := make(chan error, 1)
	go func() {
		slowErr <- slowController.SubmitSearch(ctx, state, &recordingNotifier{})
	}()
	<-started

	require.NoError(t, fastController.SubmitSearch(ctx, state, &recordingNotifier{}))
	close(release)

	assert.ErrorIs(t, <-slowErr, domain.ErrSearchSuperseded)

	snap := state.Snapshot()
	assert.False(t, snap.IsLoading)
	require.Len(t, snap.Results, 1)
	assert.Equal(t, "Fast", snap.Results[0].ProductName)
}

func TestSubmitSearch_SupersededFailureRaisesNoNotice(t *testing.T) {
	ctx := context.Background()
	state := domain.NewViewState()

	release := make(chan struct{})
	started := make(chan struct{})
	failing := &MockSearchClient{
		err: domain.ErrSearchAPIFailure,
		onCall: func(ctx context.Context, file *domain.SelectedFile) {
			close(started)
			<-release
		},
	}
	controller := NewUploadController(failing)
	controller.SelectFile(state, jpeg())

	notifier := &recordingNotifier{}
	done := make(chan error, 1)
	go func() {
		done <- controller.SubmitSearch(ctx, state, notifier)
	}()
	<-started

	state.BeginSearch()
	close(release)

	assert.ErrorIs(t, <-done, domain.ErrSearchSuperseded)
	assert.Empty(t, notifier.all())
	assert.True(t, state.Snapshot().IsLoading, "newer search still owns the loading flag")
}
