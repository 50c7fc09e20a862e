package usecase

import (
	"context"
	"fmt"

	"github.com/styleseeker/client/internal/domain"
	"github.com/styleseeker/client/pkg/log"
)

// UploadController drives file selection and search submission for a ViewState.
type UploadController struct {
	client domain.SearchClient
}

// NewUploadController creates a controller backed by client
func NewUploadController(client domain.SearchClient) *UploadController {
	return &UploadController{client: client}
}

// SelectFile stages file on state, replacing any earlier selection.
func (u *UploadController) SelectFile(state *domain.ViewState, file *domain.SelectedFile) {
	state.SelectFile(file)

	if file != nil {
		log.Debugw("file selected", "file", file.Name, "contentType", file.ContentType, "bytes", len(file.Data))
	}
}

// SubmitSearch uploads the staged file and publishes the matches to state.
//
// Without a staged file it warns through notifier and returns
// ErrNoFileSelected without touching the network. Otherwise the state enters
// loading with cleared results, one request is made, and on failure a single
// error notice is raised and ErrSearchFailed returned. The loading flag is
// cleared on every exit path. If another submission started meanwhile, the
// outcome is dropped and ErrSearchSuperseded returned.
func (u *UploadController) SubmitSearch(ctx context.Context, state *domain.ViewState, notifier domain.Notifier) error {
	file := state.SelectedFile()
	if file == nil {
		notifier.Notify(ctx, domain.Notice{Level: domain.NoticeWarning, Message: domain.MessageNoFileSelected})
		return domain.ErrNoFileSelected
	}

	token := state.BeginSearch()
	defer state.EndSearch(token)

	results, err := u.search(ctx, file)
	if err != nil {
		log.Errorw("Search failed", "error", err, "file", file.Name, "search", token)
		if !state.IsCurrent(token) {
			return domain.ErrSearchSuperseded
		}
		notifier.Notify(ctx, domain.Notice{Level: domain.NoticeError, Message: domain.MessageSearchFailed})
		return fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
	}

	if !state.ApplyResults(token, results) {
		log.Infow("Discarding superseded search response", "file", file.Name, "search", token)
		return domain.ErrSearchSuperseded
	}

	log.Infow("Search completed", "file", file.Name, "results", len(results), "search", token)
	return nil
}

// search calls the backend, turning a panic in the call into an error.
func (u *UploadController) search(ctx context.Context, file *domain.SelectedFile) (results []domain.SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("search client panicked: %v", r)
		}
	}()

	return u.client.Search(ctx, file)
}
