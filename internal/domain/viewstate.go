package domain

import "sync"

// ViewState is the single source of truth for what the client renders.
// isLoading implies results is empty: results are cleared when a search begins.
//
// Every search takes a generation token from BeginSearch. Only the holder of
// the current token may publish results or clear the loading flag, so a slow
// response that was overtaken by a newer submission is dropped.
type ViewState struct {
	mu           sync.RWMutex
	selectedFile *SelectedFile
	results      []SearchResult
	isLoading    bool
	generation   uint64
}

// ViewSnapshot is an immutable copy of a ViewState.
type ViewSnapshot struct {
	SelectedFile *SelectedFile
	Results      []SearchResult
	IsLoading    bool
}

// NewViewState returns an idle state with no file and no results.
func NewViewState() *ViewState {
	return &ViewState{results: []SearchResult{}}
}

// SelectFile replaces the staged file.
func (v *ViewState) SelectFile(file *SelectedFile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectedFile = file
}

// SelectedFile returns the staged file, or nil.
func (v *ViewState) SelectedFile() *SelectedFile {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selectedFile
}

// BeginSearch enters the loading state, clears results and returns the
// token of the new search.
func (v *ViewState) BeginSearch() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.generation++
	v.isLoading = true
	v.results = []SearchResult{}
	return v.generation
}

// ApplyResults publishes results for the search identified by token and
// leaves the loading state in the same step. It reports false when a newer
// search has started since.
func (v *ViewState) ApplyResults(token uint64, results []SearchResult) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if token != v.generation {
		return false
	}
	if results == nil {
		results = []SearchResult{}
	}
	v.results = results
	v.isLoading = false
	return true
}

// EndSearch leaves the loading state if token is still current. It is safe
// to call after ApplyResults.
func (v *ViewState) EndSearch(token uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if token != v.generation {
		return false
	}
	v.isLoading = false
	return true
}

// IsCurrent reports whether token belongs to the latest search.
func (v *ViewState) IsCurrent(token uint64) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return token == v.generation
}

// Snapshot copies the state for rendering.
func (v *ViewState) Snapshot() ViewSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	results := make([]SearchResult, len(v.results))
	copy(results, v.results)

	return ViewSnapshot{
		SelectedFile: v.selectedFile,
		Results:      results,
		IsLoading:    v.isLoading,
	}
}
