package usecase

import (
	"strings"

	"github.com/styleseeker/client/internal/domain"
)

// RenderState is one of the three mutually exclusive result area states
type RenderState string

const (
	RenderLoading   RenderState = "loading"
	RenderEmpty     RenderState = "empty"
	RenderPopulated RenderState = "populated"
)

const (
	LoadingMessage = "Loading..."
	EmptyPrompt    = "Your search results will appear here."
)

// RenderedResult is one match ready for display
type RenderedResult struct {
	ImageURL string `json:"imageUrl" yaml:"image_url"`
	Caption  string `json:"caption" yaml:"caption"`
	Alt      string `json:"alt" yaml:"alt"`
}

// RenderModel is everything the view needs to draw the results area
type RenderModel struct {
	State        RenderState      `json:"state" yaml:"state"`
	Message      string           `json:"message,omitempty" yaml:"message,omitempty"`
	Results      []RenderedResult `json:"results" yaml:"results"`
	SelectedFile string           `json:"selectedFile,omitempty" yaml:"selected_file,omitempty"`
}

// ResultsRenderer maps a ViewSnapshot to a RenderModel.
type ResultsRenderer struct {
	imageBaseURL string
}

// NewResultsRenderer creates a renderer that serves thumbnails from imageBaseURL
func NewResultsRenderer(imageBaseURL string) *ResultsRenderer {
	return &ResultsRenderer{imageBaseURL: strings.TrimRight(imageBaseURL, "/")}
}

// Render is a pure function of snap.
func (r *ResultsRenderer) Render(snap domain.ViewSnapshot) RenderModel {
	model := RenderModel{Results: []RenderedResult{}}
	if snap.SelectedFile != nil {
		model.SelectedFile = snap.SelectedFile.Name
	}

	switch {
	case snap.IsLoading:
		model.State = RenderLoading
		model.Message = LoadingMessage
	case len(snap.Results) == 0:
		model.State = RenderEmpty
		model.Message = EmptyPrompt
	default:
		model.State = RenderPopulated
		for _, result := range snap.Results {
			model.Results = append(model.Results, RenderedResult{
				ImageURL: r.ResolveImageURL(result.ID),
				Caption:  result.ProductName,
				Alt:      result.ProductName,
			})
		}
	}

	return model
}

// ResolveImageURL maps a result id to its thumbnail URL
func (r *ResultsRenderer) ResolveImageURL(id string) string {
	return r.imageBaseURL + "/" + imageFilename(id)
}

// imageFilename returns the text after the last backslash, or id unchanged.
func imageFilename(id string) string {
	if idx := strings.LastIndex(id, `\`); idx >= 0 {
		return id[idx+1:]
	}
	return id
}
