package domain

// SearchResult is one match reported by the search backend.
// ID is path-like and may use backslash separators.
type SearchResult struct {
	ID          string `json:"id" yaml:"id"`
	ProductName string `json:"product_name" yaml:"product_name"`
}

// SearchResponse is the success body of POST /search/
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// SelectedFile is an image chosen by the user. It only lives client side.
type SelectedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// AcceptedImageTypes mirrors the file picker filter.
var AcceptedImageTypes = []string{"image/jpeg", "image/png"}

// NoticeLevel classifies a user-visible notice
type NoticeLevel string

const (
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message surfaced to the user, the equivalent of a browser alert.
type Notice struct {
	Level   NoticeLevel `json:"level" yaml:"level"`
	Message string      `json:"message" yaml:"message"`
}

const (
	MessageNoFileSelected = "Please select a file first!"
	MessageSearchFailed   = "Search failed. Please check the logs for more details."
)
