package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/styleseeker/client/internal/domain"
	"github.com/styleseeker/client/internal/usecase"
	"github.com/styleseeker/client/pkg/log"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

const uploadField = "file"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	controller *usecase.UploadController
	renderer   *usecase.ResultsRenderer
}

// NewHandler creates a new HTTP handler
func NewHandler(controller *usecase.UploadController, renderer *usecase.ResultsRenderer) *Handler {
	return &Handler{
		controller: controller,
		renderer:   renderer,
	}
}

// viewResponse is the JSON shape of the client state
type viewResponse struct {
	View    usecase.RenderModel `json:"view"`
	Notices []domain.Notice     `json:"notices"`
	Error   string              `json:"error,omitempty"`
}

// HealthCheck returns the health status of the client
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "styleseeker-client",
		"version": Version,
	})
}

// Index renders the upload form and the results area
func (h *Handler) Index(c *gin.Context) {
	session := sessionFrom(c)
	model := h.renderer.Render(session.State.Snapshot())

	c.HTML(http.StatusOK, "index.html", gin.H{
		"View":    model,
		"Notices": session.Notices.Drain(),
		"Accept":  strings.Join(domain.AcceptedImageTypes, ", "),
	})
}

// SelectFile stages the uploaded file without searching
func (h *Handler) SelectFile(c *gin.Context) {
	session := sessionFrom(c)

	if _, err := h.stageUpload(c, session); err != nil {
		log.Error("SelectFile: failed to read upload", err)
		session.Notices.Notify(c.Request.Context(), domain.Notice{Level: domain.NoticeError, Message: MessageUnreadableFile})
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Search stages the uploaded file if one was sent, submits the search and
// redirects back to the page. Outcomes reach the user as notices.
func (h *Handler) Search(c *gin.Context) {
	session := sessionFrom(c)

	if _, err := h.stageUpload(c, session); err != nil {
		log.Error("Search: failed to read upload", err)
		session.Notices.Notify(c.Request.Context(), domain.Notice{Level: domain.NoticeError, Message: MessageUnreadableFile})
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	_ = h.controller.SubmitSearch(searchContext(c), session.State, session.Notices)

	c.Redirect(http.StatusSeeOther, "/")
}

// APISearch is the JSON variant of Search
func (h *Handler) APISearch(c *gin.Context) {
	session := sessionFrom(c)

	if _, err := h.stageUpload(c, session); err != nil {
		log.Error("APISearch: failed to read upload", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": MessageUnreadableFile})
		return
	}

	err := h.controller.SubmitSearch(searchContext(c), session.State, session.Notices)

	resp := viewResponse{
		View:    h.renderer.Render(session.State.Snapshot()),
		Notices: session.Notices.Drain(),
	}

	status := http.StatusOK
	switch {
	case err == nil, errors.Is(err, domain.ErrSearchSuperseded):
	case errors.Is(err, domain.ErrNoFileSelected):
		status = http.StatusBadRequest
		resp.Error = domain.MessageNoFileSelected
	case errors.Is(err, domain.ErrSearchFailed):
		status = http.StatusBadGateway
		resp.Error = domain.MessageSearchFailed
	default:
		status = http.StatusInternalServerError
		resp.Error = "internal error"
	}

	c.JSON(status, resp)
}

// APIState returns the rendered state and pending notices of the session
func (h *Handler) APIState(c *gin.Context) {
	session := sessionFrom(c)

	c.JSON(http.StatusOK, viewResponse{
		View:    h.renderer.Render(session.State.Snapshot()),
		Notices: session.Notices.Drain(),
	})
}

// MessageUnreadableFile is shown when an upload cannot be read
const MessageUnreadableFile = "Could not read the selected file."

// stageUpload selects the uploaded file on the session when the request
// carries one. It reports whether a file was staged.
func (h *Handler) stageUpload(c *gin.Context, session *domain.Session) (bool, error) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return false, nil
		}
		return false, fmt.Errorf("failed to parse upload: %w", err)
	}

	f, err := header.Open()
	if err != nil {
		return false, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return false, fmt.Errorf("failed to read upload: %w", err)
	}

	h.controller.SelectFile(session.State, &domain.SelectedFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	return true, nil
}

// searchContext detaches the search from the inbound request so a client
// disconnect does not abort a search in flight.
func searchContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
