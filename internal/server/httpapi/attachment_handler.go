package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Francortiz-137/taskflow-backend/internal/common"
	"github.com/Francortiz-137/taskflow-backend/internal/server/services"
)

// AttachmentProvider is the slice of AttachmentService the handler consumes.
type AttachmentProvider interface {
	RequestUpload(ctx context.Context, userID, taskID int64, fileName string) (*services.UploadGrant, error)
	MarkUploaded(ctx context.Context, userID int64, id string) error
	DownloadURL(ctx context.Context, userID int64, id string) (string, error)
}

type AttachmentHandler struct {
	attachments AttachmentProvider
}

func NewAttachmentHandler(attachments AttachmentProvider) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments}
}

func attachmentID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", common.ErrorValidation
	}
	return id, nil
}

type uploadRequest struct {
	FileName string `json:"fileName"`
}

type uploadResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	UploadURL string    `json:"uploadUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *AttachmentHandler) RequestUpload(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	taskID, err := taskID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req uploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	grant, err := h.attachments.RequestUpload(r.Context(), identity.UserID, taskID, req.FileName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{
		ID:        grant.Attachment.ID,
		FileName:  grant.Attachment.FileName,
		UploadURL: grant.UploadURL,
		CreatedAt: grant.Attachment.CreatedAt,
	})
}

func (h *AttachmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, err := attachmentID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.attachments.MarkUploaded(r.Context(), identity.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type downloadResponse struct {
	URL string `json:"url"`
}

func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, err := attachmentID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	url, err := h.attachments.DownloadURL(r.Context(), identity.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadResponse{URL: url})
}
