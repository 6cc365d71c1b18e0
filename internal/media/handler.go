package media

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orbitads/orbit/backend/internal/apperrors"
	"github.com/orbitads/orbit/backend/internal/httpapi/middleware"
	"github.com/orbitads/orbit/backend/internal/logger"
	"github.com/orbitads/orbit/backend/internal/media/progress"
)

// Handler exposes the ingestion pipeline over HTTP
type Handler struct {
	service  *Service
	registry *progress.Registry
	response ResponseHandler
	logger   logger.Logger
}

// NewHandler creates a new media handler
func NewHandler(service *Service, registry *progress.Registry, response ResponseHandler, log logger.Logger) *Handler {
	return &Handler{
		service:  service,
		registry: registry,
		response: response,
		logger:   log,
	}
}

// RegisterRoutes mounts the media endpoints on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.HandleUpload)
	rg.GET("/list", h.HandleList)
	rg.GET("/progress/:sessionId", h.HandleProgress)
	rg.GET("/asset/:id", h.HandleGet)
	rg.GET("/asset/:id/url", h.HandleSignedURL)
	rg.DELETE("/asset/:id", h.HandleDelete)
}

// HandleUpload receives a multipart upload and runs it through the
// pipeline. The response is sent only after the asset record exists;
// clients follow live progress on the session stream.
func (h *Handler) HandleUpload(c *gin.Context) {
	log := middleware.GetLogger(c)

	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		h.response.ValidationErrorResponse(c, "user", "Invalid user identity")
		return
	}

	brandID, err := uuid.Parse(c.PostForm("brand_id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "brand_id", apperrors.ErrMsgBadBrand)
		return
	}

	var estimateID *uuid.UUID
	if raw := c.PostForm("estimate_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.response.ValidationErrorResponse(c, "estimate_id", "Invalid estimate id")
			return
		}
		estimateID = &id
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.response.ValidationErrorResponse(c, "file", apperrors.ErrMsgNoFile)
		return
	}

	req := &UploadRequest{
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		UserID:      userID,
		BrandID:     brandID,
		EstimateID:  estimateID,
		// Clients that opened a progress stream first pass its session id
		SessionID: c.PostForm("session_id"),
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.response.InternalErrorResponse(c, "Failed to read upload", err)
		return
	}
	defer file.Close()

	log.LogInfo("Upload started", map[string]interface{}{
		"filename":    req.Filename,
		"size":        req.Size,
		"contentType": req.ContentType,
		"brandId":     brandID,
	})

	asset, err := h.service.Ingest(c.Request.Context(), file, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.response.SuccessResponse(c, &UploadResponse{Asset: asset, SessionID: req.SessionID}, "Upload complete")
}

// HandleProgress streams a session's progress events as NDJSON, one JSON
// object per line, until the session reaches a terminal state or the
// client disconnects
func (h *Handler) HandleProgress(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		h.response.ValidationErrorResponse(c, "sessionId", "Session id is required")
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	sub := h.registry.Open(sessionID)
	defer h.registry.Detach(sessionID, sub)

	enc := json.NewEncoder(c.Writer)
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			if err := enc.Encode(event); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// HandleGet returns one asset record
func (h *Handler) HandleGet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid asset id")
		return
	}

	asset, err := h.service.Get(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.response.SuccessResponse(c, asset, "")
}

// HandleSignedURL returns a time-limited read URL for an asset artifact,
// selected by the artifact query parameter
func (h *Handler) HandleSignedURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid asset id")
		return
	}

	artifact, ok := ParseArtifactType(c.Query("artifact"))
	if !ok {
		h.response.ValidationErrorResponse(c, "artifact", apperrors.ErrMsgBadArtifact)
		return
	}

	resp, err := h.service.SignedURL(c.Request.Context(), id, artifact)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.response.SuccessResponse(c, resp, "")
}

// HandleDelete removes an asset record and its stored objects
func (h *Handler) HandleDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid asset id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	h.response.SuccessResponse(c, gin.H{"id": id}, "Asset deleted")
}

// HandleList returns a brand's assets
func (h *Handler) HandleList(c *gin.Context) {
	brandID, err := uuid.Parse(c.Query("brand_id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "brand_id", apperrors.ErrMsgBadBrand)
		return
	}

	assets, err := h.service.ListByBrand(brandID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.response.SuccessResponse(c, assets, "")
}

// respondError maps pipeline errors onto HTTP responses
func (h *Handler) respondError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		h.response.ValidationErrorResponse(c, validationErr.Field, validationErr.Message)
		return
	}
	if apperrors.IsNotFound(err) {
		h.response.NotFoundResponse(c, err.Error())
		return
	}
	h.response.InternalErrorResponse(c, "Request failed", err)
}
