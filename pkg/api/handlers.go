// Package api wires the HTTP surface of the PDF editor: upload/extract,
// edit, and page rendering.
package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourorg/pdf-editor-service/pkg/editor"
	"github.com/yourorg/pdf-editor-service/pkg/errors"
	"github.com/yourorg/pdf-editor-service/pkg/httpservice"
	"github.com/yourorg/pdf-editor-service/pkg/logging"
	"github.com/yourorg/pdf-editor-service/pkg/notify"
)

// Config assembles the handler's collaborators.
type Config struct {
	Service  *editor.Service
	Notifier notify.Notifier
	// Auth, when set, protects every /api route except the health check.
	Auth   gin.HandlerFunc
	Logger logging.Logger
}

// Handler registers and serves the API routes.
type Handler struct {
	service  *editor.Service
	notifier notify.Notifier
	auth     gin.HandlerFunc
	logger   logging.Logger
}

// NewHandler creates the API handler.
func NewHandler(cfg Config) *Handler {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &Handler{
		service:  cfg.Service,
		notifier: notifier,
		auth:     cfg.Auth,
		logger:   cfg.Logger,
	}
}

// Register implements the httpservice.Handler interface.
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/", h.handleHome)

	api := router.Group("/api")
	api.GET("/health", h.handleHealth)

	if h.auth != nil {
		api.Use(h.auth)
	}
	api.POST("/upload", h.handleUpload)
	api.POST("/edit", h.handleEdit)
	api.GET("/render-page/:filename/:page_num", h.handleRenderPage)
}

func (h *Handler) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "PDF Editor API",
		"status":  "running",
	})
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "PDF Editor API is running",
	})
}

// handleUpload reads the multipart file, extracts its text layout, persists
// the original bytes, and answers with the per-page layout.
func (h *Handler) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpservice.HandleError(c, errors.NewMissingFileError("No file"))
		return
	}
	if fileHeader.Filename == "" || fileHeader.Size == 0 {
		httpservice.HandleError(c, errors.NewMissingFileError("No file selected"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpservice.HandleError(c, errors.NewIOFailureError("failed to open upload", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpservice.HandleError(c, errors.NewIOFailureError("failed to read upload", err))
		return
	}

	result, err := h.service.Extract(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		httpservice.GetLogger(c).Error("Upload failed",
			logging.NewField("filename", fileHeader.Filename),
			logging.NewField("error", err),
		)
		httpservice.HandleError(c, err)
		return
	}

	// Best-effort: a failed notification never fails the upload.
	event := notify.UploadEvent{
		EventID:    uuid.New().String(),
		Filename:   result.Filename,
		TotalPages: result.TotalPages,
		SizeBytes:  len(data),
		UploadedAt: time.Now().UTC(),
	}
	if err := h.notifier.DocumentUploaded(c.Request.Context(), event); err != nil {
		httpservice.GetLogger(c).Warn("Failed to publish upload event",
			logging.NewField("filename", result.Filename),
			logging.NewField("error", err),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"filename":    result.Filename,
		"pages":       result.Pages,
		"total_pages": result.TotalPages,
	})
}

// EditRequest is the statically validated edit request body.
type EditRequest struct {
	Filename string                 `json:"filename" binding:"required"`
	Edits    []editor.EditOperation `json:"edits" binding:"required,dive"`
}

// handleEdit applies the requested edits and streams the edited PDF back as
// an attachment. The stored document is never modified.
func (h *Handler) handleEdit(c *gin.Context) {
	var req EditRequest
	if !httpservice.ValidateJSON(c, &req) {
		return
	}

	out, err := h.service.ApplyEdits(c.Request.Context(), req.Filename, req.Edits)
	if err != nil {
		httpservice.GetLogger(c).Error("Edit failed",
			logging.NewField("filename", req.Filename),
			logging.NewField("edits", len(req.Edits)),
			logging.NewField("error", err),
		)
		httpservice.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=edited_%s", req.Filename))
	c.Data(http.StatusOK, "application/pdf", out)
}

// handleRenderPage rasterizes one page as PNG. Any failure, including an
// unknown filename or page, answers 500 with the error message.
func (h *Handler) handleRenderPage(c *gin.Context) {
	filename := c.Param("filename")

	pageNum, err := strconv.Atoi(c.Param("page_num"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid page number"})
		return
	}

	out, err := h.service.RenderPage(c.Request.Context(), filename, pageNum)
	if err != nil {
		httpservice.GetLogger(c).Error("Render failed",
			logging.NewField("filename", filename),
			logging.NewField("page", pageNum),
			logging.NewField("error", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errors.FromError(err).Message})
		return
	}

	c.Data(http.StatusOK, "image/png", out)
}
