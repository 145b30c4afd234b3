package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/chrono-planner-api/internal/dto"
	apierrors "github.com/yukikurage/chrono-planner-api/internal/errors"
	"github.com/yukikurage/chrono-planner-api/internal/middleware"
	"github.com/yukikurage/chrono-planner-api/internal/services"
)

type UploadHandler struct {
	uploadService *services.UploadService
	maxBytes      int64
}

func NewUploadHandler(uploadService *services.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxBytes:      maxBytes,
	}
}

// ListUploads returns the current user's uploads, newest first
func (h *UploadHandler) ListUploads(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	uploads, err := h.uploadService.ListUploads(c.Request.Context(), userID, pageParam(c))
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToUploadDTOs(uploads))
}

// CreateUpload relays a multipart "file" to object storage
func (h *UploadHandler) CreateUpload(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if c.Request.ContentLength > h.maxBytes {
		apierrors.PayloadTooLarge(c, "")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.PayloadTooLarge(c, "")
			return
		}
		apierrors.MissingField(c, "file")
		return
	}

	var taskID *uint64
	if raw := c.PostForm("taskId"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid taskId")
			return
		}
		taskID = &id
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}
	defer file.Close()

	upload, err := h.uploadService.CreateUpload(c.Request.Context(), services.CreateUploadInput{
		UserID:      userID,
		TaskID:      taskID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		respondUploadError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUploadDTO(*upload))
}

// DeleteUpload deletes an upload given as a path parameter or ?id=
func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	if raw == "" {
		apierrors.MissingField(c, "id")
		return
	}
	uploadID, err := parseID(raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid upload id")
		return
	}

	if err := h.uploadService.DeleteUpload(c.Request.Context(), uploadID, userID); err != nil {
		respondUploadError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFileRequired):
		apierrors.MissingField(c, "file")
	case errors.Is(err, services.ErrTaskForbidden),
		errors.Is(err, services.ErrUploadForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrUploadNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.PayloadTooLarge(c, "")
			return
		}
		apierrors.InternalError(c, err.Error())
	}
}
