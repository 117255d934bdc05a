package events

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ankit-yt/eventhub/pkg/response"
	"github.com/ankit-yt/eventhub/pkg/storage"
)

// GenerateBannerUploadURLRequest is the body for POST /api/events/:id/banner/generate-upload-url.
type GenerateBannerUploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size" binding:"required,gt=0"`
}

// UploadBanner handles POST /api/events/:id/banner (admin only). Server-side upload
// to the banners bucket; the resulting public URL is stored on the event.
func (h *Handler) UploadBanner(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "S3 not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}

	detail, err := h.store.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		h.logger.Error("get event", zap.Error(err))
		response.Internal(c, "error fetching event")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file (form field: file)")
		return
	}
	if file.Size > storage.MaxBannerFileSize {
		response.BadRequest(c, "file size exceeds 5MB limit")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !storage.ValidateBannerFileType(contentType, file.Filename) {
		response.BadRequest(c, "invalid file type: only jpg, png and webp images allowed")
		return
	}
	if _, ok := storage.AllowedBannerTypes[contentType]; !ok {
		contentType = storage.ContentTypeForFilename(file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		response.Internal(c, "failed to read file")
		return
	}
	defer src.Close()

	key := storage.BannerKey(id.String(), file.Filename)
	url, err := h.s3.Upload(c.Request.Context(), h.s3.BannersBucket(), key, contentType, src, file.Size, true)
	if err != nil {
		h.logger.Error("banner upload failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "S3 upload unavailable")
		return
	}

	if err := h.store.SetBannerURL(c.Request.Context(), id, url); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		h.logger.Error("store banner url", zap.Error(err))
		response.Internal(c, "error saving banner")
		return
	}

	// drop the superseded banner object; best effort, the new banner is already live
	if old := detail.BannerURL; old != "" && old != url {
		if oldKey, ok := h.s3.KeyFromPublicURL(h.s3.BannersBucket(), old); ok && oldKey != key {
			if err := h.s3.DeleteObject(c.Request.Context(), h.s3.BannersBucket(), oldKey); err != nil {
				h.logger.Warn("delete old banner", zap.Error(err), zap.String("key", oldKey))
			}
		}
	}

	response.OK(c, gin.H{"banner_url": url, "s3_key": key})
}

// GenerateBannerUploadURL handles POST /api/events/:id/banner/generate-upload-url
// (admin only). Presigned PUT for direct client upload; the client then stores the
// returned URL via PUT /api/events/:id.
func (h *Handler) GenerateBannerUploadURL(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "S3 not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}

	var req GenerateBannerUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.FileSize > storage.MaxBannerFileSize {
		response.BadRequest(c, "file size exceeds 5MB limit")
		return
	}
	if !storage.ValidateBannerFileType(req.ContentType, req.Filename) {
		response.BadRequest(c, "invalid file type: only jpg, png and webp images allowed")
		return
	}

	contentType := storage.ContentTypeForFilename(req.Filename)
	if req.ContentType != "" {
		if _, ok := storage.AllowedBannerTypes[req.ContentType]; ok {
			contentType = req.ContentType
		}
	}

	key := storage.BannerKey(id.String(), req.Filename)
	expire := h.s3.PresignExpire()
	url, err := h.s3.GeneratePresignedUploadURL(c.Request.Context(), h.s3.BannersBucket(), key, contentType, expire)
	if err != nil {
		h.logger.Error("generate presigned upload URL failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "S3 upload unavailable")
		return
	}
	response.OK(c, gin.H{
		"upload_url":   url,
		"s3_key":       key,
		"public_url":   h.s3.PublicObjectURL(h.s3.BannersBucket(), key),
		"content_type": contentType,
		"expires_in":   int(expire.Seconds()),
	})
}
