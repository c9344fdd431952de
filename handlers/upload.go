package handlers

import (
	"net/http"

	"dishdash-api/uploads"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UploadHandler accepts a multipart file and hands it to the object store.
type UploadHandler struct {
	Store uploads.ObjectStore
}

func NewUploadHandler(store uploads.ObjectStore) *UploadHandler {
	return &UploadHandler{Store: store}
}

// Upload stores the posted file and returns its public URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "Uploads are not configured"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "A file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not upload file"})
		return
	}
	defer file.Close()

	url, err := h.Store.Put(c.Request.Context(), header.Filename, file)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("failed to store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not upload file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "url": url})
}
