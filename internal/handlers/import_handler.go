package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"pan-basket-backend/internal/services/importer"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	engine       *importer.Engine
	extractor    importer.Extractor
	uploadFolder string
}

// NewImportHandler wires the bulk-import engine; extractor may be nil when
// no OCR backend is configured.
func NewImportHandler(engine *importer.Engine, extractor importer.Extractor, uploadFolder string) *ImportHandler {
	return &ImportHandler{engine: engine, extractor: extractor, uploadFolder: uploadFolder}
}

// Save runs one bulk-import batch. Row-level failures come back in the
// errors list with a 200; only an empty payload or a store failure fails
// the request.
func (h *ImportHandler) Save(c *gin.Context) {
	var req importer.Request
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	result, err := h.engine.Run(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Upload stores a ledger photo and returns the extracted text. The client
// turns that text into rows and posts them to Save.
func (h *ImportHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
		return
	}
	if h.extractor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "text extraction not configured"})
		return
	}

	if err := os.MkdirAll(h.uploadFolder, 0o755); err != nil {
		respondError(c, err)
		return
	}
	path := filepath.Join(h.uploadFolder, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		respondError(c, err)
		return
	}

	text, err := h.extractor.ExtractText(path)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *ImportHandler) RecentBatches(c *gin.Context) {
	batches, err := h.engine.RecentBatches(20)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": batches})
}
