package http

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/twistandthread/chatwidget/internal/service"
)

// UploadDocument accepts a multipart file, ingests it, and returns the
// created document's summary. The temp file is removed on every path.
// POST /api/documents
func (h *Handler) UploadDocument(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file uploaded"})
	}

	tempPath, err := h.saveTempFile(fileHeader)
	if err != nil {
		return writeError(c, err)
	}
	defer os.Remove(tempPath)

	doc, err := h.service.IngestUpload(ctx, service.Upload{
		Path:         tempPath,
		Filename:     filepath.Base(tempPath),
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":           doc.ID,
		"originalName": doc.OriginalName,
		"size":         doc.Size,
		"chunks":       len(doc.Chunks),
		"message":      "Document processed successfully",
	})
}

// saveTempFile writes the multipart body under the upload directory
// with a random filename.
func (h *Handler) saveTempFile(fileHeader *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.config.UploadDir, 0o755); err != nil {
		return "", err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(h.config.UploadDir, uuid.New().String())
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// GetDocument returns a stored document's summary.
// GET /api/documents/:id
func (h *Handler) GetDocument(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	doc, err := h.service.GetDocument(ctx, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":           doc.ID,
		"originalName": doc.OriginalName,
		"size":         doc.Size,
		"chunks":       len(doc.Chunks),
		"createdAt":    doc.CreatedAt,
	})
}

// DeleteDocument deletes a document, cascading to conversations that
// reference it.
// DELETE /api/documents/:id
func (h *Handler) DeleteDocument(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.service.DeleteDocument(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}

// ReloadKnowledgeBase re-ingests the knowledge base file.
// POST /api/knowledge-base/reload
func (h *Handler) ReloadKnowledgeBase(c echo.Context) error {
	ctx := c.Request().Context()

	doc, err := h.service.ReloadKnowledgeBase(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Knowledge base reloaded",
		"documentId": doc.ID,
	})
}
