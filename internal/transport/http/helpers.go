package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/twistandthread/chatwidget/internal/domain"
)

// writeError maps domain errors to HTTP status codes. Unexpected errors
// are logged and reported with a generic message.
func writeError(c echo.Context, err error) error {
	var validationErr *domain.ValidationError
	var notFoundErr *domain.NotFoundError
	var extractionErr *domain.ExtractionUnsupportedError
	var embeddingErr *domain.EmbeddingServiceError
	var completionErr *domain.CompletionServiceError

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": validationErr.Message})
	case errors.As(err, &extractionErr):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": extractionErr.Message})
	case errors.As(err, &notFoundErr):
		return c.JSON(http.StatusNotFound, map[string]string{"error": notFoundErr.Error()})
	case errors.As(err, &embeddingErr), errors.As(err, &completionErr):
		log.Printf("ERROR: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, domain.NewValidationError("invalid id %q", c.Param("id"))
	}
	return id, nil
}
