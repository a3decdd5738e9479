package handlers

import (
	"net/http"

	"pan-basket-backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError maps the service error taxonomy onto HTTP statuses:
// validation 400, not-found 404, everything else (store failures) 500.
func respondError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.Message(err)})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": apperr.Message(err)})
	default:
		logrus.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
