package api

import (
	"net/http"

	"peakform/trainer-hub/internal/service"

	"github.com/gin-gonic/gin"
)

// envelope is the uniform response wrapper: {success, data, meta}.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    gin.H       `json:"meta"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data, Meta: gin.H{}})
}

func respondList(c *gin.Context, data interface{}, meta gin.H) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Meta: meta})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{
		Success: false,
		Data:    nil,
		Meta:    gin.H{"error": message},
	})
}

func respondValidation(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, envelope{
		Success: false,
		Data:    nil,
		Meta:    gin.H{"error": "Validation failed", "errors": fields},
	})
}

// respondServiceError maps the closed set of service error kinds onto HTTP
// statuses. Unknown errors become opaque 500s; their detail stays server-side.
func respondServiceError(c *gin.Context, err error) {
	if se, ok := err.(*service.Error); ok {
		switch se.Kind {
		case service.KindValidation:
			if len(se.Fields) > 0 {
				respondValidation(c, se.Fields)
				return
			}
			respondError(c, http.StatusBadRequest, se.Message)
		case service.KindInvalidCredentials, service.KindUnauthorized, service.KindExpired:
			respondError(c, http.StatusUnauthorized, se.Message)
		case service.KindForbidden:
			respondError(c, http.StatusForbidden, se.Message)
		case service.KindNotFound:
			respondError(c, http.StatusNotFound, se.Message)
		case service.KindConflict, service.KindDuplicate, service.KindInvalidState:
			respondError(c, http.StatusConflict, se.Message)
		default:
			respondError(c, http.StatusInternalServerError, "An unexpected error occurred")
		}
		return
	}
	respondError(c, http.StatusInternalServerError, "An unexpected error occurred")
}
