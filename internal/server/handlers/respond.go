package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// badRequest writes a validation failure. fields maps input names to error codes.
func badRequest(c *gin.Context, message string, fields map[string]string) {
	body := gin.H{"error": message}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message})
}
