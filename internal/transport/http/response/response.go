package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error emits the short human-readable message shape used for every failure.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
