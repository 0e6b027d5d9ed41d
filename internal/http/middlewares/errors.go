package middlewares

import "github.com/gin-gonic/gin"

// abortJSON mirrors the handlers' error body so clients can read every
// failure the same way.
func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}
