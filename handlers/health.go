package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expertcall/utils"
)

// Health reports the last dependency check.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
