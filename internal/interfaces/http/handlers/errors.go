package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/diabrisk/internal/application/dto"
	"github.com/turtacn/diabrisk/pkg/constants"
)

// respondError writes the error envelope with the status carried by err.
func respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(dto.StatusFor(err), dto.ErrorResponse(err, c.GetString(string(constants.ContextKeyTraceID))))
}
