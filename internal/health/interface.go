package health

import (
	"github.com/gin-gonic/gin"
)

// ResponseHandler interface for standard success responses
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
}
