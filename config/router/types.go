package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ResultFormat selects how createHandler writes a ServiceResult.
type ResultFormat int

const (
	FormatJSON ResultFormat = iota
	// FormatText writes Message as text/plain; Data is ignored.
	FormatText
	// FormatHTML writes Data ([]byte or string) as text/html.
	FormatHTML
)

type ServiceResult struct {
	StatusCode int          `json:"code"`
	Data       any          `json:"data"`
	Message    string       `json:"message"`
	Format     ResultFormat `json:"-"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	return gin.H{
		"code":    result.StatusCode,
		"data":    result.Data,
		"message": result.Message,
	}
}
