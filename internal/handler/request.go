package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Baaaki/content-square/internal/middleware"
	"github.com/Baaaki/content-square/internal/response"
	"github.com/Baaaki/content-square/internal/service"
	"github.com/Baaaki/content-square/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgInvalidBody  = "Invalid request body"
	msgInvalidQuery = "Invalid query parameters"
)

// IDRequest is the body of every get and delete endpoint
type IDRequest struct {
	ID uint `json:"id" binding:"required"`
}

type PageQuery struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

// bindJSON answers 400 with an envelope when the body does not bind
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Log.Warn("Request parsing failed",
			zap.String("path", c.FullPath()),
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		response.Abort(c, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

func bindPage(c *gin.Context) (PageQuery, bool) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Log.Warn("Pagination parsing failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		response.Abort(c, http.StatusBadRequest, msgInvalidQuery)
		return q, false
	}
	return q, true
}

// fail writes a service error as a status:false envelope. A storage call cut
// off by the request deadline answers 504 instead.
func fail(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		response.Abort(c, http.StatusGatewayTimeout, middleware.MsgRequestTimeout)
		return
	}
	response.Fail(c, service.MessageOf(err))
}
