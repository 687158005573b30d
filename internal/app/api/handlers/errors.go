package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/marketpay/pkg/apperr"
	"github.com/fatflowers/marketpay/pkg/logctx"
	"github.com/fatflowers/marketpay/pkg/response"
)

// writeError maps err to its HTTP status and envelope. Internal and upstream details are
// logged, not returned.
func writeError(c *gin.Context, base *zap.SugaredLogger, event string, err error) {
	status, code := response.FromError(err)
	msg := err.Error()
	switch apperr.KindOf(err) {
	case apperr.KindInternal:
		logctx.FromGin(c, base).Errorw(event, "err", err)
		msg = "internal error"
	case apperr.KindUpstream:
		logctx.FromGin(c, base).Warnw(event, "err", err)
		msg = "payment processor unavailable"
	}
	c.JSON(status, response.ErrorT[any](code, msg))
}

func badRequest(c *gin.Context, err error) {
	writeError(c, nil, "", apperr.Validation("%s", err.Error()))
}
