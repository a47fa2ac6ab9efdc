package trade

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"coinwatch/internal/consts"
	"coinwatch/internal/service"
	"coinwatch/pkg/errors"
	"coinwatch/pkg/errors/ecode"
	"coinwatch/pkg/logger"
	"coinwatch/pkg/response"
)

type Handler struct {
	reconciler *service.ReconcilerService
}

func NewHandler(reconciler *service.ReconcilerService) *Handler {
	return &Handler{reconciler: reconciler}
}

// ReconciledGet 返回对账后的订单视图，最新在前，最多50条
func (h *Handler) ReconciledGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cast.ToInt(c.DefaultQuery("limit", strconv.Itoa(consts.ReconcileLimitDefault)))

		trades, err := h.reconciler.Reconcile(c.Request.Context(), limit)
		if err != nil {
			logger.Errorf("reconcile trades error: %v", err)
			response.JSON(c, errors.Wrap(ecode.ReconcileErr, err), nil)
			return
		}
		response.JSON(c, nil, trades)
	}
}
