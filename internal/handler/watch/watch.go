package watch

import (
	"github.com/gin-gonic/gin"

	"coinwatch/conf"
	"coinwatch/pkg/errors"
	"coinwatch/pkg/errors/ecode"
	"coinwatch/pkg/logger"
	"coinwatch/pkg/response"
	"coinwatch/pkg/utils"
)

// 监控配置读写接口。阈值改动立即生效并写回配置文件，
// 报警状态机每次评估都读最新值。

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type watchParams struct {
	Symbol        string  `json:"symbol" binding:"required"`
	ThresholdLow  float64 `json:"threshold_low" binding:"required"`
	ThresholdHigh float64 `json:"threshold_high" binding:"required"`
}

// ConfigGet 返回当前监控配置
func (h *Handler) ConfigGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, nil, conf.GetWatch())
	}
}

// ConfigSet 更新监控配置并持久化
func (h *Handler) ConfigSet() gin.HandlerFunc {
	return func(c *gin.Context) {
		var params watchParams
		if err := c.ShouldBindJSON(&params); err != nil {
			response.JSON(c, errors.Wrap(ecode.ParamBindErr, err), nil)
			return
		}
		if params.ThresholdLow >= params.ThresholdHigh {
			response.JSON(c, errors.New(ecode.ThresholdOrderErr), nil)
			return
		}

		w := conf.WatchConfig{
			Symbol:        utils.NormalizeSymbol(params.Symbol),
			ThresholdLow:  params.ThresholdLow,
			ThresholdHigh: params.ThresholdHigh,
		}
		if err := conf.UpdateWatch(w); err != nil {
			logger.Errorf("persist watch config error: %v", err)
			response.JSON(c, errors.Wrap(ecode.InternalErr, err), nil)
			return
		}
		logger.Info("watch config updated",
			logger.Pair("symbol", w.Symbol),
			logger.Pair("low", w.ThresholdLow),
			logger.Pair("high", w.ThresholdHigh))
		response.JSON(c, nil, w)
	}
}
