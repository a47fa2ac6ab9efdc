package price

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"coinwatch/conf"
	"coinwatch/internal/dao"
	"coinwatch/internal/exchange"
	"coinwatch/pkg/errors"
	"coinwatch/pkg/errors/ecode"
	"coinwatch/pkg/logger"
	"coinwatch/pkg/response"
)

type Handler struct {
	source   exchange.PriceSource
	priceDao dao.PriceDao
}

func NewHandler(source exchange.PriceSource, priceDao dao.PriceDao) *Handler {
	return &Handler{source: source, priceDao: priceDao}
}

type currentPrice struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// CurrentGet 实时抓一次当前价格
func (h *Handler) CurrentGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		symbol := conf.GetWatch().Symbol
		p, err := h.source.FetchPrice(c.Request.Context(), symbol)
		if err != nil {
			logger.Errorf("fetch current price error: %v", err)
			response.JSON(c, errors.Wrap(ecode.FetchPriceErr, err), nil)
			return
		}
		response.JSON(c, nil, currentPrice{Symbol: symbol, Price: p})
	}
}

// HistoryGet 返回最近的价格采样，最新在前
func (h *Handler) HistoryGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cast.ToInt(c.DefaultQuery("limit", "100"))
		if limit <= 0 || limit > 1000 {
			limit = 100
		}

		points, err := h.priceDao.Recent(c.Request.Context(), limit)
		if err != nil {
			logger.Errorf("query price history error: %v", err)
			response.JSON(c, errors.Wrap(ecode.StorageErr, err), nil)
			return
		}
		response.JSON(c, nil, points)
	}
}
