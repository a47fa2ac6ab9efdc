package router

import (
	"github.com/gin-gonic/gin"

	"coinwatch/internal/handler/price"
	"coinwatch/internal/handler/ticker"
	"coinwatch/internal/handler/trade"
	"coinwatch/internal/handler/watch"
	"coinwatch/internal/middleware"
)

type ApiRouter struct {
	tradeHandler  *trade.Handler
	priceHandler  *price.Handler
	watchHandler  *watch.Handler
	tickerHandler *ticker.Handler
}

func NewApiRouter(th *trade.Handler, ph *price.Handler, wh *watch.Handler, tk *ticker.Handler) *ApiRouter {
	return &ApiRouter{tradeHandler: th, priceHandler: ph, watchHandler: wh, tickerHandler: tk}
}

func (api *ApiRouter) Load(g *gin.Engine) {
	base := g.Group("/api/v1")

	t := base.Group("/trades")
	{
		// 对账后的订单视图，最新在前
		t.GET("/reconciled", api.tradeHandler.ReconciledGet())
	}

	p := base.Group("/price")
	{
		p.GET("", api.priceHandler.CurrentGet())
		p.GET("/history", api.priceHandler.HistoryGet())
	}

	w := base.Group("/watch")
	{
		w.GET("", api.watchHandler.ConfigGet())
		w.POST("", middleware.AntiDuplicateMiddleware(), api.watchHandler.ConfigSet())
	}

	tk := base.Group("/ticker")
	{
		tk.GET("/ws", api.tickerHandler.ServeWS) // 通过websocket连接获取价格
	}
}
