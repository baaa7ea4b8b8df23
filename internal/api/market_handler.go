package api

import (
	"context"
	"errors"
	"net/http"

	"OddsSync/internal/model"
	"OddsSync/internal/service"
	"OddsSync/internal/sport"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MarketService handler 依赖的服务能力
type MarketService interface {
	ResolveEventIDs(slug sport.Slug, raw string) []string
	PreMatchMarketList(ctx context.Context, sc sport.Config, ids []string) (*service.SportMarketList, error)
	PreMatchOdds(ctx context.Context, sc sport.Config, ids []string) (*service.PreMatchOddsResult, error)
	LiveMarketList(ctx context.Context, sc sport.Config, ids []string) (*service.SportMarketList, error)
	CombinedOdds(ctx context.Context) ([]model.CombinedMarket, error)
}

// MarketHandler 盘口/赔率查询接口
type MarketHandler struct {
	marketService MarketService
	logger        *logrus.Logger
	// release 模式下 500 响应不带 details
	release bool
}

// NewMarketHandler 创建 MarketHandler
func NewMarketHandler(svc MarketService, logger *logrus.Logger, release bool) *MarketHandler {
	return &MarketHandler{
		marketService: svc,
		logger:        logger,
		release:       release,
	}
}

// PreMatchMarketList 赛前盘口列表
// GET /api/:sport/pre-match/market/list?evIds=1,2,3
func (h *MarketHandler) PreMatchMarketList(c *gin.Context) {
	sc, ok := h.lookupSport(c)
	if !ok {
		return
	}
	ids := h.marketService.ResolveEventIDs(sc.Slug, c.Query("evIds"))

	result, err := h.marketService.PreMatchMarketList(c.Request.Context(), sc, ids)
	if err != nil {
		h.fail(c, "PreMatchMarketList", ids, err)
		return
	}
	c.JSON(http.StatusOK, []*service.SportMarketList{result})
}

// PreMatchOdds 赛前盘口+赔率
// GET /api/:sport/pre-match/market/odds?evIds=1,2,3
func (h *MarketHandler) PreMatchOdds(c *gin.Context) {
	sc, ok := h.lookupSport(c)
	if !ok {
		return
	}
	ids := h.marketService.ResolveEventIDs(sc.Slug, c.Query("evIds"))

	result, err := h.marketService.PreMatchOdds(c.Request.Context(), sc, ids)
	if err != nil {
		h.fail(c, "PreMatchOdds", ids, err)
		return
	}
	c.JSON(http.StatusOK, []*service.PreMatchOddsResult{result})
}

// LiveMarketList 滚球盘口列表
// GET /api/:sport/live-match/market/list?evIds=1,2,3
func (h *MarketHandler) LiveMarketList(c *gin.Context) {
	sc, ok := h.lookupSport(c)
	if !ok {
		return
	}
	ids := h.marketService.ResolveEventIDs(sc.Slug, c.Query("evIds"))

	result, err := h.marketService.LiveMarketList(c.Request.Context(), sc, ids)
	if err != nil {
		h.fail(c, "LiveMarketList", ids, err)
		return
	}
	c.JSON(http.StatusOK, []*service.SportMarketList{result})
}

// CombinedOdds 足球/冰球共有盘口
// GET /api/combined/football-ice-hockey/odds
func (h *MarketHandler) CombinedOdds(c *gin.Context) {
	result, err := h.marketService.CombinedOdds(c.Request.Context())
	if err != nil {
		h.fail(c, "CombinedOdds", nil, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MarketHandler) lookupSport(c *gin.Context) (sport.Config, bool) {
	sc, err := sport.Lookup(c.Param("sport"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown sport"})
		return sport.Config{}, false
	}
	return sc, true
}

// fail 业务错误映射为 404，其余 500
func (h *MarketHandler) fail(c *gin.Context, op string, ids []string, err error) {
	var noCommon *service.NoCommonMarketsError
	switch {
	case errors.Is(err, service.ErrNoEvents):
		if ids == nil {
			ids = []string{}
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error":   service.ErrNoEvents.Error(),
			"request": gin.H{"ids": ids},
		})
	case errors.As(err, &noCommon):
		c.JSON(http.StatusNotFound, gin.H{
			"error":            noCommon.Error(),
			"footballMarkets":  noCommon.FootballMarkets,
			"iceHockeyMarkets": noCommon.IceHockeyMarkets,
		})
	case errors.Is(err, service.ErrNoStoredOdds):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).WithFields(logrus.Fields{
			"op":        op,
			"sport":     c.Param("sport"),
			"event_ids": ids,
		}).Error("请求处理失败")
		body := gin.H{"error": "Internal server error"}
		if !h.release {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
