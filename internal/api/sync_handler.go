package api

import (
	"context"
	"net/http"

	"OddsSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SyncService 批量刷新能力
type SyncService interface {
	SyncPreMatchOdds(ctx context.Context) []service.SyncResult
}

type SyncHandler struct {
	syncService SyncService
	logger      *logrus.Logger
}

func NewSyncHandler(svc SyncService, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: svc,
		logger:      logger,
	}
}

// SyncPreMatchOddsHandler 用默认赛事刷新所有运动的赛前赔率，单个运动失败不影响其它运动
// POST /sync/pre-match/odds
func (h *SyncHandler) SyncPreMatchOddsHandler(c *gin.Context) {
	results := h.syncService.SyncPreMatchOdds(c.Request.Context())

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	status := http.StatusOK
	if failed > 0 && failed == len(results) {
		status = http.StatusBadGateway
	}
	h.logger.WithFields(logrus.Fields{
		"sports": len(results),
		"failed": failed,
	}).Info("赛前赔率批量刷新完成")
	c.JSON(status, gin.H{"results": results})
}
