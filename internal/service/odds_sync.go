package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// OddsSyncService 定时用默认赛事刷新赛前赔率，并重建足球/冰球共有盘口
type OddsSyncService struct {
	markets *MarketService
	logger  *logrus.Logger
}

// NewOddsSyncService 创建赔率同步服务
func NewOddsSyncService(markets *MarketService, logger *logrus.Logger) *OddsSyncService {
	return &OddsSyncService{
		markets: markets,
		logger:  logger,
	}
}

// Run 执行一轮；单个运动失败不阻塞整轮，共有盘口为空不算错误
func (s *OddsSyncService) Run(ctx context.Context) error {
	results := s.markets.SyncPreMatchOdds(ctx)
	refreshed := 0
	for _, r := range results {
		if r.Error == "" && !r.Skipped {
			refreshed++
		}
	}
	if refreshed == 0 {
		s.logger.Debug("OddsSync: 没有运动刷新成功，跳过共有盘口")
		return nil
	}

	combined, err := s.markets.CombinedOdds(ctx)
	switch {
	case errors.Is(err, ErrNoCommonMarkets), errors.Is(err, ErrNoStoredOdds):
		s.logger.WithError(err).Debug("OddsSync: 暂无共有盘口")
	case err != nil:
		return err
	default:
		s.logger.Infof("OddsSync: 已刷新 %d 个运动，共有盘口 %d 个", refreshed, len(combined))
	}
	return nil
}

// Start 按 interval 周期运行直到 ctx 结束；interval<=0 不启动
func (s *OddsSyncService) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.logger.WithField("interval", interval.String()).Info("OddsSync: 定时刷新已启动")

	for {
		if err := s.Run(ctx); err != nil {
			s.logger.WithError(err).Warn("OddsSync: 本轮刷新失败")
		}
		select {
		case <-ctx.Done():
			s.logger.Info("OddsSync: 定时刷新已停止")
			return
		case <-ticker.C:
		}
	}
}
