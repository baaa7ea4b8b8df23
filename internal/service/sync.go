package service

import (
	"context"
	"errors"

	"OddsSync/internal/sport"

	"github.com/sirupsen/logrus"
)

// SyncResult 单个运动的刷新结果
type SyncResult struct {
	Sport        sport.Slug `json:"sport"`
	SportID      int        `json:"sport_id"`
	EventIDs     []string   `json:"event_ids"`
	TotalMarkets int        `json:"total_markets"`
	Skipped      bool       `json:"skipped,omitempty"` // 未配置默认赛事
	Error        string     `json:"error,omitempty"`
}

// SyncPreMatchOdds 依次用默认赛事刷新每个运动的赛前赔率（按 sport_id 顺序），
// 合并视图读取的正是这里落库的数据
func (s *MarketService) SyncPreMatchOdds(ctx context.Context) []SyncResult {
	all := sport.All()
	results := make([]SyncResult, 0, len(all))
	for _, sc := range all {
		ids := s.ResolveEventIDs(sc.Slug, "")
		r := SyncResult{Sport: sc.Slug, SportID: sc.SportID, EventIDs: ids}
		if len(ids) == 0 {
			r.Skipped = true
			results = append(results, r)
			continue
		}

		res, err := s.PreMatchOdds(ctx, sc, ids)
		switch {
		case errors.Is(err, ErrNoEvents):
			r.Skipped = true
		case err != nil:
			r.Error = err.Error()
			s.logger.WithError(err).WithField("sport", sc.Slug).Warn("赛前赔率刷新失败")
		default:
			r.TotalMarkets = res.TotalMarkets
		}
		results = append(results, r)
	}

	s.logger.WithFields(logrus.Fields{"sports": len(results)}).Debug("赛前赔率刷新结束")
	return results
}
