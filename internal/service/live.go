package service

import (
	"context"

	"OddsSync/internal/model"
	"OddsSync/internal/sport"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// fetchLive 并发拉取，结果按 ids 下标存放；单个赛事失败记日志并留 nil，不影响其它赛事
func (s *MarketService) fetchLive(ctx context.Context, sc sport.Config, ids []string) []*model.LiveEventResponse {
	responses := make([]*model.LiveEventResponse, len(ids))

	limit := s.cfg.Upstream.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			resp, err := s.provider.FetchLiveEvent(gctx, id)
			if err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"sport":    sc.Slug,
					"event_id": id,
				}).Warn("滚球赛事拉取失败，跳过")
				return nil
			}
			if !resp.Success {
				s.logger.WithFields(logrus.Fields{
					"sport":    sc.Slug,
					"event_id": id,
				}).Warn("滚球接口返回 success=false")
			}
			responses[i] = resp
			return nil
		})
	}
	_ = g.Wait()
	return responses
}
