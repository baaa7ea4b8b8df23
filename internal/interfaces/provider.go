package interfaces

import (
	"context"

	"OddsSync/internal/model"
)

// OddsProvider 上游赔率提供方
type OddsProvider interface {
	// FetchPrematch 批量拉取赛前赛事，返回顺序不保证和 ids 一致
	FetchPrematch(ctx context.Context, ids []string) ([]model.RawEvent, error)
	// FetchLiveEvent 拉取单场滚球盘口
	FetchLiveEvent(ctx context.Context, id string) (*model.LiveEventResponse, error)
}

// SnapshotPublisher 合并结果推送，失败只记日志不影响响应
type SnapshotPublisher interface {
	Publish(ctx context.Context, sport, kind, runID string, doc interface{}) error
}
