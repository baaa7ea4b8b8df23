package service

import (
	"errors"

	"OddsSync/internal/model"
)

var (
	// ErrNoEvents 没有可用赛事：未传 evIds 且无默认配置，或上游返回空结果
	ErrNoEvents = errors.New("No events found")
	// ErrUpstream 上游整体不可用（赛前批量请求失败，或滚球全部赛事失败）
	ErrUpstream = errors.New("上游赔率接口不可用")
	// ErrNoStoredOdds 足球和冰球都还没有落库的赛前赔率
	ErrNoStoredOdds = errors.New("No odds data found for any sport in database")
	// ErrNoCommonMarkets 足球和冰球没有共同盘口
	ErrNoCommonMarkets = errors.New("No common markets found between football and ice hockey")
)

// NoCommonMarketsError 带上两边的盘口列表，方便排查 id 为何对不上
type NoCommonMarketsError struct {
	FootballMarkets  []model.MarketListing
	IceHockeyMarkets []model.MarketListing
}

func (e *NoCommonMarketsError) Error() string {
	return ErrNoCommonMarkets.Error()
}

func (e *NoCommonMarketsError) Is(target error) bool {
	return target == ErrNoCommonMarkets
}
