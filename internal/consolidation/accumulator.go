package consolidation

import (
	"fmt"

	"OddsSync/internal/model"
)

// OddsAssignmentPolicy 同一盘口键收到多份赔率时的取舍规则
type OddsAssignmentPolicy int

const (
	// FirstNonEmptyWins 第一份非空赔率写入后即冻结，后续 section/赛事的赔率一律忽略。
	// 这是业务规则；如需合并全部赔率，应新增一个策略而不是改这里
	FirstNonEmptyWins OddsAssignmentPolicy = iota
)

func (p OddsAssignmentPolicy) String() string {
	switch p {
	case FirstNonEmptyWins:
		return "first_non_empty_wins"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Mode 输出模式
type Mode int

const (
	// ModeOdds 带赔率，最终丢弃无赔率盘口
	ModeOdds Mode = iota
	// ModeListing 仅盘口列表 {id,name}，保留全部发现的盘口
	ModeListing
)

func (m Mode) String() string {
	if m == ModeListing {
		return "listing"
	}
	return "odds"
}

// Accumulator 单次请求内的合并状态，不跨请求共享
type Accumulator struct {
	policy  OddsAssignmentPolicy
	keys    []string
	markets map[string]*model.NormalizedMarket
	leagues map[string]map[string]struct{}
}

// NewAccumulator 未知策略属于调用方编程错误
func NewAccumulator(policy OddsAssignmentPolicy) *Accumulator {
	if policy != FirstNonEmptyWins {
		panic(fmt.Sprintf("consolidation: 未知的赔率策略 %s", policy))
	}
	return &Accumulator{
		policy:  policy,
		markets: make(map[string]*model.NormalizedMarket),
		leagues: make(map[string]map[string]struct{}),
	}
}

// Merge 并入一个片段；league 非空时按 league.ID 幂等追加，和赔率冻结互不影响
func (a *Accumulator) Merge(f Fragment, league *model.League) {
	key := f.Key()
	market, ok := a.markets[key]
	if !ok {
		market = &model.NormalizedMarket{ID: f.ID, Name: f.Name}
		a.markets[key] = market
		a.keys = append(a.keys, key)
	}

	if league != nil {
		seen := a.leagues[key]
		if seen == nil {
			seen = make(map[string]struct{})
			a.leagues[key] = seen
		}
		if _, dup := seen[league.ID]; !dup {
			seen[league.ID] = struct{}{}
			market.Leagues = append(market.Leagues, *league)
		}
	}

	a.assignOdds(market, f.Odds)
}

func (a *Accumulator) assignOdds(market *model.NormalizedMarket, raw []model.RawOdd) {
	switch a.policy {
	case FirstNonEmptyWins:
		if len(market.Odds) > 0 || len(raw) == 0 {
			return
		}
		// 去重后为空不算"非空贡献"，不冻结
		if odds := NormalizeOdds(raw); len(odds) > 0 {
			market.Odds = odds
		}
	}
}

// Len 已发现的盘口键数量
func (a *Accumulator) Len() int {
	return len(a.keys)
}

// Result 收尾：再做一次去重；赔率模式丢弃无赔率盘口
func (a *Accumulator) Result(mode Mode) *Result {
	res := &Result{
		Mode:    mode,
		Markets: make(map[string]*model.NormalizedMarket, len(a.keys)),
	}
	for _, key := range a.keys {
		src := a.markets[key]
		market := &model.NormalizedMarket{
			ID:      src.ID,
			Name:    src.Name,
			Odds:    DedupOdds(src.Odds),
			Leagues: append([]model.League(nil), src.Leagues...),
		}
		if mode == ModeOdds && len(market.Odds) == 0 {
			continue
		}
		res.Keys = append(res.Keys, key)
		res.Markets[key] = market
	}
	return res
}

// Result 合并结果，Keys 为首次发现顺序
type Result struct {
	Mode    Mode
	Keys    []string
	Markets map[string]*model.NormalizedMarket
}

// Len 盘口数量
func (r *Result) Len() int {
	return len(r.Keys)
}

// List 按发现顺序输出盘口
func (r *Result) List() []model.NormalizedMarket {
	list := make([]model.NormalizedMarket, 0, len(r.Keys))
	for _, key := range r.Keys {
		list = append(list, *r.Markets[key])
	}
	return list
}

// Listings 列表模式输出 {id,name}
func (r *Result) Listings() []model.MarketListing {
	list := make([]model.MarketListing, 0, len(r.Keys))
	for _, key := range r.Keys {
		m := r.Markets[key]
		list = append(list, model.MarketListing{ID: m.ID, Name: m.Name})
	}
	return list
}
