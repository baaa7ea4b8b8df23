package consolidation

import (
	"OddsSync/internal/model"
	"OddsSync/internal/sport"
)

// EventMeta 网球赛事补充信息（主客选手名、联赛），来自配置或上游字段
type EventMeta struct {
	Home     string
	Away     string
	LeagueID string
	EventID  string
}

// Options 合并参数
type Options struct {
	Mode   Mode
	Policy OddsAssignmentPolicy
	// Meta FI -> 元信息，只有网球变体使用；缺失时回退到上游 event 自带的 home/away
	Meta map[string]EventMeta
}

// Consolidate 按 priorityOrder 逐个查找赛事并合并（不是按上游返回顺序）。
// 找不到的 FI 跳过；坏数据静默忽略，不返回错误
func Consolidate(events []model.RawEvent, priorityOrder []string, cfg sport.Config, opts Options) *Result {
	byFI := indexByFI(events)
	acc := NewAccumulator(opts.Policy)

	for _, fi := range priorityOrder {
		event, ok := byFI[fi]
		if !ok {
			continue
		}
		mergeEvent(acc, event, cfg, opts.Meta[fi])
	}
	return acc.Result(opts.Mode)
}

func mergeEvent(acc *Accumulator, event model.RawEvent, cfg sport.Config, meta EventMeta) {
	var league *model.League
	home, away := event.Home, event.Away
	if cfg.Variant == sport.VariantTennis {
		if meta.Home != "" {
			home = meta.Home
		}
		if meta.Away != "" {
			away = meta.Away
		}
		if meta.EventID != "" && meta.LeagueID != "" {
			league = &model.League{ID: meta.EventID, Name: meta.LeagueID}
		}
	}

	for _, section := range Walk(event, cfg.SectionNames) {
		for _, node := range section.Markets {
			for _, f := range NormalizeNode(node) {
				if cfg.Variant == sport.VariantTennis {
					f.Name = SubstitutePlayers(f.Name, home, away)
				}
				acc.Merge(f, league)
			}
		}
	}
}

// indexByFI 同一 FI 重复出现时取第一个
func indexByFI(events []model.RawEvent) map[string]model.RawEvent {
	byFI := make(map[string]model.RawEvent, len(events))
	for _, e := range events {
		fi := e.ID()
		if fi == "" {
			continue
		}
		if _, exists := byFI[fi]; !exists {
			byFI[fi] = e
		}
	}
	return byFI
}
