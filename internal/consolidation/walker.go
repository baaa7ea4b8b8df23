// Package consolidation 盘口合并核心：section 遍历、盘口归一化、赔率去重、跨赛事合并。
// 全部为纯函数/请求内对象，不做 I/O。
package consolidation

import "OddsSync/internal/model"

// Walk 按运动配置的固定顺序产出 section，最后追加 others；缺失或非对象 section 直接跳过。
// 顺序决定合并优先级，必须稳定
func Walk(event model.RawEvent, sectionNames []string) []model.Section {
	sections := make([]model.Section, 0, len(sectionNames))
	for _, name := range sectionNames {
		if s, ok := event.Section(name); ok {
			sections = append(sections, s)
		}
	}
	return append(sections, event.Others()...)
}
