package consolidation

import "OddsSync/internal/model"

// CollectLiveMarkets 滚球盘口按名称去重，同名取优先级最高赛事里第一次出现的 id。
// responses 必须已按优先级排好，nil 表示该赛事拉取失败
func CollectLiveMarkets(responses []*model.LiveEventResponse) []model.MarketListing {
	seen := make(map[string]struct{})
	listings := make([]model.MarketListing, 0)
	for _, resp := range responses {
		if resp == nil || !resp.Success {
			continue
		}
		for _, m := range resp.EventData.Markets {
			if !m.Name.Present() {
				continue
			}
			id := m.MarketID()
			if id == "" {
				continue
			}
			name := m.Name.String()
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			listings = append(listings, model.MarketListing{ID: id, Name: name})
		}
	}
	return listings
}
