package consolidation

import "OddsSync/internal/model"

// Intersect 足球与冰球按盘口 id 取交集，只出现在一边的盘口丢弃。
// 同一边有重复 id 时取第一个，输出顺序跟随足球
func Intersect(football, iceHockey []model.NormalizedMarket) []model.CombinedMarket {
	hockeyByID := make(map[string]model.NormalizedMarket, len(iceHockey))
	for _, m := range iceHockey {
		if _, exists := hockeyByID[m.ID]; !exists {
			hockeyByID[m.ID] = m
		}
	}

	emitted := make(map[string]struct{})
	combined := make([]model.CombinedMarket, 0)
	for _, fm := range football {
		if _, done := emitted[fm.ID]; done {
			continue
		}
		hm, ok := hockeyByID[fm.ID]
		if !ok {
			continue
		}
		emitted[fm.ID] = struct{}{}
		combined = append(combined, model.CombinedMarket{
			FootballMarketID:  fm.ID,
			IceHockeyMarketID: hm.ID,
			Name:              fm.Name,
			Football:          model.SportOdds{Odds: fm.Odds},
			IceHockey:         model.SportOdds{Odds: hm.Odds},
		})
	}
	return combined
}
