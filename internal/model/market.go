package model

// NormalizedOdd 归一化后的出价项，同一盘口内 id 唯一
type NormalizedOdd struct {
	ID       string `json:"id"`
	Odds     string `json:"odds"` // 固定精度文本
	Name     string `json:"name"`
	Header   string `json:"header"`
	Handicap string `json:"handicap"`
	Team     string `json:"team,omitempty"`
}

// League 网球盘口的来源赛事信息
type League struct {
	ID   string `json:"id"`   // 赛事ID
	Name string `json:"name"` // 联赛ID
}

// NormalizedMarket 合并去重后的盘口，键为 id_name
type NormalizedMarket struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Odds    []NormalizedOdd `json:"odds"`
	Leagues []League        `json:"leagues,omitempty"`
}

// Key 盘口规范键：同 id 不同 name 视为不同盘口
func (m NormalizedMarket) Key() string {
	return MarketKey(m.ID, m.Name)
}

// MarketKey id + "_" + name
func MarketKey(id, name string) string {
	return id + "_" + name
}

// MarketListing 盘口列表模式，只有 id/name
type MarketListing struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SportOdds 合并视图中单个运动的赔率
type SportOdds struct {
	Odds []NormalizedOdd `json:"odds"`
}

// CombinedMarket 足球与冰球共有盘口
type CombinedMarket struct {
	FootballMarketID  string    `json:"football_market_id"`
	IceHockeyMarketID string    `json:"ice_hockey_market_id"`
	Name              string    `json:"name"`
	Football          SportOdds `json:"Football"`
	IceHockey         SportOdds `json:"ice-hockey"`
}

// LiveEventResponse 滚球单赛事接口响应
type LiveEventResponse struct {
	Success   bool `json:"success"`
	EventData struct {
		Markets []LiveMarket `json:"markets"`
	} `json:"eventData"`
}

// LiveMarket 滚球盘口，id 字段可能在 market / id / Odds[0].market 任一处
type LiveMarket struct {
	Name   Scalar `json:"name"`
	Market Scalar `json:"market"`
	ID     Scalar `json:"id"`
	Odds   []struct {
		Market Scalar `json:"market"`
	} `json:"Odds"`
}

// MarketID 依次取 market、id、Odds[0].market
func (m LiveMarket) MarketID() string {
	if m.Market.Present() {
		return m.Market.String()
	}
	if m.ID.Present() {
		return m.ID.String()
	}
	if len(m.Odds) > 0 && m.Odds[0].Market.Present() {
		return m.Odds[0].Market.String()
	}
	return ""
}
