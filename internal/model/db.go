package model

import (
	"time"

	"gorm.io/datatypes"
)

// PreMatchMarketDoc 赛前盘口列表，每个运动一条（按 sport_id upsert）
type PreMatchMarketDoc struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	SportID   int            `gorm:"column:sport_id;type:int;uniqueIndex;not null;comment:运动ID"`
	Name      string         `gorm:"column:name;type:varchar(64);not null;comment:运动名称"`
	Count     int            `gorm:"column:count;type:int;not null;default:0;comment:盘口数量"`
	Markets   datatypes.JSON `gorm:"column:markets;type:jsonb;not null;comment:盘口列表"`
	EventIDs  datatypes.JSON `gorm:"column:event_ids;type:jsonb;comment:本次使用的赛事FI"`
	RunID     string         `gorm:"column:run_id;type:varchar(64);comment:合并批次ID"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// PreMatchOddsDoc 赛前盘口+赔率，每个运动一条
type PreMatchOddsDoc struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	SportID      int            `gorm:"column:sport_id;type:int;uniqueIndex;not null;comment:运动ID"`
	Name         string         `gorm:"column:name;type:varchar(64);not null;comment:运动名称"`
	TotalMarkets int            `gorm:"column:total_markets;type:int;not null;default:0;comment:盘口数量"`
	Markets      datatypes.JSON `gorm:"column:markets;type:jsonb;not null;comment:盘口及赔率"`
	EventIDs     datatypes.JSON `gorm:"column:event_ids;type:jsonb;comment:本次使用的赛事FI"`
	RunID        string         `gorm:"column:run_id;type:varchar(64);comment:合并批次ID"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// LiveMarketDoc 滚球盘口列表，按 market_key（运动+赛事ID拼接）upsert
type LiveMarketDoc struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	MarketKey string         `gorm:"column:market_key;type:varchar(512);uniqueIndex;not null;comment:确定性键"`
	SportID   int            `gorm:"column:sport_id;type:int;not null;comment:运动ID"`
	SportName string         `gorm:"column:sport_name;type:varchar(64);comment:运动名称"`
	Name      string         `gorm:"column:name;type:varchar(128);not null;comment:展示名称"`
	Count     int            `gorm:"column:count;type:int;not null;default:0;comment:盘口数量"`
	Markets   datatypes.JSON `gorm:"column:markets;type:jsonb;not null;comment:盘口列表"`
	EventIDs  datatypes.JSON `gorm:"column:event_ids;type:jsonb;not null;comment:赛事ID列表"`
	Source    string         `gorm:"column:source;type:varchar(64);comment:数据来源"`
	RunID     string         `gorm:"column:run_id;type:varchar(64);comment:合并批次ID"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// CombinedMarketDoc 足球/冰球共有盘口
type CombinedMarketDoc struct {
	ID                uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	FootballMarketID  string         `gorm:"column:football_market_id;type:varchar(64);not null;uniqueIndex:uq_combined_market;comment:足球盘口ID"`
	IceHockeyMarketID string         `gorm:"column:ice_hockey_market_id;type:varchar(64);not null;uniqueIndex:uq_combined_market;comment:冰球盘口ID"`
	Name              string         `gorm:"column:name;type:varchar(256);not null;index;comment:盘口名称"`
	Football          datatypes.JSON `gorm:"column:football;type:jsonb;comment:足球赔率"`
	IceHockey         datatypes.JSON `gorm:"column:ice_hockey;type:jsonb;comment:冰球赔率"`
	CreatedAt         time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (PreMatchMarketDoc) TableName() string { return "pre_match_markets" }
func (PreMatchOddsDoc) TableName() string   { return "pre_match_odds" }
func (LiveMarketDoc) TableName() string     { return "live_match_markets" }
func (CombinedMarketDoc) TableName() string { return "combined_markets" }
