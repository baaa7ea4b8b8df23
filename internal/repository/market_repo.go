package repository

import (
	"context"
	"errors"
	"time"

	"OddsSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 表名，和 model 中 TableName 保持一致，用于失败指标的 label
const (
	TablePreMatchMarkets = "pre_match_markets"
	TablePreMatchOdds    = "pre_match_odds"
	TableLiveMarkets     = "live_match_markets"
	TableCombinedMarkets = "combined_markets"
)

// MarketRepository 合并结果的文档存储：每个键一条，重复写入整条覆盖（后写者胜）
type MarketRepository interface {
	// UpsertPreMatchMarkets 赛前盘口列表，按 sport_id 覆盖
	UpsertPreMatchMarkets(ctx context.Context, doc *model.PreMatchMarketDoc) error
	// UpsertPreMatchOdds 赛前盘口+赔率，按 sport_id 覆盖
	UpsertPreMatchOdds(ctx context.Context, doc *model.PreMatchOddsDoc) error
	// UpsertLiveMarkets 滚球盘口列表，按 market_key 覆盖
	UpsertLiveMarkets(ctx context.Context, doc *model.LiveMarketDoc) error
	// GetPreMatchOdds 读取某运动最近一次赛前赔率；不存在返回 (nil, nil)
	GetPreMatchOdds(ctx context.Context, sportID int) (*model.PreMatchOddsDoc, error)
}

type marketRepository struct {
	db *gorm.DB
}

// NewMarketRepository 创建 MarketRepository 实例
func NewMarketRepository(db *gorm.DB) MarketRepository {
	return &marketRepository{db: db}
}

func (r *marketRepository) UpsertPreMatchMarkets(ctx context.Context, doc *model.PreMatchMarketDoc) error {
	doc.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sport_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "count", "markets", "event_ids", "run_id", "updated_at"}),
	}).Create(doc).Error
}

func (r *marketRepository) UpsertPreMatchOdds(ctx context.Context, doc *model.PreMatchOddsDoc) error {
	doc.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sport_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "total_markets", "markets", "event_ids", "run_id", "updated_at"}),
	}).Create(doc).Error
}

func (r *marketRepository) UpsertLiveMarkets(ctx context.Context, doc *model.LiveMarketDoc) error {
	doc.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "market_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sport_id", "sport_name", "name", "count", "markets", "event_ids", "source", "run_id", "updated_at",
		}),
	}).Create(doc).Error
}

func (r *marketRepository) GetPreMatchOdds(ctx context.Context, sportID int) (*model.PreMatchOddsDoc, error) {
	var doc model.PreMatchOddsDoc
	err := r.db.WithContext(ctx).Where("sport_id = ?", sportID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
