package repository

import (
	"context"
	"fmt"
	"time"

	"OddsSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CombinedRepository 足球/冰球共有盘口仓储
type CombinedRepository interface {
	// UpsertCombinedMarkets 按 (football_market_id, ice_hockey_market_id) 覆盖，一个事务内完成
	UpsertCombinedMarkets(ctx context.Context, docs []*model.CombinedMarketDoc) error
}

type combinedRepository struct {
	db *gorm.DB
}

func NewCombinedRepository(db *gorm.DB) CombinedRepository {
	return &combinedRepository{db: db}
}

func (r *combinedRepository) UpsertCombinedMarkets(ctx context.Context, docs []*model.CombinedMarketDoc) error {
	if len(docs) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	now := time.Now()
	for _, doc := range docs {
		doc.UpdatedAt = now
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "football_market_id"}, {Name: "ice_hockey_market_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "football", "ice_hockey", "updated_at"}),
		}).Create(doc).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("保存共有盘口失败: %w, market_id: %s", err, doc.FootballMarketID)
		}
	}
	return tx.Commit().Error
}
