package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"OddsSync/internal/config"
	"OddsSync/internal/consolidation"
	"OddsSync/internal/interfaces"
	"OddsSync/internal/metrics"
	"OddsSync/internal/model"
	"OddsSync/internal/publisher"
	"OddsSync/internal/repository"
	"OddsSync/internal/sport"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// LiveSource 滚球盘口文档的数据来源标记
const LiveSource = "live_event_api"

// MarketService 按运动拉取上游赔率、合并去重、落库并推送快照
type MarketService struct {
	provider     interfaces.OddsProvider
	repo         repository.MarketRepository
	combinedRepo repository.CombinedRepository
	publisher    interfaces.SnapshotPublisher
	metrics      *metrics.Metrics
	cfg          *config.Config
	logger       *logrus.Logger
}

// NewMarketService pub 为 nil 时不推送快照
func NewMarketService(
	provider interfaces.OddsProvider,
	repo repository.MarketRepository,
	combinedRepo repository.CombinedRepository,
	pub interfaces.SnapshotPublisher,
	m *metrics.Metrics,
	cfg *config.Config,
	logger *logrus.Logger,
) *MarketService {
	if pub == nil {
		pub = publisher.Nop{}
	}
	return &MarketService{
		provider:     provider,
		repo:         repo,
		combinedRepo: combinedRepo,
		publisher:    pub,
		metrics:      m,
		cfg:          cfg,
		logger:       logger,
	}
}

// SportMarketList 盘口列表（赛前/滚球共用）
type SportMarketList struct {
	ID      int                   `json:"id"`
	Name    string                `json:"name"`
	Count   int                   `json:"count"`
	Markets []model.MarketListing `json:"markets"`
}

// PreMatchOddsResult 赛前盘口+赔率
type PreMatchOddsResult struct {
	Markets      []model.NormalizedMarket `json:"PRE_MATCH_MARKETS"`
	TotalMarkets int                      `json:"total_markets"`
}

// ParseEventIDs 解析 evIds：逗号分隔，去空白、去空项、去重，保持首次出现顺序
func ParseEventIDs(raw string) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ResolveEventIDs 请求里带了 evIds 就用请求的，否则用该运动的默认赛事
func (s *MarketService) ResolveEventIDs(slug sport.Slug, raw string) []string {
	if ids := ParseEventIDs(raw); len(ids) > 0 {
		return ids
	}
	return ParseEventIDs(strings.Join(s.cfg.Sport(string(slug)).DefaultEventIDs, ","))
}

// PreMatchMarketList 赛前盘口列表（不带赔率，保留全部发现的盘口）
func (s *MarketService) PreMatchMarketList(ctx context.Context, sc sport.Config, ids []string) (*SportMarketList, error) {
	start := time.Now()
	res, err := s.consolidatePrematch(ctx, sc, ids, consolidation.ModeListing)
	if err != nil {
		return nil, err
	}
	listings := res.Listings()
	runID := uuid.NewString()

	doc := &model.PreMatchMarketDoc{
		SportID:  sc.SportID,
		Name:     sc.Name,
		Count:    len(listings),
		Markets:  toJSON(listings),
		EventIDs: toJSON(ids),
		RunID:    runID,
	}
	s.persist(ctx, sc, repository.TablePreMatchMarkets, runID, doc, func(ctx context.Context) error {
		return s.repo.UpsertPreMatchMarkets(ctx, doc)
	})
	s.metrics.ObserveConsolidation(string(sc.Slug), consolidation.ModeListing.String(), start, len(listings))

	return &SportMarketList{
		ID:      sc.SportID,
		Name:    sc.Name,
		Count:   len(listings),
		Markets: listings,
	}, nil
}

// PreMatchOdds 赛前盘口+赔率，无赔率盘口不输出；网球带 leagues
func (s *MarketService) PreMatchOdds(ctx context.Context, sc sport.Config, ids []string) (*PreMatchOddsResult, error) {
	start := time.Now()
	res, err := s.consolidatePrematch(ctx, sc, ids, consolidation.ModeOdds)
	if err != nil {
		return nil, err
	}
	markets := res.List()
	runID := uuid.NewString()

	doc := &model.PreMatchOddsDoc{
		SportID:      sc.SportID,
		Name:         sc.Name,
		TotalMarkets: len(markets),
		Markets:      toJSON(markets),
		EventIDs:     toJSON(ids),
		RunID:        runID,
	}
	s.persist(ctx, sc, repository.TablePreMatchOdds, runID, doc, func(ctx context.Context) error {
		return s.repo.UpsertPreMatchOdds(ctx, doc)
	})
	s.metrics.ObserveConsolidation(string(sc.Slug), consolidation.ModeOdds.String(), start, len(markets))

	return &PreMatchOddsResult{Markets: markets, TotalMarkets: len(markets)}, nil
}

func (s *MarketService) consolidatePrematch(ctx context.Context, sc sport.Config, ids []string, mode consolidation.Mode) (*consolidation.Result, error) {
	if len(ids) == 0 {
		return nil, ErrNoEvents
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Upstream.OverallTimeout())
	defer cancel()

	events, err := s.provider.FetchPrematch(ctx, ids)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"sport":     sc.Slug,
			"event_ids": ids,
		}).Error("拉取赛前赔率失败")
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	res := consolidation.Consolidate(events, ids, sc, consolidation.Options{
		Mode:   mode,
		Policy: consolidation.FirstNonEmptyWins,
		Meta:   s.eventMeta(sc.Slug, ids),
	})
	s.logger.WithFields(logrus.Fields{
		"sport":   sc.Slug,
		"mode":    mode.String(),
		"events":  len(events),
		"markets": res.Len(),
	}).Info("赛前盘口合并完成")
	return res, nil
}

// LiveMarketList 每个赛事单独请求滚球接口，全部返回后按 ids 顺序合并
func (s *MarketService) LiveMarketList(ctx context.Context, sc sport.Config, ids []string) (*SportMarketList, error) {
	if len(ids) == 0 {
		return nil, ErrNoEvents
	}
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Upstream.OverallTimeout())
	defer cancel()

	responses := s.fetchLive(ctx, sc, ids)
	failed := 0
	for _, resp := range responses {
		if resp == nil {
			failed++
		}
	}
	if failed == len(ids) {
		return nil, fmt.Errorf("%w: %d 个赛事全部拉取失败", ErrUpstream, failed)
	}

	listings := consolidation.CollectLiveMarkets(responses)
	runID := uuid.NewString()
	doc := &model.LiveMarketDoc{
		MarketKey: LiveMarketKey(sc.Slug, ids),
		SportID:   sc.SportID,
		SportName: sc.Name,
		Name:      sc.DisplayName,
		Count:     len(listings),
		Markets:   toJSON(listings),
		EventIDs:  toJSON(ids),
		Source:    LiveSource,
		RunID:     runID,
	}
	s.persist(ctx, sc, repository.TableLiveMarkets, runID, doc, func(ctx context.Context) error {
		return s.repo.UpsertLiveMarkets(ctx, doc)
	})
	s.metrics.ObserveConsolidation(string(sc.Slug), "live", start, len(listings))
	s.logger.WithFields(logrus.Fields{
		"sport":   sc.Slug,
		"events":  len(ids),
		"failed":  failed,
		"markets": len(listings),
	}).Info("滚球盘口合并完成")

	return &SportMarketList{
		ID:      sc.SportID,
		Name:    sc.DisplayName,
		Count:   len(listings),
		Markets: listings,
	}, nil
}

// LiveMarketKey 同一运动同一组赛事始终落到同一条文档
func LiveMarketKey(slug sport.Slug, ids []string) string {
	return string(slug) + "_" + strings.Join(ids, "_")
}

// CombinedOdds 读取已落库的足球/冰球赛前赔率，按盘口 id 取交集后落库
func (s *MarketService) CombinedOdds(ctx context.Context) ([]model.CombinedMarket, error) {
	football := sport.MustLookup(sport.Football)
	iceHockey := sport.MustLookup(sport.IceHockey)

	footballMarkets, err := s.storedOdds(ctx, football)
	if err != nil {
		return nil, err
	}
	hockeyMarkets, err := s.storedOdds(ctx, iceHockey)
	if err != nil {
		return nil, err
	}
	if len(footballMarkets) == 0 && len(hockeyMarkets) == 0 {
		return nil, ErrNoStoredOdds
	}

	combined := consolidation.Intersect(footballMarkets, hockeyMarkets)
	if len(combined) == 0 {
		return nil, &NoCommonMarketsError{
			FootballMarkets:  listingsOf(footballMarkets),
			IceHockeyMarkets: listingsOf(hockeyMarkets),
		}
	}

	docs := make([]*model.CombinedMarketDoc, 0, len(combined))
	for _, c := range combined {
		docs = append(docs, &model.CombinedMarketDoc{
			FootballMarketID:  c.FootballMarketID,
			IceHockeyMarketID: c.IceHockeyMarketID,
			Name:              c.Name,
			Football:          toJSON(c.Football),
			IceHockey:         toJSON(c.IceHockey),
		})
	}
	if err := s.combinedRepo.UpsertCombinedMarkets(ctx, docs); err != nil {
		s.metrics.PersistenceFailed(repository.TableCombinedMarkets)
		s.logger.WithError(err).WithField("markets", len(docs)).Error("共有盘口落库失败")
	}
	s.logger.WithFields(logrus.Fields{
		"football":   len(footballMarkets),
		"ice_hockey": len(hockeyMarkets),
		"common":     len(combined),
	}).Info("足球/冰球共有盘口合并完成")
	return combined, nil
}

func (s *MarketService) storedOdds(ctx context.Context, sc sport.Config) ([]model.NormalizedMarket, error) {
	doc, err := s.repo.GetPreMatchOdds(ctx, sc.SportID)
	if err != nil {
		return nil, fmt.Errorf("读取%s赛前赔率失败: %w", sc.Name, err)
	}
	if doc == nil || len(doc.Markets) == 0 {
		return nil, nil
	}
	var markets []model.NormalizedMarket
	if err := json.Unmarshal(doc.Markets, &markets); err != nil {
		return nil, fmt.Errorf("解析%s赛前赔率失败: %w", sc.Name, err)
	}
	return markets, nil
}

// persist 落库失败只记日志和指标，结果照常返回；落库成功后再推送快照
func (s *MarketService) persist(ctx context.Context, sc sport.Config, table, runID string, doc interface{}, upsert func(context.Context) error) {
	if err := upsert(ctx); err != nil {
		s.metrics.PersistenceFailed(table)
		s.logger.WithError(err).WithFields(logrus.Fields{
			"sport":  sc.Slug,
			"table":  table,
			"run_id": runID,
		}).Error("合并结果落库失败")
		return
	}
	if err := s.publisher.Publish(ctx, string(sc.Slug), table, runID, doc); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"sport":  sc.Slug,
			"stream": publisher.StreamKey(string(sc.Slug)),
		}).Warn("快照推送失败")
	}
}

// eventMeta 只取本次请求涉及的赛事
func (s *MarketService) eventMeta(slug sport.Slug, ids []string) map[string]consolidation.EventMeta {
	sc := s.cfg.Sport(string(slug))
	if len(sc.Events) == 0 {
		return nil
	}
	meta := make(map[string]consolidation.EventMeta, len(ids))
	for _, fi := range ids {
		info, ok := sc.Event(fi)
		if !ok {
			continue
		}
		meta[fi] = consolidation.EventMeta{
			Home:     info.Home,
			Away:     info.Away,
			LeagueID: info.LeagueID,
			EventID:  info.EventID,
		}
	}
	return meta
}

func listingsOf(markets []model.NormalizedMarket) []model.MarketListing {
	list := make([]model.MarketListing, 0, len(markets))
	for _, m := range markets {
		list = append(list, model.MarketListing{ID: m.ID, Name: m.Name})
	}
	return list
}

// toJSON 结构体序列化为 jsonb 列，失败兜底为 null
func toJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return b
}
