package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"sync"
	"testing"
	"time"

	"OddsSync/internal/config"
	"OddsSync/internal/metrics"
	"OddsSync/internal/model"
	"OddsSync/internal/repository"
	"OddsSync/internal/sport"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type fakeProvider struct {
	mu        sync.Mutex
	events    []model.RawEvent
	err       error
	live      map[string]*model.LiveEventResponse
	liveDelay map[string]time.Duration
	requested [][]string
}

func (f *fakeProvider) FetchPrematch(ctx context.Context, ids []string) ([]model.RawEvent, error) {
	f.mu.Lock()
	f.requested = append(f.requested, ids)
	f.mu.Unlock()
	return f.events, f.err
}

func (f *fakeProvider) FetchLiveEvent(ctx context.Context, id string) (*model.LiveEventResponse, error) {
	if d := f.liveDelay[id]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	resp, ok := f.live[id]
	if !ok {
		return nil, errors.New("upstream timeout")
	}
	return resp, nil
}

type fakeRepo struct {
	mu         sync.Mutex
	err        error
	preMarkets []*model.PreMatchMarketDoc
	preOdds    []*model.PreMatchOddsDoc
	live       []*model.LiveMarketDoc
	stored     map[int]*model.PreMatchOddsDoc
	combined   []*model.CombinedMarketDoc
}

func (r *fakeRepo) UpsertPreMatchMarkets(ctx context.Context, doc *model.PreMatchMarketDoc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.preMarkets = append(r.preMarkets, doc)
	return nil
}

func (r *fakeRepo) UpsertPreMatchOdds(ctx context.Context, doc *model.PreMatchOddsDoc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.preOdds = append(r.preOdds, doc)
	r.stored[doc.SportID] = doc
	return nil
}

func (r *fakeRepo) UpsertLiveMarkets(ctx context.Context, doc *model.LiveMarketDoc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.live = append(r.live, doc)
	return nil
}

func (r *fakeRepo) GetPreMatchOdds(ctx context.Context, sportID int) (*model.PreMatchOddsDoc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stored[sportID], nil
}

func (r *fakeRepo) UpsertCombinedMarkets(ctx context.Context, docs []*model.CombinedMarketDoc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.combined = append(r.combined, docs...)
	return r.err
}

type published struct {
	sport, kind, runID string
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
}

func (p *fakePublisher) Publish(ctx context.Context, sport, kind, runID string, doc interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{sport: sport, kind: kind, runID: runID})
	return nil
}

type fixture struct {
	svc      *MarketService
	provider *fakeProvider
	repo     *fakeRepo
	pub      *fakePublisher
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.Upstream.MaxConcurrency = 4
	cfg.Upstream.RequestTimeout = 5
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		provider: &fakeProvider{},
		repo:     &fakeRepo{stored: map[int]*model.PreMatchOddsDoc{}},
		pub:      &fakePublisher{},
		metrics:  metrics.New(),
	}
	f.svc = NewMarketService(f.provider, f.repo, f.repo, f.pub, f.metrics, cfg, logger)
	return f
}

func mustEvents(t *testing.T, body string) []model.RawEvent {
	t.Helper()
	var resp model.RawEventsResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Results
}

const footballEvents = `{"results":[
	{"FI":"2","main":{"sp":{"m":{"id":"40","name":"Full Time Result","odds":[{"id":"b","odds":"3.1","name":"from 2"}]}}}},
	{"FI":"1","main":{"sp":{"m":{"id":"40","name":"Full Time Result","odds":[{"id":"a","odds":"2.2","name":"from 1"}]},
	                         "e":{"id":"41","name":"Empty","odds":[]}}}}
]}`

func TestPreMatchOdds(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.events = mustEvents(t, footballEvents)

	res, err := f.svc.PreMatchOdds(context.Background(), sport.MustLookup(sport.Football), []string{"1", "2"})
	if err != nil {
		t.Fatalf("PreMatchOdds: %v", err)
	}
	if res.TotalMarkets != 1 || len(res.Markets) != 1 {
		t.Fatalf("expected 1 market with odds, got %+v", res)
	}
	if got := res.Markets[0].Odds[0].Name; got != "from 1" {
		t.Errorf("priority order must win, got %q", got)
	}
	if len(f.repo.preOdds) != 1 {
		t.Fatalf("expected one persisted doc, got %d", len(f.repo.preOdds))
	}
	doc := f.repo.preOdds[0]
	if doc.SportID != 1 || doc.TotalMarkets != 1 || doc.RunID == "" {
		t.Errorf("unexpected doc %+v", doc)
	}
	if string(doc.EventIDs) != `["1","2"]` {
		t.Errorf("event ids = %s", doc.EventIDs)
	}
	if len(f.pub.sent) != 1 || f.pub.sent[0] != (published{"football", repository.TablePreMatchOdds, doc.RunID}) {
		t.Errorf("unexpected publish %+v", f.pub.sent)
	}
}

func TestPreMatchMarketList_KeepsEmptyMarkets(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.events = mustEvents(t, footballEvents)

	res, err := f.svc.PreMatchMarketList(context.Background(), sport.MustLookup(sport.Football), []string{"1", "2"})
	if err != nil {
		t.Fatal(err)
	}
	want := []model.MarketListing{{ID: "40", Name: "Full Time Result"}, {ID: "41", Name: "Empty"}}
	if !reflect.DeepEqual(res.Markets, want) || res.Count != 2 || res.ID != 1 || res.Name != "Football" {
		t.Errorf("unexpected list %+v", res)
	}
	if len(f.repo.preMarkets) != 1 || f.repo.preMarkets[0].Count != 2 {
		t.Errorf("unexpected persisted docs %+v", f.repo.preMarkets)
	}
}

func TestPreMatchOdds_TennisUsesConfiguredPlayers(t *testing.T) {
	cfg := &config.Config{Sports: map[string]config.SportConfig{
		"tennis": {Events: map[string]config.EventInfo{
			"T1": {Home: "Nadal", Away: "Djokovic", LeagueID: "ATP", EventID: "ev1"},
		}},
	}}
	f := newFixture(t, cfg)
	f.provider.events = mustEvents(t, `{"results":[{"FI":"T1","main":{"sp":{"m":{"id":"13","name":"Nadal vs Djokovic - Winner","odds":[{"id":"1","odds":"1.5","name":"Nadal"}]}}}}]}`)

	res, err := f.svc.PreMatchOdds(context.Background(), sport.MustLookup(sport.Tennis), []string{"T1"})
	if err != nil {
		t.Fatal(err)
	}
	m := res.Markets[0]
	if m.Name != "Home vs Away - Winner" {
		t.Errorf("name = %q", m.Name)
	}
	if !reflect.DeepEqual(m.Leagues, []model.League{{ID: "ev1", Name: "ATP"}}) {
		t.Errorf("leagues = %+v", m.Leagues)
	}
}

func TestPreMatchOdds_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		events  []model.RawEvent
		err     error
		wantErr error
	}{
		{"no ids", nil, nil, nil, ErrNoEvents},
		{"empty results", []string{"1"}, []model.RawEvent{}, nil, ErrNoEvents},
		{"upstream down", []string{"1"}, nil, errors.New("connection refused"), ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.provider.events = tt.events
			f.provider.err = tt.err

			_, err := f.svc.PreMatchOdds(context.Background(), sport.MustLookup(sport.Cricket), tt.ids)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if len(f.repo.preOdds) != 0 {
				t.Error("nothing should be persisted on error")
			}
		})
	}
}

func TestPreMatchOdds_PersistenceFailureStillReturnsResult(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.events = mustEvents(t, footballEvents)
	f.repo.err = errors.New("db down")

	res, err := f.svc.PreMatchOdds(context.Background(), sport.MustLookup(sport.Football), []string{"1", "2"})
	if err != nil {
		t.Fatalf("persistence failure must not fail the request: %v", err)
	}
	if res.TotalMarkets != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(f.pub.sent) != 0 {
		t.Error("nothing should be published when persistence fails")
	}
	if got := testutil.ToFloat64(f.metrics.PersistenceFailures.WithLabelValues(repository.TablePreMatchOdds)); got != 1 {
		t.Errorf("persistence failure counter = %v", got)
	}
}

func liveResponse(t *testing.T, body string) *model.LiveEventResponse {
	t.Helper()
	var resp model.LiveEventResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatal(err)
	}
	return &resp
}

func TestLiveMarketList_PriorityOrderNotArrivalOrder(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.live = map[string]*model.LiveEventResponse{
		"slow": liveResponse(t, `{"success":true,"eventData":{"markets":[{"name":"Match Result","market":"from-slow"}]}}`),
		"fast": liveResponse(t, `{"success":true,"eventData":{"markets":[{"name":"Match Result","market":"from-fast"},{"name":"Corners","market":"7"}]}}`),
	}
	f.provider.liveDelay = map[string]time.Duration{"slow": 50 * time.Millisecond}

	ids := []string{"broken", "slow", "fast"}
	res, err := f.svc.LiveMarketList(context.Background(), sport.MustLookup(sport.IceHockey), ids)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.MarketListing{{ID: "from-slow", Name: "Match Result"}, {ID: "7", Name: "Corners"}}
	if !reflect.DeepEqual(res.Markets, want) {
		t.Errorf("markets = %+v, want %+v", res.Markets, want)
	}
	if res.ID != 17 || res.Name != "Ice Hockey Markets" || res.Count != 2 {
		t.Errorf("unexpected header %+v", res)
	}
	if len(f.repo.live) != 1 {
		t.Fatalf("expected one live doc, got %d", len(f.repo.live))
	}
	doc := f.repo.live[0]
	if doc.MarketKey != "ice-hockey_broken_slow_fast" || doc.Source != LiveSource {
		t.Errorf("unexpected doc %+v", doc)
	}
}

func TestLiveMarketList_AllFailed(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.LiveMarketList(context.Background(), sport.MustLookup(sport.Football), []string{"1", "2"})
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
}

func storedOdds(t *testing.T, sportID int, markets []model.NormalizedMarket) *model.PreMatchOddsDoc {
	t.Helper()
	b, err := json.Marshal(markets)
	if err != nil {
		t.Fatal(err)
	}
	return &model.PreMatchOddsDoc{SportID: sportID, Markets: datatypes.JSON(b), TotalMarkets: len(markets)}
}

func marketWithOdd(id string) model.NormalizedMarket {
	return model.NormalizedMarket{ID: id, Name: "Market " + id, Odds: []model.NormalizedOdd{{ID: "o" + id, Odds: "1.500"}}}
}

func TestCombinedOdds(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.stored[1] = storedOdds(t, 1, []model.NormalizedMarket{marketWithOdd("1"), marketWithOdd("2"), marketWithOdd("3")})
	f.repo.stored[17] = storedOdds(t, 17, []model.NormalizedMarket{marketWithOdd("2"), marketWithOdd("3"), marketWithOdd("4")})

	combined, err := f.svc.CombinedOdds(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, c := range combined {
		ids = append(ids, c.FootballMarketID)
	}
	if !reflect.DeepEqual(ids, []string{"2", "3"}) {
		t.Errorf("combined ids = %v", ids)
	}
	if len(f.repo.combined) != 2 {
		t.Errorf("expected 2 persisted combined docs, got %d", len(f.repo.combined))
	}
}

func TestCombinedOdds_Errors(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.svc.CombinedOdds(context.Background()); !errors.Is(err, ErrNoStoredOdds) {
		t.Errorf("err = %v, want ErrNoStoredOdds", err)
	}

	f.repo.stored[1] = storedOdds(t, 1, []model.NormalizedMarket{marketWithOdd("1")})
	f.repo.stored[17] = storedOdds(t, 17, []model.NormalizedMarket{marketWithOdd("9")})
	_, err := f.svc.CombinedOdds(context.Background())
	if !errors.Is(err, ErrNoCommonMarkets) {
		t.Fatalf("err = %v, want ErrNoCommonMarkets", err)
	}
	var detail *NoCommonMarketsError
	if !errors.As(err, &detail) {
		t.Fatal("expected NoCommonMarketsError")
	}
	if len(detail.FootballMarkets) != 1 || detail.IceHockeyMarkets[0].ID != "9" {
		t.Errorf("unexpected detail %+v", detail)
	}
}

func TestParseEventIDs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"1,2,3", []string{"1", "2", "3"}},
		{" 3 , 1,3,, 2 ,1", []string{"3", "1", "2"}},
		{",,,", []string{}},
	}
	for _, tt := range tests {
		if got := ParseEventIDs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseEventIDs(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveEventIDs(t *testing.T) {
	cfg := &config.Config{Sports: map[string]config.SportConfig{
		"football": {DefaultEventIDs: []string{"10", "11", "10"}},
	}}
	f := newFixture(t, cfg)

	if got := f.svc.ResolveEventIDs(sport.Football, "5,6"); !reflect.DeepEqual(got, []string{"5", "6"}) {
		t.Errorf("explicit ids: %v", got)
	}
	if got := f.svc.ResolveEventIDs(sport.Football, " , "); !reflect.DeepEqual(got, []string{"10", "11"}) {
		t.Errorf("defaults: %v", got)
	}
	if got := f.svc.ResolveEventIDs(sport.Tennis, ""); len(got) != 0 {
		t.Errorf("no defaults configured: %v", got)
	}
}
