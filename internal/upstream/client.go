// Package upstream 上游赔率提供方客户端：赛前批量接口 + 滚球单赛事接口
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"OddsSync/internal/config"
	"OddsSync/internal/metrics"
	"OddsSync/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// StatusError 上游返回非 2xx
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("上游返回状态码 %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	cfg        config.UpstreamConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
	logger     *logrus.Logger
}

// NewClient rate_limit<=0 时不限速
func NewClient(cfg config.UpstreamConfig, httpClient *http.Client, m *metrics.Metrics, logger *logrus.Logger) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		metrics:    m,
		logger:     logger,
	}
}

// FetchPrematch 一次请求拉取多场赛事：GET {prematch_url}?token=..&FI=a,b,c
func (c *Client) FetchPrematch(ctx context.Context, ids []string) ([]model.RawEvent, error) {
	params := url.Values{}
	params.Set("token", c.cfg.Token)
	params.Set("FI", strings.Join(ids, ","))

	var resp model.RawEventsResponse
	if err := c.get(ctx, metrics.KindPrematch, c.cfg.PrematchURL, params, &resp); err != nil {
		return nil, fmt.Errorf("拉取赛前赔率失败: %w", err)
	}
	return resp.Results, nil
}

// FetchLiveEvent 拉取单场滚球盘口：GET {live_url}/event?evId=id
func (c *Client) FetchLiveEvent(ctx context.Context, id string) (*model.LiveEventResponse, error) {
	params := url.Values{}
	params.Set("evId", id)

	var resp model.LiveEventResponse
	endpoint := strings.TrimRight(c.cfg.LiveURL, "/") + "/event"
	if err := c.get(ctx, metrics.KindLive, endpoint, params, &resp); err != nil {
		return nil, fmt.Errorf("拉取滚球盘口失败(evId=%s): %w", id, err)
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, kind, endpoint string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("限速等待: %w", err)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("解析上游地址失败: %w", err)
	}
	query := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			query.Set(k, v)
		}
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(kind, 0)
		return fmt.Errorf("请求上游失败: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(kind, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("解析上游响应失败: %w", err)
	}
	c.logger.WithFields(logrus.Fields{
		"kind":   kind,
		"status": resp.StatusCode,
	}).Debug("上游请求完成")
	return nil
}
