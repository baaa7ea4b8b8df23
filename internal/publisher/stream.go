package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StreamPrefix 每个运动一个 stream：odds.consolidated.{sport}
const StreamPrefix = "odds.consolidated."

// StreamPublisher 把合并后的文档推到 Redis stream，下游按运动订阅
type StreamPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewStreamPublisher maxLen>0 时按近似长度裁剪 stream
func NewStreamPublisher(client *redis.Client, maxLen int64) *StreamPublisher {
	return &StreamPublisher{client: client, maxLen: maxLen}
}

// StreamKey 运动对应的 stream 名
func StreamKey(sport string) string {
	return StreamPrefix + sport
}

// Publish kind 区分文档类型（pre_match_markets / pre_match_odds / ...），runID 为本次合并批次
func (p *StreamPublisher) Publish(ctx context.Context, sport, kind, runID string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("序列化快照失败: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: StreamKey(sport),
		Values: map[string]interface{}{
			"data":   string(data),
			"kind":   kind,
			"run_id": runID,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	return p.client.XAdd(ctx, args).Err()
}

// Close 释放底层连接
func (p *StreamPublisher) Close() error {
	return p.client.Close()
}

// Nop redis 未配置时使用
type Nop struct{}

func (Nop) Publish(context.Context, string, string, string, interface{}) error { return nil }
