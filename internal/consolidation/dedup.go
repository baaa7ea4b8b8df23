package consolidation

import (
	"strings"

	"OddsSync/internal/model"

	"github.com/shopspring/decimal"
)

// OddsPrecision 赔率文本的固定小数位
const OddsPrecision = 3

// CanonicalOdds 数字赔率统一成固定小数位文本（1.5 -> "1.500"），非数字保留原文
func CanonicalOdds(s model.Scalar) string {
	raw := strings.TrimSpace(s.String())
	if raw == "" {
		return ""
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	return d.StringFixed(OddsPrecision)
}

// NormalizeOdds 原始出价转为归一化结构并去重
func NormalizeOdds(raw []model.RawOdd) []model.NormalizedOdd {
	odds := make([]model.NormalizedOdd, 0, len(raw))
	for _, o := range raw {
		odds = append(odds, model.NormalizedOdd{
			ID:       o.ID.String(),
			Odds:     CanonicalOdds(o.Odds),
			Name:     o.Name.String(),
			Header:   o.Header.String(),
			Handicap: o.Handicap.String(),
			Team:     o.Team.String(),
		})
	}
	return DedupOdds(odds)
}

// DedupOdds 丢弃无 id 的项，同 id 只保留第一次出现，保持原顺序。幂等
func DedupOdds(odds []model.NormalizedOdd) []model.NormalizedOdd {
	seen := make(map[string]struct{}, len(odds))
	out := make([]model.NormalizedOdd, 0, len(odds))
	for _, o := range odds {
		if o.ID == "" {
			continue
		}
		if _, ok := seen[o.ID]; ok {
			continue
		}
		seen[o.ID] = struct{}{}
		out = append(out, o)
	}
	return out
}
