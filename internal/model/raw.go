package model

import (
	"bytes"
	"encoding/json"
)

// RawEventsResponse 赛前批量接口根响应 {results: [...]}
type RawEventsResponse struct {
	Results []RawEvent `json:"results"`
}

// RawEvent 上游单场赛事（FI 为上游赛事ID）。只读，section 按名字惰性解析
type RawEvent struct {
	FI   Scalar
	Home string // 网球：主队/选手名
	Away string // 网球：客队/选手名

	fields map[string]json.RawMessage
}

func (e *RawEvent) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	e.fields = fields
	e.FI = Scalar{}
	e.Home, e.Away = "", ""
	if raw, ok := fields["FI"]; ok {
		// FI 解析失败等同于缺失，该赛事无法按 ID 匹配
		_ = json.Unmarshal(raw, &e.FI)
	}
	e.Home = stringField(fields, "home")
	e.Away = stringField(fields, "away")
	return nil
}

func (e RawEvent) MarshalJSON() ([]byte, error) {
	if e.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e.fields)
}

// ID 上游 FI 文本
func (e RawEvent) ID() string {
	return e.FI.String()
}

// Section 取指定名字的 section；缺失或不是对象时返回 false
func (e RawEvent) Section(name string) (Section, bool) {
	raw, ok := e.fields[name]
	if !ok {
		return Section{}, false
	}
	return ParseSection(raw)
}

// Others others 数组中的 section，非对象元素跳过
func (e RawEvent) Others() []Section {
	raw, ok := e.fields["others"]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	sections := make([]Section, 0, len(items))
	for _, item := range items {
		if s, ok := ParseSection(item); ok {
			sections = append(sections, s)
		}
	}
	return sections
}

// Section 一个盘口分类（goals/corners/...），sp 下是价格树
type Section struct {
	Markets []MarketNode // 按 sp 的 JSON 键顺序
}

// ParseSection 非对象返回 false；没有 sp 的对象返回空 Section
func ParseSection(raw json.RawMessage) (Section, bool) {
	fields, ok := orderedFields(raw)
	if !ok {
		return Section{}, false
	}
	var section Section
	for _, f := range fields {
		if f.Key != "sp" {
			continue
		}
		sp, ok := orderedFields(f.Raw)
		if !ok {
			continue
		}
		for _, m := range sp {
			node := ParseMarketNode(m.Raw)
			if node.Kind != NodeEmpty {
				section.Markets = append(section.Markets, node)
			}
		}
	}
	return section, true
}

// NodeKind 盘口节点类型，解析时一次性判定
type NodeKind int

const (
	NodeEmpty NodeKind = iota
	NodeLeaf
	NodeGroup
)

// MarketNode 叶子 {id,name,odds} 或一层分组（值为叶子的对象）
type MarketNode struct {
	Kind  NodeKind
	Leaf  Leaf
	Group []Leaf
}

// LeafNode 构造叶子节点
func LeafNode(l Leaf) MarketNode {
	return MarketNode{Kind: NodeLeaf, Leaf: l}
}

// GroupNode 构造分组节点
func GroupNode(leaves ...Leaf) MarketNode {
	return MarketNode{Kind: NodeGroup, Group: leaves}
}

// ParseMarketNode 自身有 id+name 即叶子；否则把每个值当候选叶子，只下钻一层
func ParseMarketNode(raw json.RawMessage) MarketNode {
	if leaf, ok := parseLeaf(raw); ok {
		return LeafNode(leaf)
	}
	fields, ok := orderedFields(raw)
	if !ok {
		return MarketNode{}
	}
	var group []Leaf
	for _, f := range fields {
		if leaf, ok := parseLeaf(f.Raw); ok {
			group = append(group, leaf)
		}
	}
	if len(group) == 0 {
		return MarketNode{}
	}
	return GroupNode(group...)
}

func (n *MarketNode) UnmarshalJSON(data []byte) error {
	*n = ParseMarketNode(data)
	return nil
}

// Leaf 单个盘口
type Leaf struct {
	ID   Scalar
	Name Scalar
	Odds []RawOdd
}

func parseLeaf(raw json.RawMessage) (Leaf, bool) {
	fields, ok := orderedFields(raw)
	if !ok {
		return Leaf{}, false
	}
	var leaf Leaf
	for _, f := range fields {
		switch f.Key {
		case "id":
			_ = json.Unmarshal(f.Raw, &leaf.ID)
		case "name":
			_ = json.Unmarshal(f.Raw, &leaf.Name)
		case "odds":
			leaf.Odds = parseOdds(f.Raw)
		}
	}
	if !leaf.ID.Present() || !leaf.Name.Present() {
		return Leaf{}, false
	}
	return leaf, true
}

func parseOdds(raw json.RawMessage) []RawOdd {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	odds := make([]RawOdd, 0, len(items))
	for _, item := range items {
		var odd RawOdd
		if err := json.Unmarshal(item, &odd); err != nil {
			continue
		}
		odds = append(odds, odd)
	}
	return odds
}

// RawOdd 单个出价项；id 只在同一盘口实例内唯一
type RawOdd struct {
	ID       Scalar `json:"id"`
	Odds     Scalar `json:"odds"`
	Name     Scalar `json:"name"`
	Header   Scalar `json:"header"`
	Handicap Scalar `json:"handicap"`
	Team     Scalar `json:"team"`
}

type field struct {
	Key string
	Raw json.RawMessage
}

// orderedFields 按 JSON 原始键顺序展开对象；输入不是对象时返回 false
func orderedFields(raw json.RawMessage) ([]field, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, false
	}
	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		fields = append(fields, field{Key: key, Raw: value})
	}
	return fields, true
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
