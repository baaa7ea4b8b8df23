package sport

import (
	"fmt"
	"sort"
)

// Slug 路由中使用的运动标识
type Slug string

const (
	Football  Slug = "football"
	Cricket   Slug = "cricket"
	Tennis    Slug = "tennis"
	IceHockey Slug = "ice-hockey"
)

// Variant 盘口处理变体
type Variant int

const (
	// VariantGeneric 足球/冰球/板球共用
	VariantGeneric Variant = iota
	// VariantTennis 主客名替换 + 联赛聚合
	VariantTennis
)

// Config 单个运动的处理参数，替代按运动复制的控制器
type Config struct {
	Slug         Slug
	SportID      int
	Name         string   // 响应中的运动名称
	DisplayName  string   // 滚球列表展示名
	SectionNames []string // 固定 section 顺序，决定合并优先级；others 始终追加在最后
	Variant      Variant
}

var genericSections = []string{"asian_lines", "goals", "main", "half", "minutes", "specials", "corners"}

var registry = map[Slug]Config{
	Football: {
		Slug:         Football,
		SportID:      1,
		Name:         "Football",
		DisplayName:  "Football Markets",
		SectionNames: genericSections,
		Variant:      VariantGeneric,
	},
	Cricket: {
		Slug:         Cricket,
		SportID:      3,
		Name:         "Cricket",
		DisplayName:  "Cricket Markets",
		SectionNames: genericSections,
		Variant:      VariantGeneric,
	},
	Tennis: {
		Slug:         Tennis,
		SportID:      13,
		Name:         "Tennis",
		DisplayName:  "Tennis Markets",
		SectionNames: []string{"main", "specials", "games", "sets"},
		Variant:      VariantTennis,
	},
	IceHockey: {
		Slug:         IceHockey,
		SportID:      17,
		Name:         "IceHockey",
		DisplayName:  "Ice Hockey Markets",
		SectionNames: genericSections,
		Variant:      VariantGeneric,
	},
}

// Lookup 按 slug 取运动配置
func Lookup(slug string) (Config, error) {
	cfg, ok := registry[Slug(slug)]
	if !ok {
		return Config{}, fmt.Errorf("未支持的运动: %s", slug)
	}
	return cfg, nil
}

// MustLookup 内置运动使用，不存在直接 panic
func MustLookup(slug Slug) Config {
	cfg, err := Lookup(string(slug))
	if err != nil {
		panic(err)
	}
	return cfg
}

// All 按 sport_id 排序的全部运动
func All() []Config {
	list := make([]Config, 0, len(registry))
	for _, cfg := range registry {
		list = append(list, cfg)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SportID < list[j].SportID })
	return list
}
