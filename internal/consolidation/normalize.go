package consolidation

import "OddsSync/internal/model"

// Fragment 单个叶子盘口归一化后的片段，等待并入 Accumulator
type Fragment struct {
	ID   string
	Name string
	Odds []model.RawOdd
}

// Key id_name，name 不做校验（空白也参与）
func (f Fragment) Key() string {
	return model.MarketKey(f.ID, f.Name)
}

// NormalizeNode 叶子产出一个片段，分组按值逐个产出，其它情况不产出
func NormalizeNode(node model.MarketNode) []Fragment {
	switch node.Kind {
	case model.NodeLeaf:
		return []Fragment{fromLeaf(node.Leaf)}
	case model.NodeGroup:
		fragments := make([]Fragment, 0, len(node.Group))
		for _, leaf := range node.Group {
			if !leaf.ID.Present() || !leaf.Name.Present() {
				continue
			}
			fragments = append(fragments, fromLeaf(leaf))
		}
		return fragments
	default:
		return nil
	}
}

func fromLeaf(leaf model.Leaf) Fragment {
	return Fragment{
		ID:   leaf.ID.String(),
		Name: leaf.Name.String(),
		Odds: leaf.Odds,
	}
}
