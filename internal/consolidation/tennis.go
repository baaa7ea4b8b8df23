package consolidation

import (
	"sort"
	"strings"
)

// tokenDelimiters 选手名只有在两侧都是分隔符（或字符串边界）时才算命中
const tokenDelimiters = " -/(),:.;|&"

// SubstitutePlayers 把盘口名里的主客选手名替换为 Home/Away。
// 只做整词匹配，长名优先，单次从左到右扫描，替换结果不会被再次替换
func SubstitutePlayers(name, home, away string) string {
	type substitution struct {
		from, to string
	}
	var subs []substitution
	if home != "" {
		subs = append(subs, substitution{from: home, to: "Home"})
	}
	if away != "" {
		subs = append(subs, substitution{from: away, to: "Away"})
	}
	if len(subs) == 0 {
		return name
	}
	sort.SliceStable(subs, func(i, j int) bool { return len(subs[i].from) > len(subs[j].from) })

	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); {
		matched := false
		if isTokenBoundary(name, i-1) {
			for _, s := range subs {
				end := i + len(s.from)
				if strings.HasPrefix(name[i:], s.from) && isTokenBoundary(name, end) {
					b.WriteString(s.to)
					i = end
					matched = true
					break
				}
			}
		}
		if !matched {
			b.WriteByte(name[i])
			i++
		}
	}
	return b.String()
}

func isTokenBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	return strings.IndexByte(tokenDelimiters, s[i]) >= 0
}
