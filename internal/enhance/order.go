package enhance

import (
	"path/filepath"
	"sort"
	"strings"
)

// Order returns files sorted so that names containing a priority keyword come
// first, in keyword order. Files with the same rank are sorted by path.
func Order(files, keywords []string) []string {
	out := append([]string(nil), files...)
	rank := func(path string) int {
		base := strings.ToLower(filepath.Base(path))
		for i, kw := range keywords {
			if kw != "" && strings.Contains(base, strings.ToLower(kw)) {
				return i
			}
		}
		return len(keywords)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}
