package aggregate

import (
	"fmt"
	"sort"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/parse"
)

// FallbackSlug is used for names that slugify to nothing.
const FallbackSlug = "entity"

// AssignSlugs maps every distinct name to a unique slug. Names are processed in
// ascending order so the result does not depend on input order; collisions get
// "-1", "-2", ... appended.
func AssignSlugs(names []string) map[string]string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	used := make(map[string]struct{}, len(sorted))
	slugs := make(map[string]string, len(sorted))
	for _, name := range sorted {
		if _, done := slugs[name]; done {
			continue
		}

		base := parse.Slugify(name)
		if base == "" {
			base = FallbackSlug
		}

		slug := base
		for n := 1; ; n++ {
			if _, taken := used[slug]; !taken {
				break
			}
			slug = fmt.Sprintf("%s-%d", base, n)
		}

		used[slug] = struct{}{}
		slugs[name] = slug
	}
	return slugs
}
