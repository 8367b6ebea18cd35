package note

import "strings"

// NormalizeTags lowercases, strips a leading '#', drops empties and
// duplicates. Order of first appearance is kept.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags))

	for _, raw := range tags {
		t := strings.ToLower(strings.TrimSpace(raw))
		t = strings.TrimPrefix(t, "#")
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)

		if len(out) >= 20 { // cap
			break
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
