package outfit

//nolint:gochecknoglobals // read-only tables
var (
	neutralColors = map[string]struct{}{
		"black": {}, "white": {}, "grey": {}, "navy": {}, "beige": {}, "cream": {},
	}

	complementarySets = []map[string]struct{}{
		{"navy": {}, "white": {}, "grey": {}, "black": {}},
		{"black": {}, "white": {}, "grey": {}},
		{"brown": {}, "beige": {}, "cream": {}, "tan": {}},
		{"blue": {}, "white": {}, "grey": {}},
		{"green": {}, "brown": {}, "beige": {}},
	}
)

// Compatible reports whether color (lower-cased) can join an outfit that
// already uses the given lower-cased colors. Matching is exact.
//
// A color is accepted when it shares a complementary set with any existing
// color, when it is neutral, or when there are no colors yet.
func Compatible(color string, existing map[string]struct{}) bool {
	for _, set := range complementarySets {
		if _, ok := set[color]; !ok {
			continue
		}
		for e := range existing {
			if _, ok := set[e]; ok {
				return true
			}
		}
	}
	if _, ok := neutralColors[color]; ok {
		return true
	}
	return len(existing) == 0
}
