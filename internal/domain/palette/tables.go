package palette

// SafeColors is the conservative set used when no palette applies.
var SafeColors = []string{"Navy", "Black", "White", "Grey", "Blue"} //nolint:gochecknoglobals // read-only table

// BroadenedColors is the wider set tried after a primary search came back empty.
var BroadenedColors = []string{"Navy", "Black", "White", "Grey", "Blue", "Brown"} //nolint:gochecknoglobals // read-only table

//nolint:gochecknoglobals // read-only tables
var (
	recommended = map[Season][]string{
		Spring: {"Coral", "Peach", "Warm Yellow", "Golden Brown", "Bright Green", "Aqua", "Ivory", "Light Navy"},
		Summer: {"Lavender", "Powder Blue", "Soft Pink", "Mauve", "Gray-Blue", "Periwinkle", "Light Grey", "Navy"},
		Autumn: {"Olive Green", "Rust", "Terracotta", "Mustard Yellow", "Warm Brown", "Teal", "Cream", "Deep Navy"},
		Winter: {"Pure White", "Black", "Navy Blue", "Royal Purple", "Emerald Green", "Bright Pink", "Red", "Grey"},
	}

	avoid = map[Season][]string{
		Spring: {"Black", "Pure White", "Cool Blue", "Purple", "Grey"},
		Summer: {"Orange", "Bright Yellow", "Warm Brown", "Gold", "Black"},
		Autumn: {"Pink", "Cool Blue", "Purple", "Pure White", "Black"},
		Winter: {"Beige", "Orange", "Yellow", "Brown", "Peach"},
	}

	interviewSafe = map[Season][]string{
		Spring: {"Navy", "Light Grey", "Cream", "Soft Blue", "Light Pink"},
		Summer: {"Navy", "Light Grey", "Powder Blue", "Soft Pink", "Periwinkle"},
		Autumn: {"Navy", "Warm Brown", "Olive Green", "Cream", "Deep Teal"},
		Winter: {"Navy", "Black", "Pure White", "Grey", "Deep Purple"},
	}

	seasonColors = map[Season][]string{
		Spring: {"Coral", "Peach", "Light Blue", "Cream", "Light Green", "Navy"},
		Summer: {"Powder Blue", "Soft Pink", "Lavender", "Grey", "Navy", "White"},
		Autumn: {"Olive Green", "Brown", "Terracotta", "Cream", "Navy", "Teal"},
		Winter: {"Navy", "Black", "White", "Grey", "Red", "Purple"},
	}

	aliases = map[string][]string{
		"Navy":   {"Navy", "Navy Blue", "Blue"},
		"Black":  {"Black"},
		"White":  {"White", "Ivory", "Cream"},
		"Grey":   {"Grey", "Gray", "Charcoal"},
		"Brown":  {"Brown", "Tan", "Beige", "Sand"},
		"Blue":   {"Blue", "Navy", "Navy Blue"},
		"Green":  {"Green", "Olive", "Sage"},
		"Red":    {"Red", "Burgundy", "Rose"},
		"Pink":   {"Pink", "Rose"},
		"Purple": {"Purple"},
		"Yellow": {"Yellow", "Gold"},
		"Orange": {"Orange"},
		"Teal":   {"Teal"},
		"Stone":  {"Stone", "Beige", "Sand"},
		"Khaki":  {"Khaki", "Tan"},
	}
)

// Aliases expands a palette color into the names catalogs use for it.
// Lookup is exact; unknown colors expand to themselves.
func Aliases(color string) []string {
	if names, ok := aliases[color]; ok {
		return append([]string(nil), names...)
	}
	return []string{color}
}
