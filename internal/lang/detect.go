package lang

// scriptRange maps a contiguous Unicode block to the language most likely
// written in it. Ordering matters: the first block with a hit wins.
type scriptRange struct {
	lo, hi rune
	code   Code
}

var scriptRanges = []scriptRange{
	{0x0900, 0x097F, "hi"}, // Devanagari
	{0x0C00, 0x0C7F, "te"}, // Telugu
	{0x0B80, 0x0BFF, "ta"}, // Tamil
	{0x0980, 0x09FF, "bn"}, // Bengali
	{0x0A80, 0x0AFF, "gu"}, // Gujarati
	{0x0C80, 0x0CFF, "kn"}, // Kannada
	{0x0D00, 0x0D7F, "ml"}, // Malayalam
}

// DetectScript guesses the input language from the script its code points
// belong to. Latin text and anything unrecognized come back as the default.
func DetectScript(text string) Code {
	for _, sr := range scriptRanges {
		for _, r := range text {
			if r >= sr.lo && r <= sr.hi {
				return sr.code
			}
		}
	}
	return Default
}
