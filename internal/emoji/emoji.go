package emoji

import "github.com/yildizm/go-termfmt"

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":      {"❌", "[ERR]"},
	"warning":    {"⚠️", "[WRN]"},
	"info":       {"ℹ️", "[INF]"},
	"success":    {"✅", "[OK]"},
	"search":     {"🔍", "[?]"},
	"globe":      {"🌍", "[*]"},
	"capital":    {"🏛️", "[CAP]"},
	"population": {"👥", "[POP]"},
	"languages":  {"🗣️", "[LNG]"},
	"list":       {"📋", "[LST]"},
	"pointer":    {"👉", ">"},
	"back":       {"↩️", "[ESC]"},
	"server":     {"🚀", "[SRV]"},
	"config":     {"📄", "[CFG]"},
	"folder":     {"📁", "[DIR]"},
	"door":       {"🚪", "[EXIT]"},
	"help":       {"❓", "[?]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1] // fallback
		}
		return mapping[0] // emoji
	}
	return "[?]" // unknown key
}

// Flag returns a country's flag emoji, or fallback when emoji are disabled
// or the record carries no flag.
func Flag(flag, fallback string) string {
	if emojiDisabled || flag == "" {
		return fallback
	}
	return flag
}

// Severity returns the notice glyph for a severity level ("error",
// "warning", "info") from the shared terminal symbol set
func Severity(level string) string {
	opts := termfmt.DefaultOptions()
	opts.Color = false
	opts.Emoji = !emojiDisabled
	return termfmt.GetEmoji(level, opts)
}
