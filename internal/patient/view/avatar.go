package view

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// FallbackName is the alt text and avatar seed for records without a name.
const FallbackName = "Patient"

// Initials joins the first UTF-16 unit of each space-separated word,
// upper-cases the result and keeps its first two units. Upper-casing before
// truncation matters for letters that expand, such as "ß" to "SS".
func Initials(name string) string {
	var firsts []uint16
	for word := range strings.SplitSeq(name, " ") {
		if units := utf16.Encode([]rune(word)); len(units) > 0 {
			firsts = append(firsts, units[0])
		}
	}
	upper := utf16.Encode([]rune(strings.ToUpper(string(utf16.Decode(firsts)))))
	if len(upper) > 2 {
		upper = upper[:2]
	}
	return string(utf16.Decode(upper))
}

// Hue derives a stable hue from name. The hash walks UTF-16 code units with
// a 32-bit shift, so names hash the same as they do in a browser. The result
// is the truncated remainder and can be negative.
func Hue(name string) int64 {
	var hash int64
	for _, u := range utf16.Encode([]rune(name)) {
		hash = int64(u) + (int64(int32(hash)<<5) - hash)
	}
	return hash % 360
}

// AvatarColor is the CSS background for name's avatar.
func AvatarColor(name string) string {
	return "hsl(" + strconv.FormatInt(Hue(name), 10) + ", 60%, 50%)"
}
