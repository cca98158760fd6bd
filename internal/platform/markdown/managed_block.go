package markdown

import "strings"

// Markers returns the html comment pair delimiting a named generated block.
func Markers(name string) (string, string) {
	return "<!-- mindflow:" + name + ":start -->", "<!-- mindflow:" + name + ":end -->"
}

// ReplaceManagedBlock swaps the named block inside body for generated, or
// appends the block when body has none. Text outside the markers is kept.
func ReplaceManagedBlock(body, name, generated string) string {
	startMarker, endMarker := Markers(name)
	block := startMarker + "\n" + strings.TrimRight(generated, "\n") + "\n" + endMarker

	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	if start >= 0 && end > start {
		return body[:start] + block + body[end+len(endMarker):]
	}
	if strings.TrimSpace(body) == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}
