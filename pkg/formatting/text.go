package formatting

// Truncate shortens s to at most n runes, appending an ellipsis marker
// when content was dropped. Non-positive n returns s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
