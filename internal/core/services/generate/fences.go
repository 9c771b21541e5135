package generate

import "strings"

const (
	fence       = "```"
	latexOpener = "```latex"
)

// StripFences unwraps a model reply from its markdown code fence: a ```latex or bare ```
// opener, then a closing ```, then surrounding whitespace.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(s, latexOpener):
		s = s[len(latexOpener):]
	case strings.HasPrefix(s, fence):
		s = s[len(fence):]
	}
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}
