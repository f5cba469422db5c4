package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdown renders response text, caching one renderer per wrap width.
type markdown struct {
	style     string
	renderers map[int]*glamour.TermRenderer
	cache     map[cacheKey]string
}

type cacheKey struct {
	width int
	text  string
}

func newMarkdown(style string) *markdown {
	return &markdown{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
		cache:     make(map[cacheKey]string),
	}
}

// Render returns text rendered for the given width. Falls back to the raw
// text when the renderer cannot be built or fails.
func (md *markdown) Render(text string, width int) string {
	if width < 10 {
		width = 10
	}
	k := cacheKey{width: width, text: text}
	if out, ok := md.cache[k]; ok {
		return out
	}

	r, ok := md.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(md.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		md.renderers[width] = r
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}
	out = strings.Trim(out, "\n")
	md.cache[k] = out
	return out
}

// Reset drops cached output, keeping renderers.
func (md *markdown) Reset() {
	clear(md.cache)
}
