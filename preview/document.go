// Package preview builds a live markdown preview out of stores. The source
// text is a writable store; rendered HTML, highlighted source and text
// statistics are derived from it.
package preview

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/golang/glog"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/odvcencio/furry-store/store"
)

// Config selects how the source is highlighted.
type Config struct {
	Lexer     string
	Formatter string
	Style     string
}

// DefaultConfig highlights markdown for a 256 color terminal.
func DefaultConfig() Config {
	return Config{
		Lexer:     "markdown",
		Formatter: "terminal256",
		Style:     "monokai",
	}
}

// Output is a rendering result.
type Output struct {
	Text string
	Err  error
}

// Stats summarizes the source text.
type Stats struct {
	Lines int
	Words int
	// Width is the display width of the widest line.
	Width int
}

// Document ties the derived views to one source store.
type Document struct {
	Source      *store.WritableStore[string]
	HTML        *store.Derived[Output]
	Highlighted *store.Derived[Output]
	Stats       *store.Derived[Stats]
}

// NewDocument creates a document with initial source text.
func NewDocument(cfg Config, initial string) *Document {
	src := store.NewWritable(initial, store.WithName[string]("source"))
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	hl := newHighlighter(cfg)

	one := func(fn func(string) Output) func([]string) Output {
		return func(vs []string) Output { return fn(vs[0]) }
	}
	return &Document{
		Source: src,
		HTML: store.Derive(one(func(text string) Output {
			var buf bytes.Buffer
			if err := md.Convert([]byte(text), &buf); err != nil {
				glog.Warningf("preview: render markdown: %v", err)
				return Output{Err: err}
			}
			return Output{Text: buf.String()}
		}), store.Readable[string](src)),
		Highlighted: store.Derive(one(hl.highlight), store.Readable[string](src)),
		Stats: store.Derive(func(vs []string) Stats {
			return Measure(vs[0])
		}, store.Readable[string](src)),
	}
}

// Dispose detaches the derived views from the source.
func (d *Document) Dispose() {
	if d == nil {
		return
	}
	d.HTML.Dispose()
	d.Highlighted.Dispose()
	d.Stats.Dispose()
}

// Measure counts lines and words and finds the widest line.
func Measure(text string) Stats {
	if text == "" {
		return Stats{}
	}
	lines := strings.Split(text, "\n")
	stats := Stats{Lines: len(lines), Words: len(strings.Fields(text))}
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > stats.Width {
			stats.Width = w
		}
	}
	return stats
}

type highlighter struct {
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

func newHighlighter(cfg Config) highlighter {
	lexer := lexers.Get(cfg.Lexer)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	formatter := formatters.Get(cfg.Formatter)
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return highlighter{
		lexer:     chroma.Coalesce(lexer),
		formatter: formatter,
		style:     styles.Get(cfg.Style),
	}
}

func (h highlighter) highlight(text string) Output {
	it, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		glog.Warningf("preview: tokenise: %v", err)
		return Output{Err: err}
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		glog.Warningf("preview: format: %v", err)
		return Output{Err: err}
	}
	return Output{Text: buf.String()}
}
