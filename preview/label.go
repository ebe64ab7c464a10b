package preview

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-store/store"
)

// Alignment positions label text within its width.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// CellSetter is the part of tcell.Screen a Label draws through.
type CellSetter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Label is a single line of text bound to a store.
// It subscribes on Mount and releases the subscription on Unmount.
// The source may publish from another goroutine.
type Label struct {
	source    store.Readable[string]
	sub       *store.Subscriber[string]
	onChange  func()
	mu        sync.Mutex
	text      string
	style     tcell.Style
	alignment Alignment
	mounted   bool
}

// NewLabel creates a label bound to source.
func NewLabel(source store.Readable[string]) *Label {
	label := &Label{
		source: source,
		style:  tcell.StyleDefault,
	}
	if source != nil {
		label.text = source.Get()
	}
	return label
}

// Text returns the current label text.
func (l *Label) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// SetStyle sets the label style.
func (l *Label) SetStyle(style tcell.Style) {
	l.style = style
}

// SetAlignment sets text alignment.
func (l *Label) SetAlignment(align Alignment) {
	l.alignment = align
}

// SetOnChange registers fn to run after the text changes.
func (l *Label) SetOnChange(fn func()) {
	l.onChange = fn
}

// Mount subscribes to the source.
func (l *Label) Mount() {
	l.mu.Lock()
	if l.mounted {
		l.mu.Unlock()
		return
	}
	l.mounted = true
	if l.source == nil {
		l.text = ""
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	l.sub = store.NewSubscriber(l.onValue)
	l.source.SubscribeListener(l.sub)
}

// Unmount releases the subscription.
func (l *Label) Unmount() {
	l.mu.Lock()
	l.mounted = false
	l.mu.Unlock()
	if l.sub != nil {
		l.sub.Dispose()
		l.sub = nil
	}
}

// Draw renders the label on row y, truncated to width cells.
func (l *Label) Draw(screen CellSetter, x, y, width int) {
	if screen == nil || width <= 0 {
		return
	}
	text := l.Text()
	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "...")
	}

	textWidth := runewidth.StringWidth(text)
	switch l.alignment {
	case AlignCenter:
		x += (width - textWidth) / 2
	case AlignRight:
		x += width - textWidth
	}
	for _, r := range text {
		screen.SetContent(x, y, r, nil, l.style)
		x += runewidth.RuneWidth(r)
	}
}

func (l *Label) onValue(text string) {
	l.mu.Lock()
	if !l.mounted || l.text == text {
		l.mu.Unlock()
		return
	}
	l.text = text
	l.mu.Unlock()
	if l.onChange != nil {
		l.onChange()
	}
}
