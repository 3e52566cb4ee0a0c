package render

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/reelspin/config"
)

var (
	// ErrMissingVisual marks a strip symbol with no entry in the symbol table
	ErrMissingVisual = errors.New("missing symbol visual")
	// ErrUnknownColor marks a colour name tcell does not know
	ErrUnknownColor = errors.New("unknown color")
)

// Glyph is a resolved symbol visual
type Glyph struct {
	Rune  rune
	Label string
	Color tcell.Color
}

// SymbolTable resolves symbol identifiers to glyphs
type SymbolTable struct {
	glyphs map[string]Glyph
}

// NewSymbolTable resolves every visual, failing if a strip symbol has none
func NewSymbolTable(visuals map[string]config.Visual, strip []string) (*SymbolTable, error) {
	glyphs := make(map[string]Glyph, len(visuals))
	for id, v := range visuals {
		r, _ := utf8.DecodeRuneInString(v.Glyph)
		if r == utf8.RuneError {
			return nil, fmt.Errorf("%w: symbol %q has no glyph", ErrMissingVisual, id)
		}
		color := tcell.GetColor(strings.ToLower(v.Color))
		if color == tcell.ColorDefault {
			return nil, fmt.Errorf("%w: %q for symbol %q", ErrUnknownColor, v.Color, id)
		}
		label := v.Label
		if label == "" {
			label = id
		}
		glyphs[id] = Glyph{Rune: r, Label: label, Color: color}
	}

	for i, id := range strip {
		if _, ok := glyphs[id]; !ok {
			return nil, fmt.Errorf("%w: %q at strip position %d", ErrMissingVisual, id, i)
		}
	}
	return &SymbolTable{glyphs: glyphs}, nil
}

// Lookup returns the glyph for id
func (t *SymbolTable) Lookup(id string) (Glyph, bool) {
	g, ok := t.glyphs[id]
	return g, ok
}

// Label returns the display label for id, or id itself when unknown
func (t *SymbolTable) Label(id string) string {
	if g, ok := t.glyphs[id]; ok {
		return g.Label
	}
	return id
}
