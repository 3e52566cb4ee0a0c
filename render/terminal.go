package render

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/reelspin/constants"
	"github.com/lixenwraith/reelspin/reel"
	"github.com/lixenwraith/reelspin/status"
)

// WinSound plays the win side effect
type WinSound interface {
	PlayWin()
}

// Terminal draws the reel and the round panel, implements game.Presenter
// Owned by the frame goroutine
type Terminal struct {
	screen   tcell.Screen
	symbols  *SymbolTable
	registry *status.Registry
	sound    WinSound

	balance    int
	win        int
	price      int
	highlights []int
	enabled    bool
}

// TerminalOption configures a Terminal
type TerminalOption func(*Terminal)

// WithRegistry shows metrics on the status line
func WithRegistry(r *status.Registry) TerminalOption {
	return func(t *Terminal) {
		t.registry = r
	}
}

// WithWinSound plays s on every win
func WithWinSound(s WinSound) TerminalOption {
	return func(t *Terminal) {
		t.sound = s
	}
}

// NewTerminal creates a presenter drawing to screen
func NewTerminal(screen tcell.Screen, symbols *SymbolTable, opts ...TerminalOption) *Terminal {
	t := &Terminal{screen: screen, symbols: symbols}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) SetBalance(balance int) { t.balance = balance }
func (t *Terminal) SetWin(win int)         { t.win = win }
func (t *Terminal) SetSpinPrice(price int) { t.price = price }
func (t *Terminal) SetSpinEnabled(on bool) { t.enabled = on }

// SetHighlights marks the winning window slots
func (t *Terminal) SetHighlights(positions []int) {
	t.highlights = slices.Clone(positions)
}

// PlayWin forwards the win side effect to the sound
func (t *Terminal) PlayWin() {
	if t.sound != nil {
		t.sound.PlayWin()
	}
}

// MinSize returns the smallest screen that fits a reel of visible symbols
func MinSize(visible int) (width, height int) {
	panel := len(fmt.Sprintf(constants.TextSpinPrice, 9999))
	width = constants.ReelMarginX + constants.ReelWidth + 2 + constants.PanelGap + panel
	height = constants.ReelMarginY + visible*constants.RowsPerSymbol + 2 + 1
	return width, height
}

// Draw renders one frame of the reel window and the panel
func (t *Terminal) Draw(w reel.Window) {
	t.screen.Clear()
	bg := tcell.StyleDefault.Background(RgbBackground)
	t.fill(bg)

	width, height := t.screen.Size()
	minW, minH := MinSize(w.Visible)
	if width < minW || height < minH {
		t.text(0, 0, fmt.Sprintf("terminal too small: need %dx%d", minW, minH), bg.Foreground(RgbText))
		t.screen.Show()
		return
	}

	t.drawFrame(w.Visible, bg)
	t.drawReel(w)
	t.drawPanel(w, bg)
	t.drawStatus(width, height)
	t.screen.Show()
}

func (t *Terminal) fill(style tcell.Style) {
	width, height := t.screen.Size()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawFrame draws the box around the reel
func (t *Terminal) drawFrame(visible int, bg tcell.Style) {
	style := bg.Foreground(RgbReelFrame)
	left, top := constants.ReelMarginX, constants.ReelMarginY
	right := left + constants.ReelWidth + 1
	bottom := top + visible*constants.RowsPerSymbol + 1

	for x := left + 1; x < right; x++ {
		t.screen.SetContent(x, top, '═', nil, style)
		t.screen.SetContent(x, bottom, '═', nil, style)
	}
	for y := top + 1; y < bottom; y++ {
		t.screen.SetContent(left, y, '║', nil, style)
		t.screen.SetContent(right, y, '║', nil, style)
	}
	t.screen.SetContent(left, top, '╔', nil, style)
	t.screen.SetContent(right, top, '╗', nil, style)
	t.screen.SetContent(left, bottom, '╚', nil, style)
	t.screen.SetContent(right, bottom, '╝', nil, style)

	// Payline markers on the middle symbol
	mid := top + 1 + (visible/2)*constants.RowsPerSymbol + constants.RowsPerSymbol/2
	t.screen.SetContent(left-1, mid, '▶', nil, style)
	t.screen.SetContent(right+1, mid, '◀', nil, style)
}

// drawReel scrolls the rendered strip by the fractional offset
// Rows are addressed in a virtual space of RowsPerSymbol rows per strip entry
func (t *Terminal) drawReel(w reel.Window) {
	rendered := w.Strip.Rendered(w.Visible)
	extent := float64(w.Strip.Len()) * w.SymbolHeight
	pos := math.Mod(w.Offset, extent)
	if pos < 0 {
		pos += extent
	}
	firstRow := int(math.Floor(pos / w.SymbolHeight * constants.RowsPerSymbol))

	rows := w.Visible * constants.RowsPerSymbol
	x0, y0 := constants.ReelMarginX+1, constants.ReelMarginY+1
	face := tcell.StyleDefault.Background(RgbReelFace)
	atRest := w.Phase == reel.PhaseIdle

	for y := 0; y < rows; y++ {
		virtual := firstRow + y
		entry := virtual / constants.RowsPerSymbol
		if entry >= len(rendered) {
			entry = len(rendered) - 1
		}
		row := virtual % constants.RowsPerSymbol

		style := face
		if atRest && slices.Contains(t.highlights, y/constants.RowsPerSymbol) {
			style = style.Background(RgbHighlight)
		}
		for x := 0; x < constants.ReelWidth; x++ {
			t.screen.SetContent(x0+x, y0+y, ' ', nil, style)
		}

		switch row {
		case constants.RowsPerSymbol / 2:
			t.drawSymbol(x0, y0+y, rendered[entry], style)
		case constants.RowsPerSymbol - 1:
			// Faint rule between symbols
			for x := 1; x < constants.ReelWidth-1; x++ {
				t.screen.SetContent(x0+x, y0+y, '·', nil, style.Foreground(RgbDisabled))
			}
		}
	}
}

func (t *Terminal) drawSymbol(x0, y int, id string, style tcell.Style) {
	g, ok := t.symbols.Lookup(id)
	if !ok {
		g = Glyph{Rune: '?', Label: id, Color: tcell.ColorBlack}
	}
	line := fmt.Sprintf("%c %s", g.Rune, g.Label)
	if len(line) > constants.ReelWidth {
		line = line[:constants.ReelWidth]
	}
	x := x0 + (constants.ReelWidth-len([]rune(line)))/2
	t.text(x, y, line, style.Foreground(g.Color).Bold(true))
}

// drawPanel draws balance, win, price and the spin control
func (t *Terminal) drawPanel(w reel.Window, bg tcell.Style) {
	x := constants.ReelMarginX + constants.ReelWidth + 2 + constants.PanelGap
	y := constants.ReelMarginY + 1
	textStyle := bg.Foreground(RgbText)

	t.text(x, y, fmt.Sprintf(constants.TextBalance, t.balance), textStyle)
	winStyle := textStyle
	if t.win > 0 {
		winStyle = bg.Foreground(RgbWinText).Bold(true)
	}
	t.text(x, y+1, fmt.Sprintf(constants.TextWin, t.win), winStyle)
	t.text(x, y+2, fmt.Sprintf(constants.TextSpinPrice, t.price), textStyle)

	control, controlStyle := constants.TextSpin, textStyle.Bold(true)
	switch {
	case w.Phase != reel.PhaseIdle:
		control = constants.TextStop
	case !t.enabled:
		control, controlStyle = constants.TextNoFunds, bg.Foreground(RgbDisabled)
	}
	t.text(x, y+4, control, controlStyle)
	t.text(x, y+6, constants.TextHelp, bg.Foreground(RgbDisabled))
}

// drawStatus draws the metrics line on the last row
func (t *Terminal) drawStatus(width, height int) {
	style := tcell.StyleDefault.Background(RgbStatusBg).Foreground(RgbStatusText)
	y := height - 1
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
	if t.registry == nil {
		return
	}

	parts := make([]string, 0, t.registry.Len())
	for _, s := range t.registry.Snapshot() {
		parts = append(parts, s.Key+"="+s.Value)
	}
	line := strings.Join(parts, "  ")
	if r := []rune(line); len(r) > width-1 {
		line = string(r[:width-1])
	}
	t.text(1, y, line, style)
}

// Balance returns the displayed balance
func (t *Terminal) Balance() int { return t.balance }

// Win returns the displayed win
func (t *Terminal) Win() int { return t.win }

// Highlights returns the highlighted slots
func (t *Terminal) Highlights() []int { return slices.Clone(t.highlights) }
