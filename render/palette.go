package render

import (
	"github.com/gdamore/tcell/v2"
)

// Screen palette
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbReelFace   = tcell.NewRGBColor(235, 230, 215) // Paper white reel
	RgbReelFrame  = tcell.NewRGBColor(200, 160, 60)  // Brass frame
	RgbHighlight  = tcell.NewRGBColor(255, 215, 90)  // Winning row
	RgbText       = tcell.NewRGBColor(220, 220, 220)
	RgbWinText    = tcell.NewRGBColor(80, 220, 100)
	RgbDisabled   = tcell.NewRGBColor(110, 110, 110)
	RgbStatusBg   = tcell.NewRGBColor(40, 42, 58)
	RgbStatusText = tcell.NewRGBColor(150, 150, 170)
)
