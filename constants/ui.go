package constants

// Reel view layout
const (
	// RowsPerSymbol is the terminal rows one symbol occupies in the reel view
	RowsPerSymbol = 3

	// ReelWidth is the inner width of the reel box in columns
	ReelWidth = 14

	// ReelMarginX is the left margin of the reel box
	ReelMarginX = 2

	// ReelMarginY is the top margin of the reel box
	ReelMarginY = 1

	// PanelGap is the gap between the reel box and the text panel
	PanelGap = 4
)

// Panel text
const (
	TextBalance   = "Balance: $%d"
	TextWin       = "Win: $%d"
	TextSpinPrice = "Price of spin: $%d"
	TextSpin      = "[ SPACE ] SPIN"
	TextStop      = "[ SPACE ] STOP"
	TextNoFunds   = "[ ----- ] NO FUNDS"
	TextHelp      = "q quit  m mute"
)
