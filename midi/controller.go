package midi

// PadEvent is sent when a pad/button is pressed on a grid controller.
// Row 0 is the bottom row of pads; row 8 is the top row of round buttons.
type PadEvent struct {
	Row, Col int
	Velocity uint8
}

// LEDUpdate sets one pad's colour
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8
	Channel  uint8 // ChannelStatic / ChannelPulse
}

// Controller is the interface for grid controllers
type Controller interface {
	ID() string

	// Input events from the controller
	PadEvents() <-chan PadEvent

	// Output to the controller
	SetLEDBatch(updates []LEDUpdate) error

	// Lifecycle
	Close() error
}

// Channel modes for LED updates
const (
	ChannelStatic uint8 = 0 // solid color
	ChannelPulse  uint8 = 2 // pulsing (fades)
)

// TopRow is the row index of the round buttons above the 8x8 grid
const TopRow = 8

// GridCell maps a pad on the 8x8 area to a grid cell whose row 0 is at the
// top, the way the screen draws it
func GridCell(pad PadEvent) (row, col int, ok bool) {
	if pad.Row < 0 || pad.Row > 7 || pad.Col < 0 || pad.Col > 7 {
		return -1, -1, false
	}
	return 7 - pad.Row, pad.Col, true
}

// PadFor is the inverse of GridCell
func PadFor(row, col int) (padRow, padCol int) {
	return 7 - row, col
}
