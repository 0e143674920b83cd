// Package input models the standard NES controller's serial shift
// register.
package input

import "nescore/internal/common"

// Button bit positions in the controller byte.
const (
	ButtonA common.Byte = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller latches the button byte on strobe and shifts it out one bit
// per read, A first.
type Controller struct {
	strobe  bool
	index   common.Byte
	latched common.Byte
	buffer  common.Byte
}

// Strobe handles writes to the controller port. While the strobe bit is
// high reads keep returning the live A button; dropping it latches the
// current buffer for serial readout.
func (c *Controller) Strobe(value common.Byte) {
	c.strobe = value&1 == 1
	if !c.strobe {
		c.latched = c.buffer
		c.index = 0
	}
}

// Read returns the next button bit. After eight reads the shift register
// wraps back to the A button.
func (c *Controller) Read() common.Byte {
	if c.strobe {
		return c.buffer & 1
	}
	bit := (c.latched >> c.index) & 1
	c.index = (c.index + 1) % 8
	return bit
}

// SetButtons replaces the live button byte.
func (c *Controller) SetButtons(buttons common.Byte) {
	c.buffer = buttons
}

// Buffer exposes the live button byte for zero-copy writers.
func (c *Controller) Buffer() *common.Byte {
	return &c.buffer
}
