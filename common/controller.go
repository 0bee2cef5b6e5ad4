package common

// Controller button bit positions, matching spec.md §6 exactly.
const (
	BitA uint8 = 1 << iota
	BitB
	BitSelect
	BitStart
	BitUp
	BitDown
	BitLeft
	BitRight
)

type nesController struct {
	buttons   uint8
	shiftReg  uint8
	targetBit uint8
}

func (c *nesController) poke(button uint8, pressed bool) {
	if pressed {
		c.buttons |= button
	} else {
		c.buttons &^= button
	}
}

func (c *nesController) readBit() uint8 {
	if c.targetBit > 7 {
		return 1
	}
	bit := uint8(0)
	if c.buttons&(1<<c.targetBit) != 0 {
		bit = 1
	}
	c.targetBit++
	return bit
}

// Controllers implements the two-controller shift-register interface at
// $4016/$4017. Adapted from lib/common/controller.go.
type Controllers struct {
	controllers [2]nesController
	strobe      uint8
}

func (c *Controllers) Init() {
	c.Reset()
}

func (c *Controllers) Reset() {
	c.controllers[0] = nesController{}
	c.controllers[1] = nesController{}
	c.strobe = 0
}

// Poke is called by the host UI/driver with a live button-state snapshot.
func (c *Controllers) Poke(controllerId uint8, button uint8, pressed bool) {
	c.controllers[controllerId].poke(button, pressed)
}

func (c *Controllers) Read8(addr uint16) uint8 {
	idx := addr - 0x4016
	bit := c.controllers[idx].readBit()
	if c.strobe&1 != 0 {
		c.controllers[idx].targetBit = 0
	}
	return bit | 0x40 // open-bus bits read back as 1 on real hardware
}

func (c *Controllers) Write8(addr uint16, val uint8) {
	// $4016 write strobes both controllers; $4017 write in this context
	// is routed to the APU frame-counter register instead, never here.
	c.strobe = val
	if val&1 != 0 {
		c.controllers[0].targetBit = 0
		c.controllers[1].targetBit = 0
	}
}
