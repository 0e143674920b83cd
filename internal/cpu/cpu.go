// Package cpu implements the 6502 processor core used by the NES,
// stepped one clock cycle at a time.
package cpu

import "nescore/internal/common"

const (
	stackBase common.Address = 0x0100

	nmiVector   common.Address = 0xFFFA
	resetVector common.Address = 0xFFFC
	irqVector   common.Address = 0xFFFE

	nFlagMask  common.Byte = 0x80
	vFlagMask  common.Byte = 0x40
	unusedMask common.Byte = 0x20
	bFlagMask  common.Byte = 0x10
	dFlagMask  common.Byte = 0x08
	iFlagMask  common.Byte = 0x04
	zFlagMask  common.Byte = 0x02
	cFlagMask  common.Byte = 0x01
)

// Memory is the CPU's view of the address space.
type Memory interface {
	Read(addr common.Address) common.Byte
	Write(addr common.Address, value common.Byte)
}

// AddressingMode selects how an instruction finds its operand.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// Instruction describes one table entry: mnemonic, byte length, base
// cycle count and addressing mode. Dispatch happens by opcode switch.
type Instruction struct {
	Name   string
	Opcode common.Byte
	Bytes  common.Byte
	Cycles common.Byte
	Mode   AddressingMode
}

// CPU holds the processor registers plus the cycle bookkeeping that lets
// the core clock it alongside the PPU. An instruction executes in full on
// its first cycle; the remaining cycles are burned as skip cycles so the
// external timing still matches the hardware.
type CPU struct {
	A  common.Byte
	X  common.Byte
	Y  common.Byte
	SP common.Byte
	PC common.Address

	C bool
	Z bool
	I bool
	D bool
	B bool
	V bool
	N bool

	memory Memory

	cycles     uint64
	skipCycles uint64

	pendingNMI bool
	pendingIRQ bool
}

// State is the register-level snapshot of the CPU. It deliberately
// excludes the memory wiring so a restored state reattaches to the live
// bus.
type State struct {
	A          common.Byte    `json:"a"`
	X          common.Byte    `json:"x"`
	Y          common.Byte    `json:"y"`
	SP         common.Byte    `json:"sp"`
	PC         common.Address `json:"pc"`
	Status     common.Byte    `json:"status"`
	Cycles     uint64         `json:"cycles"`
	SkipCycles uint64         `json:"skip_cycles"`
	PendingNMI bool           `json:"pending_nmi"`
	PendingIRQ bool           `json:"pending_irq"`
}

// New creates a CPU attached to the given address space. Call Reset
// before clocking it.
func New(memory Memory) *CPU {
	return &CPU{
		memory: memory,
		SP:     0xFD,
	}
}

// Reset puts the processor in its power-up state and loads PC from the
// reset vector at $FFFC.
func (c *CPU) Reset() {
	c.A = 0
	c.X = 0
	c.Y = 0
	c.SP = 0xFD

	// Status $34: interrupts disabled, B and unused set.
	c.C = false
	c.Z = false
	c.I = true
	c.D = false
	c.B = true
	c.V = false
	c.N = false

	c.PC = c.readWord(resetVector)

	c.cycles = 0
	c.skipCycles = 0
	c.pendingNMI = false
	c.pendingIRQ = false
}

// Cycle advances the processor by one clock. Most cycles only consume the
// skip counter left behind by the previous instruction; when it runs out
// the next interrupt or instruction executes.
func (c *CPU) Cycle() {
	c.cycles++
	if c.skipCycles > 1 {
		c.skipCycles--
		return
	}
	c.skipCycles = 0

	if c.pendingNMI {
		c.pendingNMI = false
		c.pendingIRQ = false
		c.interruptSequence(nmiVector)
		return
	}
	if c.pendingIRQ && !c.I {
		c.pendingIRQ = false
		c.interruptSequence(irqVector)
		return
	}

	c.executeNext()
}

// TriggerNMI latches a non-maskable interrupt. It is serviced before the
// next instruction regardless of the I flag.
func (c *CPU) TriggerNMI() {
	c.pendingNMI = true
}

// TriggerIRQ latches a maskable interrupt request.
func (c *CPU) TriggerIRQ() {
	c.pendingIRQ = true
}

// SkipDMACycles stalls the processor for an OAM DMA transfer: 513 cycles
// plus one more when the DMA starts on an odd cycle.
func (c *CPU) SkipDMACycles() {
	c.skipCycles += 513 + (c.cycles & 1)
}

// Cycles reports the total clock cycles executed since reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

func (c *CPU) interruptSequence(vector common.Address) {
	c.pushWord(c.PC)
	status := c.StatusByte()&^bFlagMask | unusedMask
	c.push(status)
	c.I = true
	c.PC = c.readWord(vector)
	c.skipCycles += 7
}

func (c *CPU) executeNext() {
	opcode := c.memory.Read(c.PC)
	instr := instructions[opcode]
	if instr == nil {
		// Unreachable with a fully populated table; treat as a 2-cycle NOP.
		c.PC++
		c.skipCycles += 2
		return
	}

	address, pageCrossed := c.operandAddress(instr.Mode)
	extra := c.execute(opcode, address, pageCrossed)
	if pageCrossed && readPagePenalty[opcode] {
		extra++
	}

	c.skipCycles += uint64(instr.Cycles + extra)
}

// operandAddress resolves the effective address for the given mode and
// advances PC past the instruction. The second result reports a page
// boundary crossing for modes where that costs an extra cycle.
func (c *CPU) operandAddress(mode AddressingMode) (common.Address, bool) {
	switch mode {
	case Implied, Accumulator:
		c.PC++
		return 0, false

	case Immediate:
		address := c.PC + 1
		c.PC += 2
		return address, false

	case ZeroPage:
		address := common.Address(c.memory.Read(c.PC + 1))
		c.PC += 2
		return address, false

	case ZeroPageX:
		base := c.memory.Read(c.PC + 1)
		c.PC += 2
		return common.Address(base + c.X), false

	case ZeroPageY:
		base := c.memory.Read(c.PC + 1)
		c.PC += 2
		return common.Address(base + c.Y), false

	case Relative:
		offset := int8(c.memory.Read(c.PC + 1))
		next := c.PC + 2
		target := common.Address(int32(next) + int32(offset))
		c.PC = next // branch ops load the target when taken
		return target, next&0xFF00 != target&0xFF00

	case Absolute:
		address := c.readWord(c.PC + 1)
		c.PC += 3
		return address, false

	case AbsoluteX:
		base := c.readWord(c.PC + 1)
		address := base + common.Address(c.X)
		c.PC += 3
		return address, base&0xFF00 != address&0xFF00

	case AbsoluteY:
		base := c.readWord(c.PC + 1)
		address := base + common.Address(c.Y)
		c.PC += 3
		return address, base&0xFF00 != address&0xFF00

	case Indirect:
		ptr := c.readWord(c.PC + 1)
		c.PC += 3
		// The 6502 never carries into the pointer's high byte, so a
		// pointer ending in $FF wraps within its page.
		low := common.Address(c.memory.Read(ptr))
		high := common.Address(c.memory.Read(ptr&0xFF00 | (ptr+1)&0x00FF))
		return high<<8 | low, false

	case IndexedIndirect:
		base := c.memory.Read(c.PC + 1)
		c.PC += 2
		ptr := base + c.X
		low := common.Address(c.memory.Read(common.Address(ptr)))
		high := common.Address(c.memory.Read(common.Address(ptr + 1)))
		return high<<8 | low, false

	case IndirectIndexed:
		ptr := c.memory.Read(c.PC + 1)
		c.PC += 2
		low := common.Address(c.memory.Read(common.Address(ptr)))
		high := common.Address(c.memory.Read(common.Address(ptr + 1)))
		base := high<<8 | low
		address := base + common.Address(c.Y)
		return address, base&0xFF00 != address&0xFF00

	default:
		return 0, false
	}
}

func (c *CPU) readWord(addr common.Address) common.Address {
	low := common.Address(c.memory.Read(addr))
	high := common.Address(c.memory.Read(addr + 1))
	return high<<8 | low
}

func (c *CPU) push(value common.Byte) {
	c.memory.Write(stackBase+common.Address(c.SP), value)
	c.SP--
}

func (c *CPU) pop() common.Byte {
	c.SP++
	return c.memory.Read(stackBase + common.Address(c.SP))
}

func (c *CPU) pushWord(value common.Address) {
	c.push(common.Byte(value >> 8))
	c.push(common.Byte(value))
}

func (c *CPU) popWord() common.Address {
	low := common.Address(c.pop())
	high := common.Address(c.pop())
	return high<<8 | low
}

func (c *CPU) setZN(value common.Byte) {
	c.Z = value == 0
	c.N = value&nFlagMask != 0
}

// StatusByte packs the flags into the P register layout. The unused bit
// is always reported set.
func (c *CPU) StatusByte() common.Byte {
	status := unusedMask
	if c.N {
		status |= nFlagMask
	}
	if c.V {
		status |= vFlagMask
	}
	if c.B {
		status |= bFlagMask
	}
	if c.D {
		status |= dFlagMask
	}
	if c.I {
		status |= iFlagMask
	}
	if c.Z {
		status |= zFlagMask
	}
	if c.C {
		status |= cFlagMask
	}
	return status
}

// SetStatusByte unpacks a P register value into the flags.
func (c *CPU) SetStatusByte(status common.Byte) {
	c.N = status&nFlagMask != 0
	c.V = status&vFlagMask != 0
	c.B = status&bFlagMask != 0
	c.D = status&dFlagMask != 0
	c.I = status&iFlagMask != 0
	c.Z = status&zFlagMask != 0
	c.C = status&cFlagMask != 0
}

// State captures the processor registers for a snapshot.
func (c *CPU) State() State {
	return State{
		A:          c.A,
		X:          c.X,
		Y:          c.Y,
		SP:         c.SP,
		PC:         c.PC,
		Status:     c.StatusByte(),
		Cycles:     c.cycles,
		SkipCycles: c.skipCycles,
		PendingNMI: c.pendingNMI,
		PendingIRQ: c.pendingIRQ,
	}
}

// SetState restores registers captured by State. The memory wiring is
// untouched.
func (c *CPU) SetState(st State) {
	c.A = st.A
	c.X = st.X
	c.Y = st.Y
	c.SP = st.SP
	c.PC = st.PC
	c.SetStatusByte(st.Status)
	c.cycles = st.Cycles
	c.skipCycles = st.SkipCycles
	c.pendingNMI = st.PendingNMI
	c.pendingIRQ = st.PendingIRQ
}
