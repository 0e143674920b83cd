package cpu

import "nescore/internal/common"

// instructions maps every opcode, official and unofficial, to its table
// entry. Built once at package init.
var instructions [256]*Instruction

// readPagePenalty marks the read-type opcodes that cost one extra cycle
// when their indexed address crosses a page. Stores and read-modify-write
// opcodes always pay the worst case in their base cycle count.
var readPagePenalty [256]bool

func init() {
	add := func(name string, opcode, bytes, cycles common.Byte, mode AddressingMode) {
		instructions[opcode] = &Instruction{name, opcode, bytes, cycles, mode}
	}

	add("LDA", 0xA9, 2, 2, Immediate)
	add("LDA", 0xA5, 2, 3, ZeroPage)
	add("LDA", 0xB5, 2, 4, ZeroPageX)
	add("LDA", 0xAD, 3, 4, Absolute)
	add("LDA", 0xBD, 3, 4, AbsoluteX)
	add("LDA", 0xB9, 3, 4, AbsoluteY)
	add("LDA", 0xA1, 2, 6, IndexedIndirect)
	add("LDA", 0xB1, 2, 5, IndirectIndexed)

	add("LDX", 0xA2, 2, 2, Immediate)
	add("LDX", 0xA6, 2, 3, ZeroPage)
	add("LDX", 0xB6, 2, 4, ZeroPageY)
	add("LDX", 0xAE, 3, 4, Absolute)
	add("LDX", 0xBE, 3, 4, AbsoluteY)

	add("LDY", 0xA0, 2, 2, Immediate)
	add("LDY", 0xA4, 2, 3, ZeroPage)
	add("LDY", 0xB4, 2, 4, ZeroPageX)
	add("LDY", 0xAC, 3, 4, Absolute)
	add("LDY", 0xBC, 3, 4, AbsoluteX)

	add("STA", 0x85, 2, 3, ZeroPage)
	add("STA", 0x95, 2, 4, ZeroPageX)
	add("STA", 0x8D, 3, 4, Absolute)
	add("STA", 0x9D, 3, 5, AbsoluteX)
	add("STA", 0x99, 3, 5, AbsoluteY)
	add("STA", 0x81, 2, 6, IndexedIndirect)
	add("STA", 0x91, 2, 6, IndirectIndexed)

	add("STX", 0x86, 2, 3, ZeroPage)
	add("STX", 0x96, 2, 4, ZeroPageY)
	add("STX", 0x8E, 3, 4, Absolute)

	add("STY", 0x84, 2, 3, ZeroPage)
	add("STY", 0x94, 2, 4, ZeroPageX)
	add("STY", 0x8C, 3, 4, Absolute)

	add("ADC", 0x69, 2, 2, Immediate)
	add("ADC", 0x65, 2, 3, ZeroPage)
	add("ADC", 0x75, 2, 4, ZeroPageX)
	add("ADC", 0x6D, 3, 4, Absolute)
	add("ADC", 0x7D, 3, 4, AbsoluteX)
	add("ADC", 0x79, 3, 4, AbsoluteY)
	add("ADC", 0x61, 2, 6, IndexedIndirect)
	add("ADC", 0x71, 2, 5, IndirectIndexed)

	add("SBC", 0xE9, 2, 2, Immediate)
	add("SBC", 0xE5, 2, 3, ZeroPage)
	add("SBC", 0xF5, 2, 4, ZeroPageX)
	add("SBC", 0xED, 3, 4, Absolute)
	add("SBC", 0xFD, 3, 4, AbsoluteX)
	add("SBC", 0xF9, 3, 4, AbsoluteY)
	add("SBC", 0xE1, 2, 6, IndexedIndirect)
	add("SBC", 0xF1, 2, 5, IndirectIndexed)
	add("SBC", 0xEB, 2, 2, Immediate) // unofficial alias

	add("AND", 0x29, 2, 2, Immediate)
	add("AND", 0x25, 2, 3, ZeroPage)
	add("AND", 0x35, 2, 4, ZeroPageX)
	add("AND", 0x2D, 3, 4, Absolute)
	add("AND", 0x3D, 3, 4, AbsoluteX)
	add("AND", 0x39, 3, 4, AbsoluteY)
	add("AND", 0x21, 2, 6, IndexedIndirect)
	add("AND", 0x31, 2, 5, IndirectIndexed)

	add("ORA", 0x09, 2, 2, Immediate)
	add("ORA", 0x05, 2, 3, ZeroPage)
	add("ORA", 0x15, 2, 4, ZeroPageX)
	add("ORA", 0x0D, 3, 4, Absolute)
	add("ORA", 0x1D, 3, 4, AbsoluteX)
	add("ORA", 0x19, 3, 4, AbsoluteY)
	add("ORA", 0x01, 2, 6, IndexedIndirect)
	add("ORA", 0x11, 2, 5, IndirectIndexed)

	add("EOR", 0x49, 2, 2, Immediate)
	add("EOR", 0x45, 2, 3, ZeroPage)
	add("EOR", 0x55, 2, 4, ZeroPageX)
	add("EOR", 0x4D, 3, 4, Absolute)
	add("EOR", 0x5D, 3, 4, AbsoluteX)
	add("EOR", 0x59, 3, 4, AbsoluteY)
	add("EOR", 0x41, 2, 6, IndexedIndirect)
	add("EOR", 0x51, 2, 5, IndirectIndexed)

	add("ASL", 0x0A, 1, 2, Accumulator)
	add("ASL", 0x06, 2, 5, ZeroPage)
	add("ASL", 0x16, 2, 6, ZeroPageX)
	add("ASL", 0x0E, 3, 6, Absolute)
	add("ASL", 0x1E, 3, 7, AbsoluteX)

	add("LSR", 0x4A, 1, 2, Accumulator)
	add("LSR", 0x46, 2, 5, ZeroPage)
	add("LSR", 0x56, 2, 6, ZeroPageX)
	add("LSR", 0x4E, 3, 6, Absolute)
	add("LSR", 0x5E, 3, 7, AbsoluteX)

	add("ROL", 0x2A, 1, 2, Accumulator)
	add("ROL", 0x26, 2, 5, ZeroPage)
	add("ROL", 0x36, 2, 6, ZeroPageX)
	add("ROL", 0x2E, 3, 6, Absolute)
	add("ROL", 0x3E, 3, 7, AbsoluteX)

	add("ROR", 0x6A, 1, 2, Accumulator)
	add("ROR", 0x66, 2, 5, ZeroPage)
	add("ROR", 0x76, 2, 6, ZeroPageX)
	add("ROR", 0x6E, 3, 6, Absolute)
	add("ROR", 0x7E, 3, 7, AbsoluteX)

	add("CMP", 0xC9, 2, 2, Immediate)
	add("CMP", 0xC5, 2, 3, ZeroPage)
	add("CMP", 0xD5, 2, 4, ZeroPageX)
	add("CMP", 0xCD, 3, 4, Absolute)
	add("CMP", 0xDD, 3, 4, AbsoluteX)
	add("CMP", 0xD9, 3, 4, AbsoluteY)
	add("CMP", 0xC1, 2, 6, IndexedIndirect)
	add("CMP", 0xD1, 2, 5, IndirectIndexed)

	add("CPX", 0xE0, 2, 2, Immediate)
	add("CPX", 0xE4, 2, 3, ZeroPage)
	add("CPX", 0xEC, 3, 4, Absolute)

	add("CPY", 0xC0, 2, 2, Immediate)
	add("CPY", 0xC4, 2, 3, ZeroPage)
	add("CPY", 0xCC, 3, 4, Absolute)

	add("INC", 0xE6, 2, 5, ZeroPage)
	add("INC", 0xF6, 2, 6, ZeroPageX)
	add("INC", 0xEE, 3, 6, Absolute)
	add("INC", 0xFE, 3, 7, AbsoluteX)

	add("DEC", 0xC6, 2, 5, ZeroPage)
	add("DEC", 0xD6, 2, 6, ZeroPageX)
	add("DEC", 0xCE, 3, 6, Absolute)
	add("DEC", 0xDE, 3, 7, AbsoluteX)

	add("INX", 0xE8, 1, 2, Implied)
	add("DEX", 0xCA, 1, 2, Implied)
	add("INY", 0xC8, 1, 2, Implied)
	add("DEY", 0x88, 1, 2, Implied)

	add("TAX", 0xAA, 1, 2, Implied)
	add("TXA", 0x8A, 1, 2, Implied)
	add("TAY", 0xA8, 1, 2, Implied)
	add("TYA", 0x98, 1, 2, Implied)
	add("TSX", 0xBA, 1, 2, Implied)
	add("TXS", 0x9A, 1, 2, Implied)

	add("PHA", 0x48, 1, 3, Implied)
	add("PLA", 0x68, 1, 4, Implied)
	add("PHP", 0x08, 1, 3, Implied)
	add("PLP", 0x28, 1, 4, Implied)

	add("CLC", 0x18, 1, 2, Implied)
	add("SEC", 0x38, 1, 2, Implied)
	add("CLI", 0x58, 1, 2, Implied)
	add("SEI", 0x78, 1, 2, Implied)
	add("CLV", 0xB8, 1, 2, Implied)
	add("CLD", 0xD8, 1, 2, Implied)
	add("SED", 0xF8, 1, 2, Implied)

	add("JMP", 0x4C, 3, 3, Absolute)
	add("JMP", 0x6C, 3, 5, Indirect)
	add("JSR", 0x20, 3, 6, Absolute)
	add("RTS", 0x60, 1, 6, Implied)
	add("RTI", 0x40, 1, 6, Implied)

	add("BCC", 0x90, 2, 2, Relative)
	add("BCS", 0xB0, 2, 2, Relative)
	add("BNE", 0xD0, 2, 2, Relative)
	add("BEQ", 0xF0, 2, 2, Relative)
	add("BPL", 0x10, 2, 2, Relative)
	add("BMI", 0x30, 2, 2, Relative)
	add("BVC", 0x50, 2, 2, Relative)
	add("BVS", 0x70, 2, 2, Relative)

	add("BIT", 0x24, 2, 3, ZeroPage)
	add("BIT", 0x2C, 3, 4, Absolute)
	add("NOP", 0xEA, 1, 2, Implied)
	add("BRK", 0x00, 1, 7, Implied)

	// Unofficial NOPs of assorted widths.
	for _, op := range []common.Byte{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		add("NOP", op, 1, 2, Implied)
	}
	for _, op := range []common.Byte{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		add("NOP", op, 2, 2, Immediate)
	}
	for _, op := range []common.Byte{0x04, 0x44, 0x64} {
		add("NOP", op, 2, 3, ZeroPage)
	}
	for _, op := range []common.Byte{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		add("NOP", op, 2, 4, ZeroPageX)
	}
	add("NOP", 0x0C, 3, 4, Absolute)
	for _, op := range []common.Byte{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		add("NOP", op, 3, 4, AbsoluteX)
	}

	add("LAX", 0xA7, 2, 3, ZeroPage)
	add("LAX", 0xB7, 2, 4, ZeroPageY)
	add("LAX", 0xAF, 3, 4, Absolute)
	add("LAX", 0xBF, 3, 4, AbsoluteY)
	add("LAX", 0xA3, 2, 6, IndexedIndirect)
	add("LAX", 0xB3, 2, 5, IndirectIndexed)

	add("SAX", 0x87, 2, 3, ZeroPage)
	add("SAX", 0x97, 2, 4, ZeroPageY)
	add("SAX", 0x8F, 3, 4, Absolute)
	add("SAX", 0x83, 2, 6, IndexedIndirect)

	add("DCP", 0xC7, 2, 5, ZeroPage)
	add("DCP", 0xD7, 2, 6, ZeroPageX)
	add("DCP", 0xCF, 3, 6, Absolute)
	add("DCP", 0xDF, 3, 7, AbsoluteX)
	add("DCP", 0xDB, 3, 7, AbsoluteY)
	add("DCP", 0xC3, 2, 8, IndexedIndirect)
	add("DCP", 0xD3, 2, 8, IndirectIndexed)

	add("ISB", 0xE7, 2, 5, ZeroPage)
	add("ISB", 0xF7, 2, 6, ZeroPageX)
	add("ISB", 0xEF, 3, 6, Absolute)
	add("ISB", 0xFF, 3, 7, AbsoluteX)
	add("ISB", 0xFB, 3, 7, AbsoluteY)
	add("ISB", 0xE3, 2, 8, IndexedIndirect)
	add("ISB", 0xF3, 2, 8, IndirectIndexed)

	add("SLO", 0x07, 2, 5, ZeroPage)
	add("SLO", 0x17, 2, 6, ZeroPageX)
	add("SLO", 0x0F, 3, 6, Absolute)
	add("SLO", 0x1F, 3, 7, AbsoluteX)
	add("SLO", 0x1B, 3, 7, AbsoluteY)
	add("SLO", 0x03, 2, 8, IndexedIndirect)
	add("SLO", 0x13, 2, 8, IndirectIndexed)

	add("RLA", 0x27, 2, 5, ZeroPage)
	add("RLA", 0x37, 2, 6, ZeroPageX)
	add("RLA", 0x2F, 3, 6, Absolute)
	add("RLA", 0x3F, 3, 7, AbsoluteX)
	add("RLA", 0x3B, 3, 7, AbsoluteY)
	add("RLA", 0x23, 2, 8, IndexedIndirect)
	add("RLA", 0x33, 2, 8, IndirectIndexed)

	add("SRE", 0x47, 2, 5, ZeroPage)
	add("SRE", 0x57, 2, 6, ZeroPageX)
	add("SRE", 0x4F, 3, 6, Absolute)
	add("SRE", 0x5F, 3, 7, AbsoluteX)
	add("SRE", 0x5B, 3, 7, AbsoluteY)
	add("SRE", 0x43, 2, 8, IndexedIndirect)
	add("SRE", 0x53, 2, 8, IndirectIndexed)

	add("RRA", 0x67, 2, 5, ZeroPage)
	add("RRA", 0x77, 2, 6, ZeroPageX)
	add("RRA", 0x6F, 3, 6, Absolute)
	add("RRA", 0x7F, 3, 7, AbsoluteX)
	add("RRA", 0x7B, 3, 7, AbsoluteY)
	add("RRA", 0x63, 2, 8, IndexedIndirect)
	add("RRA", 0x73, 2, 8, IndirectIndexed)

	for _, op := range []common.Byte{
		0xBD, 0xB9, 0xB1, // LDA
		0xBE, // LDX
		0xBC, // LDY
		0x7D, 0x79, 0x71, // ADC
		0xFD, 0xF9, 0xF1, // SBC
		0x3D, 0x39, 0x31, // AND
		0x1D, 0x19, 0x11, // ORA
		0x5D, 0x59, 0x51, // EOR
		0xDD, 0xD9, 0xD1, // CMP
		0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC, // NOP abs,X
		0xBF, 0xB3, // LAX
	} {
		readPagePenalty[op] = true
	}
}

// execute runs one decoded instruction and returns any extra cycles taken
// by branches.
func (c *CPU) execute(opcode common.Byte, address common.Address, pageCrossed bool) common.Byte {
	switch opcode {
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1: // LDA
		c.A = c.memory.Read(address)
		c.setZN(c.A)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE: // LDX
		c.X = c.memory.Read(address)
		c.setZN(c.X)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC: // LDY
		c.Y = c.memory.Read(address)
		c.setZN(c.Y)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91: // STA
		c.memory.Write(address, c.A)
	case 0x86, 0x96, 0x8E: // STX
		c.memory.Write(address, c.X)
	case 0x84, 0x94, 0x8C: // STY
		c.memory.Write(address, c.Y)

	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71: // ADC
		c.adc(c.memory.Read(address))
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1: // SBC
		c.adc(c.memory.Read(address) ^ 0xFF)

	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31: // AND
		c.A &= c.memory.Read(address)
		c.setZN(c.A)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11: // ORA
		c.A |= c.memory.Read(address)
		c.setZN(c.A)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51: // EOR
		c.A ^= c.memory.Read(address)
		c.setZN(c.A)

	case 0x0A: // ASL A
		c.A = c.shiftLeft(c.A, false)
	case 0x06, 0x16, 0x0E, 0x1E: // ASL
		c.memory.Write(address, c.shiftLeft(c.memory.Read(address), false))
	case 0x4A: // LSR A
		c.A = c.shiftRight(c.A, false)
	case 0x46, 0x56, 0x4E, 0x5E: // LSR
		c.memory.Write(address, c.shiftRight(c.memory.Read(address), false))
	case 0x2A: // ROL A
		c.A = c.shiftLeft(c.A, true)
	case 0x26, 0x36, 0x2E, 0x3E: // ROL
		c.memory.Write(address, c.shiftLeft(c.memory.Read(address), true))
	case 0x6A: // ROR A
		c.A = c.shiftRight(c.A, true)
	case 0x66, 0x76, 0x6E, 0x7E: // ROR
		c.memory.Write(address, c.shiftRight(c.memory.Read(address), true))

	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1: // CMP
		c.compare(c.A, c.memory.Read(address))
	case 0xE0, 0xE4, 0xEC: // CPX
		c.compare(c.X, c.memory.Read(address))
	case 0xC0, 0xC4, 0xCC: // CPY
		c.compare(c.Y, c.memory.Read(address))

	case 0xE6, 0xF6, 0xEE, 0xFE: // INC
		value := c.memory.Read(address) + 1
		c.memory.Write(address, value)
		c.setZN(value)
	case 0xC6, 0xD6, 0xCE, 0xDE: // DEC
		value := c.memory.Read(address) - 1
		c.memory.Write(address, value)
		c.setZN(value)
	case 0xE8: // INX
		c.X++
		c.setZN(c.X)
	case 0xCA: // DEX
		c.X--
		c.setZN(c.X)
	case 0xC8: // INY
		c.Y++
		c.setZN(c.Y)
	case 0x88: // DEY
		c.Y--
		c.setZN(c.Y)

	case 0xAA: // TAX
		c.X = c.A
		c.setZN(c.X)
	case 0x8A: // TXA
		c.A = c.X
		c.setZN(c.A)
	case 0xA8: // TAY
		c.Y = c.A
		c.setZN(c.Y)
	case 0x98: // TYA
		c.A = c.Y
		c.setZN(c.A)
	case 0xBA: // TSX
		c.X = c.SP
		c.setZN(c.X)
	case 0x9A: // TXS
		c.SP = c.X

	case 0x48: // PHA
		c.push(c.A)
	case 0x68: // PLA
		c.A = c.pop()
		c.setZN(c.A)
	case 0x08: // PHP
		c.push(c.StatusByte() | bFlagMask)
	case 0x28: // PLP
		c.SetStatusByte(c.pop())

	case 0x18: // CLC
		c.C = false
	case 0x38: // SEC
		c.C = true
	case 0x58: // CLI
		c.I = false
	case 0x78: // SEI
		c.I = true
	case 0xB8: // CLV
		c.V = false
	case 0xD8: // CLD
		c.D = false
	case 0xF8: // SED
		c.D = true

	case 0x4C, 0x6C: // JMP
		c.PC = address
	case 0x20: // JSR
		c.pushWord(c.PC - 1)
		c.PC = address
	case 0x60: // RTS
		c.PC = c.popWord() + 1
	case 0x40: // RTI
		c.SetStatusByte(c.pop())
		c.PC = c.popWord()

	case 0x90: // BCC
		return c.branch(!c.C, address, pageCrossed)
	case 0xB0: // BCS
		return c.branch(c.C, address, pageCrossed)
	case 0xD0: // BNE
		return c.branch(!c.Z, address, pageCrossed)
	case 0xF0: // BEQ
		return c.branch(c.Z, address, pageCrossed)
	case 0x10: // BPL
		return c.branch(!c.N, address, pageCrossed)
	case 0x30: // BMI
		return c.branch(c.N, address, pageCrossed)
	case 0x50: // BVC
		return c.branch(!c.V, address, pageCrossed)
	case 0x70: // BVS
		return c.branch(c.V, address, pageCrossed)

	case 0x24, 0x2C: // BIT
		value := c.memory.Read(address)
		c.N = value&nFlagMask != 0
		c.V = value&vFlagMask != 0
		c.Z = c.A&value == 0
	case 0x00: // BRK
		c.brk()

	case 0xEA, 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA,
		0x80, 0x82, 0x89, 0xC2, 0xE2,
		0x04, 0x44, 0x64,
		0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4,
		0x0C, 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC: // NOPs

	case 0xA3, 0xA7, 0xAF, 0xB3, 0xB7, 0xBF: // LAX
		c.A = c.memory.Read(address)
		c.X = c.A
		c.setZN(c.A)
	case 0x83, 0x87, 0x8F, 0x97: // SAX
		c.memory.Write(address, c.A&c.X)
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDF, 0xDB: // DCP
		value := c.memory.Read(address) - 1
		c.memory.Write(address, value)
		c.compare(c.A, value)
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFF, 0xFB: // ISB
		value := c.memory.Read(address) + 1
		c.memory.Write(address, value)
		c.adc(value ^ 0xFF)
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1F, 0x1B: // SLO
		value := c.shiftLeft(c.memory.Read(address), false)
		c.memory.Write(address, value)
		c.A |= value
		c.setZN(c.A)
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3F, 0x3B: // RLA
		value := c.shiftLeft(c.memory.Read(address), true)
		c.memory.Write(address, value)
		c.A &= value
		c.setZN(c.A)
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5F, 0x5B: // SRE
		value := c.shiftRight(c.memory.Read(address), false)
		c.memory.Write(address, value)
		c.A ^= value
		c.setZN(c.A)
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7F, 0x7B: // RRA
		value := c.shiftRight(c.memory.Read(address), true)
		c.memory.Write(address, value)
		c.adc(value)
	}
	return 0
}

// adc adds the operand and carry into A. SBC routes through here with the
// operand complemented.
func (c *CPU) adc(value common.Byte) {
	sum := uint16(c.A) + uint16(value)
	if c.C {
		sum++
	}
	result := common.Byte(sum)
	c.V = (c.A^result)&0x80 != 0 && (c.A^value)&0x80 == 0
	c.C = sum > 0xFF
	c.A = result
	c.setZN(c.A)
}

func (c *CPU) compare(register, value common.Byte) {
	c.C = register >= value
	c.setZN(register - value)
}

func (c *CPU) shiftLeft(value common.Byte, rotate bool) common.Byte {
	carryIn := rotate && c.C
	c.C = value&0x80 != 0
	value <<= 1
	if carryIn {
		value |= 0x01
	}
	c.setZN(value)
	return value
}

func (c *CPU) shiftRight(value common.Byte, rotate bool) common.Byte {
	carryIn := rotate && c.C
	c.C = value&0x01 != 0
	value >>= 1
	if carryIn {
		value |= 0x80
	}
	c.setZN(value)
	return value
}

// branch moves PC to the target when the condition holds. Taken branches
// cost one extra cycle, two when the target is on another page.
func (c *CPU) branch(taken bool, address common.Address, pageCrossed bool) common.Byte {
	if !taken {
		return 0
	}
	c.PC = address
	if pageCrossed {
		return 2
	}
	return 1
}

// brk pushes PC past the padding byte and the status with B set, then
// vectors through $FFFE with interrupts disabled.
func (c *CPU) brk() {
	c.PC++
	c.pushWord(c.PC)
	c.push(c.StatusByte() | bFlagMask)
	c.I = true
	c.PC = c.readWord(irqVector)
}
