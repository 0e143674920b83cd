package cpu

import (
	"testing"

	"nescore/internal/common"
)

// MockMemory implements Memory over a flat 64KB array for testing.
type MockMemory struct {
	data       [0x10000]common.Byte
	readCount  map[common.Address]int
	writeCount map[common.Address]int
}

// NewMockMemory creates a new mock memory instance.
func NewMockMemory() *MockMemory {
	return &MockMemory{
		readCount:  make(map[common.Address]int),
		writeCount: make(map[common.Address]int),
	}
}

func (m *MockMemory) Read(addr common.Address) common.Byte {
	m.readCount[addr]++
	return m.data[addr]
}

func (m *MockMemory) Write(addr common.Address, value common.Byte) {
	m.writeCount[addr]++
	m.data[addr] = value
}

// SetBytes stores values starting at the given address without counting
// the accesses.
func (m *MockMemory) SetBytes(addr common.Address, values ...common.Byte) {
	for i, value := range values {
		m.data[addr+common.Address(i)] = value
	}
}

// Peek reads a byte without counting the access.
func (m *MockMemory) Peek(addr common.Address) common.Byte {
	return m.data[addr]
}

// ReadCount returns the number of times an address was read.
func (m *MockMemory) ReadCount(addr common.Address) int {
	return m.readCount[addr]
}

// WriteCount returns the number of times an address was written.
func (m *MockMemory) WriteCount(addr common.Address) int {
	return m.writeCount[addr]
}

// CPUTestHelper bundles a CPU with its mock memory.
type CPUTestHelper struct {
	CPU    *CPU
	Memory *MockMemory
}

// NewCPUTestHelper creates a CPU wired to fresh mock memory.
func NewCPUTestHelper() *CPUTestHelper {
	memory := NewMockMemory()
	return &CPUTestHelper{
		CPU:    New(memory),
		Memory: memory,
	}
}

// SetupResetVector points the reset vector at address and resets the CPU.
func (h *CPUTestHelper) SetupResetVector(address common.Address) {
	h.Memory.SetBytes(0xFFFC, common.Byte(address&0xFF), common.Byte(address>>8))
	h.CPU.Reset()
}

// LoadProgram stores program bytes starting at address.
func (h *CPUTestHelper) LoadProgram(address common.Address, program ...common.Byte) {
	h.Memory.SetBytes(address, program...)
}

// StepInstruction clocks the CPU through one full instruction and returns
// the number of cycles it consumed.
func (h *CPUTestHelper) StepInstruction() int {
	h.CPU.Cycle()
	n := 1
	for h.CPU.skipCycles > 1 {
		h.CPU.Cycle()
		n++
	}
	return n
}

// AssertRegisters checks the register file against expected values.
func (h *CPUTestHelper) AssertRegisters(t *testing.T, name string, a, x, y, sp common.Byte, pc common.Address) {
	t.Helper()

	if h.CPU.A != a {
		t.Errorf("%s: expected A=0x%02X, got 0x%02X", name, a, h.CPU.A)
	}
	if h.CPU.X != x {
		t.Errorf("%s: expected X=0x%02X, got 0x%02X", name, x, h.CPU.X)
	}
	if h.CPU.Y != y {
		t.Errorf("%s: expected Y=0x%02X, got 0x%02X", name, y, h.CPU.Y)
	}
	if h.CPU.SP != sp {
		t.Errorf("%s: expected SP=0x%02X, got 0x%02X", name, sp, h.CPU.SP)
	}
	if h.CPU.PC != pc {
		t.Errorf("%s: expected PC=0x%04X, got 0x%04X", name, pc, h.CPU.PC)
	}
}

// AssertFlags checks the processor flags against expected values.
func (h *CPUTestHelper) AssertFlags(t *testing.T, name string, n, v, d, i, z, c bool) {
	t.Helper()

	flags := []struct {
		flag     string
		actual   bool
		expected bool
	}{
		{"N", h.CPU.N, n},
		{"V", h.CPU.V, v},
		{"D", h.CPU.D, d},
		{"I", h.CPU.I, i},
		{"Z", h.CPU.Z, z},
		{"C", h.CPU.C, c},
	}

	for _, f := range flags {
		if f.actual != f.expected {
			t.Errorf("%s: expected %s=%v, got %v", name, f.flag, f.expected, f.actual)
		}
	}
}

// AssertMemory checks one byte of memory.
func (h *CPUTestHelper) AssertMemory(t *testing.T, name string, address common.Address, expected common.Byte) {
	t.Helper()
	if actual := h.Memory.Peek(address); actual != expected {
		t.Errorf("%s: expected memory[0x%04X]=0x%02X, got 0x%02X", name, address, expected, actual)
	}
}

func TestCPUInitialization(t *testing.T) {
	helper := NewCPUTestHelper()

	if helper.CPU.A != 0 {
		t.Errorf("expected A=0, got %d", helper.CPU.A)
	}
	if helper.CPU.X != 0 {
		t.Errorf("expected X=0, got %d", helper.CPU.X)
	}
	if helper.CPU.Y != 0 {
		t.Errorf("expected Y=0, got %d", helper.CPU.Y)
	}
	if helper.CPU.SP != 0xFD {
		t.Errorf("expected SP=0xFD, got 0x%02X", helper.CPU.SP)
	}
	if helper.CPU.PC != 0 {
		t.Errorf("expected PC=0, got 0x%04X", helper.CPU.PC)
	}
}

func TestCPUReset(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.Memory.SetBytes(0xFFFC, 0x00, 0x80)

	helper.CPU.A = 0x55
	helper.CPU.X = 0xAA
	helper.CPU.Y = 0xFF
	helper.CPU.SP = 0x00
	helper.CPU.PC = 0x1234
	helper.CPU.I = false
	helper.CPU.cycles = 99

	helper.CPU.Reset()

	helper.AssertRegisters(t, "reset", 0x00, 0x00, 0x00, 0xFD, 0x8000)
	if !helper.CPU.I {
		t.Error("expected I flag set after reset")
	}
	if !helper.CPU.B {
		t.Error("expected B flag set after reset")
	}
	if helper.CPU.Cycles() != 0 {
		t.Errorf("expected cycle counter cleared, got %d", helper.CPU.Cycles())
	}
}

func TestStatusByte(t *testing.T) {
	helper := NewCPUTestHelper()

	helper.CPU.N = true
	helper.CPU.V = false
	helper.CPU.B = true
	helper.CPU.D = false
	helper.CPU.I = true
	helper.CPU.Z = false
	helper.CPU.C = true

	// N=1 V=0 U=1 B=1 D=0 I=1 Z=0 C=1 -> 0xB5
	if got := helper.CPU.StatusByte(); got != 0xB5 {
		t.Errorf("expected status 0xB5, got 0x%02X", got)
	}

	helper.CPU.SetStatusByte(0x4A)
	if helper.CPU.N || !helper.CPU.V || helper.CPU.B || !helper.CPU.D ||
		helper.CPU.I || !helper.CPU.Z || helper.CPU.C {
		t.Errorf("SetStatusByte(0x4A) unpacked wrong flags: got 0x%02X", helper.CPU.StatusByte())
	}

	// The unused bit always reads back set.
	helper.CPU.SetStatusByte(0x00)
	if got := helper.CPU.StatusByte(); got != 0x20 {
		t.Errorf("expected status 0x20 with all flags clear, got 0x%02X", got)
	}
}

func TestStateRoundTrip(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.SetupResetVector(0x8000)

	helper.CPU.A = 0x11
	helper.CPU.X = 0x22
	helper.CPU.Y = 0x33
	helper.CPU.SP = 0xF0
	helper.CPU.PC = 0x9ABC
	helper.CPU.C = true
	helper.CPU.N = true
	helper.CPU.cycles = 1234
	helper.CPU.skipCycles = 3
	helper.CPU.pendingNMI = true

	st := helper.CPU.State()

	other := NewCPUTestHelper()
	other.CPU.SetState(st)

	if other.CPU.A != 0x11 || other.CPU.X != 0x22 || other.CPU.Y != 0x33 {
		t.Error("restored registers do not match")
	}
	if other.CPU.SP != 0xF0 || other.CPU.PC != 0x9ABC {
		t.Error("restored SP/PC do not match")
	}
	if !other.CPU.C || !other.CPU.N {
		t.Error("restored flags do not match")
	}
	if other.CPU.cycles != 1234 || other.CPU.skipCycles != 3 {
		t.Error("restored cycle counters do not match")
	}
	if !other.CPU.pendingNMI {
		t.Error("restored NMI latch does not match")
	}
}
