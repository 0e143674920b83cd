package app

import (
	"bytes"
	"path/filepath"
	"testing"

	"nescore/internal/cartridge"
	"nescore/internal/nes"
)

// newStateTestEmulator assembles an emulator around a minimal NROM image
// running a counting loop.
func newStateTestEmulator(t *testing.T) *nes.Emulator {
	t.Helper()

	prg := make([]byte, 0x4000)
	copy(prg, []byte{
		0xE6, 0x10, // loop: INC $10
		0x4C, 0x00, 0x80, // JMP loop
	})
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80

	header := make([]byte, 16)
	copy(header, "NES\x1a")
	header[4] = 1
	header[5] = 1

	image := append(header, prg...)
	image = append(image, make([]byte, 0x2000)...)

	cart, err := cartridge.LoadFromReader(bytes.NewReader(image))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	emu, err := nes.NewEmulatorFromCartridge(cart)
	if err != nil {
		t.Fatalf("NewEmulatorFromCartridge: %v", err)
	}
	return emu
}

func newTestStateManager(t *testing.T) *StateManager {
	t.Helper()
	sm, err := NewStateManager(t.TempDir(), 5)
	if err != nil {
		t.Fatalf("NewStateManager: %v", err)
	}
	return sm
}

func TestStateSaveLoad(t *testing.T) {
	sm := newTestStateManager(t)
	emu := newStateTestEmulator(t)
	romPath := "game.nes"

	emu.StepFrame()
	counterAt := emu.MemoryBuffer()[0x10]

	if err := sm.Save(emu, 0, romPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	emu.StepFrame()
	if emu.MemoryBuffer()[0x10] == counterAt {
		t.Fatal("expected the counter to advance between frames")
	}

	if err := sm.Load(emu, 0, romPath); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := emu.MemoryBuffer()[0x10]; got != counterAt {
		t.Errorf("expected counter restored to 0x%02X, got 0x%02X", counterAt, got)
	}
}

func TestStateSlotRange(t *testing.T) {
	sm := newTestStateManager(t)
	emu := newStateTestEmulator(t)

	if err := sm.Save(emu, -1, "game.nes"); err == nil {
		t.Error("expected an error for a negative slot")
	}
	if err := sm.Save(emu, sm.MaxSlots(), "game.nes"); err == nil {
		t.Error("expected an error for a slot past the end")
	}
	if err := sm.Load(emu, sm.MaxSlots(), "game.nes"); err == nil {
		t.Error("expected an error loading a slot past the end")
	}
}

func TestStateLoadEmptySlot(t *testing.T) {
	sm := newTestStateManager(t)
	emu := newStateTestEmulator(t)

	if err := sm.Load(emu, 2, "game.nes"); err == nil {
		t.Error("expected an error loading an empty slot")
	}
}

func TestStateLoadWrongROM(t *testing.T) {
	sm := newTestStateManager(t)
	emu := newStateTestEmulator(t)

	if err := sm.Save(emu, 0, "game.nes"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := sm.Load(emu, 0, "other.nes"); err == nil {
		t.Error("expected an error loading a save from a different ROM")
	}
}

func TestStatePerROMSlots(t *testing.T) {
	sm := newTestStateManager(t)
	emu := newStateTestEmulator(t)

	if err := sm.Save(emu, 0, "game.nes"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The same slot for another ROM is independent.
	if sm.HasState(0, "other.nes") {
		t.Error("expected the slot to be scoped per ROM")
	}
	if !sm.HasState(0, filepath.Join("some", "dir", "game.nes")) {
		t.Error("expected the slot keyed by ROM base name")
	}
}

func TestStateDelete(t *testing.T) {
	sm := newTestStateManager(t)
	emu := newStateTestEmulator(t)

	if err := sm.Save(emu, 1, "game.nes"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !sm.HasState(1, "game.nes") {
		t.Fatal("expected slot 1 occupied")
	}

	if err := sm.Delete(1, "game.nes"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if sm.HasState(1, "game.nes") {
		t.Error("expected slot 1 empty after delete")
	}

	if err := sm.Delete(1, "game.nes"); err == nil {
		t.Error("expected an error deleting an empty slot")
	}
}

func TestStateSlotInfo(t *testing.T) {
	sm := newTestStateManager(t)
	emu := newStateTestEmulator(t)

	if err := sm.Save(emu, 3, "game.nes"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info := sm.SlotInfo("game.nes")
	if len(info) != sm.MaxSlots() {
		t.Fatalf("expected %d slot entries, got %d", sm.MaxSlots(), len(info))
	}
	if info[0].Used {
		t.Error("expected slot 0 unused")
	}
	if !info[3].Used {
		t.Error("expected slot 3 used")
	}
	if info[3].ROMPath != "game.nes" {
		t.Errorf("expected ROM path recorded, got %q", info[3].ROMPath)
	}
	if info[3].Timestamp.IsZero() {
		t.Error("expected a timestamp on the used slot")
	}
}
