package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nescore/internal/nes"
)

// StateManager persists console snapshots to disk, one JSON file per
// slot per ROM.
type StateManager struct {
	saveDirectory string
	maxSlots      int
}

// SaveState is the on-disk save format: slot metadata plus the full
// console snapshot.
type SaveState struct {
	Version     string        `json:"version"`
	Timestamp   time.Time     `json:"timestamp"`
	ROMPath     string        `json:"rom_path"`
	SlotNumber  int           `json:"slot_number"`
	Description string        `json:"description"`
	Console     *nes.Snapshot `json:"console"`
}

// StateSlotInfo describes one save slot for UI listings.
type StateSlotInfo struct {
	SlotNumber  int       `json:"slot_number"`
	Used        bool      `json:"used"`
	Timestamp   time.Time `json:"timestamp"`
	ROMPath     string    `json:"rom_path"`
	Description string    `json:"description"`
	FilePath    string    `json:"file_path"`
}

const saveStateVersion = "1.0"

// NewStateManager creates a state manager writing into saveDirectory.
func NewStateManager(saveDirectory string, maxSlots int) (*StateManager, error) {
	if maxSlots <= 0 {
		maxSlots = nes.NumBackupSlots
	}
	if err := os.MkdirAll(saveDirectory, 0755); err != nil {
		return nil, fmt.Errorf("app: create save directory: %w", err)
	}
	return &StateManager{
		saveDirectory: saveDirectory,
		maxSlots:      maxSlots,
	}, nil
}

// Save captures the emulator state and writes it to the given slot.
func (sm *StateManager) Save(emu *nes.Emulator, slot int, romPath string) error {
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("app: invalid save slot %d (must be 0-%d)", slot, sm.maxSlots-1)
	}

	state := &SaveState{
		Version:     saveStateVersion,
		Timestamp:   time.Now(),
		ROMPath:     romPath,
		SlotNumber:  slot,
		Description: fmt.Sprintf("Save %s", time.Now().Format("2006-01-02 15:04:05")),
		Console:     emu.Snapshot(),
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("app: marshal save state: %w", err)
	}
	path := sm.slotFilePath(slot, romPath)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("app: write save state: %w", err)
	}
	return nil
}

// Load reads the given slot and restores it into the emulator.
func (sm *StateManager) Load(emu *nes.Emulator, slot int, romPath string) error {
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("app: invalid save slot %d (must be 0-%d)", slot, sm.maxSlots-1)
	}

	path := sm.slotFilePath(slot, romPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("app: no save state in slot %d", slot)
		}
		return fmt.Errorf("app: read save state: %w", err)
	}

	var state SaveState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("app: parse save state: %w", err)
	}
	if state.Version == "" || state.Console == nil {
		return fmt.Errorf("app: save state in slot %d is malformed", slot)
	}
	if state.ROMPath != romPath {
		return fmt.Errorf("app: save state in slot %d is for a different ROM (%s)", slot, state.ROMPath)
	}

	emu.RestoreSnapshot(state.Console)
	return nil
}

// Delete removes the save state in the given slot.
func (sm *StateManager) Delete(slot int, romPath string) error {
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("app: invalid save slot %d", slot)
	}
	path := sm.slotFilePath(slot, romPath)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("app: no save state in slot %d", slot)
	}
	return os.Remove(path)
}

// HasState reports whether the slot holds a save.
func (sm *StateManager) HasState(slot int, romPath string) bool {
	if slot < 0 || slot >= sm.maxSlots {
		return false
	}
	_, err := os.Stat(sm.slotFilePath(slot, romPath))
	return err == nil
}

// SlotInfo lists all slots for the given ROM.
func (sm *StateManager) SlotInfo(romPath string) []StateSlotInfo {
	slots := make([]StateSlotInfo, sm.maxSlots)
	for i := range slots {
		slots[i] = StateSlotInfo{SlotNumber: i}

		path := sm.slotFilePath(i, romPath)
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		slots[i].Used = true
		slots[i].FilePath = path
		slots[i].Timestamp = stat.ModTime()

		if data, err := os.ReadFile(path); err == nil {
			var state SaveState
			if json.Unmarshal(data, &state) == nil {
				slots[i].ROMPath = state.ROMPath
				slots[i].Description = state.Description
				slots[i].Timestamp = state.Timestamp
			}
		}
	}
	return slots
}

// MaxSlots returns the number of save slots.
func (sm *StateManager) MaxSlots() int {
	return sm.maxSlots
}

func (sm *StateManager) slotFilePath(slot int, romPath string) string {
	romName := filepath.Base(romPath)
	romName = romName[:len(romName)-len(filepath.Ext(romName))]
	return filepath.Join(sm.saveDirectory, fmt.Sprintf("%s_slot_%d.save", romName, slot))
}
