package cartridge

import (
	"bytes"
	"errors"
	"testing"

	"nescore/internal/common"
)

// loadBankedROM builds a cartridge whose PRG banks are stamped with their
// bank index at every byte, and CHR banks likewise, so bank switching is
// observable from reads.
func loadBankedROM(t *testing.T, prgBanks, chrBanks int, mapperID common.Byte) *Cartridge {
	t.Helper()
	data := buildROM(romConfig{prgBanks: prgBanks, chrBanks: chrBanks, mapperID: mapperID})

	offset := 16
	for bank := 0; bank < prgBanks; bank++ {
		for i := 0; i < 0x4000; i++ {
			data[offset+bank*0x4000+i] = byte(bank)
		}
	}
	offset += prgBanks * 0x4000
	for bank := 0; bank < chrBanks; bank++ {
		for i := 0; i < 0x2000; i++ {
			data[offset+bank*0x2000+i] = byte(0x80 + bank)
		}
	}

	cart, err := LoadFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	return cart
}

func newTestMapper(t *testing.T, cart *Cartridge) Mapper {
	t.Helper()
	mapper, err := NewMapper(cart, nil)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	return mapper
}

// mmc1Write loads a five-bit value through the MMC1 serial port.
func mmc1Write(m Mapper, addr common.Address, value common.Byte) {
	for i := 0; i < 5; i++ {
		m.WritePRG(addr, (value>>i)&1)
	}
}

func TestUnsupportedMapper(t *testing.T) {
	cart := loadTestROM(t, romConfig{prgBanks: 1, chrBanks: 1, mapperID: 7})

	_, err := NewMapper(cart, nil)
	if !errors.Is(err, ErrUnsupportedMapper) {
		t.Errorf("expected ErrUnsupportedMapper, got %v", err)
	}
}

func TestNROMTwoBank(t *testing.T) {
	cart := loadBankedROM(t, 2, 1, 0)
	mapper := newTestMapper(t, cart)

	if got := mapper.ReadPRG(0x8000); got != 0 {
		t.Errorf("expected bank 0 at $8000, got %d", got)
	}
	if got := mapper.ReadPRG(0xC000); got != 1 {
		t.Errorf("expected bank 1 at $C000, got %d", got)
	}
}

func TestNROMOneBankMirrors(t *testing.T) {
	cart := loadBankedROM(t, 1, 1, 0)
	mapper := newTestMapper(t, cart)

	cart.prgROM[0x0123] = 0x77
	if got := mapper.ReadPRG(0x8123); got != 0x77 {
		t.Errorf("expected 0x77 at $8123, got 0x%02X", got)
	}
	// The single 16KB bank mirrors into $C000-$FFFF.
	if got := mapper.ReadPRG(0xC123); got != 0x77 {
		t.Errorf("expected mirror at $C123, got 0x%02X", got)
	}
}

func TestNROMPRGRAM(t *testing.T) {
	cart := loadBankedROM(t, 1, 1, 0)
	mapper := newTestMapper(t, cart)

	mapper.WritePRG(0x6000, 0x42)
	mapper.WritePRG(0x7FFF, 0x43)

	if got := mapper.ReadPRG(0x6000); got != 0x42 {
		t.Errorf("expected PRG RAM read 0x42, got 0x%02X", got)
	}
	if got := mapper.ReadPRG(0x7FFF); got != 0x43 {
		t.Errorf("expected PRG RAM read 0x43, got 0x%02X", got)
	}
}

func TestNROMCHRROMWriteIgnored(t *testing.T) {
	cart := loadBankedROM(t, 1, 1, 0)
	mapper := newTestMapper(t, cart)

	before := mapper.ReadCHR(0x0000)
	mapper.WriteCHR(0x0000, before+1)
	if got := mapper.ReadCHR(0x0000); got != before {
		t.Errorf("expected CHR ROM write ignored, got 0x%02X", got)
	}
}

func TestNROMCHRRAM(t *testing.T) {
	cart := loadBankedROM(t, 1, 0, 0)
	mapper := newTestMapper(t, cart)

	mapper.WriteCHR(0x1000, 0x99)
	if got := mapper.ReadCHR(0x1000); got != 0x99 {
		t.Errorf("expected CHR RAM write visible, got 0x%02X", got)
	}
}

func TestMMC1PowerUpFixesLastBank(t *testing.T) {
	cart := loadBankedROM(t, 4, 1, 1)
	mapper := newTestMapper(t, cart)

	if got := mapper.ReadPRG(0x8000); got != 0 {
		t.Errorf("expected bank 0 at $8000, got %d", got)
	}
	if got := mapper.ReadPRG(0xC000); got != 3 {
		t.Errorf("expected last bank at $C000, got %d", got)
	}
}

func TestMMC1PRGBankSwitch(t *testing.T) {
	cart := loadBankedROM(t, 4, 1, 1)
	mapper := newTestMapper(t, cart)

	mmc1Write(mapper, 0xE000, 2) // select PRG bank 2 at $8000

	if got := mapper.ReadPRG(0x8000); got != 2 {
		t.Errorf("expected bank 2 at $8000, got %d", got)
	}
	if got := mapper.ReadPRG(0xC000); got != 3 {
		t.Errorf("expected last bank still fixed at $C000, got %d", got)
	}
}

func TestMMC1PRGMode32K(t *testing.T) {
	cart := loadBankedROM(t, 4, 1, 1)
	mapper := newTestMapper(t, cart)

	mmc1Write(mapper, 0x8000, 0x00) // control: 32KB PRG mode
	mmc1Write(mapper, 0xE000, 3)    // bank 3, low bit ignored -> bank pair 2/3

	if got := mapper.ReadPRG(0x8000); got != 2 {
		t.Errorf("expected bank 2 at $8000 in 32KB mode, got %d", got)
	}
	if got := mapper.ReadPRG(0xC000); got != 3 {
		t.Errorf("expected bank 3 at $C000 in 32KB mode, got %d", got)
	}
}

func TestMMC1PRGModeFixFirst(t *testing.T) {
	cart := loadBankedROM(t, 4, 1, 1)
	mapper := newTestMapper(t, cart)

	mmc1Write(mapper, 0x8000, 0x08) // control: fix first bank, switch $C000
	mmc1Write(mapper, 0xE000, 2)

	if got := mapper.ReadPRG(0x8000); got != 0 {
		t.Errorf("expected bank 0 fixed at $8000, got %d", got)
	}
	if got := mapper.ReadPRG(0xC000); got != 2 {
		t.Errorf("expected bank 2 at $C000, got %d", got)
	}
}

func TestMMC1PRGBankOutOfRangeWraps(t *testing.T) {
	cart := loadBankedROM(t, 2, 1, 1)
	mapper := newTestMapper(t, cart)

	// Bank 15 on a 2-bank cart wraps to bank 1.
	mmc1Write(mapper, 0xE000, 0x0F)
	if got := mapper.ReadPRG(0x8000); got != 1 {
		t.Errorf("expected bank 15 to wrap to 1, got %d", got)
	}

	// Same in fix-first mode on the $C000 window.
	mmc1Write(mapper, 0x8000, 0x08)
	mmc1Write(mapper, 0xE000, 0x0D)
	if got := mapper.ReadPRG(0xC000); got != 1 {
		t.Errorf("expected bank 13 to wrap to 1, got %d", got)
	}
}

func TestMMC1ResetBit(t *testing.T) {
	cart := loadBankedROM(t, 4, 1, 1)
	mapper := newTestMapper(t, cart)

	mmc1Write(mapper, 0x8000, 0x00) // 32KB mode
	mapper.WritePRG(0x8000, 0x80)   // reset: back to mode 3

	if got := mapper.ReadPRG(0xC000); got != 3 {
		t.Errorf("expected last bank fixed after reset, got %d", got)
	}
}

func TestMMC1ResetDiscardsPartialLoad(t *testing.T) {
	cart := loadBankedROM(t, 4, 1, 1)
	mapper := newTestMapper(t, cart)

	// Two bits in, then a reset, then a full load of bank 1.
	mapper.WritePRG(0xE000, 1)
	mapper.WritePRG(0xE000, 1)
	mapper.WritePRG(0xE000, 0x80)
	mmc1Write(mapper, 0xE000, 1)

	if got := mapper.ReadPRG(0x8000); got != 1 {
		t.Errorf("expected bank 1 after clean reload, got %d", got)
	}
}

func TestMMC1MirroringControl(t *testing.T) {
	cart := loadBankedROM(t, 2, 1, 1)

	fired := 0
	mapper, err := NewMapper(cart, func() { fired++ })
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}

	tests := []struct {
		control common.Byte
		want    MirrorMode
	}{
		{0x10, MirrorSingleScreen0},
		{0x11, MirrorSingleScreen1},
		{0x12, MirrorVertical},
		{0x13, MirrorHorizontal},
	}
	for _, tt := range tests {
		mmc1Write(mapper, 0x8000, tt.control)
		if got := mapper.Mirroring(); got != tt.want {
			t.Errorf("control 0x%02X: expected mirroring %d, got %d", tt.control, tt.want, got)
		}
	}
	if fired == 0 {
		t.Error("expected the mirroring callback to fire on control changes")
	}
}

func TestMMC1CHRBankSwitch4K(t *testing.T) {
	cart := loadBankedROM(t, 2, 2, 1)
	mapper := newTestMapper(t, cart)

	mmc1Write(mapper, 0x8000, 0x1C) // 4KB CHR mode, PRG mode 3
	mmc1Write(mapper, 0xA000, 2)    // CHR bank 2 (4KB units) at $0000
	mmc1Write(mapper, 0xC000, 1)    // CHR bank 1 at $1000

	if got := mapper.ReadCHR(0x0000); got != 0x81 {
		t.Errorf("expected CHR data from 8KB bank 1 at $0000, got 0x%02X", got)
	}
	if got := mapper.ReadCHR(0x1000); got != 0x80 {
		t.Errorf("expected CHR data from 8KB bank 0 at $1000, got 0x%02X", got)
	}
}

func TestMMC1StateRoundTrip(t *testing.T) {
	cart := loadBankedROM(t, 4, 1, 1)
	mapper := newTestMapper(t, cart)

	mmc1Write(mapper, 0x8000, 0x0C)
	mmc1Write(mapper, 0xE000, 2)
	mapper.WritePRG(0x6000, 0x5A)

	st := mapper.State()

	mmc1Write(mapper, 0xE000, 1)
	mapper.WritePRG(0x6000, 0x00)

	mapper.SetState(st)

	if got := mapper.ReadPRG(0x8000); got != 2 {
		t.Errorf("expected bank 2 restored, got %d", got)
	}
	if got := mapper.ReadPRG(0x6000); got != 0x5A {
		t.Errorf("expected PRG RAM restored, got 0x%02X", got)
	}
}

func TestUNROMBankSwitch(t *testing.T) {
	cart := loadBankedROM(t, 4, 0, 2)
	mapper := newTestMapper(t, cart)

	if got := mapper.ReadPRG(0x8000); got != 0 {
		t.Errorf("expected bank 0 at power-up, got %d", got)
	}
	if got := mapper.ReadPRG(0xC000); got != 3 {
		t.Errorf("expected last bank fixed at $C000, got %d", got)
	}

	mapper.WritePRG(0x8000, 2)
	if got := mapper.ReadPRG(0x8000); got != 2 {
		t.Errorf("expected bank 2 after switch, got %d", got)
	}
	if got := mapper.ReadPRG(0xC000); got != 3 {
		t.Errorf("expected last bank still fixed, got %d", got)
	}
}

func TestUNROMBankSelectWraps(t *testing.T) {
	cart := loadBankedROM(t, 4, 0, 2)
	mapper := newTestMapper(t, cart)

	mapper.WritePRG(0x8000, 6) // 6 % 4 = 2
	if got := mapper.ReadPRG(0x8000); got != 2 {
		t.Errorf("expected bank select to wrap, got %d", got)
	}
}

func TestUNROMStateRoundTrip(t *testing.T) {
	cart := loadBankedROM(t, 4, 0, 2)
	mapper := newTestMapper(t, cart)

	mapper.WritePRG(0x8000, 2)
	mapper.WriteCHR(0x0123, 0x7E)
	st := mapper.State()

	mapper.WritePRG(0x8000, 1)
	mapper.WriteCHR(0x0123, 0x00)
	mapper.SetState(st)

	if got := mapper.ReadPRG(0x8000); got != 2 {
		t.Errorf("expected bank 2 restored, got %d", got)
	}
	if got := mapper.ReadCHR(0x0123); got != 0x7E {
		t.Errorf("expected CHR RAM restored, got 0x%02X", got)
	}
}

func TestCNROMCHRBankSwitch(t *testing.T) {
	cart := loadBankedROM(t, 2, 4, 3)
	mapper := newTestMapper(t, cart)

	if got := mapper.ReadCHR(0x0000); got != 0x80 {
		t.Errorf("expected CHR bank 0 at power-up, got 0x%02X", got)
	}

	mapper.WritePRG(0x8000, 2)
	if got := mapper.ReadCHR(0x0000); got != 0x82 {
		t.Errorf("expected CHR bank 2 after switch, got 0x%02X", got)
	}

	// Only the low two bits select the bank.
	mapper.WritePRG(0x8000, 0x05)
	if got := mapper.ReadCHR(0x0000); got != 0x81 {
		t.Errorf("expected CHR bank 1 from masked select, got 0x%02X", got)
	}
}

func TestCNROMPRGFixed(t *testing.T) {
	cart := loadBankedROM(t, 2, 4, 3)
	mapper := newTestMapper(t, cart)

	mapper.WritePRG(0x8000, 3)

	if got := mapper.ReadPRG(0x8000); got != 0 {
		t.Errorf("expected PRG bank 0 unaffected by CHR select, got %d", got)
	}
	if got := mapper.ReadPRG(0xC000); got != 1 {
		t.Errorf("expected PRG bank 1 unaffected by CHR select, got %d", got)
	}
}
