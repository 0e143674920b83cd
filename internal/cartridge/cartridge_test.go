package cartridge

import (
	"bytes"
	"errors"
	"testing"

	"nescore/internal/common"
)

// romConfig describes a synthetic iNES image for tests.
type romConfig struct {
	prgBanks   int // 16KB units
	chrBanks   int // 8KB units, 0 means CHR RAM
	mapperID   common.Byte
	vertical   bool
	battery    bool
	fourScreen bool
	trainer    bool
	fill       common.Byte
}

// buildROM assembles an iNES image in memory.
func buildROM(cfg romConfig) []byte {
	header := make([]byte, 16)
	copy(header, "NES\x1a")
	header[4] = byte(cfg.prgBanks)
	header[5] = byte(cfg.chrBanks)

	flags6 := cfg.mapperID << 4 & 0xF0
	if cfg.vertical {
		flags6 |= 0x01
	}
	if cfg.battery {
		flags6 |= 0x02
	}
	if cfg.trainer {
		flags6 |= 0x04
	}
	if cfg.fourScreen {
		flags6 |= 0x08
	}
	header[6] = byte(flags6)
	header[7] = byte(cfg.mapperID & 0xF0)

	var buf bytes.Buffer
	buf.Write(header)
	if cfg.trainer {
		buf.Write(make([]byte, 512))
	}

	prg := make([]byte, cfg.prgBanks*0x4000)
	for i := range prg {
		prg[i] = byte(cfg.fill)
	}
	buf.Write(prg)

	if cfg.chrBanks > 0 {
		chr := make([]byte, cfg.chrBanks*0x2000)
		for i := range chr {
			chr[i] = byte(cfg.fill + 1)
		}
		buf.Write(chr)
	}
	return buf.Bytes()
}

// loadTestROM builds and parses a synthetic image, failing the test on error.
func loadTestROM(t *testing.T, cfg romConfig) *Cartridge {
	t.Helper()
	cart, err := LoadFromReader(bytes.NewReader(buildROM(cfg)))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	return cart
}

func TestLoadBasicROM(t *testing.T) {
	cart := loadTestROM(t, romConfig{prgBanks: 2, chrBanks: 1, fill: 0xAB})

	if cart.MapperID() != 0 {
		t.Errorf("expected mapper 0, got %d", cart.MapperID())
	}
	if cart.PRGBanks() != 2 {
		t.Errorf("expected 2 PRG banks, got %d", cart.PRGBanks())
	}
	if cart.CHRBanks() != 1 {
		t.Errorf("expected 1 CHR bank, got %d", cart.CHRBanks())
	}
	if cart.Mirroring() != MirrorHorizontal {
		t.Errorf("expected horizontal mirroring, got %d", cart.Mirroring())
	}
	if cart.HasCHRRAM() {
		t.Error("expected CHR ROM, not CHR RAM")
	}
	if cart.prgROM[0] != 0xAB {
		t.Errorf("expected PRG data 0xAB, got 0x%02X", cart.prgROM[0])
	}
	if cart.chrROM[0] != 0xAC {
		t.Errorf("expected CHR data 0xAC, got 0x%02X", cart.chrROM[0])
	}
}

func TestLoadHeaderFlags(t *testing.T) {
	cart := loadTestROM(t, romConfig{prgBanks: 1, chrBanks: 1, vertical: true, battery: true})

	if cart.Mirroring() != MirrorVertical {
		t.Errorf("expected vertical mirroring, got %d", cart.Mirroring())
	}
	if !cart.HasBattery() {
		t.Error("expected battery flag set")
	}
}

func TestLoadFourScreen(t *testing.T) {
	cart := loadTestROM(t, romConfig{prgBanks: 1, chrBanks: 1, fourScreen: true, vertical: true})

	// Four-screen overrides the vertical bit.
	if cart.Mirroring() != MirrorFourScreen {
		t.Errorf("expected four-screen mirroring, got %d", cart.Mirroring())
	}
}

func TestLoadCHRRAM(t *testing.T) {
	cart := loadTestROM(t, romConfig{prgBanks: 1, chrBanks: 0})

	if !cart.HasCHRRAM() {
		t.Error("expected CHR RAM when the header declares zero CHR banks")
	}
	if len(cart.chrROM) != 0x2000 {
		t.Errorf("expected 8KB CHR RAM, got %d", len(cart.chrROM))
	}
}

func TestLoadSkipsTrainer(t *testing.T) {
	cart := loadTestROM(t, romConfig{prgBanks: 1, chrBanks: 1, trainer: true, fill: 0x5A})

	// PRG data follows the 512-byte trainer.
	if cart.prgROM[0] != 0x5A {
		t.Errorf("expected PRG data 0x5A after trainer, got 0x%02X", cart.prgROM[0])
	}
}

func TestLoadMapperID(t *testing.T) {
	cart := loadTestROM(t, romConfig{prgBanks: 1, chrBanks: 1, mapperID: 3})

	if cart.MapperID() != 3 {
		t.Errorf("expected mapper 3, got %d", cart.MapperID())
	}
}

func TestLoadBadMagic(t *testing.T) {
	data := buildROM(romConfig{prgBanks: 1, chrBanks: 1})
	data[0] = 'X'

	_, err := LoadFromReader(bytes.NewReader(data))
	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
}

func TestLoadNoPRGROM(t *testing.T) {
	data := buildROM(romConfig{prgBanks: 1, chrBanks: 0})
	data[4] = 0

	_, err := LoadFromReader(bytes.NewReader(data))
	if !errors.Is(err, ErrNoPRGROM) {
		t.Errorf("expected ErrNoPRGROM, got %v", err)
	}
}

func TestLoadTruncated(t *testing.T) {
	data := buildROM(romConfig{prgBanks: 2, chrBanks: 1})

	_, err := LoadFromReader(bytes.NewReader(data[:16+0x4000]))
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestLoadTruncatedHeader(t *testing.T) {
	_, err := LoadFromReader(bytes.NewReader([]byte("NES\x1a")))
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFromFile("does/not/exist.nes")
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}
