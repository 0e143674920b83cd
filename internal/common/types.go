// Package common defines the primitive semantic types shared by the
// emulator components.
package common

// Byte is a single 8-bit value on either bus.
type Byte = uint8

// Address is a 16-bit bus address. The PPU only drives the low 14 bits.
type Address = uint16

// Pixel is one packed 0x00RRGGBB screen pixel.
type Pixel = uint32
