package output

import (
	"fmt"

	"periph.io/x/periph/conn/spi"

	"pilight-go/internal/color"
)

// SPIPort abstracts the one periph.io call an SPI-driven strip needs, so
// tests can supply a fake rather than a real bus.
type SPIPort interface {
	Connect(maxHz int64, mode spi.Mode, bits int) (spi.Conn, error)
}

// wireFormat distinguishes the two strip protocols spec.md §6 lists: ws2801
// is a plain 3-byte-per-LED SPI shift register; ws281x here means an SPI-
// bit-banged one-wire-style protocol (the teacher pack's closest analog is
// experimental/devices/nrzled), which needs each bit of each color byte
// expanded to a multi-bit SPI symbol.
type wireFormat int

const (
	wireWS2801 wireFormat = iota
	wireWS281x
)

// SPIDevice drives a physical RGBW strip over a periph.io SPI port.
type SPIDevice struct {
	port        SPIPort
	format      wireFormat
	multipliers color.Multipliers
	scale       int
	repeat      int
	maxHz       int64

	conn spi.Conn
}

// NewSPIDevice builds an SPI-driven device. maxHz is the strip's rated
// clock speed (ws2801 commonly 1MHz-class, ws281x bit-banged symbols need a
// much higher nominal SPI clock to approximate the one-wire timing).
func NewSPIDevice(port SPIPort, format wireFormat, maxHz int64, m color.Multipliers, scale, repeat int) *SPIDevice {
	return &SPIDevice{port: port, format: format, maxHz: maxHz, multipliers: m, scale: scale, repeat: repeat}
}

// NewWS2801Device builds a ws2801 strip device.
func NewWS2801Device(port SPIPort, m color.Multipliers, scale, repeat int) *SPIDevice {
	return NewSPIDevice(port, wireWS2801, 1000000, m, scale, repeat)
}

// NewWS281xDevice builds a ws281x strip device.
func NewWS281xDevice(port SPIPort, m color.Multipliers, scale, repeat int) *SPIDevice {
	return NewSPIDevice(port, wireWS281x, 2500000, m, scale, repeat)
}

func (d *SPIDevice) Init() error {
	conn, err := d.port.Connect(d.maxHz, spi.Mode0, 8)
	if err != nil {
		return fmt.Errorf("output: spi connect: %w", err)
	}
	d.conn = conn
	return nil
}

func (d *SPIDevice) SetColors(colors []color.Color) error {
	if d.conn == nil {
		return fmt.Errorf("output: spi device not initialized")
	}
	physical := expand(colors, d.scale, d.repeat)
	buf := d.raster(physical)
	return d.conn.Tx(buf, nil)
}

// raster packs RGBW colors into the wire format. ws2801 is a flat
// R,G,B triple per LED (no white channel on the classic part); ws281x
// sends G,R,B and expands each 2-bit pair of every channel byte into a
// 4-bit SPI symbol, the common bit-bang-over-SPI trick for one-wire
// addressable LEDs (grounded on experimental/devices/nrzled's
// bit-doubling approach).
func (d *SPIDevice) raster(colors []color.Color) []byte {
	switch d.format {
	case wireWS281x:
		return rasterWS281x(colors, d.multipliers)
	default:
		return rasterWS2801(colors, d.multipliers)
	}
}

func rasterWS2801(colors []color.Color, m color.Multipliers) []byte {
	buf := make([]byte, 0, len(colors)*3)
	for _, c := range colors {
		raw := c.ToRaw(m)
		buf = append(buf, raw.R, raw.G, raw.B)
	}
	return buf
}

// ws281xSymbols maps each 2-bit pair to a 4-bit SPI symbol approximating a
// one-wire high/low timing pulse.
var ws281xSymbols = [4]byte{0b1000, 0b1100, 0b1000, 0b1110}

func rasterWS281x(colors []color.Color, m color.Multipliers) []byte {
	buf := make([]byte, 0, len(colors)*4*2) // GRB order, 2 bytes per channel byte
	for _, c := range colors {
		raw := c.ToRaw(m)
		for _, channel := range [3]byte{raw.G, raw.R, raw.B} {
			buf = append(buf, expandByteToSymbols(channel)...)
		}
	}
	return buf
}

func expandByteToSymbols(b byte) []byte {
	out := make([]byte, 2)
	hi := (b >> 6) & 0x3
	lo2 := (b >> 4) & 0x3
	out[0] = ws281xSymbols[hi]<<4 | ws281xSymbols[lo2]
	lo1 := (b >> 2) & 0x3
	lo0 := b & 0x3
	out[1] = ws281xSymbols[lo1]<<4 | ws281xSymbols[lo0]
	return out
}

func (d *SPIDevice) Finish() error { return nil }

func (d *SPIDevice) Close() error {
	d.conn = nil
	return nil
}
