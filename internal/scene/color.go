package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is an RGB color with components in [0, 1].
type Color = colorful.Color

// RGB converts a 0xRRGGBB value to a Color.
func RGB(v uint32) Color {
	return Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}
}

// HexColor is a Color read from descriptors as 0xRRGGBB or "#rrggbb".
type HexColor struct {
	Color
}

// Hex returns a HexColor for a 0xRRGGBB value.
func Hex(v uint32) *HexColor {
	return &HexColor{Color: RGB(v)}
}

// ParseColor accepts "#rrggbb", "#rgb", "0xrrggbb" and "rrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "0x"):
		v, err := strconv.ParseUint(lower[2:], 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return RGB(uint32(v)), nil
	case strings.HasPrefix(lower, "#"):
	default:
		lower = "#" + lower
	}
	c, err := colorful.Hex(lower)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return c, nil
}

func (h *HexColor) UnmarshalYAML(value *yaml.Node) error {
	if value.ShortTag() == "!!int" {
		var v uint32
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("decode color: %w", err)
		}
		h.Color = RGB(v)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("decode color: %w", err)
	}
	c, err := ParseColor(s)
	if err != nil {
		return err
	}
	h.Color = c
	return nil
}

func (h HexColor) MarshalYAML() (any, error) {
	return h.Hex(), nil
}
