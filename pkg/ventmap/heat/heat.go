package heat

import (
	"fmt"
	"image/color"
)

type Level rune

const (
	Empty     = Level('.')
	Covered   = Level('1')
	Dangerous = Level('#')
)

// Of maps a visit count to its level.
func Of(visits uint) Level {
	switch visits {
	case 0:
		return Empty
	case 1:
		return Covered
	default:
		return Dangerous
	}
}

func (l Level) Emoji() string {
	switch l {
	case Empty:
		return "⬜️"
	case Covered:
		return "🟨"
	case Dangerous:
		return "🟥"
	default:
		panic(fmt.Sprintf("Invalid receiver for Level.Emoji: %v", l))
	}
}

func (l Level) Color() color.RGBA {
	switch l {
	case Empty:
		return color.RGBA{R: 0x10, G: 0x18, B: 0x30, A: 0xff}
	case Covered:
		return color.RGBA{R: 0xf2, G: 0xc9, B: 0x4c, A: 0xff}
	case Dangerous:
		return color.RGBA{R: 0xe0, G: 0x3a, B: 0x2f, A: 0xff}
	default:
		panic(fmt.Sprintf("Invalid receiver for Level.Color: %v", l))
	}
}
