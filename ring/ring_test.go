package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(c Color, n int) []Color {
	ret := make([]Color, n)
	for i := range ret {
		ret[i] = c
	}
	return ret
}

func TestNewRing(t *testing.T) {
	rec := NewRecorder()
	r := NewRing(12, rec)

	assert.Equal(t, 12, r.Size())
	assert.Equal(t, GREEN, r.Base())
	assert.Equal(t, 0, rec.FrameCount(), "creating a ring must not commit")

	r.Commit()
	assert.Equal(t, repeat(OFF, 12), rec.Last())
}

func TestRing_FillRegionWraps(t *testing.T) {
	rec := NewRecorder()
	r := NewRing(12, rec)

	r.FillRegion(10, 4, RED)
	r.Commit()

	frame := rec.Last()
	for i, c := range frame {
		switch i {
		case 10, 11, 0, 1:
			assert.Equal(t, RED, c, "index %d", i)
		default:
			assert.Equal(t, OFF, c, "index %d", i)
		}
	}
}

func TestRing_FillRegionNegativeStart(t *testing.T) {
	rec := NewRecorder()
	r := NewRing(12, rec)

	r.FillRegion(-1, 2, BLUE)
	r.Commit()

	frame := rec.Last()
	assert.Equal(t, BLUE, frame[11])
	assert.Equal(t, BLUE, frame[0])
	assert.Equal(t, OFF, frame[1])
}

func TestRing_FillRegionPreservingBase(t *testing.T) {
	rec := NewRecorder()
	r := NewRing(12, rec)
	r.FillAll(PURPLE)
	r.SetBase(CYAN)

	r.FillRegionPreservingBase(4, 3, WHITE)
	r.Commit()

	frame := rec.Last()
	for i, c := range frame {
		if i >= 4 && i < 7 {
			assert.Equal(t, WHITE, c, "index %d", i)
		} else {
			assert.Equal(t, CYAN, c, "index %d", i)
		}
	}
}

func TestRing_CommitCopiesFrame(t *testing.T) {
	rec := NewRecorder()
	r := NewRing(4, rec)

	r.FillAll(RED)
	r.Commit()
	r.FillAll(BLUE)
	r.Commit()

	frames := rec.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, repeat(RED, 4), frames[0], "later fills must not leak into committed frames")
	assert.Equal(t, repeat(BLUE, 4), frames[1])
}

func TestRing_SetBrightness(t *testing.T) {
	rec := NewRecorder()
	r := NewRing(4, rec)

	r.SetBrightness(200)
	r.Commit()
	r.SetBrightness(17)
	r.Commit()

	assert.Equal(t, []uint8{200, 17}, rec.Brightness())
	assert.Equal(t, uint8(200), rec.BrightnessAt(0))
	assert.Equal(t, uint8(17), rec.BrightnessAt(1))
	assert.Equal(t, uint8(17), r.Brightness())
}

func TestRecorder_Clear(t *testing.T) {
	rec := NewRecorder()
	rec.SetBrightness(120)
	rec.Commit([]Color{RED})

	rec.Clear()
	rec.Commit([]Color{GREEN})

	assert.Empty(t, rec.Brightness())
	assert.Equal(t, 1, rec.FrameCount())
	assert.Equal(t, uint8(0), rec.BrightnessAt(0), "a level cleared from Brightness is not reported for later frames")
}

func TestRing_SetPixel(t *testing.T) {
	rec := NewRecorder()
	r := NewRing(6, rec)

	r.SetPixel(7, YELLOW)
	r.Commit()
	assert.Equal(t, YELLOW, rec.Last()[1])
}

func TestToLeds(t *testing.T) {
	leds := ToLeds([]Color{RED, OFF, WHITE}, 255, nil)
	require.Len(t, leds, 3)
	assert.Equal(t, Led{Red: 255}, leds[0])
	assert.True(t, leds[1].IsEmpty())

	half := ToLeds([]Color{WHITE}, 51, leds)
	assert.InDelta(t, 51.0, half[0].Red, 1e-9)
	assert.InDelta(t, 51.0, half[0].Blue, 1e-9)
}

func TestLed_IsEmpty(t *testing.T) {
	assert.True(t, Led{}.IsEmpty())
	assert.False(t, Led{Blue: 1}.IsEmpty())
}

func TestDisplays_FanOut(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	r := NewRing(4, Displays{a, b})

	r.SetBrightness(90)
	r.FillAll(CYAN)
	r.Commit()

	for _, rec := range []*Recorder{a, b} {
		assert.Equal(t, []uint8{90}, rec.Brightness())
		assert.Equal(t, []Color{CYAN, CYAN, CYAN, CYAN}, rec.Last())
	}
}
