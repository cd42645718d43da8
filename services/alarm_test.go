package services

import (
	"sync"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"

	"robot-visualizer/models"
)

type countingBeeper struct {
	mu    sync.Mutex
	beeps int
}

func (b *countingBeeper) Beep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.beeps++
}

func TestAlarmToneStream(t *testing.T) {
	tone := NewAlarmTone(beep.SampleRate(44100), alarmFreq)
	samples := make([][2]float64, 512)

	n, ok := tone.Stream(samples)
	assert.True(t, ok)
	assert.Equal(t, 512, n)
	assert.NoError(t, tone.Err())

	nonZero := false
	for _, s := range samples {
		assert.LessOrEqual(t, s[0], 1.0)
		assert.GreaterOrEqual(t, s[0], -1.0)
		assert.Equal(t, s[0], s[1])
		if s[0] != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero)
}

func TestAlarmSurfaceBeepsOnFlashEdge(t *testing.T) {
	inner := &fakeSurface{}
	beeper := &countingBeeper{}
	surface := NewAlarmSurface(inner, beeper)

	surface.ApplyVisualTargets(models.VisualTargets{FlashOn: true, FlashEdge: true})
	surface.ApplyVisualTargets(models.VisualTargets{FlashOn: true})
	surface.ApplyVisualTargets(models.VisualTargets{FlashOn: false})
	surface.ApplyVisualTargets(models.VisualTargets{FlashOn: true, FlashEdge: true})

	assert.Equal(t, 2, beeper.beeps)
	assert.Len(t, inner.targets, 4)

	surface.OnResize(func(int, int) {})
	assert.NotNil(t, inner.resizeHandler())
	assert.NoError(t, surface.Close())
	assert.True(t, inner.isClosed())
}

func TestReverseAlarmSilentBeforeInit(t *testing.T) {
	alarm := NewReverseAlarm()
	assert.NotPanics(t, func() {
		alarm.Beep()
		alarm.Cleanup()
	})
}
