package algorithms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToUnits(t *testing.T) {
	assert.Equal(t, 0.0, ToUnits(0))
	assert.Equal(t, 1.0, ToUnits(250*time.Millisecond))
	assert.Equal(t, 1.04, ToUnits(260*time.Millisecond))
	assert.Equal(t, 4.0, ToUnits(time.Second))
}

func TestArmStartsOff(t *testing.T) {
	timer := Arm(3.5)
	assert.True(t, timer.Armed)
	assert.False(t, timer.IsOn)
	assert.Equal(t, 3.5, timer.LastToggleUnits)
}

func TestAdvanceTogglesOncePerUnit(t *testing.T) {
	timer := Arm(0)
	toggles := 0
	prev := timer.IsOn

	// 10ms 프레임으로 2초 = 8단위
	for ms := 0; ms <= 2000; ms += 10 {
		timer = Advance(timer, ToUnits(time.Duration(ms)*time.Millisecond))
		if timer.IsOn != prev {
			toggles++
			prev = timer.IsOn
		}
	}
	assert.Equal(t, 8, toggles)
}

func TestAdvanceIrregularFramesKeepsPhase(t *testing.T) {
	timer := Arm(0)
	timer = Advance(timer, 1.1)
	assert.True(t, timer.IsOn)
	assert.Equal(t, 1.0, timer.LastToggleUnits)

	timer = Advance(timer, 1.9)
	assert.True(t, timer.IsOn)

	timer = Advance(timer, 2.0)
	assert.False(t, timer.IsOn)
	assert.Equal(t, 2.0, timer.LastToggleUnits)
}

func TestAdvanceSingleToggleAfterStall(t *testing.T) {
	timer := Arm(0)
	timer = Advance(timer, 5.5)
	assert.True(t, timer.IsOn)
	assert.Equal(t, 5.0, timer.LastToggleUnits)
}

func TestAdvanceNeverTogglesWhenDisarmed(t *testing.T) {
	timer := Reset()
	for u := 0.0; u < 20; u += 0.5 {
		timer = Advance(timer, u)
		assert.False(t, timer.IsOn)
	}
	assert.Equal(t, PulseTimer{}, timer)
}
