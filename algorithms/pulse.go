package algorithms

import (
	"math"
	"time"
)

// PulseUnit - 타이머 한 단위 (벽시계 250ms)
const PulseUnit = 250 * time.Millisecond

// PulseTimer - 조건부 깜빡임 타이머
type PulseTimer struct {
	LastToggleUnits float64
	IsOn            bool
	Armed           bool
}

// ToUnits - 경과 시간 → 타이머 단위
func ToUnits(elapsed time.Duration) float64 {
	return float64(elapsed) / float64(PulseUnit)
}

// Arm - 현재 시각 기준으로 꺼진 상태에서 시작
func Arm(nowUnits float64) PulseTimer {
	return PulseTimer{LastToggleUnits: nowUnits, Armed: true}
}

// Reset - 조건 해제 시 초기화 (lastToggle=0, 꺼짐)
func Reset() PulseTimer {
	return PulseTimer{}
}

// Advance - 마지막 토글 이후 1단위 이상 지났으면 isOn 반전
//
// 위상을 유지하기 위해 last 는 정수 단위만큼만 전진한다.
// 한 번 호출에 최대 한 번만 토글한다.
func Advance(t PulseTimer, nowUnits float64) PulseTimer {
	if !t.Armed {
		return t
	}
	delta := nowUnits - t.LastToggleUnits
	if delta >= 1 {
		t.IsOn = !t.IsOn
		t.LastToggleUnits += math.Floor(delta)
	}
	return t
}
