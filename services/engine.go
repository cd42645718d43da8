package services

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"robot-visualizer/algorithms"
	"robot-visualizer/models"
)

// 효과 색상
var (
	ColorOff    = colorful.Color{}
	ColorAlert  = colorful.Color{R: 1, G: 0, B: 0}    // 후진 경고 (#ff0000)
	ColorCharge = colorful.Color{R: 0, G: 1, B: 0}    // 충전 펄스 (#00ff00)
	ColorAmber  = colorful.Color{R: 1, G: 0.75, B: 0} // 비충전 (#ffbf00)
)

// VisualEngine - 상태 레코드 + 경과 시간 → 프레임별 시각 목표값
//
// 세션마다 하나씩 소유하며 프레임 루프 고루틴에서만 호출한다.
type VisualEngine struct {
	flash    algorithms.PulseTimer // 후진 깜빡임
	charge   algorithms.PulseTimer // 충전 펄스
	doorOpen bool
}

// NewVisualEngine - 문 닫힘, 타이머 해제 상태로 시작
func NewVisualEngine() *VisualEngine {
	return &VisualEngine{}
}

// DoorOpen - 현재 문 상태
func (e *VisualEngine) DoorOpen() bool {
	return e.doorOpen
}

// FlashTimer - 후진 타이머 스냅샷
func (e *VisualEngine) FlashTimer() algorithms.PulseTimer {
	return e.flash
}

// ChargeTimer - 충전 타이머 스냅샷
func (e *VisualEngine) ChargeTimer() algorithms.PulseTimer {
	return e.charge
}

// Step - 한 프레임 평가
func (e *VisualEngine) Step(status *models.StatusRecord, elapsed time.Duration) models.VisualTargets {
	now := algorithms.ToUnits(elapsed)

	if status == nil {
		return e.idle()
	}

	var t models.VisualTargets

	// 후진 → 조명 깜빡임
	if status.IsReversing {
		if !e.flash.Armed {
			e.flash = algorithms.Arm(now)
		}
		wasOn := e.flash.IsOn
		e.flash = algorithms.Advance(e.flash, now)
		t.FlashOn = e.flash.IsOn
		t.FlashEdge = !wasOn && e.flash.IsOn
		t.LightsEmissive = pick(e.flash.IsOn, ColorAlert, ColorOff)
	} else if e.flash.Armed {
		e.flash = algorithms.Reset()
		t.LightsEmissive = colorPtr(ColorOff)
	}

	// 배터리 게이지 (매 프레임)
	level := status.BatteryLevel.Percent()
	t.BatteryLevel = models.ClampPercent(level)
	gauge := algorithms.BatteryColor(level)
	t.GaugeEmissive = &gauge

	// 충전 표시
	if status.IsCharging {
		if !e.charge.Armed {
			e.charge = algorithms.Arm(now)
		}
		e.charge = algorithms.Advance(e.charge, now)
		t.ChargePulseOn = e.charge.IsOn
		t.IndicatorEmissive = pick(e.charge.IsOn, ColorCharge, ColorOff)
	} else {
		if e.charge.Armed {
			e.charge = algorithms.Reset()
		}
		t.IndicatorEmissive = colorPtr(ColorAmber)
	}

	// 문 (엣지 트리거)
	e.doorOpen, t.DoorChanged = algorithms.DoorTransition(e.doorOpen, status.IsDoorOpened)
	t.DoorOpen = e.doorOpen
	t.DoorAngle = algorithms.DoorAngle(e.doorOpen)

	// 주차 → 트램 표시 (레벨 트리거)
	t.TramVisible = status.IsParked
	return t
}

// idle - 상태 없음: 조명 끔, 문 닫힘, 트램 숨김, 게이지/충전표시는 그대로
func (e *VisualEngine) idle() models.VisualTargets {
	e.flash = algorithms.Reset()
	e.charge = algorithms.Reset()

	var t models.VisualTargets
	t.Idle = true
	t.LightsEmissive = colorPtr(ColorOff)
	e.doorOpen, t.DoorChanged = algorithms.DoorTransition(e.doorOpen, false)
	t.DoorOpen = false
	t.DoorAngle = algorithms.DoorClosedAngle
	t.TramVisible = false
	return t
}

func pick(on bool, onColor, offColor colorful.Color) *colorful.Color {
	if on {
		return colorPtr(onColor)
	}
	return colorPtr(offColor)
}

func colorPtr(c colorful.Color) *colorful.Color {
	return &c
}
