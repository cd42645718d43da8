package services

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"robot-visualizer/models"
)

const (
	alarmSampleRate = beep.SampleRate(44100)
	alarmFreq       = 880.0
	alarmDuration   = 120 * time.Millisecond
)

// ReverseAlarm - 후진 깜빡임이 켜질 때마다 짧은 경고음
type ReverseAlarm struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewReverseAlarm - 알람 생성 (Initialize 전에는 소리 없음)
func NewReverseAlarm() *ReverseAlarm {
	return &ReverseAlarm{mixer: &beep.Mixer{}}
}

// Initialize - 스피커 초기화
func (a *ReverseAlarm) Initialize() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return nil
	}
	if err := speaker.Init(alarmSampleRate, alarmSampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(a.mixer)
	a.initialized = true
	return nil
}

// Beep - 경고음 한 번
func (a *ReverseAlarm) Beep() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return
	}
	speaker.Lock()
	a.mixer.Add(beep.Take(alarmSampleRate.N(alarmDuration), NewAlarmTone(alarmSampleRate, alarmFreq)))
	speaker.Unlock()
}

// Cleanup - 재생 중인 소리 제거
func (a *ReverseAlarm) Cleanup() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return
	}
	speaker.Lock()
	a.mixer.Clear()
	speaker.Unlock()
	a.initialized = false
}

// AlarmTone - 감쇠하는 사인파
type AlarmTone struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewAlarmTone - 톤 생성기
func NewAlarmTone(sr beep.SampleRate, freq float64) *AlarmTone {
	return &AlarmTone{sr: sr, freq: freq}
}

func (g *AlarmTone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		sample := 0.3 * math.Sin(2*math.Pi*g.freq*t) * math.Exp(-t*12)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *AlarmTone) Err() error {
	return nil
}

// AlarmSurface - 다른 출력면을 감싸 후진 깜빡임 엣지에 경고음 재생
type AlarmSurface struct {
	RenderSurface
	beeper interface{ Beep() }
}

// NewAlarmSurface - 출력면 + 경고음
func NewAlarmSurface(inner RenderSurface, beeper interface{ Beep() }) *AlarmSurface {
	return &AlarmSurface{RenderSurface: inner, beeper: beeper}
}

// ApplyVisualTargets - 꺼짐→켜짐 엣지에서만 울림
func (s *AlarmSurface) ApplyVisualTargets(targets models.VisualTargets) {
	if targets.FlashEdge && s.beeper != nil {
		s.beeper.Beep()
	}
	s.RenderSurface.ApplyVisualTargets(targets)
}

// OnResize - 안쪽 출력면이 리사이즈 이벤트를 내면 그대로 연결
func (s *AlarmSurface) OnResize(fn func(width, height int)) {
	if rs, ok := s.RenderSurface.(ResizeSource); ok {
		rs.OnResize(fn)
	}
}

// InitReverseAlarm - 알람 초기화 (실패해도 소리 없이 계속)
func InitReverseAlarm() *ReverseAlarm {
	alarm := NewReverseAlarm()
	if err := alarm.Initialize(); err != nil {
		log.Printf("⚠️ 오디오 초기화 실패, 후진 경고음 없이 진행: %v", err)
	}
	return alarm
}
