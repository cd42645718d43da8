package services

import (
	"log"
	"sync"
	"time"

	"robot-visualizer/models"
)

// Fleet - 시뮬레이터가 조작하는 로봇 집합
type Fleet interface {
	GetRobotCount() int
	Mutate(robotID int, fn func(r *models.Robot)) error
}

// demoPhase - 데모 시나리오 한 단계
type demoPhase struct {
	event string
	text  string
	apply func(r *models.Robot)
}

// 주행 → 후진 → 주차 → 문 열림/닫힘 → 충전 순환
var demoPhases = []demoPhase{
	{models.EventUnparked, "출발", func(r *models.Robot) {
		r.IsParked = false
		r.IsDoorOpened = false
		r.IsCharging = false
		r.SetBattery(r.BatteryStatus - 8)
	}},
	{models.EventReversingStart, "후진 중", func(r *models.Robot) {
		r.IsReversing = true
		r.SetBattery(r.BatteryStatus - 2)
	}},
	{models.EventParked, "정류장 도착", func(r *models.Robot) {
		r.IsReversing = false
		r.IsParked = true
	}},
	{models.EventDoorOpened, "문 열림", func(r *models.Robot) {
		r.IsDoorOpened = true
	}},
	{models.EventDoorClosed, "문 닫힘", func(r *models.Robot) {
		r.IsDoorOpened = false
	}},
	{models.EventChargingStart, "충전 시작", func(r *models.Robot) {
		r.IsCharging = true
		r.SetBattery(r.BatteryStatus + 25)
	}},
	{models.EventChargingStop, "충전 완료", func(r *models.Robot) {
		r.IsCharging = false
	}},
}

// RobotSimulator - 데모용 로봇 상태 구동기
type RobotSimulator struct {
	IsRunning bool

	fleet    Fleet
	interval time.Duration
	phases   map[int]int // robot_id -> 다음 단계

	// 제어
	stopChan chan bool
	mu       sync.RWMutex
}

// NewRobotSimulator - 시뮬레이터 생성
func NewRobotSimulator(fleet Fleet, interval time.Duration) *RobotSimulator {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &RobotSimulator{
		fleet:    fleet,
		interval: interval,
		phases:   make(map[int]int),
		stopChan: make(chan bool),
	}
}

// Start - 시뮬레이션 시작
func (s *RobotSimulator) Start() {
	s.mu.Lock()
	if s.IsRunning {
		s.mu.Unlock()
		return
	}
	s.IsRunning = true
	s.mu.Unlock()

	log.Printf("🚀 로봇 시뮬레이터 시작 (%v 간격)", s.interval)
	go s.runSimulation()
}

// Stop - 시뮬레이션 중지
func (s *RobotSimulator) Stop() {
	s.mu.Lock()
	if !s.IsRunning {
		s.mu.Unlock()
		return
	}
	s.IsRunning = false
	s.mu.Unlock()

	s.stopChan <- true
	log.Println("🛑 로봇 시뮬레이터 중지")
}

// runSimulation - 시뮬레이션 메인 루프
func (s *RobotSimulator) runSimulation() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

// Step - 모든 로봇을 다음 단계로
func (s *RobotSimulator) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := 0; id < s.fleet.GetRobotCount(); id++ {
		phase := demoPhases[s.phases[id]%len(demoPhases)]
		err := s.fleet.Mutate(id, func(r *models.Robot) {
			phase.apply(r)
			r.Message = phase.text
			r.AddMessage(phase.event, phase.text)
		})
		if err != nil {
			log.Printf("⚠️ 로봇 %d 시뮬레이션 실패: %v", id, err)
			continue
		}
		s.phases[id]++
	}
}
