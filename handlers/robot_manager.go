package handlers

import (
	"errors"
	"log"
	"sync"

	"robot-visualizer/models"
)

var (
	// ErrNoRobots - 플릿이 비어 있음
	ErrNoRobots = errors.New("No robots available")
	// ErrRobotOutOfRange - 존재하지 않는 robot_id
	ErrRobotOutOfRange = errors.New("Robot ID out of range")
)

// RobotOverrides - 생성/수정 요청의 선택적 필드
type RobotOverrides struct {
	IsParked      *bool
	IsDoorOpened  *bool
	IsReversing   *bool
	IsCharging    *bool
	BatteryStatus *float64
	LEDRGB        *[3]int
	Message       *string
}

// apply - nil 이 아닌 필드만 반영
func (o RobotOverrides) apply(r *models.Robot) {
	if o.IsParked != nil {
		r.IsParked = *o.IsParked
	}
	if o.IsDoorOpened != nil {
		r.IsDoorOpened = *o.IsDoorOpened
	}
	if o.IsReversing != nil {
		r.IsReversing = *o.IsReversing
	}
	if o.IsCharging != nil {
		r.IsCharging = *o.IsCharging
	}
	if o.BatteryStatus != nil {
		r.SetBattery(*o.BatteryStatus)
	}
	if o.LEDRGB != nil {
		r.LEDRGB = *o.LEDRGB
	}
	if o.Message != nil {
		r.Message = *o.Message
	}
}

// RobotManager - 로봇 플릿 상태 관리 (robot_id = 인덱스)
type RobotManager struct {
	mu     sync.RWMutex
	robots []*models.Robot
}

// NewRobotManager - 빈 플릿 생성
func NewRobotManager() *RobotManager {
	return &RobotManager{}
}

// CreateRobot - 기본값 + 오버라이드로 로봇 추가
//
// 새 robot_id, 상태 맵, 생성 후 로봇 수를 돌려준다.
func (m *RobotManager) CreateRobot(o RobotOverrides) (int, map[string]interface{}, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	robot := models.NewRobot(len(m.robots))
	o.apply(robot)
	robot.AddMessage(models.EventRobotCreated, "robot created")
	m.robots = append(m.robots, robot)

	log.Printf("[Manager] Robot registered: %d\n", robot.RobotID)
	return robot.RobotID, robot.ToStatus(), len(m.robots)
}

// lookup - 잠금 상태에서 호출
func (m *RobotManager) lookup(robotID int) (*models.Robot, error) {
	if len(m.robots) == 0 {
		return nil, ErrNoRobots
	}
	if robotID < 0 || robotID >= len(m.robots) {
		return nil, ErrRobotOutOfRange
	}
	return m.robots[robotID], nil
}

// ReadRobot - 상태 + since 이후 메시지
func (m *RobotManager) ReadRobot(robotID, since int) (map[string]interface{}, int, []models.RobotMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	robot, err := m.lookup(robotID)
	if err != nil {
		return nil, 0, nil, err
	}
	lastID, msgs := robot.MessagesSince(since)
	return robot.ToStatus(), lastID, msgs, nil
}

// UpdateRobot - 오버라이드 적용 후 상태 반환
//
// 바뀐 필드는 메시지 로그에 이벤트로 남는다.
func (m *RobotManager) UpdateRobot(robotID int, o RobotOverrides) (map[string]interface{}, error) {
	var status map[string]interface{}
	err := m.Mutate(robotID, func(r *models.Robot) {
		before := *r
		o.apply(r)
		recordChanges(&before, r)
		status = r.ToStatus()
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// Mutate - 잠금 안에서 로봇 수정
func (m *RobotManager) Mutate(robotID int, fn func(r *models.Robot)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	robot, err := m.lookup(robotID)
	if err != nil {
		return err
	}
	fn(robot)
	return nil
}

// GetAllStatuses - 모든 로봇 상태
func (m *RobotManager) GetAllStatuses() []map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]map[string]interface{}, 0, len(m.robots))
	for _, robot := range m.robots {
		result = append(result, robot.ToStatus())
	}
	return result
}

// GetRobotCount - 현재 로봇 수
func (m *RobotManager) GetRobotCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.robots)
}

// GetStatistics - 플릿 통계
func (m *RobotManager) GetStatistics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	totalCount := len(m.robots)
	parkedCount := 0
	chargingCount := 0
	totalBattery := 0.0

	for _, robot := range m.robots {
		if robot.IsParked {
			parkedCount++
		}
		if robot.IsCharging {
			chargingCount++
		}
		totalBattery += robot.BatteryStatus
	}

	avgBattery := 0.0
	if totalCount > 0 {
		avgBattery = totalBattery / float64(totalCount)
	}

	return map[string]interface{}{
		"total_robots": totalCount,
		"parked":       parkedCount,
		"charging":     chargingCount,
		"avg_battery":  avgBattery,
	}
}

// recordChanges - 상태 전이를 메시지 로그에 추가
func recordChanges(before, after *models.Robot) {
	edge := func(was, is bool, on, off string) {
		if was == is {
			return
		}
		if is {
			after.AddMessage(on, on)
		} else {
			after.AddMessage(off, off)
		}
	}
	edge(before.IsDoorOpened, after.IsDoorOpened, models.EventDoorOpened, models.EventDoorClosed)
	edge(before.IsReversing, after.IsReversing, models.EventReversingStart, models.EventReversingStop)
	edge(before.IsCharging, after.IsCharging, models.EventChargingStart, models.EventChargingStop)
	edge(before.IsParked, after.IsParked, models.EventParked, models.EventUnparked)
	if after.Message != before.Message && after.Message != "" {
		after.AddMessage(models.EventStatusUpdate, after.Message)
	}
}
