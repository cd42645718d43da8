package models

import "time"

// MaxRobotMessages - 로봇별로 보관하는 최근 메시지 수
const MaxRobotMessages = 200

// 패키지 크기
const (
	PackageSizeSmall = "small"
	PackageSizeLarge = "large"
)

// ========================================
// 로봇 (백엔드 플릿 레코드)
// ========================================
type Robot struct {
	RobotID      int
	IsParked     bool
	IsDoorOpened bool
	IsReversing  bool
	IsCharging   bool

	BatteryStatus float64 // 0-100%
	Message       string
	LEDRGB        [3]int

	Packages []Package

	// 메시지 로그 (/api/robot/read 폴링용)
	Messages      []RobotMessage
	LastMessageID int
}

// Package - 로봇이 운반하는 패키지 (표시용)
type Package struct {
	Size        string `json:"size"`
	Start       string `json:"start,omitempty"`
	Destination string `json:"destination,omitempty"`
}

// RobotMessage - 로봇 이벤트 메시지
type RobotMessage struct {
	ID      int     `json:"id"`
	RobotID int     `json:"robot_id"`
	Event   string  `json:"event"`
	Text    string  `json:"text"`
	TS      float64 `json:"ts"` // Unix timestamp (seconds)
}

// NewRobot - 기본값으로 로봇 생성 (주차, 문 닫힘, 배터리 100%)
func NewRobot(robotID int) *Robot {
	return &Robot{
		RobotID:       robotID,
		IsParked:      true,
		BatteryStatus: 100.0,
		LEDRGB:        [3]int{0, 255, 0},
		Packages:      []Package{},
	}
}

// SetBattery - 배터리 값 설정 ([0,100]으로 보정)
func (r *Robot) SetBattery(value float64) {
	r.BatteryStatus = ClampPercent(value)
}

// AddMessage - 메시지 추가 후 ID 반환 (최근 MaxRobotMessages 개만 유지)
func (r *Robot) AddMessage(event, text string) int {
	r.LastMessageID++
	r.Messages = append(r.Messages, RobotMessage{
		ID:      r.LastMessageID,
		RobotID: r.RobotID,
		Event:   event,
		Text:    text,
		TS:      float64(time.Now().UnixMilli()) / 1000.0,
	})
	if over := len(r.Messages) - MaxRobotMessages; over > 0 {
		r.Messages = append(r.Messages[:0:0], r.Messages[over:]...)
	}
	return r.LastMessageID
}

// MessagesSince - since 이후 메시지 (since < 0 이면 0으로 처리)
func (r *Robot) MessagesSince(since int) (int, []RobotMessage) {
	if since < 0 {
		since = 0
	}
	out := make([]RobotMessage, 0)
	for _, m := range r.Messages {
		if m.ID > since {
			out = append(out, m)
		}
	}
	return r.LastMessageID, out
}

// CountPackages - 크기별 패키지 수
func (r *Robot) CountPackages(size string) int {
	count := 0
	for _, p := range r.Packages {
		if p.Size == size {
			count++
		}
	}
	return count
}

// ToStatus - API 응답용 상태 맵
func (r *Robot) ToStatus() map[string]interface{} {
	return map[string]interface{}{
		"robot_id":            r.RobotID,
		"is_parked":           r.IsParked,
		"is_door_opened":      r.IsDoorOpened,
		"is_reversing":        r.IsReversing,
		"is_charging":         r.IsCharging,
		"battery_status":      r.BatteryStatus,
		"battery_level":       r.BatteryStatus,
		"message":             r.Message,
		"led_rgb":             r.LEDRGB,
		"packages":            r.Packages,
		"package_count":       len(r.Packages),
		"package_count_large": r.CountPackages(PackageSizeLarge),
		"package_count_small": r.CountPackages(PackageSizeSmall),
	}
}
