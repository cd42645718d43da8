package models

import (
	"time"
)

// 로봇 이벤트 타입
const (
	EventDoorOpened     = "door_opened"
	EventDoorClosed     = "door_closed"
	EventReversingStart = "reversing_start"
	EventReversingStop  = "reversing_stop"
	EventChargingStart  = "charging_start"
	EventChargingStop   = "charging_stop"
	EventParked         = "parked"
	EventUnparked       = "unparked"
	EventLowBattery     = "low_battery"
	EventStatusUpdate   = "status_update"
	EventLoadFailed     = "load_failed"
	EventRobotCreated   = "robot_created"
)

// RobotLog - 로봇 상태 전이 로그
type RobotLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	EventType string    `gorm:"index" json:"event_type"`
	SessionID string    `gorm:"index" json:"session_id"`

	// 로봇 상태
	RobotID      int     `gorm:"index" json:"robot_id"`
	IsParked     bool    `json:"is_parked"`
	IsDoorOpened bool    `json:"is_door_opened"`
	IsReversing  bool    `json:"is_reversing"`
	IsCharging   bool    `json:"is_charging"`
	BatteryLevel float64 `json:"battery_level"`

	// 메타데이터
	Message  string `json:"message"`
	DataJSON string `json:"data_json"` // 원본 상태 JSON
}
