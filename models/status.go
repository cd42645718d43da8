package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ========================================
// 로봇 상태 레코드
// ========================================

// StatusRecord - 폴링으로 받아온 로봇의 현재 상태 (수신 후 변경하지 않음)
type StatusRecord struct {
	RobotID      *int              `json:"robot_id,omitempty"`
	IsParked     bool              `json:"is_parked"`
	IsDoorOpened bool              `json:"is_door_opened"`
	IsReversing  bool              `json:"is_reversing"`
	IsCharging   bool              `json:"is_charging"`
	BatteryLevel BatteryLevel      `json:"battery_level"`
	Message      *string           `json:"message"`
	LEDRGB       []int             `json:"led_rgb,omitempty"`
	Packages     []json.RawMessage `json:"packages"` // 표시용 (코어에서는 해석하지 않음)
}

// ID - robot_id 반환 (없으면 ok=false)
func (s *StatusRecord) ID() (int, bool) {
	if s == nil || s.RobotID == nil {
		return 0, false
	}
	return *s.RobotID, true
}

// MessageText - 메시지 문자열 (nil이면 빈 문자열)
func (s *StatusRecord) MessageText() string {
	if s == nil || s.Message == nil {
		return ""
	}
	return *s.Message
}

// BatteryLevel - 0~100으로 보정된 배터리 잔량 (%)
//
// 숫자, 숫자 문자열, null 어느 형태로 와도 받아들인다.
// 파싱할 수 없는 값은 0으로 처리한다.
type BatteryLevel float64

// Percent - 보정된 배터리 잔량
func (b BatteryLevel) Percent() float64 {
	return float64(b)
}

// UnmarshalJSON - 배터리 값 강제 변환 (실패해도 에러를 내지 않음)
func (b *BatteryLevel) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*b = 0
		return nil
	}
	*b = BatteryLevel(CoerceBattery(raw))
	return nil
}

// 10진수 표기만 허용 (inf, NaN, 16진수, 밑줄 구분자는 거부)
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// CoerceBattery - 임의의 배터리 값을 [0,100] 범위 숫자로 변환
func CoerceBattery(v interface{}) float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		text := strings.TrimSpace(val)
		if !decimalPattern.MatchString(text) {
			return 0
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return ClampPercent(f)
}

// ClampPercent - 값을 [0,100]으로 제한
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ========================================
// Status Transport 결과
// ========================================

// ReadResult - read(robotId) 응답
type ReadResult struct {
	Status        *StatusRecord  `json:"status,omitempty"`
	Error         string         `json:"error,omitempty"`
	LastMessageID int            `json:"last_message_id,omitempty"`
	Messages      []RobotMessage `json:"messages,omitempty"`
}

// CreateResult - create(params) 응답
type CreateResult struct {
	RobotID    *int          `json:"robot_id,omitempty"`
	Status     *StatusRecord `json:"status,omitempty"`
	Error      string        `json:"error,omitempty"`
	RobotCount int           `json:"robot_count,omitempty"`
}

// CreateParams - 로봇 생성 시 선택적 초기값
type CreateParams struct {
	IsParked      *bool
	IsDoorOpened  *bool
	IsReversing   *bool
	IsCharging    *bool
	BatteryStatus *float64
	LEDRGB        []int
}

// ErrMalformedStatus - 상태 페이로드를 해석할 수 없음
var ErrMalformedStatus = errors.New("malformed status payload")

// statusWire - 외부 API 필드 그대로의 상태 (battery_status 별칭 포함)
type statusWire struct {
	RobotID       *int              `json:"robot_id"`
	IsParked      bool              `json:"is_parked"`
	IsDoorOpened  bool              `json:"is_door_opened"`
	IsReversing   bool              `json:"is_reversing"`
	IsCharging    bool              `json:"is_charging"`
	BatteryLevel  json.RawMessage   `json:"battery_level"`
	BatteryStatus json.RawMessage   `json:"battery_status"`
	Message       *string           `json:"message"`
	LEDRGB        []int             `json:"led_rgb"`
	Packages      []json.RawMessage `json:"packages"`
}

// NormalizeStatus - 외부 상태 페이로드를 StatusRecord로 정규화
//
// 상태가 한 단계 더 감싸져 오는 경우({"status": {"status": {...}}} 형태의 안쪽)를 처리한다.
// 바깥 객체에 robot_id가 없고 안쪽 status에 robot_id가 있으면 안쪽을 사용한다.
// null 이나 빈 페이로드는 (nil, nil)을 반환한다.
func NormalizeStatus(raw json.RawMessage) (*StatusRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &outer); err != nil {
		return nil, ErrMalformedStatus
	}

	payload := trimmed
	if _, hasID := outer["robot_id"]; !hasID {
		if innerRaw, ok := outer["status"]; ok {
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(innerRaw, &inner); err == nil {
				if _, innerHasID := inner["robot_id"]; innerHasID {
					payload = innerRaw
				}
			}
		}
	}

	var wire statusWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, ErrMalformedStatus
	}

	battery := wire.BatteryLevel
	if isAbsent(battery) {
		battery = wire.BatteryStatus
	}
	var level BatteryLevel
	if !isAbsent(battery) {
		_ = level.UnmarshalJSON(battery)
	}

	return &StatusRecord{
		RobotID:      wire.RobotID,
		IsParked:     wire.IsParked,
		IsDoorOpened: wire.IsDoorOpened,
		IsReversing:  wire.IsReversing,
		IsCharging:   wire.IsCharging,
		BatteryLevel: level,
		Message:      wire.Message,
		LEDRGB:       wire.LEDRGB,
		Packages:     wire.Packages,
	}, nil
}

// isAbsent - 필드가 없거나 null
func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
