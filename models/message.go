package models

// ========================================
// 메시지 타입 상수
// ========================================
const (
	// Server → Viewer
	MessageTypeVisualFrame = "visual_frame" // 렌더링 프레임
	MessageTypeStatus      = "status"       // 로봇 상태 요약
	MessageTypeSystemInfo  = "system_info"  // 시스템 정보

	// Viewer → Server
	MessageTypeResize = "resize" // 뷰포트 크기 변경
	MessageTypePing   = "ping"
)

// ========================================
// 공통 WebSocket 메시지 형식
// ========================================
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // Unix timestamp (ms)
}

// ResizeData - 뷰어가 보내는 뷰포트 크기
type ResizeData struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
