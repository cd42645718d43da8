package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"robot-visualizer/models"
)

// LowBatteryThreshold - 배터리 부족 이벤트 기준 (%)
const LowBatteryThreshold = 20.0

// ErrLoggingDisabled - DB 없이 로그 조회
var ErrLoggingDisabled = errors.New("database not initialized")

// 로깅 버퍼 (비동기 일괄 처리)
type LogBuffer struct {
	logs      []models.RobotLog
	mu        sync.Mutex
	flushSize int           // 일괄 저장 크기
	flushTime time.Duration // 자동 플러시 시간
	stopChan  chan bool
	done      chan struct{}
}

var (
	logBuffer   *LogBuffer
	logBufferMu sync.RWMutex
)

// InitLogging - 로깅 시스템 초기화
func InitLogging(flushSize int, flushInterval time.Duration) {
	if flushSize <= 0 {
		flushSize = 50
	}
	if flushInterval <= 0 {
		flushInterval = 10 * time.Second
	}

	lb := &LogBuffer{
		logs:      make([]models.RobotLog, 0, flushSize*2),
		flushSize: flushSize,
		flushTime: flushInterval,
		stopChan:  make(chan bool),
		done:      make(chan struct{}),
	}

	logBufferMu.Lock()
	logBuffer = lb
	logBufferMu.Unlock()

	// 자동 플러시 고루틴 시작
	go lb.autoFlush()

	log.Printf("✅ 로깅 시스템 초기화 완료 (flushSize: %d, flushInterval: %v)", flushSize, flushInterval)
}

func currentBuffer() *LogBuffer {
	logBufferMu.RLock()
	defer logBufferMu.RUnlock()
	return logBuffer
}

// autoFlush - 주기적 로그 저장
func (lb *LogBuffer) autoFlush() {
	defer close(lb.done)

	ticker := time.NewTicker(lb.flushTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lb.Flush()
		case <-lb.stopChan:
			lb.Flush() // 종료 시 남은 로그 저장
			return
		}
	}
}

// AddLog - 로그 버퍼에 추가 (비동기)
func AddLog(entry models.RobotLog) {
	lb := currentBuffer()
	if lb == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	lb.mu.Lock()
	lb.logs = append(lb.logs, entry)
	size := len(lb.logs)
	lb.mu.Unlock()

	// 버퍼 크기가 차면 즉시 플러시
	if size >= lb.flushSize {
		go lb.Flush()
	}
}

// Flush - 버퍼의 모든 로그를 DB에 저장
func (lb *LogBuffer) Flush() {
	lb.mu.Lock()
	if len(lb.logs) == 0 {
		lb.mu.Unlock()
		return
	}

	// 로그 복사 및 버퍼 초기화
	logsToSave := make([]models.RobotLog, len(lb.logs))
	copy(logsToSave, lb.logs)
	lb.logs = lb.logs[:0]
	lb.mu.Unlock()

	conn := GetDB()
	if conn == nil {
		return
	}
	if err := conn.CreateInBatches(logsToSave, 100).Error; err != nil {
		log.Printf("❌ 로그 저장 실패: %v", err)
		return
	}
	log.Printf("💾 로그 %d개 저장 완료", len(logsToSave))
}

// FlushLogs - 버퍼 즉시 저장
func FlushLogs() {
	if lb := currentBuffer(); lb != nil {
		lb.Flush()
	}
}

// StopLogging - 로깅 시스템 종료 (남은 로그 저장 후 반환)
func StopLogging() {
	logBufferMu.Lock()
	lb := logBuffer
	logBuffer = nil
	logBufferMu.Unlock()

	if lb == nil {
		return
	}
	lb.stopChan <- true
	<-lb.done
	log.Println("🛑 로깅 시스템 종료")
}

// newStatusLog - 상태 레코드로 로그 엔트리 구성
func newStatusLog(sessionID, eventType string, status *models.StatusRecord) models.RobotLog {
	entry := models.RobotLog{
		CreatedAt: time.Now(),
		EventType: eventType,
		SessionID: sessionID,
	}
	if status == nil {
		return entry
	}
	if id, ok := status.ID(); ok {
		entry.RobotID = id
	}
	entry.IsParked = status.IsParked
	entry.IsDoorOpened = status.IsDoorOpened
	entry.IsReversing = status.IsReversing
	entry.IsCharging = status.IsCharging
	entry.BatteryLevel = status.BatteryLevel.Percent()
	entry.Message = status.MessageText()
	if data, err := json.Marshal(status); err == nil {
		entry.DataJSON = string(data)
	}
	return entry
}

// StatusTransitions - 이전/다음 상태 비교로 발생한 이벤트 목록
//
// 이전 상태가 없으면 status_update 하나만 돌려준다.
func StatusTransitions(prev, next *models.StatusRecord) []string {
	if next == nil {
		return nil
	}
	if prev == nil {
		return []string{models.EventStatusUpdate}
	}

	var events []string
	edge := func(before, after bool, on, off string) {
		if before == after {
			return
		}
		if after {
			events = append(events, on)
		} else {
			events = append(events, off)
		}
	}
	edge(prev.IsDoorOpened, next.IsDoorOpened, models.EventDoorOpened, models.EventDoorClosed)
	edge(prev.IsReversing, next.IsReversing, models.EventReversingStart, models.EventReversingStop)
	edge(prev.IsCharging, next.IsCharging, models.EventChargingStart, models.EventChargingStop)
	edge(prev.IsParked, next.IsParked, models.EventParked, models.EventUnparked)

	if prev.BatteryLevel.Percent() > LowBatteryThreshold && next.BatteryLevel.Percent() <= LowBatteryThreshold {
		events = append(events, models.EventLowBattery)
	}
	return events
}

// LogStatusTransition - 상태 교체 시 전이 이벤트 기록
func LogStatusTransition(sessionID string, prev, next *models.StatusRecord) {
	for _, event := range StatusTransitions(prev, next) {
		AddLog(newStatusLog(sessionID, event, next))
	}
}

// LogRobotEvent - 상태 없이 이벤트만 기록 (조회 실패, 로봇 생성 등)
func LogRobotEvent(sessionID string, robotID int, eventType, message string) {
	AddLog(models.RobotLog{
		CreatedAt: time.Now(),
		EventType: eventType,
		SessionID: sessionID,
		RobotID:   robotID,
		Message:   message,
	})
}

// GetRecentLogs - 최근 로그 조회
func GetRecentLogs(robotID int, limit int) ([]models.RobotLog, error) {
	conn := GetDB()
	if conn == nil {
		return nil, ErrLoggingDisabled
	}
	var logs []models.RobotLog
	err := conn.Where("robot_id = ?", robotID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// GetLogsByTimeRange - 시간 범위로 로그 조회
func GetLogsByTimeRange(robotID int, start, end time.Time, limit int) ([]models.RobotLog, error) {
	conn := GetDB()
	if conn == nil {
		return nil, ErrLoggingDisabled
	}
	var logs []models.RobotLog
	query := conn.Where("robot_id = ? AND created_at BETWEEN ? AND ?", robotID, start, end)

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Order("created_at DESC").Find(&logs).Error
	return logs, err
}

// GetLogsByEventType - 이벤트 타입별 로그 조회
func GetLogsByEventType(robotID int, eventType string, limit int) ([]models.RobotLog, error) {
	conn := GetDB()
	if conn == nil {
		return nil, ErrLoggingDisabled
	}
	var logs []models.RobotLog
	err := conn.Where("robot_id = ? AND event_type = ?", robotID, eventType).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// GetLogStats - 로그 통계
func GetLogStats(robotID int, hours int) (map[string]interface{}, error) {
	conn := GetDB()
	if conn == nil {
		return nil, ErrLoggingDisabled
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	var totalLogs int64
	if err := conn.Model(&models.RobotLog{}).
		Where("robot_id = ? AND created_at >= ?", robotID, since).
		Count(&totalLogs).Error; err != nil {
		return nil, err
	}

	// 이벤트 타입별 카운트
	var eventCounts []struct {
		EventType string
		Count     int64
	}
	if err := conn.Model(&models.RobotLog{}).
		Select("event_type, COUNT(*) as count").
		Where("robot_id = ? AND created_at >= ?", robotID, since).
		Group("event_type").
		Scan(&eventCounts).Error; err != nil {
		return nil, err
	}

	eventMap := make(map[string]int64)
	for _, ec := range eventCounts {
		eventMap[ec.EventType] = ec.Count
	}

	return map[string]interface{}{
		"total_logs":   totalLogs,
		"event_counts": eventMap,
		"time_range":   fmt.Sprintf("Last %d hours", hours),
	}, nil
}
