package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"

	"robot-visualizer/models"
)

var (
	// ErrRobotMissing - 로봇이 아직 없음 (생성 후 재시도로 복구 가능)
	ErrRobotMissing = errors.New("robot missing")
	// ErrStoreClosed - 종료된 스토어 (진행 중이던 조회 결과는 버려짐)
	ErrStoreClosed = errors.New("status store closed")
)

// APIError - 로봇 API가 돌려준 명시적 에러 페이로드
type APIError struct {
	Op      string // "read" | "create"
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("robot %s 오류: %s", e.Op, e.Message)
}

// Is - 로봇 없음 계열 메시지면 ErrRobotMissing 으로 취급
func (e *APIError) Is(target error) bool {
	return target == ErrRobotMissing && IsEntityMissing(e.Message)
}

// 로봇 없음 계열 메시지 ("unavailable" 같은 단어 일부는 제외)
var entityMissingPattern = regexp.MustCompile(`(?i)\bout of range\b|\bno\b[^.]*?\bavailable\b|\bnot available\b`)

// IsEntityMissing - "로봇 없음 / ID 범위 밖" 계열 메시지인지
func IsEntityMissing(msg string) bool {
	return entityMissingPattern.MatchString(msg)
}

// StatusStore - 마지막으로 성공한 상태 레코드 보관 + 조회/생성-재시도 흐름
type StatusStore struct {
	transport    StatusTransport
	createParams models.CreateParams

	mu       sync.RWMutex
	current  *models.StatusRecord
	robotID  int
	lastErr  string
	closed   bool
	onChange func(prev, next *models.StatusRecord)
}

// NewStatusStore - 스토어 생성
func NewStatusStore(transport StatusTransport, robotID int) *StatusStore {
	return &StatusStore{
		transport: transport,
		robotID:   robotID,
	}
}

// SetCreateParams - 로봇 생성 시 사용할 초기값
func (s *StatusStore) SetCreateParams(params models.CreateParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createParams = params
}

// OnChange - 레코드 교체 시 호출될 콜백 등록
func (s *StatusStore) OnChange(fn func(prev, next *models.StatusRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Current - 현재 레코드 (없으면 nil)
func (s *StatusStore) Current() *models.StatusRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// RobotID - 현재 조회 대상 로봇 ID
func (s *StatusStore) RobotID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.robotID
}

// LastError - 마지막 조회 실패 메시지 (표시용)
func (s *StatusStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Refresh - 현재 로봇 ID로 조회 (생성 허용)
func (s *StatusStore) Refresh(ctx context.Context) (*models.StatusRecord, error) {
	return s.Load(ctx, s.RobotID(), true)
}

// Load - 상태 조회
//
// 로봇이 없다는 응답이면 allowCreate 일 때 한 번 생성하고,
// 생성된 ID로 allowCreate=false 조회를 한 번 더 한다.
// 한 번의 호출에서 생성은 최대 1회, 조회는 최대 2회다.
func (s *StatusStore) Load(ctx context.Context, robotID int, allowCreate bool) (*models.StatusRecord, error) {
	record, err := s.load(ctx, robotID, allowCreate)
	if err != nil {
		s.recordError(err)
		return nil, err
	}
	return record, nil
}

func (s *StatusStore) load(ctx context.Context, robotID int, allowCreate bool) (*models.StatusRecord, error) {
	res, err := s.transport.Read(ctx, robotID)

	var failure string
	switch {
	case err != nil:
		if !IsEntityMissing(err.Error()) {
			return nil, fmt.Errorf("로봇 %d 상태 조회 실패: %w", robotID, err)
		}
		failure = err.Error()
	case res == nil:
		return nil, fmt.Errorf("로봇 %d 상태 조회 실패: %w", robotID, models.ErrMalformedStatus)
	case res.Error != "":
		failure = res.Error
	case res.Status == nil:
		return nil, fmt.Errorf("로봇 %d 상태 조회 실패: %w", robotID, models.ErrMalformedStatus)
	default:
		if err := s.replace(robotID, res.Status); err != nil {
			return nil, err
		}
		return res.Status, nil
	}

	if !allowCreate {
		return nil, &APIError{Op: "read", Message: failure}
	}

	s.mu.RLock()
	params := s.createParams
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, ErrStoreClosed
	}

	log.Printf("🛠️ 로봇 %d 없음 (%s) → 생성 후 재조회", robotID, failure)

	created, err := s.transport.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("로봇 생성 실패: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("로봇 생성 실패: %w", models.ErrMalformedStatus)
	}
	if created.Error != "" {
		return nil, &APIError{Op: "create", Message: created.Error}
	}
	if created.RobotID == nil {
		return nil, fmt.Errorf("로봇 생성 응답에 robot_id 없음: %w", models.ErrMalformedStatus)
	}

	log.Printf("✅ 로봇 생성 완료 (robot_id=%d)", *created.RobotID)
	return s.load(ctx, *created.RobotID, false)
}

// replace - 레코드 통째로 교체 (스토어가 닫혔으면 버림)
func (s *StatusStore) replace(robotID int, next *models.StatusRecord) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	prev := s.current
	s.current = next
	s.robotID = robotID
	s.lastErr = ""
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(prev, next)
	}
	return nil
}

func (s *StatusStore) recordError(err error) {
	if errors.Is(err, ErrStoreClosed) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.lastErr = err.Error()
	}
}

// Close - 스토어 종료 (이후 도착하는 조회 결과는 반영하지 않음)
func (s *StatusStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
