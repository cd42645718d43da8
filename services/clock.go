package services

import (
	"sync"
	"time"
)

// Clock - 현재 시각 제공자 (테스트에서 교체)
type Clock interface {
	Now() time.Time
}

// RealClock - 벽시계
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// MockClock - 수동으로 전진시키는 시계
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock - 주어진 시각에서 시작
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance - d 만큼 시간 전진
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set - 시각 지정
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
