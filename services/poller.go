package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// StatusPoller - 주기적으로 StatusStore 갱신
type StatusPoller struct {
	store    *StatusStore
	interval time.Duration

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
	onError  func(err error)
}

// NewStatusPoller - 폴러 생성
func NewStatusPoller(store *StatusStore, interval time.Duration) *StatusPoller {
	return &StatusPoller{
		store:    store,
		interval: interval,
	}
}

// OnError - 조회 실패 시 호출될 콜백 등록
func (p *StatusPoller) OnError(fn func(err error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = fn
}

// Start - 즉시 한 번 조회 후 interval 마다 반복
func (p *StatusPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stopChan = make(chan struct{})

	go p.run(ctx, p.stopChan)
}

// Stop - 다음 조회를 예약하지 않음
//
// 진행 중인 조회는 기다리지 않는다. 끝까지 수행되지만 닫힌 스토어가 결과를 버린다.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	close(p.stopChan)
}

func (p *StatusPoller) run(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *StatusPoller) poll(ctx context.Context) {
	_, err := p.store.Refresh(ctx)
	if err == nil || ctx.Err() != nil || errors.Is(err, ErrStoreClosed) {
		return
	}
	log.Printf("⚠️ 로봇 상태 조회 실패: %v", err)

	p.mu.Lock()
	onError := p.onError
	p.mu.Unlock()
	if onError != nil {
		onError(err)
	}
}
