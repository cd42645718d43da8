package services

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"robot-visualizer/models"
)

// SessionStatus - 세션 상태 요약 (API 응답용)
type SessionStatus struct {
	SessionID   string               `json:"session_id"`
	RobotID     int                  `json:"robot_id"`
	HasStatus   bool                 `json:"has_status"`
	LastError   string               `json:"last_error,omitempty"`
	Frames      uint64               `json:"frames"`
	Running     bool                 `json:"running"`
	Degraded    bool                 `json:"degraded"`
	AssetErrors []string             `json:"asset_errors,omitempty"`
	Targets     models.VisualTargets `json:"targets"`
	Projection  models.Projection    `json:"projection"`
}

// VisualizerSession - 씬/상태/타이머 한 벌을 소유하는 시각화 세션
//
// 세션끼리는 아무것도 공유하지 않으므로 여러 개를 동시에 띄울 수 있다.
type VisualizerSession struct {
	ID string

	cfg       VisualizerConfig
	registry  *SceneRegistry
	store     *StatusStore
	poller    *StatusPoller
	scheduler *FrameScheduler
	surface   RenderSurface
	loadAsset func(path string) (*models.Node, error)

	mu          sync.Mutex
	assetErrors []string
	lastLogged  string

	closeOnce sync.Once
}

// NewVisualizerSession - 세션 구성 (Start 전까지 아무것도 실행하지 않음)
func NewVisualizerSession(cfg VisualizerConfig, transport StatusTransport, surface RenderSurface, clock Clock) *VisualizerSession {
	id := uuid.NewString()
	store := NewStatusStore(transport, cfg.RobotID)

	s := &VisualizerSession{
		ID:        id,
		cfg:       cfg,
		registry:  NewSceneRegistry(),
		store:     store,
		poller:    NewStatusPoller(store, cfg.PollInterval),
		scheduler: NewFrameScheduler(id, store, surface, clock, cfg.FPS, cfg.AutoRotate),
		surface:   surface,
		loadAsset: LoadSceneFile,
	}

	store.OnChange(func(prev, next *models.StatusRecord) {
		LogStatusTransition(id, prev, next)
	})
	s.poller.OnError(s.logLoadFailure)
	return s
}

// Store - 세션의 상태 스토어
func (s *VisualizerSession) Store() *StatusStore {
	return s.store
}

// Scheduler - 세션의 프레임 스케줄러
func (s *VisualizerSession) Scheduler() *FrameScheduler {
	return s.scheduler
}

// Start - 에셋 비동기 로드, 프레임 루프, 폴링 시작
func (s *VisualizerSession) Start(ctx context.Context) {
	log.Printf("🚀 시각화 세션 시작 (session=%s, robot_id=%d)", s.ID, s.cfg.RobotID)

	if rs, ok := s.surface.(ResizeSource); ok {
		rs.OnResize(s.scheduler.Resize)
	}
	s.scheduler.Start()
	go s.loadAssets()
	s.poller.Start(ctx)
}

// loadAssets - 로봇/트램 에셋 로드
//
// 실패해도 세션은 계속 동작하고 해당 규칙들만 적용되지 않는다.
func (s *VisualizerSession) loadAssets() {
	if root, ok := s.load(AssetRobot, s.cfg.RobotAsset); ok {
		groups := s.registry.Classify(root)
		s.scheduler.DeliverAsset(LoadedAsset{Kind: AssetRobot, Root: root, Groups: groups})
	}
	if root, ok := s.load(AssetTram, s.cfg.TramAsset); ok {
		s.scheduler.DeliverAsset(LoadedAsset{Kind: AssetTram, Root: root})
	}
}

func (s *VisualizerSession) load(kind AssetKind, path string) (*models.Node, bool) {
	if path == "" {
		return nil, false
	}
	root, err := s.loadAsset(path)
	if err != nil {
		log.Printf("⚠️ %s 에셋 로드 실패 (%s): %v", kind, path, err)
		s.mu.Lock()
		s.assetErrors = append(s.assetErrors, err.Error())
		s.mu.Unlock()
		return nil, false
	}
	log.Printf("📦 %s 에셋 로드 완료: %s", kind, path)
	return root, true
}

// logLoadFailure - 같은 실패가 반복되면 한 번만 기록
func (s *VisualizerSession) logLoadFailure(err error) {
	msg := err.Error()
	s.mu.Lock()
	if msg == s.lastLogged {
		s.mu.Unlock()
		return
	}
	s.lastLogged = msg
	s.mu.Unlock()

	LogRobotEvent(s.ID, s.store.RobotID(), models.EventLoadFailed, msg)
}

// Status - 현재 세션 상태
func (s *VisualizerSession) Status() SessionStatus {
	s.mu.Lock()
	assetErrors := append([]string(nil), s.assetErrors...)
	s.mu.Unlock()

	return SessionStatus{
		SessionID:   s.ID,
		RobotID:     s.store.RobotID(),
		HasStatus:   s.store.Current() != nil,
		LastError:   s.store.LastError(),
		Frames:      s.scheduler.Frames(),
		Running:     s.scheduler.Running(),
		Degraded:    len(assetErrors) > 0,
		AssetErrors: assetErrors,
		Targets:     s.scheduler.LastTargets(),
		Projection:  s.scheduler.Projection(),
	}
}

// Close - 세션 종료
//
// 순서: 프레임 루프 중지 → 리사이즈 해제 → 출력면 해제 → 스토어 종료 → 폴링 중지
func (s *VisualizerSession) Close() {
	s.closeOnce.Do(func() {
		s.scheduler.Stop()
		if rs, ok := s.surface.(ResizeSource); ok {
			rs.OnResize(nil)
		}
		if err := s.surface.Close(); err != nil {
			log.Printf("⚠️ 출력면 해제 실패: %v", err)
		}
		s.store.Close()
		s.poller.Stop()
		log.Printf("🛑 시각화 세션 종료 (session=%s)", s.ID)
	})
}
