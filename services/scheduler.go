package services

import (
	"log"
	"math"
	"sync"
	"time"

	"robot-visualizer/models"
)

// 카메라 기본값
const (
	AutoRotateStep = 0.002 // rad/frame
	DefaultFOV     = 75.0
)

// RenderSurface - 카메라/렌더러를 소유하고 씬을 그리는 출력면
type RenderSurface interface {
	ApplyVisualTargets(targets models.VisualTargets)
	Resize(width, height int)
	Render(frame models.VisualFrame) error
	Close() error
}

// ResizeSource - 리사이즈 이벤트를 내보내는 출력면 (nil 등록 시 해제)
type ResizeSource interface {
	OnResize(fn func(width, height int))
}

// StatusSource - 프레임 루프가 읽는 현재 상태
type StatusSource interface {
	Current() *models.StatusRecord
	LastError() string
}

// AssetKind - 로드된 에셋 종류
type AssetKind string

const (
	AssetRobot AssetKind = "robot"
	AssetTram  AssetKind = "tram"
)

// LoadedAsset - 로더 고루틴 → 프레임 루프로 전달되는 에셋
type LoadedAsset struct {
	Kind   AssetKind
	Root   *models.Node
	Groups *models.SceneNodeGroups // 로봇 에셋만
}

// FrameScheduler - 프레임 루프 (카메라 → 엔진 → 적용 → 렌더)
type FrameScheduler struct {
	sessionID  string
	engine     *VisualEngine
	applier    SceneApplier
	source     StatusSource
	surface    RenderSurface
	clock      Clock
	interval   time.Duration
	autoRotate bool
	start      time.Time

	assets chan LoadedAsset

	// 프레임 실행 중 보호 (씬 노드/엔진 상태)
	frameMu   sync.Mutex
	robotRoot *models.Node
	groups    *models.SceneNodeGroups
	tram      *models.Node
	stopped   bool
	renderErr string

	// 프로젝션/통계 보호
	mu          sync.RWMutex
	projection  models.Projection
	frames      uint64
	lastTargets models.VisualTargets

	runMu    sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewFrameScheduler - 스케줄러 생성
func NewFrameScheduler(sessionID string, source StatusSource, surface RenderSurface, clock Clock, fps int, autoRotate bool) *FrameScheduler {
	if fps <= 0 {
		fps = 30
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &FrameScheduler{
		sessionID:  sessionID,
		engine:     NewVisualEngine(),
		source:     source,
		surface:    surface,
		clock:      clock,
		interval:   time.Second / time.Duration(fps),
		autoRotate: autoRotate,
		start:      clock.Now(),
		assets:     make(chan LoadedAsset, 4),
		projection: models.Projection{FOV: DefaultFOV, Aspect: 1},
	}
}

// DeliverAsset - 로드된 에셋을 다음 프레임에 반영하도록 전달
func (s *FrameScheduler) DeliverAsset(asset LoadedAsset) {
	select {
	case s.assets <- asset:
	default:
		log.Printf("⚠️ 에셋 대기열 가득 참, %s 에셋 버림", asset.Kind)
	}
}

// Start - 루프 고루틴 시작
func (s *FrameScheduler) Start() {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	log.Printf("🎬 프레임 루프 시작 (%v 간격)", s.interval)
	go s.run(s.stopChan, s.done)
}

// Stop - 루프 중지
//
// 반환 이후에는 어떤 프레임도 실행되지 않는다.
func (s *FrameScheduler) Stop() {
	s.runMu.Lock()
	if s.running {
		s.running = false
		close(s.stopChan)
		<-s.done
	}
	s.runMu.Unlock()

	s.frameMu.Lock()
	s.stopped = true
	s.frameMu.Unlock()
	log.Println("🛑 프레임 루프 중지")
}

func (s *FrameScheduler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// 중지 요청과 틱이 동시에 준비되면 중지를 우선
			select {
			case <-stop:
				return
			default:
			}
			s.Tick()
		}
	}
}

// Tick - 한 프레임 실행 (중지된 뒤에는 아무것도 하지 않음)
func (s *FrameScheduler) Tick() {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if s.stopped {
		return
	}

	s.drainAssets()

	// 1. 카메라
	projection := s.advanceCamera()

	// 2. 엔진
	status := s.source.Current()
	targets := s.engine.Step(status, s.clock.Now().Sub(s.start))

	// 3. 씬에 적용
	s.applier.Apply(s.groups, s.tram, targets)
	s.surface.ApplyVisualTargets(targets)

	s.mu.Lock()
	s.frames++
	frameNo := s.frames
	s.lastTargets = targets
	s.mu.Unlock()

	// 4. 렌더
	frame := s.snapshot(frameNo, status, targets, projection)
	if err := s.surface.Render(frame); err != nil {
		if err.Error() != s.renderErr {
			log.Printf("❌ 렌더 실패: %v", err)
		}
		s.renderErr = err.Error()
	} else {
		s.renderErr = ""
	}
}

func (s *FrameScheduler) drainAssets() {
	for {
		select {
		case asset := <-s.assets:
			switch asset.Kind {
			case AssetRobot:
				s.robotRoot = asset.Root
				s.groups = asset.Groups
			case AssetTram:
				s.tram = asset.Root
			}
		default:
			return
		}
	}
}

func (s *FrameScheduler) advanceCamera() models.Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autoRotate {
		s.projection.Yaw = math.Mod(s.projection.Yaw+AutoRotateStep, 2*math.Pi)
	}
	return s.projection
}

// snapshot - 렌더용 프레임 구성 (역할이 있는 노드 + 트램)
func (s *FrameScheduler) snapshot(frameNo uint64, status *models.StatusRecord, t models.VisualTargets, projection models.Projection) models.VisualFrame {
	frame := models.VisualFrame{
		SessionID:    s.sessionID,
		Frame:        frameNo,
		TramVisible:  t.TramVisible,
		DoorOpen:     t.DoorOpen,
		BatteryLevel: t.BatteryLevel,
		LastError:    s.source.LastError(),
		Projection:   projection,
		Timestamp:    s.clock.Now().UnixMilli(),
	}
	if status != nil {
		frame.RobotID = status.RobotID
		frame.Message = status.MessageText()
	}

	s.robotRoot.Traverse(func(node *models.Node) {
		if !node.IsMesh || node.Role == models.RoleNone {
			return
		}
		frame.Nodes = append(frame.Nodes, nodeState(node))
	})
	if s.tram != nil {
		state := nodeState(s.tram)
		state.Role = models.RoleTram
		frame.Nodes = append(frame.Nodes, state)
	}
	return frame
}

func nodeState(node *models.Node) models.NodeState {
	return models.NodeState{
		Name:        node.Name,
		Role:        node.Role,
		Emissive:    node.EmissiveHex(),
		RotationDeg: node.RotationDeg,
		Visible:     node.Visible,
	}
}

// Resize - 프로젝션 즉시 재계산 (다음 프레임을 기다리지 않음)
func (s *FrameScheduler) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	s.projection.Width = width
	s.projection.Height = height
	s.projection.Aspect = float64(width) / float64(height)
	s.mu.Unlock()

	s.surface.Resize(width, height)
}

// Projection - 현재 프로젝션
func (s *FrameScheduler) Projection() models.Projection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projection
}

// Frames - 실행된 프레임 수
func (s *FrameScheduler) Frames() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}

// LastTargets - 마지막 프레임의 목표값
func (s *FrameScheduler) LastTargets() models.VisualTargets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTargets
}

// Running - 루프 동작 여부
func (s *FrameScheduler) Running() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.running
}
