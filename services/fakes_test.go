package services

import (
	"context"
	"sync"

	"robot-visualizer/models"
)

type fakeTransport struct {
	mu       sync.Mutex
	readFn   func(ctx context.Context, id int) (*models.ReadResult, error)
	createFn func(p models.CreateParams) (*models.CreateResult, error)
	reads    []int
	creates  int
}

func (f *fakeTransport) Read(ctx context.Context, id int) (*models.ReadResult, error) {
	f.mu.Lock()
	f.reads = append(f.reads, id)
	fn := f.readFn
	f.mu.Unlock()
	return fn(ctx, id)
}

func (f *fakeTransport) Create(_ context.Context, p models.CreateParams) (*models.CreateResult, error) {
	f.mu.Lock()
	f.creates++
	fn := f.createFn
	f.mu.Unlock()
	if fn == nil {
		return &models.CreateResult{Error: "create not supported"}, nil
	}
	return fn(p)
}

func (f *fakeTransport) counts() (reads, creates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reads), f.creates
}

type fakeSurface struct {
	mu       sync.Mutex
	targets  []models.VisualTargets
	frames   []models.VisualFrame
	resizes  [][2]int
	closed   bool
	onResize func(w, h int)
}

func (s *fakeSurface) ApplyVisualTargets(t models.VisualTargets) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = append(s.targets, t)
}

func (s *fakeSurface) Resize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizes = append(s.resizes, [2]int{w, h})
}

func (s *fakeSurface) Render(frame models.VisualFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, frame)
	return nil
}

func (s *fakeSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSurface) OnResize(fn func(w, h int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResize = fn
}

func (s *fakeSurface) frameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *fakeSurface) lastFrame() models.VisualFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames[len(s.frames)-1]
}

func (s *fakeSurface) resizeHandler() func(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onResize
}

func (s *fakeSurface) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type staticSource struct {
	mu     sync.Mutex
	status *models.StatusRecord
	err    string
}

func (s *staticSource) Current() *models.StatusRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *staticSource) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *staticSource) set(status *models.StatusRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func robotStatus(id int) *models.StatusRecord {
	return &models.StatusRecord{RobotID: intPtr(id), BatteryLevel: 80}
}
