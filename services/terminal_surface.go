package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"robot-visualizer/models"
)

// TerminalSurface - tcell 화면에 씬 상태를 그리는 출력면
type TerminalSurface struct {
	screen tcell.Screen

	mu       sync.Mutex
	width    int
	height   int
	targets  models.VisualTargets
	onResize func(width, height int)
	closed   bool

	quit     chan struct{}
	quitOnce sync.Once
	events   chan struct{}
}

// NewTerminalSurface - 현재 터미널로 출력면 생성
func NewTerminalSurface() (*TerminalSurface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("터미널 화면 생성 실패: %w", err)
	}
	return NewTerminalSurfaceWithScreen(screen)
}

// NewTerminalSurfaceWithScreen - 주어진 화면 사용 (시뮬레이션 화면 등)
func NewTerminalSurfaceWithScreen(screen tcell.Screen) (*TerminalSurface, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("터미널 화면 초기화 실패: %w", err)
	}
	screen.Clear()

	ts := &TerminalSurface{
		screen: screen,
		quit:   make(chan struct{}),
		events: make(chan struct{}),
	}
	ts.width, ts.height = screen.Size()

	go ts.pollEvents()
	return ts, nil
}

// Quit - 사용자가 종료 키(Esc, q, Ctrl+C)를 누르면 닫힘
func (ts *TerminalSurface) Quit() <-chan struct{} {
	return ts.quit
}

// OnResize - 터미널 크기 변경 콜백 (nil 이면 해제)
func (ts *TerminalSurface) OnResize(fn func(width, height int)) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.onResize = fn
}

// pollEvents - 키/리사이즈 이벤트 처리 (Fini 후 nil 이벤트로 종료)
func (ts *TerminalSurface) pollEvents() {
	defer close(ts.events)

	for {
		ev := ts.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				ts.quitOnce.Do(func() { close(ts.quit) })
			}
		case *tcell.EventResize:
			width, height := ev.Size()
			ts.mu.Lock()
			onResize := ts.onResize
			ts.mu.Unlock()
			if onResize != nil {
				onResize(width, height)
			} else {
				ts.Resize(width, height)
			}
		}
	}
}

// ApplyVisualTargets - 다음 렌더에 쓸 목표값 보관
func (ts *TerminalSurface) ApplyVisualTargets(targets models.VisualTargets) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.targets = targets
}

// Resize - 화면 크기 갱신
func (ts *TerminalSurface) Resize(width, height int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.closed {
		return
	}
	ts.width, ts.height = width, height
	ts.screen.Sync()
}

// Size - 현재 그리기 영역
func (ts *TerminalSurface) Size() (int, int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.width, ts.height
}

// Render - 프레임 그리기
func (ts *TerminalSurface) Render(frame models.VisualFrame) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.closed {
		return nil
	}

	ts.screen.Clear()
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	dimStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	title := "🤖 Robot (대기 중)"
	if frame.RobotID != nil {
		title = fmt.Sprintf("🤖 Robot #%d", *frame.RobotID)
	}
	ts.drawText(0, 0, titleStyle, title)
	ts.drawText(0, 1, dimStyle, fmt.Sprintf("frame %d  %dx%d  yaw %.3f",
		frame.Frame, frame.Projection.Width, frame.Projection.Height, frame.Projection.Yaw))

	row := 3
	for _, node := range frame.Nodes {
		ts.drawNode(row, node)
		row++
	}

	row++
	ts.drawBattery(row, frame.BatteryLevel, ts.targets.GaugeEmissive)
	row++

	door := "닫힘"
	if frame.DoorOpen {
		door = "열림"
	}
	tram := "숨김"
	if frame.TramVisible {
		tram = "표시"
	}
	ts.drawText(0, row, tcell.StyleDefault, fmt.Sprintf("문: %s  트램: %s", door, tram))
	row++

	if frame.Message != "" {
		ts.drawText(0, row, tcell.StyleDefault.Foreground(tcell.ColorAqua), "💬 "+frame.Message)
		row++
	}
	if frame.LastError != "" {
		ts.drawText(0, row, tcell.StyleDefault.Foreground(tcell.ColorRed), "⚠️ "+frame.LastError)
	}

	ts.screen.Show()
	return nil
}

func (ts *TerminalSurface) drawNode(row int, node models.NodeState) {
	style := tcell.StyleDefault
	if node.Emissive != "" {
		if c, err := colorful.Hex(node.Emissive); err == nil {
			style = style.Foreground(tcellColor(c))
		}
	}
	swatch := "██"
	if !node.Visible {
		swatch = "  "
	}
	ts.drawText(0, row, style, swatch)

	detail := fmt.Sprintf(" %-14s %-20s", node.Name, node.Role)
	if node.Role == models.RoleDoor {
		detail += fmt.Sprintf(" %3.0f°", node.RotationDeg)
	}
	ts.drawText(2, row, tcell.StyleDefault, detail)
}

func (ts *TerminalSurface) drawBattery(row int, level float64, gauge *colorful.Color) {
	const barWidth = 20
	filled := int(level / 100 * barWidth)
	style := tcell.StyleDefault
	if gauge != nil {
		style = style.Foreground(tcellColor(*gauge))
	}
	ts.drawText(0, row, tcell.StyleDefault, "배터리")
	ts.drawText(7, row, style, strings.Repeat("█", filled)+strings.Repeat("░", barWidth-filled))
	ts.drawText(8+barWidth, row, tcell.StyleDefault, fmt.Sprintf("%5.1f%%", level))
}

// drawText - 화면 밖은 잘라냄
func (ts *TerminalSurface) drawText(x, y int, style tcell.Style, text string) {
	if y < 0 || y >= ts.height {
		return
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > ts.width {
			return
		}
		ts.screen.SetContent(x, y, r, nil, style)
		x += w
	}
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Close - 화면 복원 (이후 Render 는 무시)
func (ts *TerminalSurface) Close() error {
	ts.mu.Lock()
	if ts.closed {
		ts.mu.Unlock()
		return nil
	}
	ts.closed = true
	ts.onResize = nil
	ts.mu.Unlock()

	ts.screen.Fini()
	<-ts.events
	return nil
}
