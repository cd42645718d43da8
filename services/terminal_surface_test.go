package services

import (
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-visualizer/models"
)

func newSimSurface(t *testing.T) (*TerminalSurface, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	ts, err := NewTerminalSurfaceWithScreen(screen)
	require.NoError(t, err)
	screen.SetSize(80, 24)
	ts.Resize(80, 24)
	t.Cleanup(func() { _ = ts.Close() })
	return ts, screen
}

func rowText(screen tcell.Screen, y, width int) string {
	out := make([]rune, 0, width)
	for x := 0; x < width; {
		r, _, _, _ := screen.GetContent(x, y)
		out = append(out, r)
		if w := runewidth.RuneWidth(r); w > 1 {
			x += w
			continue
		}
		x++
	}
	return string(out)
}

func TestTerminalSurfaceRendersFrame(t *testing.T) {
	ts, screen := newSimSurface(t)

	gauge := ColorAmber
	ts.ApplyVisualTargets(models.VisualTargets{GaugeEmissive: &gauge})
	err := ts.Render(models.VisualFrame{
		RobotID:      intPtr(3),
		Frame:        12,
		DoorOpen:     true,
		TramVisible:  true,
		BatteryLevel: 75,
		Message:      "hello",
		LastError:    "timeout",
		Nodes: []models.NodeState{
			{Name: "light_a", Role: models.RoleLight, Emissive: "#ff0000", Visible: true},
			{Name: "Door_Left", Role: models.RoleDoor, RotationDeg: 90, Visible: true},
		},
		Projection: models.Projection{Width: 80, Height: 24},
	})
	require.NoError(t, err)

	assert.Contains(t, rowText(screen, 0, 40), "Robot #3")
	assert.Contains(t, rowText(screen, 1, 40), "frame 12")
	assert.Contains(t, rowText(screen, 3, 60), "light_a")
	assert.Contains(t, rowText(screen, 4, 60), "Door_Left")
	assert.Contains(t, rowText(screen, 4, 60), "90")

	swatch, _, _, _ := screen.GetContent(0, 3)
	assert.Equal(t, '█', swatch)

	assert.Contains(t, rowText(screen, 6, 40), "75.0%")
	assert.Contains(t, rowText(screen, 7, 40), "열림")
	assert.Contains(t, rowText(screen, 8, 40), "hello")
	assert.Contains(t, rowText(screen, 9, 40), "timeout")
}

func TestTerminalSurfaceClipsToWidth(t *testing.T) {
	ts, screen := newSimSurface(t)
	ts.Resize(10, 24)

	require.NoError(t, ts.Render(models.VisualFrame{Message: "a very long message that does not fit"}))
	r, _, _, _ := screen.GetContent(10, 0)
	assert.Equal(t, ' ', r)
}

func TestTerminalSurfaceResizeEvent(t *testing.T) {
	ts, screen := newSimSurface(t)

	var mu sync.Mutex
	var got [2]int
	ts.OnResize(func(w, h int) {
		mu.Lock()
		defer mu.Unlock()
		got = [2]int{w, h}
	})

	require.NoError(t, screen.PostEvent(tcell.NewEventResize(100, 40)))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got == [2]int{100, 40}
	}, time.Second, 5*time.Millisecond)
}

func TestTerminalSurfaceQuitKey(t *testing.T) {
	ts, screen := newSimSurface(t)

	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	select {
	case <-ts.Quit():
	case <-time.After(time.Second):
		t.Fatal("quit 채널이 닫히지 않음")
	}
}

func TestTerminalSurfaceCloseIsIdempotent(t *testing.T) {
	ts, _ := newSimSurface(t)

	require.NoError(t, ts.Close())
	require.NoError(t, ts.Close())
	assert.NoError(t, ts.Render(models.VisualFrame{}))
	assert.NotPanics(t, func() { ts.Resize(10, 10) })
}
