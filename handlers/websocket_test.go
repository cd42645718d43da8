package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-visualizer/models"
)

type fakeConn struct {
	inbox  chan []byte
	closed chan struct{}
	once   sync.Once

	mu      sync.Mutex
	written []models.WebSocketMessage
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbox: make(chan []byte, 8), closed: make(chan struct{})}
}

func (c *fakeConn) send(t *testing.T, msg models.WebSocketMessage) {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	c.inbox <- raw
}

func (c *fakeConn) ReadJSON(v interface{}) error {
	select {
	case raw := <-c.inbox:
		return json.Unmarshal(raw, v)
	case <-c.closed:
		return errors.New("connection closed")
	}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	select {
	case <-c.closed:
		return errors.New("connection closed")
	default:
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var msg models.WebSocketMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, msg)
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}
}

func (c *fakeConn) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.written))
	for _, m := range c.written {
		out = append(out, m.Type)
	}
	return out
}

func startManager(t *testing.T) *ClientManager {
	t.Helper()
	manager := NewClientManager()
	go manager.Start()
	t.Cleanup(manager.Stop)
	return manager
}

func serve(manager *ClientManager, surface *WebSurface, conn *fakeConn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		serveViewer(manager, surface, conn)
	}()
	return done
}

func testFrame(battery float64) models.VisualFrame {
	return models.VisualFrame{
		Frame:        1,
		BatteryLevel: battery,
		Nodes:        []models.NodeState{{Name: "light_a", Role: models.RoleLight, Emissive: "#ff0000", Visible: true}},
	}
}

func TestServeViewerSendsWelcomeAndLastFrame(t *testing.T) {
	manager := startManager(t)
	surface := NewWebSurface(manager)
	require.NoError(t, surface.Render(testFrame(50)))
	// 클라이언트가 없을 때의 브로드캐스트가 먼저 처리되도록
	assert.Eventually(t, func() bool { return len(manager.broadcast) == 0 }, time.Second, time.Millisecond)

	conn := newFakeConn()
	done := serve(manager, surface, conn)

	assert.Eventually(t, func() bool { return manager.GetClientCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{models.MessageTypeSystemInfo, models.MessageTypeVisualFrame}, conn.types())

	require.NoError(t, conn.Close())
	<-done
	assert.Eventually(t, func() bool { return manager.GetClientCount() == 0 }, time.Second, time.Millisecond)
}

func TestServeViewerResizeRequest(t *testing.T) {
	manager := startManager(t)
	surface := NewWebSurface(manager)

	resized := make(chan models.ResizeData, 1)
	surface.OnResize(func(w, h int) { resized <- models.ResizeData{Width: w, Height: h} })

	conn := newFakeConn()
	done := serve(manager, surface, conn)

	conn.send(t, models.WebSocketMessage{Type: models.MessageTypePing})
	conn.send(t, models.WebSocketMessage{Type: models.MessageTypeResize, Data: map[string]int{"width": 0, "height": 10}})
	conn.send(t, models.WebSocketMessage{Type: models.MessageTypeResize, Data: map[string]int{"width": 640, "height": 480}})

	select {
	case size := <-resized:
		assert.Equal(t, models.ResizeData{Width: 640, Height: 480}, size)
	case <-time.After(time.Second):
		t.Fatal("resize 요청이 전달되지 않음")
	}

	require.NoError(t, conn.Close())
	<-done
}

func TestWebSurfaceBroadcastsOnlyChanges(t *testing.T) {
	manager := startManager(t)
	surface := NewWebSurface(manager)

	conn := newFakeConn()
	done := serve(manager, surface, conn)
	assert.Eventually(t, func() bool { return manager.GetClientCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, surface.Render(testFrame(50)))
	same := testFrame(50)
	same.Frame = 2
	require.NoError(t, surface.Render(same))
	require.NoError(t, surface.Render(testFrame(40)))

	assert.Eventually(t, func() bool { return len(conn.types()) == 3 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{
		models.MessageTypeSystemInfo,
		models.MessageTypeVisualFrame,
		models.MessageTypeVisualFrame,
	}, conn.types())

	last, ok := surface.LastFrame()
	require.True(t, ok)
	assert.Equal(t, 40.0, last.BatteryLevel)

	require.NoError(t, conn.Close())
	<-done
}

func TestWebSurfaceClosedDropsFrames(t *testing.T) {
	surface := NewWebSurface(NewClientManager())
	surface.OnResize(func(int, int) { t.Fatal("닫힌 뒤 콜백 호출") })
	require.NoError(t, surface.Close())

	require.NoError(t, surface.Render(testFrame(10)))
	_, ok := surface.LastFrame()
	assert.False(t, ok)

	surface.RequestResize(100, 50)
	assert.Equal(t, 100, surface.width)
}

func TestClientManagerStopClosesClients(t *testing.T) {
	manager := NewClientManager()
	go manager.Start()

	conn := newFakeConn()
	done := serve(manager, nil, conn)
	assert.Eventually(t, func() bool { return manager.GetClientCount() == 1 }, time.Second, time.Millisecond)

	manager.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("관리자 종료 후 뷰어 루프가 끝나지 않음")
	}
	assert.Zero(t, manager.GetClientCount())
}

func TestDecodeResize(t *testing.T) {
	size, ok := decodeResize(map[string]interface{}{"width": 320.0, "height": 200.0})
	assert.True(t, ok)
	assert.Equal(t, models.ResizeData{Width: 320, Height: 200}, size)

	_, ok = decodeResize("bogus")
	assert.False(t, ok)
	_, ok = decodeResize(nil)
	assert.False(t, ok)
}
