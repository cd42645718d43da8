package handlers

import (
	"encoding/json"
	"log"
	"net"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"robot-visualizer/models"
)

// wsConn - 클라이언트 연결 (gofiber websocket.Conn 이 만족)
type wsConn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
	RemoteAddr() net.Addr
}

type Client struct {
	ID         string
	Conn       wsConn
	ClientType string // "viewer"
}

// 클라이언트 관리자
type ClientManager struct {
	clients    map[string]*Client
	broadcast  chan models.WebSocketMessage
	register   chan *Client
	unregister chan string
	quit       chan struct{}
	mutex      sync.RWMutex
}

// NewClientManager - 관리자 생성 (Start 호출 필요)
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:    make(map[string]*Client),
		broadcast:  make(chan models.WebSocketMessage, 100),
		register:   make(chan *Client),
		unregister: make(chan string),
		quit:       make(chan struct{}),
	}
}

// 전역 뷰어 관리자
var Viewers = NewClientManager()

// 클라이언트 관리 시작
func (manager *ClientManager) Start() {
	for {
		select {
		case client := <-manager.register:
			manager.mutex.Lock()
			manager.clients[client.ID] = client
			manager.mutex.Unlock()
			log.Printf("클라이언트 등록: %s (%s)", client.ClientType, client.Conn.RemoteAddr())

		case id := <-manager.unregister:
			manager.remove(id)

		case message := <-manager.broadcast:
			manager.handleBroadcast(message)

		case <-manager.quit:
			manager.mutex.Lock()
			for id, client := range manager.clients {
				_ = client.Conn.Close()
				delete(manager.clients, id)
			}
			manager.mutex.Unlock()
			return
		}
	}
}

// Stop - 관리 루프 종료 (모든 연결 닫음)
func (manager *ClientManager) Stop() {
	close(manager.quit)
}

func (manager *ClientManager) remove(id string) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	if client, ok := manager.clients[id]; ok {
		delete(manager.clients, id)
		_ = client.Conn.Close()
		log.Printf("클라이언트 해제: %s (%s)", client.ClientType, client.Conn.RemoteAddr())
	}
}

func (manager *ClientManager) handleBroadcast(message models.WebSocketMessage) {
	manager.mutex.RLock()
	var failed []string
	for id, client := range manager.clients {
		if err := client.Conn.WriteJSON(message); err != nil {
			log.Printf("메시지 전송 실패 (%s): %v", client.Conn.RemoteAddr(), err)
			failed = append(failed, id)
		}
	}
	manager.mutex.RUnlock()

	for _, id := range failed {
		manager.remove(id)
	}
}

// BroadcastMessage - 전송 대기열에 추가 (가득 차면 버림)
func (manager *ClientManager) BroadcastMessage(msg models.WebSocketMessage) bool {
	select {
	case manager.broadcast <- msg:
		return true
	default:
		return false
	}
}

func (manager *ClientManager) GetClientCount() int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()
	return len(manager.clients)
}

// ========================================
// WebSurface - 브라우저 뷰어로 프레임을 스트리밍하는 출력면
// ========================================
type WebSurface struct {
	manager *ClientManager

	mu       sync.RWMutex
	last     *models.VisualFrame
	targets  models.VisualTargets
	onResize func(width, height int)
	width    int
	height   int
	closed   bool
}

// NewWebSurface - 관리자에 연결된 출력면
func NewWebSurface(manager *ClientManager) *WebSurface {
	return &WebSurface{manager: manager}
}

// 전역 뷰어 출력면 (main 에서 설정)
var ViewerSurface *WebSurface

func (s *WebSurface) ApplyVisualTargets(targets models.VisualTargets) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = targets
}

func (s *WebSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// Render - 이전 프레임과 다를 때만 전송
func (s *WebSurface) Render(frame models.VisualFrame) error {
	s.mu.Lock()
	if s.closed || (s.last != nil && s.last.SameVisuals(frame)) {
		s.mu.Unlock()
		return nil
	}
	s.last = &frame
	s.mu.Unlock()

	s.manager.BroadcastMessage(models.WebSocketMessage{
		Type:      models.MessageTypeVisualFrame,
		Data:      frame,
		Timestamp: time.Now().UnixMilli(),
	})
	return nil
}

// OnResize - 뷰어 리사이즈 요청 콜백 (nil 이면 해제)
func (s *WebSurface) OnResize(fn func(width, height int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResize = fn
}

// RequestResize - 뷰어가 보낸 크기 변경 처리
func (s *WebSurface) RequestResize(width, height int) {
	s.mu.RLock()
	onResize := s.onResize
	s.mu.RUnlock()

	if onResize != nil {
		onResize(width, height)
		return
	}
	s.Resize(width, height)
}

// LastFrame - 마지막으로 전송한 프레임
func (s *WebSurface) LastFrame() (models.VisualFrame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return models.VisualFrame{}, false
	}
	return *s.last, true
}

func (s *WebSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.onResize = nil
	return nil
}

// HandleViewerWebSocket - 뷰어 WebSocket Handler
func HandleViewerWebSocket(c *websocket.Conn) {
	serveViewer(Viewers, ViewerSurface, c)
}

func serveViewer(manager *ClientManager, surface *WebSurface, conn wsConn) {
	client := &Client{
		ID:         uuid.NewString(),
		Conn:       conn,
		ClientType: "viewer",
	}

	// 연결 확인 메시지 + 마지막 프레임은 등록 전에 보냄 (브로드캐스트와 동시 쓰기 방지)
	welcomeMsg := models.WebSocketMessage{
		Type: models.MessageTypeSystemInfo,
		Data: map[string]interface{}{
			"message":      "뷰어 연결됨",
			"client_id":    client.ID,
			"connected_at": time.Now().Format(time.RFC3339),
		},
		Timestamp: time.Now().UnixMilli(),
	}
	_ = conn.WriteJSON(welcomeMsg)
	if surface != nil {
		if frame, ok := surface.LastFrame(); ok {
			_ = conn.WriteJSON(models.WebSocketMessage{
				Type:      models.MessageTypeVisualFrame,
				Data:      frame,
				Timestamp: time.Now().UnixMilli(),
			})
		}
	}

	select {
	case manager.register <- client:
	case <-manager.quit:
		_ = conn.Close()
		return
	}
	defer func() {
		select {
		case manager.unregister <- client.ID:
		case <-manager.quit:
		}
	}()

	for {
		var msg models.WebSocketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("뷰어 메시지 읽기 오류: %v", err)
			break
		}

		switch msg.Type {
		case models.MessageTypeResize:
			size, ok := decodeResize(msg.Data)
			if !ok {
				log.Printf("⚠️ 잘못된 resize 메시지: %+v", msg.Data)
				continue
			}
			if surface != nil {
				surface.RequestResize(size.Width, size.Height)
			}
		case models.MessageTypePing:
		default:
			log.Printf("알 수 없는 메시지 타입: %s", msg.Type)
		}
	}
}

// decodeResize - 임의 JSON 데이터 → ResizeData
func decodeResize(data interface{}) (models.ResizeData, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return models.ResizeData{}, false
	}
	var size models.ResizeData
	if err := json.Unmarshal(raw, &size); err != nil {
		return models.ResizeData{}, false
	}
	return size, size.Width > 0 && size.Height > 0
}
