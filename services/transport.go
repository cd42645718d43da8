package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"robot-visualizer/models"
)

// StatusTransport - 로봇 상태 조회/생성 API
type StatusTransport interface {
	Read(ctx context.Context, robotID int) (*models.ReadResult, error)
	Create(ctx context.Context, params models.CreateParams) (*models.CreateResult, error)
}

// HTTPStatusTransport - REST 로봇 API 클라이언트
type HTTPStatusTransport struct {
	BaseURL    string
	httpClient *http.Client
}

// NewHTTPStatusTransport - 클라이언트 생성
func NewHTTPStatusTransport(baseURL string, timeout time.Duration) *HTTPStatusTransport {
	return &HTTPStatusTransport{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewHTTPStatusTransportFromEnv - 환경 변수에서 API 주소 읽기
func NewHTTPStatusTransportFromEnv() *HTTPStatusTransport {
	baseURL := os.Getenv("ROBOT_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	timeout := envDuration("ROBOT_API_TIMEOUT", 5*time.Second)

	log.Printf("✅ StatusTransport 초기화 (baseURL=%s, timeout=%v)", baseURL, timeout)
	return NewHTTPStatusTransport(baseURL, timeout)
}

// 응답 원본 형태
type readWire struct {
	RobotID       *int                  `json:"robot_id"`
	Status        json.RawMessage       `json:"status"`
	Error         string                `json:"error"`
	LastMessageID int                   `json:"last_message_id"`
	Messages      []models.RobotMessage `json:"messages"`
}

type createWire struct {
	RobotID    *int            `json:"robot_id"`
	Status     json.RawMessage `json:"status"`
	Error      string          `json:"error"`
	RobotCount int             `json:"robot_count"`
}

// Read - GET /api/robot/read?robot_id=N
func (t *HTTPStatusTransport) Read(ctx context.Context, robotID int) (*models.ReadResult, error) {
	path := "/api/robot/read?robot_id=" + strconv.Itoa(robotID)

	var wire readWire
	if err := t.do(ctx, http.MethodGet, path, &wire); err != nil {
		return nil, err
	}
	if wire.Error != "" {
		return &models.ReadResult{Error: wire.Error}, nil
	}

	status, err := models.NormalizeStatus(wire.Status)
	if err != nil {
		return nil, fmt.Errorf("robot read 상태 정규화 실패: %w", err)
	}
	if status != nil && status.RobotID == nil && wire.RobotID != nil {
		id := *wire.RobotID
		status.RobotID = &id
	}

	return &models.ReadResult{
		Status:        status,
		LastMessageID: wire.LastMessageID,
		Messages:      wire.Messages,
	}, nil
}

// Create - POST /api/robot/create
func (t *HTTPStatusTransport) Create(ctx context.Context, params models.CreateParams) (*models.CreateResult, error) {
	path := "/api/robot/create"
	if q := encodeCreateParams(params); q != "" {
		path += "?" + q
	}

	var wire createWire
	if err := t.do(ctx, http.MethodPost, path, &wire); err != nil {
		return nil, err
	}
	if wire.Error != "" {
		return &models.CreateResult{Error: wire.Error}, nil
	}

	status, err := models.NormalizeStatus(wire.Status)
	if err != nil {
		return nil, fmt.Errorf("robot create 상태 정규화 실패: %w", err)
	}

	return &models.CreateResult{
		RobotID:    wire.RobotID,
		Status:     status,
		RobotCount: wire.RobotCount,
	}, nil
}

// do - 요청 전송 후 JSON 응답 디코딩
//
// 에러 필드가 있는 응답은 HTTP 상태와 무관하게 디코딩해서 돌려준다.
func (t *HTTPStatusTransport) do(ctx context.Context, method, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, t.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("robot API 요청 생성 실패: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("robot API %s %s 호출 실패: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("robot API 응답 읽기 실패: %w", err)
	}

	var probe struct {
		Error string `json:"error"`
	}
	decodeErr := json.Unmarshal(body, &probe)

	if resp.StatusCode >= 400 && (decodeErr != nil || probe.Error == "") {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if decodeErr != nil {
		return fmt.Errorf("robot API 응답 파싱 실패: %w (body=%s)", models.ErrMalformedStatus, string(body))
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("robot API 응답 파싱 실패: %w (body=%s)", models.ErrMalformedStatus, string(body))
	}
	return nil
}

// HTTPError - 본문에 에러 필드가 없는 HTTP 실패
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("robot API HTTP %d: %s", e.StatusCode, e.Body)
}

func encodeCreateParams(p models.CreateParams) string {
	q := url.Values{}
	setBool := func(key string, v *bool) {
		if v != nil {
			q.Set(key, strconv.FormatBool(*v))
		}
	}
	setBool("is_parked", p.IsParked)
	setBool("is_door_opened", p.IsDoorOpened)
	setBool("is_reversing", p.IsReversing)
	setBool("is_charging", p.IsCharging)
	if p.BatteryStatus != nil {
		q.Set("battery_status", strconv.FormatFloat(*p.BatteryStatus, 'f', -1, 64))
	}
	if len(p.LEDRGB) == 3 {
		q.Set("led_rgb", fmt.Sprintf("%d,%d,%d", p.LEDRGB[0], p.LEDRGB[1], p.LEDRGB[2]))
	}
	return q.Encode()
}
