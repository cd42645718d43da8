package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// newTestApp - 로봇/로그/세션 라우트만 가진 앱 (전역 플릿 초기화)
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	Robots = NewRobotManager()
	t.Cleanup(func() { Robots = NewRobotManager() })

	app := fiber.New()
	api := app.Group("/api")

	robotAPI := api.Group("/robot")
	robotAPI.Post("/create", HandleCreateRobot)
	robotAPI.Get("/read", HandleReadRobot)
	robotAPI.Post("/update", HandleUpdateRobot)
	robotAPI.Get("/list", HandleListRobots)

	logsAPI := api.Group("/logs")
	logsAPI.Get("/recent", HandleGetRecentLogs)
	logsAPI.Get("/range", HandleGetLogsByTimeRange)
	logsAPI.Get("/type", HandleGetLogsByEventType)
	logsAPI.Get("/stats", HandleGetLogStats)

	api.Get("/visualizer/status", HandleVisualizerStatus)
	return app
}

// doJSON - 요청 후 상태 코드와 JSON 본문 반환
func doJSON(t *testing.T, app *fiber.App, method, target string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out), "body=%s", body)
	return resp.StatusCode, out
}

func createRobot(t *testing.T, app *fiber.App, query string) map[string]interface{} {
	t.Helper()
	code, body := doJSON(t, app, http.MethodPost, "/api/robot/create"+query)
	require.Equal(t, fiber.StatusOK, code)
	return body
}
