package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"robot-visualizer/models"
	"robot-visualizer/services"
)

func setupLogDB(t *testing.T) {
	t.Helper()
	conn, err := services.OpenDatabase(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())))
	require.NoError(t, err)
	services.SetDB(conn)
	services.InitLogging(100, time.Hour)
	t.Cleanup(func() {
		services.StopLogging()
		services.SetDB(nil)
	})
}

func TestLogHandlers(t *testing.T) {
	setupLogDB(t)
	app := newTestApp(t)

	services.LogRobotEvent("s", 2, models.EventDoorOpened, "door")
	services.LogRobotEvent("s", 2, models.EventParked, "parked")
	services.LogRobotEvent("s", 0, models.EventParked, "other robot")
	services.FlushLogs()

	code, body := doJSON(t, app, http.MethodGet, "/api/logs/recent?robot_id=2&limit=abc")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 2.0, body["count"])

	code, body = doJSON(t, app, http.MethodGet, "/api/logs/recent")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 1.0, body["count"], "robot_id 기본값은 0")

	code, body = doJSON(t, app, http.MethodGet, "/api/logs/type?robot_id=2&event_type="+models.EventParked)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 1.0, body["count"])
	assert.Equal(t, models.EventParked, body["event_type"])

	code, body = doJSON(t, app, http.MethodGet, "/api/logs/range?robot_id=2")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 2.0, body["count"])
	assert.Contains(t, body, "time_range")

	code, body = doJSON(t, app, http.MethodGet, "/api/logs/stats?robot_id=2&hours=1")
	require.Equal(t, fiber.StatusOK, code)
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, 2.0, stats["total_logs"])
}

func TestLogHandlersValidation(t *testing.T) {
	setupLogDB(t)
	app := newTestApp(t)

	code, body := doJSON(t, app, http.MethodGet, "/api/logs/type")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "event_type parameter is required", body["error"])

	code, body = doJSON(t, app, http.MethodGet, "/api/logs/range?start=yesterday")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "Invalid start time format (use RFC3339)", body["error"])

	code, _ = doJSON(t, app, http.MethodGet, "/api/logs/range?end=soon")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, body = doJSON(t, app, http.MethodGet, "/api/logs/recent?start=bogus")
	assert.Equal(t, fiber.StatusBadRequest, code, "모든 로그 API가 같은 쿼리 검증을 거침")
	assert.Equal(t, "Invalid start time format (use RFC3339)", body["error"])
}

func TestLogRangeHonoursExplicitWindow(t *testing.T) {
	setupLogDB(t)
	app := newTestApp(t)

	now := time.Now()
	services.AddLog(models.RobotLog{CreatedAt: now.Add(-3 * time.Hour), RobotID: 1, EventType: models.EventParked})
	services.AddLog(models.RobotLog{CreatedAt: now.Add(-30 * time.Minute), RobotID: 1, EventType: models.EventParked})
	services.FlushLogs()

	start := now.Add(-4 * time.Hour).Format(time.RFC3339)
	end := now.Add(-2 * time.Hour).Format(time.RFC3339)
	code, body := doJSON(t, app, http.MethodGet,
		"/api/logs/range?robot_id=1&start="+url.QueryEscape(start)+"&end="+url.QueryEscape(end)+"&limit=-5")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 1.0, body["count"])
	window := body["time_range"].(map[string]interface{})
	assert.Equal(t, start, window["start"])
	assert.Equal(t, end, window["end"])
}

func TestLogHandlersWithoutDatabase(t *testing.T) {
	services.SetDB(nil)
	app := newTestApp(t)

	code, body := doJSON(t, app, http.MethodGet, "/api/logs/recent")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Failed to fetch logs (logging disabled)", body["error"])

	code, _ = doJSON(t, app, http.MethodGet, "/api/logs/stats")
	assert.Equal(t, fiber.StatusInternalServerError, code)
}
