package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"robot-visualizer/models"
	"robot-visualizer/services"
)

const defaultLogLimit = 100

// logQuery - 로그 API 공통 쿼리 (robot_id, limit, 시간 범위, 이벤트 타입)
type logQuery struct {
	RobotID   int
	Limit     int
	Start     time.Time
	End       time.Time
	Hours     int
	EventType string
}

// parseLogQuery - 쿼리 문자열 → logQuery
//
// 숫자 값이 잘못되면 기본값을 쓰고, 시간 형식이 잘못되면 400 메시지를 돌려준다.
func parseLogQuery(c *fiber.Ctx) (logQuery, string) {
	q := logQuery{
		RobotID:   queryInt(c, "robot_id", 0, false),
		Limit:     queryInt(c, "limit", defaultLogLimit, true),
		Hours:     queryInt(c, "hours", 24, true),
		EventType: c.Query("event_type"),
		End:       time.Now(),
	}
	q.Start = q.End.Add(-24 * time.Hour)

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, "Invalid start time format (use RFC3339)"
		}
		q.Start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, "Invalid end time format (use RFC3339)"
		}
		q.End = parsed
	}
	return q, ""
}

// queryInt - 정수 쿼리 (positive 면 0 이하도 기본값)
func queryInt(c *fiber.Ctx, key string, def int, positive bool) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || (positive && n <= 0) {
		return def
	}
	return n
}

// logsResponse - 조회 결과 공통 응답 (DB 없음/실패는 500)
func logsResponse(c *fiber.Ctx, logs []models.RobotLog, err error, extra fiber.Map) error {
	if err != nil {
		msg := "Failed to fetch logs"
		if errors.Is(err, services.ErrLoggingDisabled) {
			msg = "Failed to fetch logs (logging disabled)"
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
	}

	body := fiber.Map{
		"success": true,
		"count":   len(logs),
		"logs":    logs,
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(body)
}

// withQuery - 쿼리 파싱 실패 시 400
func withQuery(fn func(c *fiber.Ctx, q logQuery) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, msg := parseLogQuery(c)
		if msg != "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}
		return fn(c, q)
	}
}

// HandleGetRecentLogs - GET /api/logs/recent?robot_id=&limit=
var HandleGetRecentLogs = withQuery(func(c *fiber.Ctx, q logQuery) error {
	logs, err := services.GetRecentLogs(q.RobotID, q.Limit)
	return logsResponse(c, logs, err, nil)
})

// HandleGetLogsByTimeRange - GET /api/logs/range?robot_id=&start=&end= (기본: 최근 24시간)
var HandleGetLogsByTimeRange = withQuery(func(c *fiber.Ctx, q logQuery) error {
	logs, err := services.GetLogsByTimeRange(q.RobotID, q.Start, q.End, q.Limit)
	return logsResponse(c, logs, err, fiber.Map{
		"time_range": fiber.Map{
			"start": q.Start.Format(time.RFC3339),
			"end":   q.End.Format(time.RFC3339),
		},
	})
})

// HandleGetLogsByEventType - GET /api/logs/type?robot_id=&event_type=
var HandleGetLogsByEventType = withQuery(func(c *fiber.Ctx, q logQuery) error {
	if q.EventType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "event_type parameter is required",
		})
	}
	logs, err := services.GetLogsByEventType(q.RobotID, q.EventType, q.Limit)
	return logsResponse(c, logs, err, fiber.Map{"event_type": q.EventType})
})

// HandleGetLogStats - GET /api/logs/stats?robot_id=&hours=
var HandleGetLogStats = withQuery(func(c *fiber.Ctx, q logQuery) error {
	stats, err := services.GetLogStats(q.RobotID, q.Hours)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch stats",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
})
