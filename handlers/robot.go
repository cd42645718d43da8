package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"robot-visualizer/models"
	"robot-visualizer/services"
)

// Robots - 전역 로봇 플릿
var Robots = NewRobotManager()

// parseOverrides - 쿼리 문자열의 선택적 필드 파싱 (잘못된 값은 무시)
func parseOverrides(c *fiber.Ctx) RobotOverrides {
	var o RobotOverrides

	boolParam := func(key string) *bool {
		v := c.Query(key)
		if v == "" {
			return nil
		}
		b := strings.EqualFold(v, "true")
		return &b
	}
	o.IsParked = boolParam("is_parked")
	o.IsDoorOpened = boolParam("is_door_opened")
	o.IsReversing = boolParam("is_reversing")
	o.IsCharging = boolParam("is_charging")

	if v := c.Query("battery_status"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.BatteryStatus = &f
		}
	}

	// led_rgb = "r,g,b"
	if v := c.Query("led_rgb"); v != "" {
		parts := strings.Split(v, ",")
		if len(parts) == 3 {
			var rgb [3]int
			ok := true
			for i, p := range parts {
				n, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil {
					ok = false
					break
				}
				rgb[i] = n
			}
			if ok {
				o.LEDRGB = &rgb
			}
		}
	}

	if v := c.Query("message"); v != "" {
		o.Message = &v
	}
	return o
}

// robotError - 플릿 에러 → HTTP 응답
func robotError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNoRobots), errors.Is(err, ErrRobotOutOfRange):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// parseRobotID - 필수 robot_id 파싱 (실패 시 에러 메시지 반환)
func parseRobotID(c *fiber.Ctx) (int, string) {
	raw := c.Query("robot_id")
	if raw == "" {
		return 0, "Missing robot_id"
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, "Invalid robot_id"
	}
	return id, ""
}

// HandleCreateRobot - POST /api/robot/create
func HandleCreateRobot(c *fiber.Ctx) error {
	robotID, status, count := Robots.CreateRobot(parseOverrides(c))
	services.LogRobotEvent("", robotID, models.EventRobotCreated, "robot created")

	return c.JSON(fiber.Map{
		"robot_id":    robotID,
		"status":      status,
		"robot_count": count,
	})
}

// HandleReadRobot - GET /api/robot/read
func HandleReadRobot(c *fiber.Ctx) error {
	if Robots.GetRobotCount() == 0 {
		return robotError(c, ErrNoRobots)
	}

	robotID, msg := parseRobotID(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	since, convErr := strconv.Atoi(c.Query("since_message_id", "0"))
	if convErr != nil {
		since = 0
	}

	status, lastID, msgs, err := Robots.ReadRobot(robotID, since)
	if err != nil {
		return robotError(c, err)
	}

	return c.JSON(fiber.Map{
		"robot_id":        robotID,
		"status":          status,
		"last_message_id": lastID,
		"messages":        msgs,
	})
}

// HandleUpdateRobot - POST /api/robot/update (외부에서 상태 조작)
func HandleUpdateRobot(c *fiber.Ctx) error {
	if Robots.GetRobotCount() == 0 {
		return robotError(c, ErrNoRobots)
	}

	robotID, msg := parseRobotID(c)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	status, err := Robots.UpdateRobot(robotID, parseOverrides(c))
	if err != nil {
		return robotError(c, err)
	}

	return c.JSON(fiber.Map{
		"robot_id": robotID,
		"status":   status,
	})
}

// HandleListRobots - GET /api/robot/list
func HandleListRobots(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"robots":     Robots.GetAllStatuses(),
		"count":      Robots.GetRobotCount(),
		"statistics": Robots.GetStatistics(),
	})
}
