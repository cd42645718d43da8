package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"robot-visualizer/handlers"
	"robot-visualizer/services"
)

func main() {
	// .env 파일 로드
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env 파일을 찾을 수 없습니다.")
	}

	cfg := services.LoadServerConfigFromEnv()

	// DB 연결 (DB_DRIVER=sqlite|mysql)
	if err := services.InitDatabase(); err != nil {
		log.Fatalf("❌ DB 초기화 실패: %v", err)
	}

	// 로깅 시스템 초기화
	services.InitLogging(cfg.LogFlushSize, cfg.LogFlushInterval)
	defer services.StopLogging() // 종료 시 남은 로그 저장

	app := newApp(cfg)

	// 뷰어 스트리밍 + 시각화 세션
	go handlers.Viewers.Start()
	handlers.ViewerSurface = handlers.NewWebSurface(handlers.Viewers)

	session := services.NewVisualizerSession(
		services.LoadVisualizerConfigFromEnv(),
		services.NewHTTPStatusTransportFromEnv(),
		handlers.ViewerSurface,
		services.RealClock{},
	)
	handlers.Session = session

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🚀 서버 시작: http://localhost:%s", cfg.Port)
		log.Printf("📡 WebSocket: ws://localhost:%s/websocket/viewer", cfg.Port)
		log.Printf("🤖 로봇 API: http://localhost:%s/api/robot/*", cfg.Port)
		log.Printf("💾 로그 API: GET http://localhost:%s/api/logs/*", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("❌ 서버 종료: %v", err)
			stop()
		}
	}()

	session.Start(ctx)

	simCfg := services.LoadSimulatorConfigFromEnv()
	simulator := services.NewRobotSimulator(handlers.Robots, simCfg.Interval)
	if simCfg.Enabled {
		simulator.Start()
	}

	<-ctx.Done()
	log.Println("🛑 종료 신호 수신")

	simulator.Stop()
	session.Close()
	handlers.Viewers.Stop()
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("⚠️ 서버 종료 실패: %v", err)
	}
}

// newApp - 라우트 구성
func newApp(cfg services.ServerConfig) *fiber.App {
	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Robot Visualizer 서버가 실행 중입니다.")
	})

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "OK",
			"robots":  handlers.Robots.GetRobotCount(),
			"viewers": handlers.Viewers.GetClientCount(),
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// 로봇 API
	robotAPI := api.Group("/robot")
	robotAPI.Post("/create", handlers.HandleCreateRobot)
	robotAPI.Get("/read", handlers.HandleReadRobot)
	robotAPI.Post("/update", handlers.HandleUpdateRobot)
	robotAPI.Get("/list", handlers.HandleListRobots)

	// 로그 조회 API
	logsAPI := api.Group("/logs")
	logsAPI.Get("/recent", handlers.HandleGetRecentLogs)     // 최근 로그
	logsAPI.Get("/range", handlers.HandleGetLogsByTimeRange) // 시간 범위
	logsAPI.Get("/type", handlers.HandleGetLogsByEventType)  // 이벤트 타입별
	logsAPI.Get("/stats", handlers.HandleGetLogStats)        // 통계

	api.Get("/visualizer/status", handlers.HandleVisualizerStatus)

	// WebSocket
	app.Use("/websocket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/websocket/viewer", websocket.New(handlers.HandleViewerWebSocket))

	return app
}
