package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"robot-visualizer/services"
)

func main() {
	// .env 파일 로드
	_ = godotenv.Load()

	// tcell 화면을 덮어쓰지 않도록 로그는 파일로
	logPath := os.Getenv("ROBOTVIEW_LOG")
	if logPath == "" {
		logPath = "robotview.log"
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("❌ 로그 파일 열기 실패: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	cfg := services.LoadVisualizerConfigFromEnv()

	terminal, err := services.NewTerminalSurface()
	if err != nil {
		log.Fatalf("❌ 터미널 초기화 실패: %v", err)
	}

	var surface services.RenderSurface = terminal
	if cfg.ReverseAlarm {
		alarm := services.InitReverseAlarm()
		defer alarm.Cleanup()
		surface = services.NewAlarmSurface(terminal, alarm)
	}

	session := services.NewVisualizerSession(cfg, services.NewHTTPStatusTransportFromEnv(), surface, services.RealClock{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.Start(ctx)
	session.Scheduler().Resize(terminal.Size())

	select {
	case <-ctx.Done():
	case <-terminal.Quit():
	}

	session.Close()
}
