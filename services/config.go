package services

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// VisualizerConfig - 시각화 세션 설정
type VisualizerConfig struct {
	RobotID      int
	FPS          int
	PollInterval time.Duration
	RobotAsset   string
	TramAsset    string
	AutoRotate   bool
	ReverseAlarm bool
}

// LoadVisualizerConfigFromEnv - 환경 변수에서 세션 설정 읽기
func LoadVisualizerConfigFromEnv() VisualizerConfig {
	cfg := VisualizerConfig{
		RobotID:      envInt("VISUALIZER_ROBOT_ID", 0),
		FPS:          envInt("VISUALIZER_FPS", 30),
		PollInterval: envDuration("VISUALIZER_POLL_INTERVAL", time.Second),
		RobotAsset:   envString("ROBOT_ASSET", "assets/robot.yaml"),
		TramAsset:    envString("TRAM_ASSET", "assets/tram.yaml"),
		AutoRotate:   envBool("VISUALIZER_AUTO_ROTATE", false),
		ReverseAlarm: envBool("REVERSE_ALARM", true),
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return cfg
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ %s 값이 잘못됨 (%q), 기본값 %d 사용", key, v, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("⚠️ %s 값이 잘못됨 (%q), 기본값 %t 사용", key, v, def)
		return def
	}
	return b
}

// envDuration - "5s" 형식 또는 밀리초 정수
func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	log.Printf("⚠️ %s 값이 잘못됨 (%q), 기본값 %v 사용", key, v, def)
	return def
}

// SimulatorConfig - 데모 시뮬레이터 설정
type SimulatorConfig struct {
	Enabled  bool
	Interval time.Duration
}

// LoadSimulatorConfigFromEnv - SIMULATOR_ENABLED / SIMULATOR_INTERVAL
func LoadSimulatorConfigFromEnv() SimulatorConfig {
	return SimulatorConfig{
		Enabled:  envBool("SIMULATOR_ENABLED", false),
		Interval: envDuration("SIMULATOR_INTERVAL", 3*time.Second),
	}
}

// ServerConfig - HTTP 서버 / 로깅 설정
type ServerConfig struct {
	Port             string
	CORSOrigins      string
	LogFlushSize     int
	LogFlushInterval time.Duration
}

// LoadServerConfigFromEnv - PORT, CORS_ORIGINS, LOG_FLUSH_*
func LoadServerConfigFromEnv() ServerConfig {
	return ServerConfig{
		Port:             envString("PORT", "3000"),
		CORSOrigins:      envString("CORS_ORIGINS", "http://localhost:4200, http://localhost:5173, http://localhost:3000"),
		LogFlushSize:     envInt("LOG_FLUSH_SIZE", 50),
		LogFlushInterval: envDuration("LOG_FLUSH_INTERVAL", 10*time.Second),
	}
}
