package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"robot-visualizer/models"
)

// DB 인스턴스
var db *gorm.DB

// InitDatabase - DB_DRIVER 환경 변수에 따라 SQLite 또는 MySQL 연결
func InitDatabase() error {
	driver := strings.ToLower(envString("DB_DRIVER", "sqlite"))

	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dsn, err := mysqlDSNFromEnv()
		if err != nil {
			return err
		}
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(envString("SQLITE_PATH", "robot_logs.db"))
	default:
		return fmt.Errorf("지원하지 않는 DB_DRIVER: %s", driver)
	}

	conn, err := OpenDatabase(dialector)
	if err != nil {
		return err
	}
	db = conn

	log.Printf("✅ %s 연결 및 마이그레이션 완료", driver)
	return nil
}

// OpenDatabase - 연결 후 RobotLog 테이블 마이그레이션
func OpenDatabase(dialector gorm.Dialector) (*gorm.DB, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("DB 연결 실패: %w", err)
	}

	// AutoMigrate - 테이블 자동 생성
	if err := conn.AutoMigrate(&models.RobotLog{}); err != nil {
		return nil, fmt.Errorf("마이그레이션 실패: %w", err)
	}
	return conn, nil
}

// mysqlDSNFromEnv - MYSQL_* 환경 변수로 DSN 구성
func mysqlDSNFromEnv() (string, error) {
	host := os.Getenv("MYSQL_HOST")
	user := os.Getenv("MYSQL_USER")
	password := os.Getenv("MYSQL_PASSWORD")
	dbname := os.Getenv("MYSQL_DATABASE")

	if host == "" || user == "" || password == "" || dbname == "" {
		return "", fmt.Errorf("MySQL 환경 변수가 모두 설정되지 않았습니다: MYSQL_HOST, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE")
	}

	port, err := strconv.Atoi(os.Getenv("MYSQL_PORT"))
	if err != nil || port == 0 {
		port = 3306 // 기본 포트
	}

	log.Printf("📡 연결 정보: %s@%s:%d/%s", user, host, port, dbname)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname), nil
}

// GetDB - GORM 인스턴스 반환
func GetDB() *gorm.DB {
	return db
}

// SetDB - 이미 연결된 인스턴스 사용 (테스트용 인메모리 DB 등)
func SetDB(conn *gorm.DB) {
	db = conn
}
