package server

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 进程启动时确定的全部参数，运行期不可变
// 任何组件都不得在启动后修改其中字段
type Config struct {
	ScreenWidth  int `json:"screen_width"`
	ScreenHeight int `json:"screen_height"`

	PaddleWidth     int `json:"paddle_width"`
	PaddleHeight    int `json:"paddle_height"`
	PaddleBottomGap int `json:"paddle_bottom_gap"` // 挡板底边距屏幕底部的间隙
	PaddleSpeed     int `json:"paddle_speed"`      // 每条移动指令的步长

	SquareSize int `json:"square_size"`
	FallSpeed  int `json:"fall_speed"` // 每 Tick 下落的像素数

	InitialLives    int `json:"initial_lives"`
	TicksPerSecond  int `json:"ticks_per_second"`
	SpawnIntervalMs int `json:"spawn_interval_ms"` // 方块生成间隔（模拟时间，非墙钟）

	Addr    string `json:"addr"` // HTTP/WebSocket 监听地址
	LogFile string `json:"log_file"`
	Dev     bool   `json:"dev"` // 开发模式：日志同时输出到 stderr
}

// defaultConfig 缺省值与原版游戏保持一致（800x600、3 条命、60 TPS）
func defaultConfig() Config {
	return Config{
		ScreenWidth:     800,
		ScreenHeight:    600,
		PaddleWidth:     100,
		PaddleHeight:    20,
		PaddleBottomGap: 10,
		PaddleSpeed:     8,
		SquareSize:      30,
		FallSpeed:       3,
		InitialLives:    3,
		TicksPerSecond:  60,
		SpawnIntervalMs: 1000,
		Addr:            ":5001",
		LogFile:         "app.log",
		Dev:             false,
	}
}

// LoadConfig 先加载 .env（若存在），再用环境变量覆盖缺省值
func LoadConfig() Config {
	// .env 不存在不算错误，直接使用环境变量与缺省值
	_ = godotenv.Load()

	cfg := defaultConfig()
	cfg.ScreenWidth = envInt("SCREEN_WIDTH", cfg.ScreenWidth)
	cfg.ScreenHeight = envInt("SCREEN_HEIGHT", cfg.ScreenHeight)
	cfg.PaddleWidth = envInt("PADDLE_WIDTH", cfg.PaddleWidth)
	cfg.PaddleHeight = envInt("PADDLE_HEIGHT", cfg.PaddleHeight)
	cfg.PaddleBottomGap = envInt("PADDLE_BOTTOM_GAP", cfg.PaddleBottomGap)
	cfg.PaddleSpeed = envInt("PADDLE_SPEED", cfg.PaddleSpeed)
	cfg.SquareSize = envInt("SQUARE_SIZE", cfg.SquareSize)
	cfg.FallSpeed = envInt("FALL_SPEED", cfg.FallSpeed)
	cfg.InitialLives = envInt("INITIAL_LIVES", cfg.InitialLives)
	cfg.TicksPerSecond = envInt("TICKS_PER_SECOND", cfg.TicksPerSecond)
	cfg.SpawnIntervalMs = envInt("SPAWN_INTERVAL_MS", cfg.SpawnIntervalMs)
	cfg.Addr = envStr("ADDR", cfg.Addr)
	cfg.LogFile = envStr("LOG_FILE", cfg.LogFile)
	cfg.Dev = envBool("DEV", cfg.Dev)
	return cfg
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
