package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
// Credentials always come from the environment; everything else has a default.
type Config struct {
	// Discogs
	DiscogsToken     string
	DiscogsUserAgent string
	DiscogsCurrency  string // e.g. "USD"
	DiscogsBaseURL   string

	// 剪辑参数
	ClipStartSec    int // 默认从1:30开始截取
	ClipDurationSec int // 截取时长（秒）

	// 外部工具
	FFmpegPath string
	YtdlpPath  string

	// 输出目录，每个release一个子目录
	OutputDir string

	// MinIO / 对象存储
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioPrefix    string
	MinioRegion    string
	MinioUseSSL    bool
	SignedURLTTL   int // 签名URL有效期（秒）

	// Instagram Graph API
	IGUserID   string
	IGToken    string
	GraphBase  string
	PollSec    int // 轮询间隔
	ChildWait  int // child容器处理超时（秒）
	ParentWait int // parent容器处理超时（秒）

	// Google Sheets
	GoogleCredentialsJSON string // service account json 路径
	SheetID               string
	SheetRange            string

	// Redis配置
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// 本地发布记录库
	SQLitePath string

	// 日志
	LogPath  string
	LogLevel string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// Attempt to load .env file. godotenv.Load() will not override existing env vars.
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	outputDir := getEnv("OUTPUT_DIR", "outputs")

	return &Config{
		DiscogsToken:     os.Getenv("DISCOGS_USER_TOKEN"), // 凭证不给默认值
		DiscogsUserAgent: getEnv("DISCOGS_USER_AGENT", "DiscogsTool/1.0"),
		DiscogsCurrency:  getEnv("DISCOGS_CURRENCY", "USD"),
		DiscogsBaseURL:   getEnv("DISCOGS_BASE_URL", "https://api.discogs.com"),

		ClipStartSec:    getEnvInt("CLIP_START_SEC", 90),
		ClipDurationSec: getEnvInt("CLIP_DURATION_SEC", 30),

		FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),
		YtdlpPath:  getEnv("YTDLP_PATH", "yt-dlp"),

		OutputDir: outputDir,

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "discogs-posts"),
		MinioPrefix:    getEnv("MINIO_PREFIX", "discogs-posts"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", true),
		SignedURLTTL:   getEnvInt("SIGNED_URL_TTL", 7200),

		IGUserID:   os.Getenv("IG_USER_ID"),
		IGToken:    os.Getenv("IG_ACCESS_TOKEN"),
		GraphBase:  getEnv("GRAPH_BASE", "https://graph.facebook.com/v20.0"),
		PollSec:    getEnvInt("IG_POLL_SEC", 5),
		ChildWait:  getEnvInt("IG_CHILD_WAIT_SEC", 300),
		ParentWait: getEnvInt("IG_PARENT_WAIT_SEC", 420),

		GoogleCredentialsJSON: os.Getenv("GCS_CREDENTIALS_JSON"),
		SheetID:               os.Getenv("SHEET_ID"),
		SheetRange:            getEnv("SHEET_RANGE", "Hoja 1!A:H"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""), // 默认无密码
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SQLitePath: getEnv("SQLITE_PATH", filepath.Join(outputDir, "published.db")),

		LogPath:  getEnv("LOG_PATH", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}
