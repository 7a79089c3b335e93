package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"8890"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"remindhub"`

	// PostgreSQL 配置
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"remindhub"`
	PostgreSQLSchema   string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"30"`
	PostgreSQLMaxOpen  int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"200"`

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"rhub"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// JWT 配置（管理接口鉴权）
	JWTSecret        string `env:"JWT_SECRET"` // 必填，用于签名 JWT
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"30"`
	JWTRefreshDays   int    `env:"JWT_REFRESH_DAYS" envDefault:"7"`

	// SMTP 投递配置（worker 最终投递渠道）
	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"25"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	// 无回信发件地址，所有提醒默认以此地址发出
	NoReplyAddress string `env:"NOREPLY_ADDRESS" envDefault:"noreply@localhost"`
	AdminAddress   string `env:"ADMIN_ADDRESS" envDefault:""`
	SiteBaseURL    string `env:"SITE_BASE_URL" envDefault:"http://localhost"`

	// 提醒周期配置
	RemindersEnabled     bool   `env:"REMINDERS_ENABLED" envDefault:"true"`
	ReminderCron         string `env:"REMINDER_CRON" envDefault:"*/15 * * * *"`
	OverdueCron          string `env:"OVERDUE_CRON" envDefault:"7 * * * *"`
	CleanLogCron         string `env:"CLEAN_LOG_CRON" envDefault:"30 3 * * *"`
	FirstCycleCutoffDays int    `env:"FIRST_CYCLE_CUTOFF_DAYS" envDefault:"5"`
	ScanLogRetentionDays int    `env:"SCAN_LOG_RETENTION_DAYS" envDefault:"90"`

	// 各事件类别的提前档位（顺序为 7 天 / 3 天 / 1 天，'1' 表示启用）
	SiteTierDays     string `env:"SITE_TIER_DAYS" envDefault:"111"`
	UserTierDays     string `env:"USER_TIER_DAYS" envDefault:"011"`
	CourseTierDays   string `env:"COURSE_TIER_DAYS" envDefault:"111"`
	DueTierDays      string `env:"DUE_TIER_DAYS" envDefault:"111"`
	GroupTierDays    string `env:"GROUP_TIER_DAYS" envDefault:"010"`
	CategoryTierDays string `env:"CATEGORY_TIER_DAYS" envDefault:"011"`

	// 各事件类别的自定义提前秒数，0 表示未配置
	SiteCustomSeconds     int64 `env:"SITE_CUSTOM_SECONDS" envDefault:"0"`
	UserCustomSeconds     int64 `env:"USER_CUSTOM_SECONDS" envDefault:"0"`
	CourseCustomSeconds   int64 `env:"COURSE_CUSTOM_SECONDS" envDefault:"0"`
	DueCustomSeconds      int64 `env:"DUE_CUSTOM_SECONDS" envDefault:"0"`
	GroupCustomSeconds    int64 `env:"GROUP_CUSTOM_SECONDS" envDefault:"0"`
	CategoryCustomSeconds int64 `env:"CATEGORY_CUSTOM_SECONDS" envDefault:"0"`

	// 事件筛选与活动事件限制
	EventFilterMode  string `env:"EVENT_FILTER_MODE" envDefault:"all"`   // all, visible
	ActivitySendMode string `env:"ACTIVITY_SEND_MODE" envDefault:"both"` // both, openings, closings

	// 收件角色
	CourseRoleIDs   string `env:"COURSE_ROLE_IDS" envDefault:"3,4,5"` // 逗号分隔角色 ID
	ActivityRoleIDs string `env:"ACTIVITY_ROLE_IDS" envDefault:"5"`

	// 发件身份与标题
	SendAs        string `env:"SEND_AS" envDefault:"noreply"` // noreply, admin
	SenderName    string `env:"SENDER_NAME" envDefault:""`
	SubjectPrefix string `env:"SUBJECT_PREFIX" envDefault:"Reminder"`

	// 逾期补发扫描
	OverdueEnabled          bool `env:"OVERDUE_ENABLED" envDefault:"true"`
	OverdueExcludeCompleted bool `env:"OVERDUE_EXCLUDE_COMPLETED" envDefault:"true"`

	// 课程类别事件：已结课课程是否跳过
	CategorySkipEnded bool `env:"CATEGORY_SKIP_ENDED" envDefault:"true"`

	// 日历事件变更即时通知开关
	NotifyOnCreated bool `env:"NOTIFY_ON_CREATED" envDefault:"false"`
	NotifyOnUpdated bool `env:"NOTIFY_ON_UPDATED" envDefault:"false"`
	NotifyOnRemoved bool `env:"NOTIFY_ON_REMOVED" envDefault:"false"`

	// 链路追踪与指标配置
	TracingEnabled bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`
	SampleRatio    float64 `env:"TRACE_SAMPLE_RATIO" envDefault:"0.1"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	if Cfg.JWTSecret == "" {
		if Cfg.IsProduction() {
			log.Fatal("JWT_SECRET is required")
		}
		log.Printf("WARN: JWT_SECRET is not set, admin API authentication will reject all tokens")
	}

	if Cfg.SendAs == "admin" && Cfg.AdminAddress == "" {
		log.Printf("WARN: SEND_AS=admin but ADMIN_ADDRESS is not set, falling back to noreply sender")
	}

	if Cfg.SMTPHost == "" {
		log.Printf("WARN: SMTP_HOST is not set, mail delivery will not work")
	}
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
