package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		WeRead
		Export
		Output
		Global
		Database
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	WeRead struct {
		UserAgent string
	}
	Export struct {
		Pacing   time.Duration // Delay between consecutive books
		Budget   time.Duration // Soft deadline for a whole run; 0 disables it
		MaxBooks int           // 0 means unlimited
	}
	Output struct {
		Dir             string
		RetentionHours  int    // Hours to keep generated artifacts (default: 24)
		CleanupSchedule string // Cron format: "0 * * * *" = hourly
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("user_agent", "")
	v.SetDefault("export_pacing", "1s")
	v.SetDefault("export_budget", "0s")
	v.SetDefault("export_max_books", 0)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("output_retention_hours", 24)
	v.SetDefault("output_cleanup_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("database_path", DefaultDatabasePath)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		WeRead: WeRead{
			UserAgent: v.GetString("USER_AGENT"),
		},
		Export: Export{
			Pacing:   v.GetDuration("EXPORT_PACING"),
			Budget:   v.GetDuration("EXPORT_BUDGET"),
			MaxBooks: v.GetInt("EXPORT_MAX_BOOKS"),
		},
		Output: Output{
			Dir:             v.GetString("OUTPUT_DIR"),
			RetentionHours:  v.GetInt("OUTPUT_RETENTION_HOURS"),
			CleanupSchedule: v.GetString("OUTPUT_CLEANUP_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}
