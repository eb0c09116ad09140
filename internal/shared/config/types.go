package config

import "fmt"

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

// AlertConfig controls the unassigned-booking scan and alert escalation.
type AlertConfig struct {
	ScanIntervalMinutes       int      `mapstructure:"scan_interval_minutes"`
	ScanHorizonDays           int      `mapstructure:"scan_horizon_days"`
	EscalationIntervalMinutes int      `mapstructure:"escalation_interval_minutes"`
	EscalateAfterMinutes      int      `mapstructure:"escalate_after_minutes"`
	EscalationCooldownMinutes int      `mapstructure:"escalation_cooldown_minutes"`
	EscalationRecipients      []string `mapstructure:"escalation_recipients"`
}

// AllocationConfig controls assignment behavior shared across strategies.
type AllocationConfig struct {
	PropertyTimezone           string `mapstructure:"property_timezone"`
	VIPPriorityThreshold       int    `mapstructure:"vip_priority_threshold"`
	AvailabilityCacheTTLSecond int    `mapstructure:"availability_cache_ttl_seconds"`
}
