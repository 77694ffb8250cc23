package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Env string

const (
	Dev        Env = "development"
	Test       Env = "test"
	Preview    Env = "preview"
	Production Env = "production"
)

const (
	DefaultCheckinEndpoint  = "https://www.luogu.com.cn/index/ajax_punch"
	DefaultCheckinUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultCheckinCron      = "0 0 * * *"
)

type Config struct {
	AppName string
	ENV     Env
	AppPort int

	LogLevel string

	// Extra CORS origins allowed in preview/production.
	CORSAllowedOrigins []string

	Checkin  CheckinConfig
	Inngest  InngestConfig
	RabbitMQ RabbitMQConfig
}

type CheckinConfig struct {
	// Accounts is the raw JSON document: {"token":[{"__client_id":"...","_uid":"..."}]}.
	Accounts  string
	Endpoint  string
	UserAgent string
	Cron      string
}

// Inngest (optional; enabled only when AppID is set).
type InngestConfig struct {
	AppID      string
	SigningKey string
	Dev        string
	ServeHost  string
	ServePath  string
}

// RabbitMQ (optional; enabled only when URL is set).
type RabbitMQConfig struct {
	URL             string
	Exchange        string
	RoutingKey      string
	DeclareTopology bool
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "luogu-auto-checkin")
	v.SetDefault("app.env", string(Dev))
	v.SetDefault("app.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allowed_origins", "")

	v.SetDefault("checkin.accounts", "")
	v.SetDefault("checkin.endpoint", DefaultCheckinEndpoint)
	v.SetDefault("checkin.user_agent", DefaultCheckinUserAgent)
	v.SetDefault("checkin.cron", DefaultCheckinCron)

	v.SetDefault("inngest.app_id", "")
	v.SetDefault("inngest.signing_key", "")
	v.SetDefault("inngest.dev", "")
	v.SetDefault("inngest.serve_host", "")
	v.SetDefault("inngest.serve_path", "/api/inngest")

	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.exchange", "events")
	v.SetDefault("rabbitmq.routing_key", "checkin.report.completed.v1")
	v.SetDefault("rabbitmq.declare_topology", false)

	return v
}

func NewConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppName: v.GetString("app.name"),
		ENV:     Env(strings.ToLower(strings.TrimSpace(v.GetString("app.env")))),
		AppPort: v.GetInt("app.port"),

		LogLevel: v.GetString("log.level"),

		CORSAllowedOrigins: splitList(v.GetString("cors.allowed_origins")),

		Checkin: CheckinConfig{
			Accounts:  v.GetString("checkin.accounts"),
			Endpoint:  strings.TrimSpace(v.GetString("checkin.endpoint")),
			UserAgent: strings.TrimSpace(v.GetString("checkin.user_agent")),
			Cron:      strings.TrimSpace(v.GetString("checkin.cron")),
		},

		Inngest: InngestConfig{
			AppID:      strings.TrimSpace(v.GetString("inngest.app_id")),
			SigningKey: v.GetString("inngest.signing_key"),
			Dev:        strings.TrimSpace(v.GetString("inngest.dev")),
			ServeHost:  strings.TrimSpace(v.GetString("inngest.serve_host")),
			ServePath:  strings.TrimSpace(v.GetString("inngest.serve_path")),
		},

		RabbitMQ: RabbitMQConfig{
			URL:             strings.TrimSpace(v.GetString("rabbitmq.url")),
			Exchange:        strings.TrimSpace(v.GetString("rabbitmq.exchange")),
			RoutingKey:      strings.TrimSpace(v.GetString("rabbitmq.routing_key")),
			DeclareTopology: v.GetBool("rabbitmq.declare_topology"),
		},
	}

	switch cfg.ENV {
	case Dev, Test, Preview, Production:
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q", cfg.ENV)
	}
	if cfg.AppPort <= 0 || cfg.AppPort > 65535 {
		return nil, fmt.Errorf("invalid APP_PORT %d", cfg.AppPort)
	}
	if cfg.Checkin.Endpoint == "" {
		cfg.Checkin.Endpoint = DefaultCheckinEndpoint
	}
	u, err := url.Parse(cfg.Checkin.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid CHECKIN_ENDPOINT %q", cfg.Checkin.Endpoint)
	}
	// Empty disables the schedule.
	if cfg.Checkin.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Checkin.Cron); err != nil {
			return nil, fmt.Errorf("invalid CHECKIN_CRON %q: %w", cfg.Checkin.Cron, err)
		}
	}
	if cfg.Checkin.UserAgent == "" {
		cfg.Checkin.UserAgent = DefaultCheckinUserAgent
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
