package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("data.dir", "DATA_DIR", "APP_DATA_DIR")
	viper.BindEnv("tracing.jaeger_endpoint", "JAEGER_ENDPOINT")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// no config file: defaults plus env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults pins the analytics thresholds and table names so the engines
// behave the same with or without a config file.
func setDefaults() {
	viper.SetDefault("app.name", "chief-ops-agent")
	viper.SetDefault("app.version", "0.1.0")
	viper.SetDefault("http.port", 8080)

	viper.SetDefault("prometheus.enabled", true)
	viper.SetDefault("prometheus.path", "/metrics")

	viper.SetDefault("cache.answer_ttl", "5m")
	viper.SetDefault("cache.cleanup_interval", "1m")

	viper.SetDefault("data.dir", "data/processed")
	viper.SetDefault("data.basket_lines", "basket_lines.csv")
	viper.SetDefault("data.monthly_sales", "monthly_sales_by_branch.csv")
	viper.SetDefault("data.channel_summary", "avg_sales_by_menu_channel.csv")
	viper.SetDefault("data.item_sales", "sales_by_items_and_groups.csv")
	viper.SetDefault("data.division_channel", "summary_by_division_channel.csv")
	viper.SetDefault("data.customer_orders", "customer_orders_delivery.csv")
	viper.SetDefault("data.attendance", "time_attendance.csv")
	viper.SetDefault("data.candidate_areas", "candidate_areas.csv")

	viper.SetDefault("analytics.combo.default_top_k", 5)
	viper.SetDefault("analytics.combo.min_support", 0.02)
	viper.SetDefault("analytics.combo.min_confidence", 0.15)
	viper.SetDefault("analytics.combo.min_lift", 1.0)
	viper.SetDefault("analytics.combo.bundle_discount_pct", 0.12)
	viper.SetDefault("analytics.combo.non_product_items", []string{"DELIVERY CHARGE"})
	viper.SetDefault("analytics.combo.split_seed", 42)
	viper.SetDefault("analytics.combo.train_ratio", 0.8)

	viper.SetDefault("analytics.forecast.default_horizon", 3)
	viper.SetDefault("analytics.forecast.anomaly_floor_pct", 0.15)
	viper.SetDefault("analytics.forecast.trend_slope_cutoff", 0.10)
	viper.SetDefault("analytics.forecast.wma_window", 4)

	viper.SetDefault("analytics.expansion.go_threshold", 65.0)
	viper.SetDefault("analytics.expansion.caution_threshold", 45.0)

	viper.SetDefault("analytics.growth.underperformer_gap_pct", 40.0)
	viper.SetDefault("analytics.growth.underperformer_floor", 3)
	viper.SetDefault("analytics.growth.max_actions", 8)
}
