package config

import "time"

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Data       DataConfig       `mapstructure:"data"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	ExposeHeaders  []string `mapstructure:"expose_headers"`
	MaxAge         int      `mapstructure:"max_age"`
	Credentials    bool     `mapstructure:"credentials"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type CacheConfig struct {
	AnswerTTL       time.Duration `mapstructure:"answer_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// DataConfig locates the static table snapshots produced by the offline
// cleaning step. Dir is joined with each file name at load time.
type DataConfig struct {
	Dir             string `mapstructure:"dir"`
	BasketLines     string `mapstructure:"basket_lines"`
	MonthlySales    string `mapstructure:"monthly_sales"`
	ChannelSummary  string `mapstructure:"channel_summary"`
	ItemSales       string `mapstructure:"item_sales"`
	DivisionChannel string `mapstructure:"division_channel"`
	CustomerOrders  string `mapstructure:"customer_orders"`
	Attendance      string `mapstructure:"attendance"`
	CandidateAreas  string `mapstructure:"candidate_areas"`
}

type AnalyticsConfig struct {
	Combo     ComboConfig     `mapstructure:"combo"`
	Forecast  ForecastConfig  `mapstructure:"forecast"`
	Expansion ExpansionConfig `mapstructure:"expansion"`
	Growth    GrowthConfig    `mapstructure:"growth"`
}

// ComboConfig holds the tunable thresholds of the basket engine.
type ComboConfig struct {
	DefaultTopK       int      `mapstructure:"default_top_k"`
	MinSupport        float64  `mapstructure:"min_support"`
	MinConfidence     float64  `mapstructure:"min_confidence"`
	MinLift           float64  `mapstructure:"min_lift"`
	BundleDiscountPct float64  `mapstructure:"bundle_discount_pct"`
	NonProductItems   []string `mapstructure:"non_product_items"`
	SplitSeed         int64    `mapstructure:"split_seed"`
	TrainRatio        float64  `mapstructure:"train_ratio"`
}

type ForecastConfig struct {
	DefaultHorizon   int     `mapstructure:"default_horizon"`
	AnomalyFloorPct  float64 `mapstructure:"anomaly_floor_pct"`
	TrendSlopeCutoff float64 `mapstructure:"trend_slope_cutoff"`
	WMAWindow        int     `mapstructure:"wma_window"`
}

type ExpansionConfig struct {
	GoThreshold      float64 `mapstructure:"go_threshold"`
	CautionThreshold float64 `mapstructure:"caution_threshold"`
}

type GrowthConfig struct {
	UnderperformerGapPct float64 `mapstructure:"underperformer_gap_pct"`
	UnderperformerFloor  int     `mapstructure:"underperformer_floor"`
	MaxActions           int     `mapstructure:"max_actions"`
}
