package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config 全局配置结构
// YAML文件 + 环境变量覆盖（前缀BOOKCLUB_，如BOOKCLUB_DATABASE_PASSWORD）
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Log          LogConfig          `mapstructure:"log"`
	Commerce     CommerceConfig     `mapstructure:"commerce"`
	Notification NotificationConfig `mapstructure:"notification"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	GRPCPort        int           `mapstructure:"grpc_port"` // 0表示不启动gRPC
	Mode            string        `mapstructure:"mode"`      // debug | release | test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"` // 单个请求的处理超时
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql | memory
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN 生成MySQL连接字符串
// loc参数需要URL编码（Asia/Shanghai → Asia%2FShanghai）
func (d DatabaseConfig) DSN() string {
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpire time.Duration `mapstructure:"access_token_expire"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`  // debug | info | warn | error
	Format    string `mapstructure:"format"` // text | json，为空时release模式用json
	AddSource bool   `mapstructure:"add_source"`
}

// CommerceConfig 交易相关配置
type CommerceConfig struct {
	TreasuryAccountID      uint          `mapstructure:"treasury_account_id"`      // 平台资金账户（管理员用户ID）
	TreasuryEmail          string        `mapstructure:"treasury_email"`           // 账户不存在时创建所用的邮箱
	TreasuryOpeningCapital string        `mapstructure:"treasury_opening_capital"` // 账户不存在时的初始资金
	OrderCodeAttempts      int           `mapstructure:"order_code_attempts"`      // 订单号冲突时的最大尝试次数
	NotifyTimeout          time.Duration `mapstructure:"notify_timeout"`           // 下单通知的超时
	OrderCacheTTL          time.Duration `mapstructure:"order_cache_ttl"`
	CheckoutRate           float64       `mapstructure:"checkout_rate"`  // 每用户每秒下单次数
	CheckoutBurst          int           `mapstructure:"checkout_burst"` // 每用户突发下单次数
}

// OpeningCapital 解析初始资金
func (c CommerceConfig) OpeningCapital() (decimal.Decimal, error) {
	if c.TreasuryOpeningCapital == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(c.TreasuryOpeningCapital)
}

// NotificationConfig 下单通知配置
type NotificationConfig struct {
	Sink            string        `mapstructure:"sink"` // mq | redis | none
	AMQPURL         string        `mapstructure:"amqp_url"`
	Exchange        string        `mapstructure:"exchange"`
	ExchangeType    string        `mapstructure:"exchange_type"`
	Queue           string        `mapstructure:"queue"`
	RoutingKey      string        `mapstructure:"routing_key"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"` // 连续失败多少次熔断
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`  // 熔断持续时间
	InboxSize       int64         `mapstructure:"inbox_size"`       // 每个用户收件箱保留条数
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Load 加载配置文件
// 1. 默认加载config/config.yaml
// 2. 环境变量BOOKCLUB_ENV指定环境时加载config.<env>.yaml
// 3. 环境变量覆盖（BOOKCLUB_COMMERCE_TREASURY_ACCOUNT_ID → commerce.treasury_account_id）
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if env := os.Getenv("BOOKCLUB_ENV"); env != "" {
		v.SetConfigName("config." + env)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return unmarshal(v)
}

// LoadFile 从指定文件加载（测试与命令行参数使用）
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("BOOKCLUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.request_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("jwt.access_token_expire", 2*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("commerce.treasury_account_id", 1)
	v.SetDefault("commerce.treasury_email", "treasury@bookclub.local")
	v.SetDefault("commerce.order_code_attempts", 5)
	v.SetDefault("commerce.notify_timeout", 3*time.Second)
	v.SetDefault("commerce.order_cache_ttl", 10*time.Minute)
	v.SetDefault("commerce.checkout_rate", 1.0)
	v.SetDefault("commerce.checkout_burst", 3)
	v.SetDefault("notification.sink", "none")
	v.SetDefault("notification.exchange", "bookclub.events")
	v.SetDefault("notification.exchange_type", "topic")
	v.SetDefault("notification.queue", "order.notification")
	v.SetDefault("notification.routing_key", "order.received")
	v.SetDefault("notification.breaker_failures", 5)
	v.SetDefault("notification.breaker_timeout", 30*time.Second)
	v.SetDefault("notification.inbox_size", 100)
	v.SetDefault("tracing.service_name", "bookclub-api")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	if cfg.JWT.Secret == "" {
		return fmt.Errorf("必须配置JWT密钥")
	}
	if cfg.JWT.Secret == "your-secret-key-change-in-production" && cfg.Server.Mode == "release" {
		return fmt.Errorf("生产环境必须修改JWT密钥")
	}

	switch cfg.Database.Driver {
	case "mysql", "memory":
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}

	switch cfg.Notification.Sink {
	case "mq":
		if cfg.Notification.AMQPURL == "" {
			return fmt.Errorf("notification.sink=mq时必须配置amqp_url")
		}
	case "redis":
		if !cfg.Redis.Enabled {
			return fmt.Errorf("notification.sink=redis时必须启用redis")
		}
	case "none":
	default:
		return fmt.Errorf("不支持的通知方式: %s", cfg.Notification.Sink)
	}

	if cfg.Commerce.TreasuryAccountID == 0 {
		return fmt.Errorf("必须配置平台资金账户commerce.treasury_account_id")
	}
	if capital, err := cfg.Commerce.OpeningCapital(); err != nil || capital.IsNegative() {
		return fmt.Errorf("无效的初始资金: %q", cfg.Commerce.TreasuryOpeningCapital)
	}
	if cfg.Commerce.OrderCodeAttempts < 1 {
		return fmt.Errorf("order_code_attempts必须大于0")
	}

	return nil
}
