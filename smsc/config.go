package smsc

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const confPathEnv = "FAKESMSC_CONF_PATH"

type Config struct {
	// 监听与认证
	Port           int      `yaml:"port"             validate:"gt=0,lte=65535"`
	SystemId       string   `yaml:"system-id"        validate:"required,max=15"`
	Password       string   `yaml:"password"         validate:"max=8"`
	ServerSystemId string   `yaml:"server-system-id" validate:"max=15"`
	AcceptedIps    []string `yaml:"accepted-ips"     validate:"dive,ip|cidr"`

	// 超时
	BindTimeout   time.Duration `yaml:"bind-timeout"   validate:"gt=0"`
	ClientTimeout time.Duration `yaml:"client-timeout" validate:"gt=0"`
	WriteTimeout  time.Duration `yaml:"write-timeout"  validate:"gt=0"`

	// 运行参数
	Debug        bool   `yaml:"debug"`
	MonitorPort  int    `yaml:"monitor-port"  validate:"gte=0,lte=65535"`
	DataCenterId int32  `yaml:"datacenter-id" validate:"gte=0,lte=3"`
	WorkerId     int32  `yaml:"worker-id"     validate:"gte=0,lte=7"`
	MaxPoolSize  int    `yaml:"max-pool-size" validate:"gte=1"`
	LogFile      string `yaml:"log-file"`
}

// LoadConfig reads a YAML file; an empty path falls back to $FAKESMSC_CONF_PATH.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(confPathEnv)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no config file given and %s is unset", ErrInvalidConfig, confPathEnv)
	}
	bts, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(bts)
}

func ParseConfig(bts []byte) (*Config, error) {
	conf := &Config{}
	if err := yaml.Unmarshal(bts, conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	conf.ApplyDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 2775
	}
	if c.BindTimeout == 0 {
		c.BindTimeout = 60 * time.Second
	}
	if c.ClientTimeout == 0 {
		c.ClientTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = 16
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) Credentials() Credentials {
	return Credentials{SystemId: c.SystemId, Password: c.Password, ServerSystemId: c.ServerSystemId}
}

// Credentials 客户端绑定时须匹配 SystemId/Password，应答中回 ServerSystemId
type Credentials struct {
	SystemId       string
	Password       string
	ServerSystemId string
}
