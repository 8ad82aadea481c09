package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Model   ModelConfig   `mapstructure:"model"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Storage StorageConfig `mapstructure:"storage"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"`
	Share          bool          `mapstructure:"share"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxConcurrency int64         `mapstructure:"max_concurrency"` // 同时进行的生成请求上限
	MaxUploadSize  int64         `mapstructure:"max_upload_size"` // 上传图片大小上限（字节）
}

// Addr 监听地址，share 模式下监听所有网卡
func (s ServerConfig) Addr() string {
	host := s.Host
	if s.Share {
		host = "0.0.0.0"
	}
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(s.Port))
}

// ModelConfig 预训练模型与推理后端配置
type ModelConfig struct {
	FromPretrained string         `mapstructure:"from_pretrained"` // 模型制品位置（模型名或 endpoint ID）
	Provider       string         `mapstructure:"provider"`        // openai, azure, ark, arkruntime
	APIKey         string         `mapstructure:"api_key"`
	BaseURL        string         `mapstructure:"base_url"`
	Tokenizer      string         `mapstructure:"tokenizer"`
	Precision      string         `mapstructure:"precision"` // fp16, fp32
	Device         string         `mapstructure:"device"`    // cuda, cpu
	Quant          int            `mapstructure:"quant"`     // 0 表示不量化
	RequestTimeout time.Duration  `mapstructure:"request_timeout"`
	Sampling       SamplingConfig `mapstructure:"sampling"`
}

// SamplingConfig 默认采样参数
type SamplingConfig struct {
	MaxLength         int     `mapstructure:"max_length"`
	MinLength         int     `mapstructure:"min_length"`
	Temperature       float64 `mapstructure:"temperature"`
	TopP              float64 `mapstructure:"top_p"`
	TopK              int     `mapstructure:"top_k"`
	RepetitionPenalty float64 `mapstructure:"repetition_penalty"`
}

// ChatConfig 对话界面配置
type ChatConfig struct {
	DefaultPrompt string `mapstructure:"default_prompt"`
	ErrorMode     string `mapstructure:"error_mode"`   // collapse, detailed
	ExamplesDir   string `mapstructure:"examples_dir"` // 示例胸片目录
}

// SessionConfig 浏览器会话配置
type SessionConfig struct {
	Store      string        `mapstructure:"store"` // memory, redis
	CookieName string        `mapstructure:"cookie_name"`
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"`
	BaseURL  string `mapstructure:"base_url"`
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.Server.MaxConcurrency <= 0 {
		return errors.New("server.max_concurrency must be positive")
	}

	switch c.Model.Quant {
	case 0, 4, 8:
	default:
		return fmt.Errorf("invalid quant %d, must be 4 or 8", c.Model.Quant)
	}

	switch c.Chat.ErrorMode {
	case "", "collapse", "detailed":
	default:
		return fmt.Errorf("invalid chat.error_mode %q, must be collapse/detailed", c.Chat.ErrorMode)
	}

	switch c.Session.Store {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("invalid session.store %q, must be memory/redis", c.Session.Store)
	}

	return nil
}
