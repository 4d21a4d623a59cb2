package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// 环境变量名
const (
	EnvHTTPPort        = "BOOKCHAT_HTTP_PORT"
	EnvCorpusDir       = "BOOKCHAT_CORPUS_DIR"
	EnvEmbeddingAPIKey = "EMBEDDING_API_KEY"
	EnvLLMAPIKey       = "LLM_API_KEY"
	EnvQdrantAddr      = "QDRANT_ADDR"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Vector    VectorConfig    `yaml:"vector"`
	Chat      ChatConfig      `yaml:"chat"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Path SQLite 文件路径，留空表示使用数据目录下的 bookchat.db
	Path string `yaml:"path"`
}

// CorpusConfig 语料库配置
type CorpusConfig struct {
	// Dir CSV 语料根目录，子目录名作为类目
	Dir string `yaml:"dir"`

	// WatchDebounceMs 文件变更触发同步的去抖间隔（毫秒）
	WatchDebounceMs int `yaml:"watch_debounce_ms"`

	// SyncIntervalMin 定时同步间隔（分钟），0 表示关闭定时同步
	SyncIntervalMin int `yaml:"sync_interval_min"`
}

// EmbeddingConfig 向量化服务配置
type EmbeddingConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// LLMConfig 大模型配置
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// VectorConfig 向量库配置
type VectorConfig struct {
	// Addr Qdrant gRPC 地址，host:port
	Addr string `yaml:"addr"`

	// Collection 书目向量集合名
	Collection string `yaml:"collection"`
}

// ChatConfig 会话配置
type ChatConfig struct {
	// WindowSize 每个会话保留的最近问答轮数
	WindowSize int `yaml:"window_size"`

	// MaxPromptTokens 提示词 token 预算，超出时裁剪历史
	MaxPromptTokens int `yaml:"max_prompt_tokens"`
}

// RetrievalConfig 检索配置
type RetrievalConfig struct {
	// TopK 最终返回的文档数
	TopK int `yaml:"top_k"`

	// FetchK MMR 重排前的候选数
	FetchK int `yaml:"fetch_k"`

	// Lambda MMR 多样性权重，0 偏多样性，1 偏相关性
	Lambda float64 `yaml:"lambda"`
}

// WebSocketConfig WebSocket 配置
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size"`
	WriteBufferSize int `yaml:"write_buffer_size"`
}

// NewConfig 创建配置
// 默认值 -> 数据目录下的 config.yaml -> 环境变量，后者覆盖前者
func NewConfig() *Config {
	cfg := defaultConfig()

	if err := cfg.loadFile(filepath.Join(GetDataDir(), "config.yaml")); err != nil {
		// 配置文件损坏时不中断启动，使用默认值
		fmt.Fprintf(os.Stderr, "load config file failed: %v\n", err)
	}

	cfg.applyEnv()
	return cfg
}

// defaultConfig 默认配置
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":17870",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Corpus: CorpusConfig{
			Dir:             "./data",
			WatchDebounceMs: 2000,
			SyncIntervalMin: 0,
		},
		Embedding: EmbeddingConfig{
			BaseURL:   "http://localhost:11434/v1",
			Model:     "nomic-embed-text",
			Dimension: 768,
			BatchSize: 64,
		},
		LLM: LLMConfig{
			BaseURL:     "http://localhost:11434/v1",
			Model:       "qwen2.5:7b",
			MaxTokens:   1024,
			Temperature: 0.2,
		},
		Vector: VectorConfig{
			Addr:       "localhost:6334",
			Collection: "book_units",
		},
		Chat: ChatConfig{
			WindowSize:      5,
			MaxPromptTokens: 3000,
		},
		Retrieval: RetrievalConfig{
			TopK:   4,
			FetchK: 20,
			Lambda: 0.5,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// loadFile 加载 YAML 配置文件，文件不存在不算错误
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// applyEnv 应用环境变量覆盖
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvHTTPPort); v != "" {
		c.Server.HTTPPort = v
	}
	if v := os.Getenv(EnvCorpusDir); v != "" {
		c.Corpus.Dir = v
	}
	if v := os.Getenv(EnvEmbeddingAPIKey); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(EnvQdrantAddr); v != "" {
		c.Vector.Addr = v
	}
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewCorpusConfig 创建语料库配置
func NewCorpusConfig(cfg *Config) *CorpusConfig {
	return &cfg.Corpus
}
