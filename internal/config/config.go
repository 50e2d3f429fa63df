package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Content ContentConfig `yaml:"content"`
	Vision  VisionConfig  `yaml:"vision"`
}

// ServerConfig は結果確認用HTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout"` // 書き込みタイムアウト
}

// ContentConfig は入出力ディレクトリの設定
// 各ディレクトリは作業ディレクトリ相対の固定レイアウトを取る
type ContentConfig struct {
	Root string `yaml:"root"` // コンテンツのルート (デフォルト: content)
}

// AutomateDir は入力動画を置くディレクトリを返す
func (c ContentConfig) AutomateDir() string {
	return filepath.Join(c.Root, "automate")
}

// FramesDir は抽出フレームの出力先を返す
func (c ContentConfig) FramesDir() string {
	return filepath.Join(c.Root, "frames")
}

// GridDir はグリッド画像の出力先を返す
func (c ContentConfig) GridDir() string {
	return filepath.Join(c.Root, "grid")
}

// AnalysisPath は解析結果JSONの保存先を返す
func (c ContentConfig) AnalysisPath() string {
	return filepath.Join(c.Root, "analysis.json")
}

// VisionConfig はビジョンモデル呼び出しの設定
type VisionConfig struct {
	APIKey   string        `yaml:"api_key"`  // APIキー（空の場合は解析をスキップ）
	Model    string        `yaml:"model"`    // モデル名
	Endpoint string        `yaml:"endpoint"` // APIエンドポイントのベースURL
	Timeout  time.Duration `yaml:"timeout"`  // リクエストタイムアウト
}

// Load は設定を読み込む
// 環境変数があればそれを使い、なければデフォルト値を返す
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnvOrDefault("SERVER_HOST", "127.0.0.1"),
			Port:         getEnvAsIntOrDefault("PORT", 8080),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Content: ContentConfig{
			Root: getEnvOrDefault("CONTENT_DIR", "content"),
		},
		Vision: VisionConfig{
			APIKey:   os.Getenv("GEMINI_API_KEY"),
			Model:    getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			Endpoint: getEnvOrDefault("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout:  120 * time.Second,
		},
	}

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}

	// コンテンツ設定の検証
	if c.Content.Root == "" {
		return fmt.Errorf("コンテンツディレクトリが設定されていません")
	}

	// ビジョン設定の検証
	if c.Vision.Model == "" {
		return fmt.Errorf("ビジョンモデルが設定されていません")
	}
	if c.Vision.Endpoint == "" {
		return fmt.Errorf("ビジョンAPIエンドポイントが設定されていません")
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
