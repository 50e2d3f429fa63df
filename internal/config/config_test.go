package config

import (
	"path/filepath"
	"testing"
	"time"
)

// TestConfigLoad は設定の読み込みをテストする
func TestConfigLoad(t *testing.T) {
	// 設定を読み込む
	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// 基本的な設定値を検証
	if cfg == nil {
		t.Fatal("設定がnilです")
	}

	// サーバー設定の検証
	if cfg.Server.Host == "" {
		t.Error("サーバーホストが設定されていません")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		t.Errorf("無効なポート番号: %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		t.Error("読み込みタイムアウトが設定されていません")
	}

	// コンテンツ設定の検証
	if cfg.Content.Root == "" {
		t.Error("コンテンツディレクトリが設定されていません")
	}

	// ビジョン設定の検証
	if cfg.Vision.Model == "" {
		t.Error("ビジョンモデルが設定されていません")
	}
	if cfg.Vision.Endpoint == "" {
		t.Error("ビジョンAPIエンドポイントが設定されていません")
	}
	if cfg.Vision.Timeout <= 0 {
		t.Error("ビジョンAPIのタイムアウトが設定されていません")
	}
}

// TestContentConfigDirs は固定レイアウトのパス導出をテストする
func TestContentConfigDirs(t *testing.T) {
	content := ContentConfig{Root: "content"}

	if got := content.AutomateDir(); got != filepath.Join("content", "automate") {
		t.Errorf("入力ディレクトリが期待と異なります: %s", got)
	}
	if got := content.FramesDir(); got != filepath.Join("content", "frames") {
		t.Errorf("フレームディレクトリが期待と異なります: %s", got)
	}
	if got := content.GridDir(); got != filepath.Join("content", "grid") {
		t.Errorf("グリッドディレクトリが期待と異なります: %s", got)
	}
	if got := content.AnalysisPath(); got != filepath.Join("content", "analysis.json") {
		t.Errorf("解析結果パスが期待と異なります: %s", got)
	}
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{
				Host:         "localhost",
				Port:         8080,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			},
			Content: ContentConfig{Root: "content"},
			Vision: VisionConfig{
				Model:    "gemini-2.0-flash",
				Endpoint: "https://example.com/v1",
				Timeout:  time.Minute,
			},
		}
	}

	testCases := []struct {
		name      string
		mutate    func(cfg *Config)
		expectErr bool
	}{
		{"正常な設定", func(_ *Config) {}, false},
		{"無効なポート番号", func(cfg *Config) { cfg.Server.Port = 99999 }, true},
		{"コンテンツディレクトリなし", func(cfg *Config) { cfg.Content.Root = "" }, true},
		{"モデル名なし", func(cfg *Config) { cfg.Vision.Model = "" }, true},
		{"エンドポイントなし", func(cfg *Config) { cfg.Vision.Endpoint = "" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.expectErr && err == nil {
				t.Error("エラーが期待されましたが成功しました")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("正常な設定が検証に失敗しました: %v", err)
			}
		})
	}
}
