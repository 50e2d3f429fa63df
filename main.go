package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"

	"github.com/Sushmithamallesh/ActionCraft/internal/codegen"
	"github.com/Sushmithamallesh/ActionCraft/internal/config"
	"github.com/Sushmithamallesh/ActionCraft/internal/decoder"
	"github.com/Sushmithamallesh/ActionCraft/internal/pipeline"
	"github.com/Sushmithamallesh/ActionCraft/internal/review"
	"github.com/Sushmithamallesh/ActionCraft/internal/vision"
)

// analysisReport は解析結果の保存形式
type analysisReport struct {
	RunID    string               `json:"run_id"`
	Video    string               `json:"video"`
	Analysis *vision.TaskAnalysis `json:"analysis"`
}

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	dirs := pipeline.Dirs{
		Automate: cfg.Content.AutomateDir(),
		Frames:   cfg.Content.FramesDir(),
		Grid:     cfg.Content.GridDir(),
	}

	// パイプラインを構築して実行
	pipe := pipeline.New(decoder.NewFFmpegDecoder(), dirs, true)

	ctx := context.Background()
	result, err := pipe.Run(ctx)
	if err != nil {
		log.Fatalf("パイプラインが失敗しました [%s]: %v", pipeline.CodeOf(err), err)
	}

	log.Printf("パイプラインが完了しました (run=%s): フレーム%d枚 / グリッド%d枚",
		result.RunID, len(result.FramePaths), len(result.GridPaths))

	// APIキーが無い場合は解析以降をスキップする
	if cfg.Vision.APIKey == "" {
		log.Println("GEMINI_API_KEYが未設定のため、解析をスキップします")
		return
	}

	// グリッド画像をビジョンモデルで解析
	client := vision.NewClient(cfg.Vision)
	analysis, err := client.Analyze(ctx, result.GridPaths, len(result.FramePaths))
	if err != nil {
		log.Fatalf("ビジョン解析に失敗しました: %v", err)
	}

	// 解析結果を保存（cmd/server で閲覧できる）
	if err := saveReport(cfg.Content.AnalysisPath(), analysisReport{
		RunID:    result.RunID,
		Video:    result.Video.Path,
		Analysis: analysis,
	}); err != nil {
		log.Printf("解析結果の保存に失敗しました: %v", err)
	}

	// 操作列を対話的に確認・編集
	approved, err := review.Run(analysis)
	if err != nil {
		log.Fatalf("編集画面の実行に失敗しました: %v", err)
	}
	if approved == nil {
		log.Println("ユーザーが中止しました")
		return
	}

	// コード生成（未実装のプレースホルダ）
	generator := codegen.Unimplemented{}
	script, err := generator.Generate(ctx, codegen.ActionDescription{
		TaskType: approved.TaskType,
		Steps:    approved.Steps,
	})
	if err != nil {
		if errors.Is(err, codegen.ErrNotImplemented) {
			log.Printf("承認された記述を受け付けました（%dステップ）。コード生成は未実装です", len(approved.Steps))
			return
		}
		log.Fatalf("コード生成に失敗しました: %v", err)
	}

	log.Printf("スクリプトを生成しました:\n%s", script)
}

// saveReport は解析結果をJSONとして保存する
func saveReport(path string, report analysisReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
