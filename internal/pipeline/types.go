package pipeline

import (
	"path/filepath"
	"strings"
)

// State はパイプラインの進行状態を表す
type State string

const (
	StateIdle                  State = "idle"                   // 未実行
	StateValidatingEnvironment State = "validating_environment" // 環境検証中
	StateLocatingVideo         State = "locating_video"         // 入力動画の特定中
	StateReadingDuration       State = "reading_duration"       // 動画時間の取得中
	StateExtractingFrames      State = "extracting_frames"      // フレーム抽出中
	StateComposingGrids        State = "composing_grids"        // グリッド合成中
	StateDone                  State = "done"                   // 完了
	StateFailed                State = "failed"                 // 失敗
)

// VideoAsset は処理対象の入力動画を表す
type VideoAsset struct {
	Path     string  // 動画ファイルの絶対パス
	Format   string  // 拡張子 (例: ".mp4")
	Size     int64   // ファイルサイズ（バイト）
	Duration float64 // 動画時間（秒）
}

// SamplingPlan はフレーム抽出の密度を決める計画
type SamplingPlan struct {
	IntervalSeconds float64 // 抽出間隔（秒）
	MaxFrames       int     // 最大フレーム数
}

// Frame は抽出された1枚の静止画を表す
type Frame struct {
	Index     int     // 0始まりの並び順
	Timestamp float64 // 抽出位置（秒）
	Path      string  // 出力ファイルパス
}

// GridBatch は1枚のグリッド画像に入る最大4フレームのまとまり
type GridBatch struct {
	Index  int     // グリッドの並び順
	Frames []Frame // 厳密に元の順序を保ったフレーム（1〜4枚）
	Path   string  // 合成画像の出力パス
}

// Result は1回のパイプライン実行の成果物
type Result struct {
	RunID      string       // 実行を識別するUUID
	Video      VideoAsset   // 対象動画
	Plan       SamplingPlan // 適用されたサンプリング計画
	FramePaths []string     // 並び順どおりのフレームファイル
	GridPaths  []string     // 並び順どおりのグリッドファイル
}

// MaxDurationSeconds は受け付ける動画時間の上限（秒）
const MaxDurationSeconds = 300.0

// lastFrameOffset は末尾フレームを終端から手前にずらす量（秒）
// デコーダーのストリーム終端エラーを避けるための固定値
const lastFrameOffset = 0.1

// supportedExtensions は入力として受け付ける動画拡張子
var supportedExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".avi": {},
	".mkv": {},
	".wmv": {},
}

// IsSupportedExt は拡張子がサポート対象かを判定する
func IsSupportedExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := supportedExtensions[ext]
	return ok
}
