// Package decoder 外部デコーダー（ffmpeg/ffprobe）の呼び出しを担う
//
// # 責務
// - デコーダーバイナリの存在確認
// - 動画時間（秒）の取得
// - 指定タイムスタンプの1フレーム抽出
//
// # 仕様
// - FrameDecoder: パイプライン本体が依存する狭い能力インターフェース
// - FFmpegDecoder: ffmpeg/ffprobeをプロセスとして起動する標準実装
// - 非ゼロ終了や出力ファイルの欠落は1回の呼び出しごとの失敗として報告する
// - 自動リトライは行わない
package decoder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// FrameDecoder は外部デコーダーの能力を抽象化するインターフェース
// パイプライン本体は特定のバイナリに依存せず、テストでは偽実装を使う
type FrameDecoder interface {
	// Probe はデコーダーが起動可能かを確認する
	Probe(ctx context.Context) error

	// Duration は動画時間を秒で返す
	Duration(ctx context.Context, videoPath string) (float64, error)

	// ExtractFrame は指定タイムスタンプの静止画を1枚outPathへ書き出す
	// 既存ファイルは上書きされる。timestampSecondsは[0, duration)の範囲とし、
	// 末尾フレームのクランプは呼び出し側の責務とする
	ExtractFrame(ctx context.Context, videoPath string, timestampSeconds float64, outPath string) error
}

// FFmpegDecoder はffmpeg/ffprobeを使うFrameDecoderの実装
type FFmpegDecoder struct {
	ffmpegPath  string // ffmpegバイナリ名またはパス
	ffprobePath string // ffprobeバイナリ名またはパス
}

// NewFFmpegDecoder は新しいFFmpegDecoderを作成する
func NewFFmpegDecoder() *FFmpegDecoder {
	return &FFmpegDecoder{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
	}
}

// Probe はffmpegとffprobeが利用可能かチェックする
func (d *FFmpegDecoder) Probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, d.ffmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpegが見つかりません。インストールしてください: %w", err)
	}

	cmd = exec.CommandContext(probeCtx, d.ffprobePath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffprobeが見つかりません。インストールしてください: %w", err)
	}

	return nil
}

// Duration はffprobeで動画時間を取得する
func (d *FFmpegDecoder) Duration(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx,
		d.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("動画時間の取得に失敗: %w (stderr: %s)", err, stderr.String())
	}

	return ParseDuration(stdout.String())
}

// ExtractFrame はffmpegで1フレームをJPEGとして書き出す
func (d *FFmpegDecoder) ExtractFrame(ctx context.Context, videoPath string, timestampSeconds float64, outPath string) error {
	cmd := exec.CommandContext(ctx,
		d.ffmpegPath,
		"-ss", strconv.FormatFloat(timestampSeconds, 'f', 3, 64),
		"-i", videoPath,
		"-vframes", "1",
		"-q:v", "2", // 高品質JPEG
		"-y", // 上書き許可
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("フレーム抽出に失敗 (t=%.3f): %w (stderr: %s)", timestampSeconds, err, stderr.String())
	}

	// 非ゼロ終了しなくても出力が無ければ失敗扱いにする
	info, err := os.Stat(outPath)
	if err != nil {
		return fmt.Errorf("抽出結果のファイルがありません (t=%.3f): %w", timestampSeconds, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("抽出結果のファイルが空です (t=%.3f): %s", timestampSeconds, outPath)
	}

	return nil
}

// ParseDuration はffprobeの出力文字列を秒数に変換する
func ParseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return 0, fmt.Errorf("動画時間を読み取れません: %q", s)
	}

	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("動画時間が数値ではありません: %q: %w", s, err)
	}

	return seconds, nil
}
