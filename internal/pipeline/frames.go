package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Sushmithamallesh/ActionCraft/internal/decoder"
)

// FrameSetBuilder は動画1本分のフレーム列の抽出を統括する
type FrameSetBuilder struct {
	decoder   decoder.FrameDecoder
	outputDir string // フレームの出力先（実行毎にパージされる）
	progress  bool   // 抽出中にプログレスバーを表示するか
}

// NewFrameSetBuilder は新しいFrameSetBuilderを作成する
func NewFrameSetBuilder(dec decoder.FrameDecoder, outputDir string, progress bool) *FrameSetBuilder {
	return &FrameSetBuilder{
		decoder:   dec,
		outputDir: outputDir,
		progress:  progress,
	}
}

// PlanFrames は動画時間とサンプリング計画からフレーム列を計算する
// 純粋関数で、ファイルパスはoutputDir相対の連番名になる
//
// 仕様：
// - frameCount = min(floor(duration/interval)+1, maxFrames)、ただし最低2枚
// - 先頭フレームは t=0、末尾フレームは t=duration-0.1 に固定
//   （0.1秒以下の動画では t=duration/2 に退避して昇順を保つ）
// - 中間フレームは間隔 (duration-1)/(frameCount-2) で等間隔に配置する
//   （名目上のintervalとは僅かにずれるが、この式が実際のタイムスタンプを決める）
func (b *FrameSetBuilder) PlanFrames(duration float64, plan SamplingPlan) []Frame {
	frameCount := int(math.Floor(duration/plan.IntervalSeconds)) + 1
	if frameCount > plan.MaxFrames {
		frameCount = plan.MaxFrames
	}
	if frameCount < 2 {
		frameCount = 2
	}

	frames := make([]Frame, frameCount)
	for i := range frames {
		frames[i] = Frame{
			Index: i,
			Path:  filepath.Join(b.outputDir, fmt.Sprintf("frame_%03d.jpg", i)),
		}
	}

	frames[0].Timestamp = 0
	last := duration - lastFrameOffset
	if last <= 0 {
		// 0.1秒以下の動画でも先頭と重ならない位置に末尾を置き、
		// タイムスタンプの厳密な昇順を守る
		last = duration / 2
	}
	frames[frameCount-1].Timestamp = last

	if frameCount > 2 {
		spacing := (duration - 1) / float64(frameCount-2)
		for i := 1; i <= frameCount-2; i++ {
			frames[i].Timestamp = float64(i) * spacing
		}
	}

	return frames
}

// Extract はフレーム列を計算して全フレームを抽出する
// 出力ディレクトリは書き込み前にパージされるため、前回の実行による
// 中途半端な状態が新しい実行に混ざることはない。1枚でも抽出に失敗した
// 場合は全体が失敗として伝播し、部分的なフレーム集合を成功として返さない
func (b *FrameSetBuilder) Extract(ctx context.Context, video VideoAsset, plan SamplingPlan) ([]Frame, error) {
	frames := b.PlanFrames(video.Duration, plan)

	if err := purgeDir(b.outputDir); err != nil {
		return nil, WrapError(ErrCodeFileAccess, "フレームディレクトリの準備に失敗しました", err)
	}

	var bar *progressbar.ProgressBar
	if b.progress {
		bar = progressbar.NewOptions(len(frames),
			progressbar.OptionSetDescription("フレーム抽出"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
		)
	}

	advance := func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	// 先頭と末尾は個別に抽出する
	first := frames[0]
	if err := b.decoder.ExtractFrame(ctx, video.Path, first.Timestamp, first.Path); err != nil {
		return nil, WrapError(ErrCodeFileAccess, "先頭フレームの抽出に失敗しました", err)
	}
	advance()

	if len(frames) > 1 {
		lastFrame := frames[len(frames)-1]
		if err := b.decoder.ExtractFrame(ctx, video.Path, lastFrame.Timestamp, lastFrame.Path); err != nil {
			return nil, WrapError(ErrCodeFileAccess, "末尾フレームの抽出に失敗しました", err)
		}
		advance()
	}

	// 中間フレームは並行抽出する。完了順は問わず、結果はインデックスで
	// 決まったスロットに入るため論理順序は常に昇順が保たれる
	g, gctx := errgroup.WithContext(ctx)
	for i := 1; i < len(frames)-1; i++ {
		frame := frames[i]
		g.Go(func() error {
			if err := b.decoder.ExtractFrame(gctx, video.Path, frame.Timestamp, frame.Path); err != nil {
				return fmt.Errorf("中間フレーム %03d の抽出に失敗: %w", frame.Index, err)
			}
			advance()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, WrapError(ErrCodeFileAccess, "中間フレームの抽出に失敗しました", err)
	}

	// ファイル名ソートで返却順序を強制する（連番ゼロ埋めなので辞書順＝時系列順）
	sort.Slice(frames, func(i, j int) bool { return frames[i].Path < frames[j].Path })

	return frames, nil
}

// purgeDir はディレクトリの中身を全て削除して作り直す
func purgeDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("ディレクトリの削除に失敗: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("ディレクトリの作成に失敗: %w", err)
	}
	return nil
}
