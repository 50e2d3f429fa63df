package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png" // デコーダーがPNGを出力する場合に備えて登録する
	"math"
	"os"
	"path/filepath"
	"sort"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// グリッド合成の固定パラメータ
const (
	GridWidth     = 1920 // 合成画像の幅
	GridHeight    = 1080 // 合成画像の高さ
	gridGap       = 2    // 4分割セル間の隙間（ピクセル）
	FramesPerGrid = 4    // 1グリッドあたりの最大フレーム数
)

// GridComposer は最大4枚のフレームを1枚の合成画像にまとめる
type GridComposer struct {
	width   int
	height  int
	gap     int
	quality int // JPEG品質（1-100）
}

// NewGridComposer は固定解像度のGridComposerを作成する
func NewGridComposer() *GridComposer {
	return &GridComposer{
		width:   GridWidth,
		height:  GridHeight,
		gap:     gridGap,
		quality: 100, // 最高品質。Goのエンコーダーは色差の間引きを行わない
	}
}

// Compose は1〜4枚のフレームを行優先で4分割配置した合成画像を書き出す
// 配置は index 0→左上, 1→右上, 2→左下, 3→右下。4枚未満のバッチでは
// 残りの区画が黒背景のまま残り、これはエラーではない
func (c *GridComposer) Compose(frames []Frame, outPath string) error {
	if len(frames) == 0 || len(frames) > FramesPerGrid {
		return fmt.Errorf("フレーム数が不正です: %d (1〜%dのみ)", len(frames), FramesPerGrid)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	cellWidth := (c.width - c.gap) / 2
	cellHeight := (c.height - c.gap) / 2

	for i, frame := range frames {
		src, err := loadImage(frame.Path)
		if err != nil {
			return fmt.Errorf("フレーム画像の読み込みに失敗 (%s): %w", frame.Path, err)
		}

		col := i % 2
		row := i / 2
		cellX := col * (cellWidth + c.gap)
		cellY := row * (cellHeight + c.gap)

		c.drawIntoCell(canvas, src, cellX, cellY, cellWidth, cellHeight)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("合成画像の作成に失敗: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()

	if err := jpeg.Encode(out, canvas, &jpeg.Options{Quality: c.quality}); err != nil {
		return fmt.Errorf("JPEGエンコードに失敗: %w", err)
	}

	return nil
}

// drawIntoCell はフレームをセル内に収まるようリサイズして描画する
// アスペクト比を維持し、元解像度を超える拡大は行わない。
// リサイズにはCatmull-Romカーネルを使い視覚品質を保つ
func (c *GridComposer) drawIntoCell(dst *image.RGBA, src image.Image, cellX, cellY, cellWidth, cellHeight int) {
	srcBounds := src.Bounds()
	srcWidth := srcBounds.Dx()
	srcHeight := srcBounds.Dy()
	if srcWidth == 0 || srcHeight == 0 {
		return
	}

	scale := math.Min(float64(cellWidth)/float64(srcWidth), float64(cellHeight)/float64(srcHeight))
	if scale > 1 {
		scale = 1 // 拡大はしない
	}

	targetWidth := int(float64(srcWidth) * scale)
	targetHeight := int(float64(srcHeight) * scale)
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	// セル内で中央寄せ
	offsetX := cellX + (cellWidth-targetWidth)/2
	offsetY := cellY + (cellHeight-targetHeight)/2
	targetRect := image.Rect(offsetX, offsetY, offsetX+targetWidth, offsetY+targetHeight)

	xdraw.CatmullRom.Scale(dst, targetRect, src, srcBounds, xdraw.Src, nil)
}

// loadImage はフレームファイルを画像としてデコードする
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// GridSetBuilder はフレーム列全体のグリッド合成を統括する
type GridSetBuilder struct {
	composer  *GridComposer
	outputDir string // グリッドの出力先（実行毎にパージされる）
}

// NewGridSetBuilder は新しいGridSetBuilderを作成する
func NewGridSetBuilder(composer *GridComposer, outputDir string) *GridSetBuilder {
	return &GridSetBuilder{
		composer:  composer,
		outputDir: outputDir,
	}
}

// Batches はフレーム列を順序を保ったまま最大4枚ずつのバッチに分割する
func (b *GridSetBuilder) Batches(frames []Frame) []GridBatch {
	batches := make([]GridBatch, 0, (len(frames)+FramesPerGrid-1)/FramesPerGrid)
	for start := 0; start < len(frames); start += FramesPerGrid {
		end := start + FramesPerGrid
		if end > len(frames) {
			end = len(frames)
		}
		index := start / FramesPerGrid
		batches = append(batches, GridBatch{
			Index:  index,
			Frames: frames[start:end],
			Path:   filepath.Join(b.outputDir, fmt.Sprintf("grid_%03d.jpg", index)),
		})
	}
	return batches
}

// ComposeAll はグリッドディレクトリをパージし、全バッチを合成する
// バッチ同士は並行に処理されるが、バッチと出力インデックスの対応は
// 固定なので完了順に依存しない。グリッド数は常に ceil(フレーム数/4)
func (b *GridSetBuilder) ComposeAll(ctx context.Context, frames []Frame) ([]string, error) {
	if err := purgeDir(b.outputDir); err != nil {
		return nil, WrapError(ErrCodeFileAccess, "グリッドディレクトリの準備に失敗しました", err)
	}

	batches := b.Batches(frames)

	g, gctx := errgroup.WithContext(ctx)
	for _, batch := range batches {
		batch := batch
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := b.composer.Compose(batch.Frames, batch.Path); err != nil {
				return fmt.Errorf("グリッド %03d の合成に失敗: %w", batch.Index, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, WrapError(ErrCodeFileAccess, "グリッド合成に失敗しました", err)
	}

	paths := make([]string, len(batches))
	for i, batch := range batches {
		paths[i] = batch.Path
	}
	sort.Strings(paths)

	return paths, nil
}
