package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
)

// fakeDecoder はテスト用のFrameDecoder実装
// 抽出呼び出しごとに小さなJPEGを書き出し、呼び出し内容を記録する
type fakeDecoder struct {
	mu          sync.Mutex
	probeErr    error
	duration    float64
	durationErr error
	failAtIndex int // このインデックス以降の抽出を失敗させる（-1で無効）
	extracted   []float64
}

func newFakeDecoder(duration float64) *fakeDecoder {
	return &fakeDecoder{duration: duration, failAtIndex: -1}
}

func (f *fakeDecoder) Probe(_ context.Context) error {
	return f.probeErr
}

func (f *fakeDecoder) Duration(_ context.Context, _ string) (float64, error) {
	if f.durationErr != nil {
		return 0, f.durationErr
	}
	return f.duration, nil
}

func (f *fakeDecoder) ExtractFrame(_ context.Context, _ string, timestampSeconds float64, outPath string) error {
	f.mu.Lock()
	count := len(f.extracted)
	f.extracted = append(f.extracted, timestampSeconds)
	f.mu.Unlock()

	if f.failAtIndex >= 0 && count >= f.failAtIndex {
		return fmt.Errorf("疑似的な抽出失敗 (t=%.3f)", timestampSeconds)
	}

	return writeTestJPEG(outPath, 64, 36)
}

// writeTestJPEG は単色の小さなJPEGを書き出す
func writeTestJPEG(path string, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 120, B: 200, A: 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

// TestPlanFrames はフレーム列の計算をテストする
func TestPlanFrames(t *testing.T) {
	testCases := []struct {
		name      string
		duration  float64
		plan      SamplingPlan
		wantCount int
	}{
		{"90秒は最大数で頭打ち", 90, SamplingPlan{IntervalSeconds: 3, MaxFrames: 20}, 20},
		{"12.5秒は間隔どおり", 12.5, SamplingPlan{IntervalSeconds: 2, MaxFrames: 16}, 7},
		{"30秒ちょうど", 30, SamplingPlan{IntervalSeconds: 2, MaxFrames: 16}, 16},
		{"極端に短い動画でも最低2枚", 1, SamplingPlan{IntervalSeconds: 2, MaxFrames: 16}, 2},
		{"0.1秒以下でも2枚が昇順になる", 0.05, SamplingPlan{IntervalSeconds: 2, MaxFrames: 16}, 2},
	}

	builder := NewFrameSetBuilder(newFakeDecoder(0), t.TempDir(), false)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			frames := builder.PlanFrames(tc.duration, tc.plan)

			if len(frames) != tc.wantCount {
				t.Fatalf("フレーム数が期待と異なります: got %d, want %d", len(frames), tc.wantCount)
			}
			if frames[0].Timestamp != 0 {
				t.Errorf("先頭フレームが t=0 ではありません: %v", frames[0].Timestamp)
			}
			wantLast := tc.duration - 0.1
			if wantLast <= 0 {
				wantLast = tc.duration / 2
			}
			last := frames[len(frames)-1].Timestamp
			if math.Abs(last-wantLast) > 1e-9 {
				t.Errorf("末尾フレームの位置が期待と異なります: got %v, want %v", last, wantLast)
			}

			// タイムスタンプは厳密に昇順
			for i := 1; i < len(frames); i++ {
				if frames[i].Timestamp <= frames[i-1].Timestamp {
					t.Errorf("タイムスタンプが昇順ではありません: [%d]=%v, [%d]=%v",
						i-1, frames[i-1].Timestamp, i, frames[i].Timestamp)
				}
			}
		})
	}
}

// TestPlanFramesInteriorSpacing は中間フレームの間隔式をテストする
func TestPlanFramesInteriorSpacing(t *testing.T) {
	builder := NewFrameSetBuilder(newFakeDecoder(0), t.TempDir(), false)

	frames := builder.PlanFrames(90, SamplingPlan{IntervalSeconds: 3, MaxFrames: 20})

	// 間隔は (90-1)/(20-2)
	spacing := 89.0 / 18.0
	for i := 1; i <= len(frames)-2; i++ {
		want := float64(i) * spacing
		if math.Abs(frames[i].Timestamp-want) > 1e-9 {
			t.Fatalf("中間フレーム %d の位置が期待と異なります: got %v, want %v", i, frames[i].Timestamp, want)
		}
	}
}

// TestExtract は全フレームの抽出とパージをテストする
func TestExtract(t *testing.T) {
	outputDir := t.TempDir()

	// 前回の実行を模した古いファイルを置いておく
	stale := filepath.Join(outputDir, "frame_099.jpg")
	if err := os.WriteFile(stale, []byte("stale"), 0644); err != nil {
		t.Fatalf("古いファイルの作成に失敗しました: %v", err)
	}

	dec := newFakeDecoder(90)
	builder := NewFrameSetBuilder(dec, outputDir, false)

	video := VideoAsset{Path: "/tmp/video.mp4", Duration: 90}
	frames, err := builder.Extract(context.Background(), video, SamplingPlan{IntervalSeconds: 3, MaxFrames: 20})
	if err != nil {
		t.Fatalf("抽出に失敗しました: %v", err)
	}

	if len(frames) != 20 {
		t.Fatalf("フレーム数が期待と異なります: got %d, want 20", len(frames))
	}

	// 古いファイルはパージされている
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("前回実行のファイルがパージされていません")
	}

	// 返却はパスの辞書順で、タイムスタンプも昇順になる
	if !sort.SliceIsSorted(frames, func(i, j int) bool { return frames[i].Path < frames[j].Path }) {
		t.Error("返却フレームがパスの辞書順ではありません")
	}
	for i := 1; i < len(frames); i++ {
		if frames[i].Timestamp <= frames[i-1].Timestamp {
			t.Errorf("辞書順で並べたときタイムスタンプが昇順ではありません: [%d]=%v, [%d]=%v",
				i-1, frames[i-1].Timestamp, i, frames[i].Timestamp)
		}
	}

	// 全ファイルが実在する
	for _, frame := range frames {
		if _, err := os.Stat(frame.Path); err != nil {
			t.Errorf("フレームファイルがありません: %s", frame.Path)
		}
	}
}

// TestExtractFailurePropagates は1枚の失敗が全体の失敗になることをテストする
func TestExtractFailurePropagates(t *testing.T) {
	dec := newFakeDecoder(90)
	dec.failAtIndex = 5 // 途中の抽出を失敗させる

	builder := NewFrameSetBuilder(dec, t.TempDir(), false)

	video := VideoAsset{Path: "/tmp/video.mp4", Duration: 90}
	_, err := builder.Extract(context.Background(), video, SamplingPlan{IntervalSeconds: 3, MaxFrames: 20})
	if err == nil {
		t.Fatal("失敗が伝播していません")
	}
	if CodeOf(err) != ErrCodeFileAccess {
		t.Errorf("エラーコードが期待と異なります: got %s, want %s", CodeOf(err), ErrCodeFileAccess)
	}
}
