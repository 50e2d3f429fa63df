package pipeline

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/Sushmithamallesh/ActionCraft/internal/decoder"
)

// Dirs はパイプラインが扱う固定ディレクトリ群
type Dirs struct {
	Automate string // 入力動画を置くディレクトリ
	Frames   string // 抽出フレームの出力先
	Grid     string // グリッド画像の出力先
}

// VideoPipeline は動画からグリッド画像までの一連の処理を状態機械として進める
//
// 状態遷移：
// Idle → ValidatingEnvironment → LocatingVideo → ReadingDuration
//
//	→ ExtractingFrames → ComposingGrids → Done
//
// いずれの状態からも失敗時はFailedに遷移する。失敗した段階の
// 部分的なリトライは行わず、実行全体を中断して最初のエラーを返す
type VideoPipeline struct {
	decoder decoder.FrameDecoder
	dirs    Dirs
	frames  *FrameSetBuilder
	grids   *GridSetBuilder

	mu    sync.RWMutex
	state State
}

// New は新しいVideoPipelineを作成する
func New(dec decoder.FrameDecoder, dirs Dirs, progress bool) *VideoPipeline {
	return &VideoPipeline{
		decoder: dec,
		dirs:    dirs,
		frames:  NewFrameSetBuilder(dec, dirs.Frames, progress),
		grids:   NewGridSetBuilder(NewGridComposer(), dirs.Grid),
		state:   StateIdle,
	}
}

// State は現在の進行状態を返す
func (p *VideoPipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *VideoPipeline) setState(state State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
}

// Run はパイプラインを最初から最後まで実行する
func (p *VideoPipeline) Run(ctx context.Context) (*Result, error) {
	result, err := p.run(ctx)
	if err != nil {
		p.setState(StateFailed)
		return nil, AsError(err)
	}
	p.setState(StateDone)
	return result, nil
}

func (p *VideoPipeline) run(ctx context.Context) (*Result, error) {
	p.setState(StateValidatingEnvironment)
	if err := p.validateEnvironment(ctx); err != nil {
		return nil, err
	}

	p.setState(StateLocatingVideo)
	video, err := p.locateVideo()
	if err != nil {
		return nil, err
	}

	p.setState(StateReadingDuration)
	duration, err := p.readDuration(ctx, video.Path)
	if err != nil {
		return nil, err
	}
	video.Duration = duration

	plan := ChoosePlan(duration)
	log.Printf("動画を分類しました: %.1f秒 → 間隔%.0f秒 / 最大%dフレーム",
		duration, plan.IntervalSeconds, plan.MaxFrames)

	p.setState(StateExtractingFrames)
	frames, err := p.frames.Extract(ctx, *video, plan)
	if err != nil {
		return nil, err
	}
	log.Printf("%dフレームを抽出しました: %s", len(frames), p.dirs.Frames)

	p.setState(StateComposingGrids)
	gridPaths, err := p.grids.ComposeAll(ctx, frames)
	if err != nil {
		return nil, err
	}
	log.Printf("%d枚のグリッド画像を合成しました: %s", len(gridPaths), p.dirs.Grid)

	framePaths := make([]string, len(frames))
	for i, frame := range frames {
		framePaths[i] = frame.Path
	}

	return &Result{
		RunID:      uuid.NewString(),
		Video:      *video,
		Plan:       plan,
		FramePaths: framePaths,
		GridPaths:  gridPaths,
	}, nil
}

// validateEnvironment はデコーダーとディレクトリの前提条件を検証する
// 出力ディレクトリは存在しなければ自動作成する（エラーではない）
func (p *VideoPipeline) validateEnvironment(ctx context.Context) error {
	if err := p.decoder.Probe(ctx); err != nil {
		return WrapError(ErrCodeDecoderMissing, "デコーダーが利用できません", err)
	}

	info, err := os.Stat(p.dirs.Automate)
	if err != nil {
		if os.IsNotExist(err) {
			return WrapError(ErrCodeFileAccess, "入力ディレクトリが存在しません", err)
		}
		if os.IsPermission(err) {
			return WrapError(ErrCodePermission, "入力ディレクトリにアクセスできません", err)
		}
		return WrapError(ErrCodeFileAccess, "入力ディレクトリの確認に失敗しました", err)
	}
	if !info.IsDir() {
		return NewError(ErrCodeFileAccess, fmt.Sprintf("入力パスがディレクトリではありません: %s", p.dirs.Automate))
	}

	for _, dir := range []string{p.dirs.Frames, p.dirs.Grid} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return WrapError(ErrCodePermission, fmt.Sprintf("出力ディレクトリを作成できません: %s", dir), err)
		}
	}

	return nil
}

// locateVideo は入力ディレクトリからちょうど1本の動画を特定する
// 候補が0本・複数本の場合はディレクトリのパージを行う前に失敗する
func (p *VideoPipeline) locateVideo() (*VideoAsset, error) {
	entries, err := os.ReadDir(p.dirs.Automate)
	if err != nil {
		if os.IsPermission(err) {
			return nil, WrapError(ErrCodePermission, "入力ディレクトリを読み取れません", err)
		}
		return nil, WrapError(ErrCodeFileAccess, "入力ディレクトリの読み取りに失敗しました", err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsSupportedExt(entry.Name()) {
			candidates = append(candidates, entry.Name())
		}
	}

	switch {
	case len(candidates) == 0:
		return nil, NewError(ErrCodeNoVideoFound,
			fmt.Sprintf("%s に動画ファイルがありません", p.dirs.Automate))
	case len(candidates) > 1:
		return nil, NewError(ErrCodeMultipleVideosFound,
			fmt.Sprintf("%s に動画ファイルが%d本あります。1本だけにしてください", p.dirs.Automate, len(candidates)))
	}

	path := filepath.Join(p.dirs.Automate, candidates[0])
	info, err := os.Stat(path)
	if err != nil {
		return nil, WrapError(ErrCodeFileAccess, "動画ファイルの確認に失敗しました", err)
	}
	if info.Size() == 0 {
		return nil, NewError(ErrCodeEmptyFile, fmt.Sprintf("動画ファイルが空です: %s", path))
	}

	return &VideoAsset{
		Path:   path,
		Format: filepath.Ext(candidates[0]),
		Size:   info.Size(),
	}, nil
}

// readDuration は動画時間を取得して範囲を検証する
func (p *VideoPipeline) readDuration(ctx context.Context, videoPath string) (float64, error) {
	duration, err := p.decoder.Duration(ctx, videoPath)
	if err != nil {
		return 0, WrapError(ErrCodeDurationRead, "動画時間を取得できませんでした", err)
	}

	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return 0, NewError(ErrCodeInvalidDuration,
			fmt.Sprintf("動画時間が不正です: %v", duration))
	}

	if duration > MaxDurationSeconds {
		return 0, NewError(ErrCodeDurationTooLong,
			fmt.Sprintf("動画が長すぎます: %.1f秒 (上限%.0f秒)", duration, MaxDurationSeconds))
	}

	return duration, nil
}
