package pipeline

import "math"

// ChoosePlan は動画時間（秒）からサンプリング計画を決定する
// 純粋関数で、入出力以外の作用を持たない。5分超の動画は
// 呼び出し側（ReadingDuration段階）で事前に弾かれている前提
//
// 段階テーブル（切り捨てた分 → 間隔秒/最大フレーム数）：
// ≤0.5→2/16, ≤1→3/20, ≤2→4/28, ≤3→5/32, ≤4→6/36, それ以外→7/40
// 分は整数に切り捨ててから段階に当てる（90秒は1分の段階になる）。
// 間隔・最大数ともに時間に対して単調非減少
func ChoosePlan(durationSeconds float64) SamplingPlan {
	minutes := math.Floor(durationSeconds / 60.0)

	switch {
	case minutes <= 0.5:
		return SamplingPlan{IntervalSeconds: 2, MaxFrames: 16}
	case minutes <= 1:
		return SamplingPlan{IntervalSeconds: 3, MaxFrames: 20}
	case minutes <= 2:
		return SamplingPlan{IntervalSeconds: 4, MaxFrames: 28}
	case minutes <= 3:
		return SamplingPlan{IntervalSeconds: 5, MaxFrames: 32}
	case minutes <= 4:
		return SamplingPlan{IntervalSeconds: 6, MaxFrames: 36}
	default:
		return SamplingPlan{IntervalSeconds: 7, MaxFrames: 40}
	}
}
