// Package vision グリッド画像のビジョンモデル解析を担う
//
// # 責務
// - 順序付きグリッド画像列からの解析リクエスト構築
// - ビジョンモデルAPIの呼び出しと応答の取り出し
// - ユーザー操作列の構造化レコードへの変換
//
// # 仕様
// - リクエストにはグリッド画像をbase64インライン画像として順番通りに含める
// - 応答レコードは大まかな形だけを検証し、内容の妥当性は後段のCLI編集に委ねる
package vision

import "fmt"

// TaskAnalysis はビジョンモデルが返す構造化された操作列の記述
type TaskAnalysis struct {
	TaskType             string         `json:"task_type"`             // タスク種別 (例: "form-submission")
	Summary              string         `json:"summary"`               // タスク全体の要約
	Actions              []string       `json:"actions"`               // 順序付きのユーザー操作列
	AutomationCandidates []string       `json:"automation_candidates"` // 自動化候補のラベル
	Technical            TechnicalNotes `json:"technical"`             // 技術的な注釈
}

// TechnicalNotes は自動化に必要な技術情報
type TechnicalNotes struct {
	Frames           []FrameAnnotation `json:"frames"`            // フレーム毎の注釈
	CriticalElements []string          `json:"critical_elements"` // 操作の成否を左右する要素
	ErrorScenarios   []string          `json:"error_scenarios"`   // 想定されるエラーシナリオ
	DynamicContent   []string          `json:"dynamic_content"`   // 動的に変化するコンテンツ
}

// FrameAnnotation はフレーム単位の技術注釈
type FrameAnnotation struct {
	URL            string   `json:"url"`             // 表示中のURL
	Selectors      []string `json:"selectors"`       // 操作対象のセレクタ
	WaitConditions []string `json:"wait_conditions"` // 待機条件
	StateChanges   []string `json:"state_changes"`   // 状態変化
}

// ValidateShape は応答の大まかな形だけを検証する
// 内容の正しさまでは見ない（CLI編集段階でユーザーが修正できるため）
func (a *TaskAnalysis) ValidateShape() error {
	if a.TaskType == "" {
		return fmt.Errorf("task_typeが空です")
	}
	if a.Summary == "" {
		return fmt.Errorf("summaryが空です")
	}
	if len(a.Actions) == 0 {
		return fmt.Errorf("actionsが空です")
	}
	return nil
}
