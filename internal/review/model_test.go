package review

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sushmithamallesh/ActionCraft/internal/vision"
)

func testAnalysis() *vision.TaskAnalysis {
	return &vision.TaskAnalysis{
		TaskType: "login",
		Summary:  "ログイン操作",
		Actions:  []string{"ユーザー名を入力", "パスワードを入力", "ログインをクリック"},
	}
}

// key はテスト用のキー入力メッセージを作る
func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, keys ...string) Model {
	t.Helper()

	for _, k := range keys {
		next, _ := m.Update(key(k))
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Updateの戻りがModelではありません: %T", next)
		}
	}
	return m
}

// TestNewModel は初期状態をテストする
func TestNewModel(t *testing.T) {
	m := NewModel(testAnalysis())

	result := m.Result()
	if result.TaskType != "login" {
		t.Errorf("タスク種別が期待と異なります: %s", result.TaskType)
	}
	if len(result.Steps) != 3 {
		t.Errorf("ステップ数が期待と異なります: %d", len(result.Steps))
	}
	if m.Approved() {
		t.Error("初期状態で承認済みになっています")
	}
}

// TestCursorMovement はカーソル移動をテストする
func TestCursorMovement(t *testing.T) {
	m := NewModel(testAnalysis())

	m = update(t, m, "j", "j")
	if m.cursor != 2 {
		t.Errorf("カーソル位置が期待と異なります: %d", m.cursor)
	}

	// 末尾より先には進まない
	m = update(t, m, "j")
	if m.cursor != 2 {
		t.Errorf("カーソルが範囲を超えました: %d", m.cursor)
	}

	m = update(t, m, "k", "k", "k")
	if m.cursor != 0 {
		t.Errorf("カーソルが先頭に戻りません: %d", m.cursor)
	}
}

// TestEditStep はステップの編集をテストする
func TestEditStep(t *testing.T) {
	m := NewModel(testAnalysis())

	// 編集に入り、全消しして新しい内容を入力する
	m = update(t, m, "e")
	if !m.editing {
		t.Fatal("編集モードに入っていません")
	}

	for range "ユーザー名を入力" {
		m = update(t, m, "backspace")
	}
	m = update(t, m, "メール", "を入力", "enter")

	if m.editing {
		t.Error("編集モードが終わっていません")
	}
	if got := m.Result().Steps[0]; got != "メールを入力" {
		t.Errorf("編集結果が期待と異なります: %s", got)
	}
}

// TestAddAndDeleteStep はステップの追加・削除をテストする
func TestAddAndDeleteStep(t *testing.T) {
	m := NewModel(testAnalysis())

	// カーソルの直後に追加する
	m = update(t, m, "a", "確認画面を待つ", "enter")
	steps := m.Result().Steps
	if len(steps) != 4 {
		t.Fatalf("追加後のステップ数が期待と異なります: %d", len(steps))
	}
	if steps[1] != "確認画面を待つ" {
		t.Errorf("追加位置が期待と異なります: %v", steps)
	}

	// 追加したステップを削除する
	m = update(t, m, "d")
	if got := len(m.Result().Steps); got != 3 {
		t.Errorf("削除後のステップ数が期待と異なります: %d", got)
	}
}

// TestEmptyEditRemovesStep は空のまま確定したステップが消えることをテストする
func TestEmptyEditRemovesStep(t *testing.T) {
	m := NewModel(testAnalysis())

	m = update(t, m, "a", "enter")
	if got := len(m.Result().Steps); got != 3 {
		t.Errorf("空ステップが残っています: %d", got)
	}
}

// TestApprove は承認操作をテストする
func TestApprove(t *testing.T) {
	m := NewModel(testAnalysis())

	m = update(t, m, "y")
	if !m.Approved() {
		t.Error("承認されていません")
	}
}

// TestAbort は中止操作をテストする
func TestAbort(t *testing.T) {
	m := NewModel(testAnalysis())

	m = update(t, m, "q")
	if m.Approved() {
		t.Error("中止したのに承認済みになっています")
	}
	if !m.aborted {
		t.Error("中止フラグが立っていません")
	}
}
