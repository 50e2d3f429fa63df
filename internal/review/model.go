// Package review 解析結果の対話的な確認・編集を担う
//
// # 責務
// - ビジョンモデルの解析結果を端末に表示する
// - ユーザーによる操作列の編集（修正・追加・削除）を受け付ける
// - 承認された自動化記述を後段のコード生成に渡せる形で返す
package review

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sushmithamallesh/ActionCraft/internal/vision"
)

// Approved はユーザーが承認した最終的な自動化記述
type Approved struct {
	TaskType string   // タスク種別
	Steps    []string // 順序付きの操作列
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	editingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Model は編集画面の状態を保持する
type Model struct {
	taskType string
	summary  string
	steps    []string

	cursor   int
	editing  bool
	input    string
	approved bool
	aborted  bool
}

// NewModel は解析結果から編集画面の初期状態を作成する
func NewModel(analysis *vision.TaskAnalysis) Model {
	steps := make([]string, len(analysis.Actions))
	copy(steps, analysis.Actions)

	return Model{
		taskType: analysis.TaskType,
		summary:  analysis.Summary,
		steps:    steps,
	}
}

// Init は初期コマンドを返す
func (m Model) Init() tea.Cmd {
	return nil
}

// Update はキー入力を処理して状態を更新する
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editing {
		return m.updateEditing(keyMsg)
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.steps)-1 {
			m.cursor++
		}
	case "e", "enter":
		if len(m.steps) > 0 {
			m.editing = true
			m.input = m.steps[m.cursor]
		}
	case "a":
		// カーソルの直後に空のステップを追加して編集に入る
		insertAt := m.cursor + 1
		if len(m.steps) == 0 {
			insertAt = 0
		}
		m.steps = append(m.steps[:insertAt], append([]string{""}, m.steps[insertAt:]...)...)
		m.cursor = insertAt
		m.editing = true
		m.input = ""
	case "d":
		if len(m.steps) > 0 {
			m.steps = append(m.steps[:m.cursor], m.steps[m.cursor+1:]...)
			if m.cursor >= len(m.steps) && m.cursor > 0 {
				m.cursor--
			}
		}
	case "y":
		if len(m.steps) > 0 {
			m.approved = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// updateEditing は編集中のキー入力を処理する
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input)
		if text == "" {
			// 空のまま確定したステップは削除する
			m.steps = append(m.steps[:m.cursor], m.steps[m.cursor+1:]...)
			if m.cursor >= len(m.steps) && m.cursor > 0 {
				m.cursor--
			}
		} else {
			m.steps[m.cursor] = text
		}
		m.editing = false
		m.input = ""
	case tea.KeyEsc:
		m.editing = false
		m.input = ""
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}

	return m, nil
}

// View は編集画面を描画する
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("タスク: %s", m.taskType)))
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(m.summary))
	b.WriteString("\n\n")

	if len(m.steps) == 0 {
		b.WriteString("（ステップがありません。a で追加してください）\n")
	}

	for i, step := range m.steps {
		line := fmt.Sprintf("%2d. %s", i+1, step)
		if i == m.cursor {
			if m.editing {
				line = fmt.Sprintf("%2d. %s█", i+1, m.input)
				b.WriteString(editingStyle.Render(line))
			} else {
				b.WriteString(selectedStyle.Render("> " + line))
			}
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.editing {
		b.WriteString(helpStyle.Render("enter: 確定  esc: キャンセル"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓: 移動  e: 編集  a: 追加  d: 削除  y: 承認して続行  q: 中止"))
	}
	b.WriteString("\n")

	return b.String()
}

// Approved は承認済みかを返す
func (m Model) Approved() bool {
	return m.approved
}

// Result は現在の編集内容を自動化記述として返す
func (m Model) Result() Approved {
	steps := make([]string, len(m.steps))
	copy(steps, m.steps)
	return Approved{TaskType: m.taskType, Steps: steps}
}

// Run は編集画面を起動し、承認された自動化記述を返す
// ユーザーが中止した場合は (nil, nil) を返す
func Run(analysis *vision.TaskAnalysis) (*Approved, error) {
	program := tea.NewProgram(NewModel(analysis))

	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("編集画面の実行に失敗: %w", err)
	}

	m, ok := finalModel.(Model)
	if !ok || !m.Approved() {
		return nil, nil
	}

	result := m.Result()
	return &result, nil
}
