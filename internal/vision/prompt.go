package vision

import "fmt"

// analysisPrompt はグリッド解析用のプロンプト
// 各グリッドは時系列順の4フレームをまとめた2x2合成画像である前提
const analysisPrompt = `You are analyzing a screen recording of a user performing a task in a browser or desktop application.

Each attached image is a 2x2 composite grid. The quadrants are ordered top-left, top-right, bottom-left, bottom-right, and the grids themselves are in chronological order. Some quadrants of the final grid may be solid black; ignore them.

Reconstruct the user's action sequence and respond with a single JSON object, no surrounding prose, matching exactly this schema:

{
  "task_type": "short kebab-case label for the kind of task",
  "summary": "one-paragraph description of what the user accomplished",
  "actions": ["ordered list of concrete user actions"],
  "automation_candidates": ["labels of automation approaches that could replay this task"],
  "technical": {
    "frames": [
      {
        "url": "URL visible in the frame, empty string if none",
        "selectors": ["CSS selectors of elements the user interacted with"],
        "wait_conditions": ["conditions an automation script should wait for"],
        "state_changes": ["observable state changes in this frame"]
      }
    ],
    "critical_elements": ["elements whose presence is required for the task to succeed"],
    "error_scenarios": ["ways this task could fail"],
    "dynamic_content": ["content that changes between runs"]
  }
}

There are %d grid images covering %d extracted frames in total.`

// buildPrompt はグリッド数とフレーム数を埋め込んだプロンプトを返す
func buildPrompt(gridCount, frameCount int) string {
	return fmt.Sprintf(analysisPrompt, gridCount, frameCount)
}
