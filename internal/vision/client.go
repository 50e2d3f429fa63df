package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/Sushmithamallesh/ActionCraft/internal/config"
)

// Client はビジョンモデルAPIのクライアント
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	endpoint   string
}

// NewClient は新しいClientを作成する
func NewClient(cfg config.VisionConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
	}
}

// generateContentリクエスト・応答のワイヤ形式
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64エンコード済み画像
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// buildRequest は順序付きグリッド画像列から解析リクエストを構築する
// 先頭にプロンプト、続けて各グリッドをbase64インライン画像として順番通りに並べる
func buildRequest(gridPaths []string, frameCount int) (*generateRequest, error) {
	if len(gridPaths) == 0 {
		return nil, fmt.Errorf("グリッド画像がありません")
	}

	parts := make([]part, 0, len(gridPaths)+1)
	parts = append(parts, part{Text: buildPrompt(len(gridPaths), frameCount)})

	for _, path := range gridPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("グリッド画像の読み込みに失敗 (%s): %w", path, err)
		}
		parts = append(parts, part{
			InlineData: &inlineData{
				MimeType: "image/jpeg",
				Data:     base64.StdEncoding.EncodeToString(data),
			},
		})
	}

	return &generateRequest{Contents: []content{{Parts: parts}}}, nil
}

// Analyze はグリッド画像列をビジョンモデルに渡して構造化レコードを取得する
func (c *Client) Analyze(ctx context.Context, gridPaths []string, frameCount int) (*TaskAnalysis, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("APIキーが設定されていません (GEMINI_API_KEY)")
	}

	reqBody, err := buildRequest(gridPaths, frameCount)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("リクエストのエンコードに失敗: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ビジョンAPIの呼び出しに失敗: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("応答の読み取りに失敗: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("応答のデコードに失敗: %w", err)
	}
	if genResp.Error != nil {
		return nil, fmt.Errorf("ビジョンAPIがエラーを返しました (code %d): %s", genResp.Error.Code, genResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ビジョンAPIが異常ステータスを返しました: %s", resp.Status)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("応答に候補がありません")
	}

	return DecodeAnalysisText(genResp.Candidates[0].Content.Parts[0].Text)
}

// DecodeAnalysisText はモデル出力のテキストからTaskAnalysisを取り出す
// コードフェンスに包まれたJSONにも対応する
func DecodeAnalysisText(text string) (*TaskAnalysis, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var analysis TaskAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, fmt.Errorf("解析結果のデコードに失敗: %w", err)
	}
	if err := analysis.ValidateShape(); err != nil {
		return nil, fmt.Errorf("解析結果の形が不正です: %w", err)
	}

	return &analysis, nil
}
