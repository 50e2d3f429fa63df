package server

import (
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sushmithamallesh/ActionCraft/internal/config"
)

// resultHandler は成果物ディレクトリを参照するハンドラ群
type resultHandler struct {
	content config.ContentConfig
}

// HealthResponse はヘルスチェックの応答
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse はシステム状態の応答
type StatusResponse struct {
	Status     string    `json:"status"`
	FrameCount int       `json:"frame_count"`
	GridCount  int       `json:"grid_count"`
	Analyzed   bool      `json:"analyzed"`
	Timestamp  time.Time `json:"timestamp"`
}

// FilesResponse はファイル一覧の応答
type FilesResponse struct {
	Files []string `json:"files"`
}

// ErrorResponse はエラー応答
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthCheck はヘルスチェックエンドポイントの実装
func (h *resultHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// GetStatus はシステム状態取得エンドポイントの実装
func (h *resultHandler) GetStatus(c *gin.Context) {
	frames := listJPEGs(h.content.FramesDir())
	grids := listJPEGs(h.content.GridDir())

	_, err := os.Stat(h.content.AnalysisPath())

	c.JSON(http.StatusOK, StatusResponse{
		Status:     "running",
		FrameCount: len(frames),
		GridCount:  len(grids),
		Analyzed:   err == nil,
		Timestamp:  time.Now(),
	})
}

// GetFrames はフレーム一覧取得エンドポイントの実装
func (h *resultHandler) GetFrames(c *gin.Context) {
	c.JSON(http.StatusOK, FilesResponse{Files: listJPEGs(h.content.FramesDir())})
}

// GetGrids はグリッド一覧取得エンドポイントの実装
func (h *resultHandler) GetGrids(c *gin.Context) {
	c.JSON(http.StatusOK, FilesResponse{Files: listJPEGs(h.content.GridDir())})
}

// GetAnalysis は保存済み解析結果の取得エンドポイントの実装
func (h *resultHandler) GetAnalysis(c *gin.Context) {
	path := h.content.AnalysisPath()
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:     "analysis_not_found",
			Message:   "解析結果がまだ保存されていません",
			Timestamp: time.Now(),
		})
		return
	}

	c.File(path)
}

// listJPEGs はディレクトリ内のJPEGファイル名を辞書順で返す
// ファイル名は連番ゼロ埋めなので辞書順＝生成順になる
func listJPEGs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".jpg") {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	return files
}
