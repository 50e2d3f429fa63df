// Package server 実行結果を閲覧するためのローカルHTTP APIを提供する
//
// # 責務
// - パイプライン成果物（フレーム・グリッド・解析結果）の一覧と配信
// - 実行状態の確認用エンドポイント
//
// # 使い分け
// このパッケージは以下の場合に使用する：
// - 生成されたグリッド画像をブラウザで確認したい
// - 解析結果JSONを他のツールから取得したい
//
// # 仕様
// - GET /health: ヘルスチェック
// - GET /api/status: ディレクトリ別の成果物数とサーバー情報
// - GET /api/frames, /api/grids: ファイル一覧（辞書順）
// - GET /api/analysis: 保存済みの解析結果JSON
// - /frames/*, /grid/*: 画像ファイルの静的配信
package server
