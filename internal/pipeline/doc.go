// Package pipeline 画面録画動画からのフレーム抽出とグリッド合成を担う
//
// # 責務
// - 動画時間に応じたサンプリング計画の決定
// - 外部デコーダー経由での等間隔フレーム抽出
// - 抽出フレームの2x2グリッド画像への合成
// - 実行前の環境検証と入力動画の特定
// - 出力ディレクトリのパージと再生成
//
// # 使い分け
// このパッケージは以下の場合に使用する：
// - 単一の録画動画から規則的な静止画列を生成したい
// - 静止画列を固定解像度の合成画像にまとめたい
// - 実行全体を1つの状態機械として進めたい
//
// # 仕様
// - Sampling Plan: 動画時間（分）に基づく固定の段階テーブル
// - Frame Set Builder: 先頭・末尾＋等間隔の中間フレームを並行抽出
// - Grid Composer: 1920x1080キャンバスへの4分割配置・高品質リサンプリング
// - Grid Set Builder: 4枚単位のバッチ合成・インデックス固定
// - Video Pipeline: 検証→特定→時間取得→抽出→合成の逐次実行
// - 失敗は安定した機械可読コードを持つ型付きエラーに正規化される
// - 同一ディレクトリへの並行実行は非対応（実行毎に排他所有を前提とする）
//
// # 前提要件
//   - ffmpeg / ffprobe: フレーム抽出と動画時間の取得に使用
//     Ubuntu/Debian: sudo apt install ffmpeg
//     Red Hat/Fedora: sudo dnf install ffmpeg
package pipeline
