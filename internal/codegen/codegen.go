// Package codegen 承認済みの自動化記述からのスクリプト生成の契約を定義する
//
// 生成そのものは未実装で、インターフェースと型だけを提供する。
// パイプライン・解析・編集の各段階はこの契約だけに依存する
package codegen

import (
	"context"
	"errors"
)

// ErrNotImplemented はコード生成が未実装であることを表す
var ErrNotImplemented = errors.New("コード生成は未実装です")

// ActionDescription はコード生成への入力となる自動化記述
type ActionDescription struct {
	TaskType string   // タスク種別
	Steps    []string // 順序付きの操作列
}

// Generator は自動化スクリプト生成の契約
type Generator interface {
	// Generate は自動化記述からスクリプト本文を生成する
	Generate(ctx context.Context, desc ActionDescription) (string, error)
}

// Unimplemented は常にErrNotImplementedを返すプレースホルダ実装
type Unimplemented struct{}

// Generate は未実装エラーを返す
func (Unimplemented) Generate(_ context.Context, _ ActionDescription) (string, error) {
	return "", ErrNotImplemented
}
