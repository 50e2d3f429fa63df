package pipeline

import (
	"errors"
	"fmt"
)

// ErrorCode はパイプラインの失敗を分類する安定した機械可読コード
type ErrorCode string

const (
	ErrCodeDecoderMissing      ErrorCode = "decoder-missing"       // デコーダーが起動できない
	ErrCodePermission          ErrorCode = "permission-error"      // ディレクトリの権限不足
	ErrCodeNoVideoFound        ErrorCode = "no-video-found"        // 入力動画が見つからない
	ErrCodeMultipleVideosFound ErrorCode = "multiple-videos-found" // 候補動画が複数ある
	ErrCodeEmptyFile           ErrorCode = "empty-file"            // 動画ファイルが0バイト
	ErrCodeFileAccess          ErrorCode = "file-access-error"     // ファイル入出力の失敗
	ErrCodeInvalidDuration     ErrorCode = "invalid-duration"      // 動画時間が不正
	ErrCodeDurationTooLong     ErrorCode = "duration-too-long"     // 動画時間が上限超過
	ErrCodeDurationRead        ErrorCode = "duration-read-error"   // 動画時間の取得失敗
	ErrCodeUnknown             ErrorCode = "unknown-error"         // 分類不能な失敗
)

// Error はパイプライン全体で使う型付きエラー
// 利用側はCodeで分岐し、Messageを人間向けに表示する
type Error struct {
	Code    ErrorCode // 機械可読コード
	Message string    // 人間向けメッセージ
	Err     error     // 元になったエラー（任意）
}

// Error はエラー文字列を返す
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap は元のエラーを返す
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError は元エラーなしの型付きエラーを作成する
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError は元エラーを保持した型付きエラーを作成する
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// AsError は任意のエラーを型付きエラーへ正規化する
// 既に型付きの場合はそのまま返し、それ以外は元のメッセージを保ったまま
// unknown-errorに包む。何も握りつぶさないための境界処理
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return WrapError(ErrCodeUnknown, "予期しないエラーが発生しました", err)
}

// CodeOf はエラーから機械可読コードを取り出す
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return AsError(err).Code
}
