package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"narrator/pkg/inference"
)

// WarningPrefix starts every user-facing failure message.
const WarningPrefix = "⚠️"

// Error is a failed generation. Message is ready to show to the user.
type Error struct {
	Kind     inference.Kind
	Canceled bool
	Message  string
	Err      error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// IsFailureText reports whether s is a failure message rather than a script.
func IsFailureText(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), WarningPrefix)
}

// Describe returns the user-facing message for any error.
func Describe(p inference.Provider, err error) string {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Message
	}
	return wrap(p, err).Message
}

func wrap(p inference.Provider, err error) *Error {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: inference.KindGeneric, Canceled: true, Message: WarningPrefix + " Đã dừng tạo kịch bản trước khi hoàn tất.", Err: err}
	}

	kind := inference.KindOf(err)
	name := p.Label()
	var msg string
	switch kind {
	case inference.KindMissingKey:
		msg = fmt.Sprintf("%s Chưa có API key cho %s. Vui lòng thêm key trong phần cài đặt rồi thử lại.", WarningPrefix, name)
	case inference.KindQuotaExceeded:
		msg = fmt.Sprintf("%s %s đã hết hạn mức sử dụng (quota). Vui lòng thử lại sau hoặc đổi API key khác.", WarningPrefix, name)
	case inference.KindOverloaded:
		msg = fmt.Sprintf("%s Máy chủ %s đang quá tải. Vui lòng thử lại sau ít phút.", WarningPrefix, name)
	case inference.KindUnauthorized:
		msg = fmt.Sprintf("%s API key của %s không hợp lệ hoặc không có quyền truy cập mô hình này.", WarningPrefix, name)
	default:
		msg = fmt.Sprintf("%s Lỗi khi tạo kịch bản: %s", WarningPrefix, err)
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}
