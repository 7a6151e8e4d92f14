package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapWithCodeMatchesSentinel(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	wrapped := WrapWithCode(cause, ErrCodeSearchUnavailable, "搜索服务暂不可用")

	sentinel := New(ErrCodeSearchUnavailable, "搜索服务暂不可用")
	if !errors.Is(wrapped, sentinel) {
		t.Error("同码错误应通过errors.Is匹配")
	}

	other := New(ErrCodeSearchBadResponse, "搜索服务响应异常")
	if errors.Is(wrapped, other) {
		t.Error("不同码错误不应匹配")
	}

	// 底层错误保留在链上
	if !errors.Is(wrapped, cause) {
		t.Error("应能Unwrap到底层错误")
	}
}

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(New(ErrCodeInvalidParams, "参数错误"))
	if appErr.Code != ErrCodeInvalidParams {
		t.Errorf("Code错误: expected=%d, got=%d", ErrCodeInvalidParams, appErr.Code)
	}

	// 非AppError包装成Internal
	appErr = GetAppError(fmt.Errorf("boom"))
	if appErr.Code != ErrCodeInternal {
		t.Errorf("非AppError应包装为Internal: got=%d", appErr.Code)
	}
}
