package catalog

import (
	apperrors "github.com/xiebiao/bookstore-search/pkg/errors"
)

// 目录搜索领域错误定义
var (
	// ErrSearchUnavailable 搜索后端不可用(连接失败、查询执行失败)
	// 索引流水线的失败直接向上抛,不重试,也不会静默切换到关系型流水线
	ErrSearchUnavailable = apperrors.New(apperrors.ErrCodeSearchUnavailable, "搜索服务暂不可用")

	// ErrSearchBadResponse 搜索后端响应无效(结果字段解析失败)
	// 与传输失败是两类错误,客户端可据code区分
	ErrSearchBadResponse = apperrors.New(apperrors.ErrCodeSearchBadResponse, "搜索服务响应异常")

	// ErrInvalidQuery 查询参数无法识别(filterKind非法等)
	ErrInvalidQuery = apperrors.New(apperrors.ErrCodeInvalidParams, "查询参数错误")
)

// WrapUnavailable 包装传输类失败,保留底层错误供日志使用
func WrapUnavailable(err error) error {
	return apperrors.WrapWithCode(err, apperrors.ErrCodeSearchUnavailable, "搜索服务暂不可用")
}

// WrapBadResponse 包装响应解析类失败
func WrapBadResponse(err error) error {
	return apperrors.WrapWithCode(err, apperrors.ErrCodeSearchBadResponse, "搜索服务响应异常")
}
