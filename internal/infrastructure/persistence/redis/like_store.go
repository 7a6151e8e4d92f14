package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookstore-search/pkg/errors"
)

// LikeStore 按用户的点赞存在性存储(Redis)
// 设计说明:
// 1. 点赞服务维护集合 like:user:<userID>,成员是该用户点赞中的图书ID
//    (取消点赞时从集合移除,与MySQL likes表的is_liked翻转同步)
// 2. 搜索结果的liked标记用SMISMEMBER一次批量判定整页,
//    避免一行一次的往返
// 3. 本引擎只读该集合
type LikeStore struct {
	client *redis.Client
}

// NewLikeStore 创建点赞存在性存储
func NewLikeStore(client *redis.Client) *LikeStore {
	return &LikeStore{client: client}
}

var _ catalog.LikeStore = (*LikeStore)(nil)

// AreLiked 用户对一批图书的点赞标记
func (s *LikeStore) AreLiked(ctx context.Context, userID uint, bookIDs []uint) (map[uint]bool, error) {
	if userID == 0 || len(bookIDs) == 0 {
		return map[uint]bool{}, nil
	}

	members := make([]interface{}, len(bookIDs))
	for i, id := range bookIDs {
		members[i] = strconv.FormatUint(uint64(id), 10)
	}

	flags, err := s.client.SMIsMember(ctx, s.userLikeKey(userID), members...).Result()
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeRedisError, "查询点赞状态失败")
	}

	result := make(map[uint]bool, len(bookIDs))
	for i, id := range bookIDs {
		result[id] = flags[i]
	}
	return result, nil
}

// userLikeKey 用户点赞集合的键
func (s *LikeStore) userLikeKey(userID uint) string {
	return fmt.Sprintf("like:user:%d", userID)
}
