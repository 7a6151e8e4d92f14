package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/bookstore-search/pkg/errors"
)

// Manager JWT解析器
// 设计说明：
// 1. 搜索引擎本身不负责登录/发令牌，令牌由用户服务签发
// 2. 这里只做验签+解析，用于识别当前用户(actingUserID)
// 3. 与用户服务共享同一个HS256密钥
type Manager struct {
	secret string        // JWT签名密钥（与用户服务一致）
	leeway time.Duration // 时钟偏移容忍
}

// NewManager 创建JWT解析器
func NewManager(secret string, leeway time.Duration) *Manager {
	return &Manager{
		secret: secret,
		leeway: leeway,
	}
}

// Claims 自定义JWT Claims
// 与用户服务签发的payload保持一致
type Claims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// ParseToken 解析并验证Token
// 1. 验证签名（防止伪造）
// 2. 验证过期时间（exp）
// 3. 验证生效时间（nbf）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithLeeway(m.leeway))

	if err != nil {
		// 判断具体的错误类型
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	// 提取Claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}
