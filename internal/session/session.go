// Package session はサーバー側で保持するログインセッションを管理します。
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

const tokenBytes = 32

// Record はトークンに紐づくセッション情報です。
type Record struct {
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store はセッションの作成・取得・破棄を行うストアです。
// 実装は並行アクセスに対して安全でなければなりません。
type Store interface {
	// Create はレコードを保存し、新しい不透明トークンを返します。
	Create(ctx context.Context, record Record) (string, error)
	// Get はトークンに対応するレコードを返します。存在しない場合は nil, nil を返します。
	Get(ctx context.Context, token string) (*Record, error)
	// Delete はトークンを破棄します。存在しなくてもエラーにしません。
	Delete(ctx context.Context, token string) error
	Close() error
}

// NewToken は推測不能なセッショントークンを生成します。
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func validToken(token string) bool {
	if len(token) != tokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}
