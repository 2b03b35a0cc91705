// Package identity はログイン対象となるユーザー情報の参照を提供します。
package identity

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword はデモユーザーの平文パスワードです（ラボ用途のみ）。
const DefaultPassword = "Password123!"

// DefaultUserID はデモユーザーのIDです。
const DefaultUserID = 1

// Identity はログイン可能なユーザーを表します。
type Identity struct {
	ID           int
	Username     string
	PasswordHash string
}

// Lookup はユーザー名から Identity を引くための抽象です。
// 永続ストアへ差し替える場合もこのインターフェースを満たせばよい。
type Lookup interface {
	Lookup(ctx context.Context, username string) (Identity, bool)
}

// FixedStore は起動時に作成される単一ユーザーのみを保持する読み取り専用ストアです。
type FixedStore struct {
	identity Identity
}

// NewFixedStore は Identity を1件だけ持つストアを作成します。
func NewFixedStore(id Identity) (*FixedStore, error) {
	if id.Username == "" {
		return nil, errors.New("username is required")
	}
	if _, err := bcrypt.Cost([]byte(id.PasswordHash)); err != nil {
		return nil, fmt.Errorf("password hash is not a bcrypt hash: %w", err)
	}
	return &FixedStore{identity: id}, nil
}

// NewDemoStore はデモユーザーのストアを作成します。
// passwordHash が空の場合は DefaultPassword を bcrypt でハッシュ化して使います。
func NewDemoStore(username, passwordHash string) (*FixedStore, error) {
	if passwordHash == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash demo password: %w", err)
		}
		passwordHash = string(hashed)
	}
	return NewFixedStore(Identity{
		ID:           DefaultUserID,
		Username:     username,
		PasswordHash: passwordHash,
	})
}

// Lookup はユーザー名が一致する場合のみ Identity を返します。
func (s *FixedStore) Lookup(_ context.Context, username string) (Identity, bool) {
	if username != s.identity.Username {
		return Identity{}, false
	}
	return s.identity, true
}
