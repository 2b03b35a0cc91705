package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/login-lab/internal/identity"
)

// DefaultFailureDelay はログイン失敗時に応答前に挟む遅延です。
const DefaultFailureDelay = 500 * time.Millisecond

// Verifier は送信された資格情報を固定ユーザーと照合します。
// 状態を持たないため並行に呼び出して構いません。
type Verifier struct {
	users identity.Lookup
	delay time.Duration
	wait  func(ctx context.Context, d time.Duration) error
}

// NewVerifier は Verifier を作成します。delay が負の場合は 0 とみなします。
func NewVerifier(users identity.Lookup, delay time.Duration) *Verifier {
	if delay < 0 {
		delay = 0
	}
	return &Verifier{
		users: users,
		delay: delay,
		wait:  sleepContext,
	}
}

// Verify は資格情報を検証します。
//
// 入力欠落は ErrValidation（遅延なし）、ユーザー不一致・パスワード不一致は
// どちらも同じ遅延の後に ErrAuthentication を返します。
func (v *Verifier) Verify(ctx context.Context, username, password string) (identity.Identity, error) {
	if username == "" || password == "" {
		return identity.Identity{}, ErrValidation
	}

	user, ok := v.users.Lookup(ctx, username)
	if !ok {
		return identity.Identity{}, v.fail(ctx)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return identity.Identity{}, v.fail(ctx)
	}

	return user, nil
}

// Delay は失敗時の遅延時間を返します。
func (v *Verifier) Delay() time.Duration {
	return v.delay
}

func (v *Verifier) fail(ctx context.Context) error {
	// キャンセルされた場合も結果は同じ。クライアントは既にいない
	_ = v.wait(ctx, v.delay)
	return ErrAuthentication
}

// sleepContext は d だけ待機します。ctx がキャンセルされた場合は即座に戻ります。
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
