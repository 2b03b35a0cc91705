package auth

import "errors"

// 認証フローで発生するエラー種別。いずれも境界で通知＋リダイレクトに変換される。
var (
	ErrValidation     = errors.New("username and password are required")
	ErrAuthentication = errors.New("invalid credentials")
	ErrAuthorization  = errors.New("login required")
)

// ユーザー向けの通知文言。どのチェックで失敗したかは区別しない。
const (
	MessageMissingFields = "Username and password required."
	MessageInvalid       = "Invalid credentials."
	MessageLoginSuccess  = "Login successful."
	MessageLoginRequired = "Please log in to view that page."
	MessageInternal      = "Something went wrong. Please try again."
)
