// Package flash は次の1回の描画でだけ表示される通知メッセージを扱います。
package flash

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Category は通知の種類です。
type Category string

const (
	CategoryError Category = "error"
	CategoryInfo  Category = "info"
)

// categories は Pop が取り出す順序です。
var categories = []Category{CategoryError, CategoryInfo}

// Notice はユーザー向けの通知1件です。
type Notice struct {
	Category Category
	Message  string
}

// Sink は通知を積むための抽象です。
type Sink interface {
	Add(category Category, message string)
}

// Queue は Cookie セッション上に通知を保持します。
// 変更はセッションの Save() を呼ぶまで永続化されません。
type Queue struct {
	session sessions.Session
}

// New はセッションをラップした Queue を返します。
func New(session sessions.Session) *Queue {
	return &Queue{session: session}
}

// FromContext はリクエストのデフォルトセッションから Queue を作成します。
func FromContext(c *gin.Context) *Queue {
	return New(sessions.Default(c))
}

// Add は通知を積みます。
func (q *Queue) Add(category Category, message string) {
	q.session.AddFlash(message, flashKey(category))
}

// Pop は積まれている通知をすべて取り出し、キューから取り除きます。
func (q *Queue) Pop() []Notice {
	var notices []Notice
	for _, category := range categories {
		for _, v := range q.session.Flashes(flashKey(category)) {
			notices = append(notices, Notice{Category: category, Message: fmt.Sprint(v)})
		}
	}
	return notices
}

// contextKey は Consume が取り出した通知を保持するキーです。
const contextKey = "flash.notices"

// Consume はリクエストの最初に積まれている通知をすべて取り出すミドルウェアです。
// 取り出した通知は Current で参照でき、同じリクエスト中に積まれた通知とは混ざりません。
// 取り出しはセッションが Save された時点で確定します。
func Consume() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, FromContext(c).Pop())
		c.Next()
	}
}

// Current は Consume がこのリクエストで取り出した通知を返します。
func Current(c *gin.Context) []Notice {
	notices, _ := c.Get(contextKey)
	out, _ := notices.([]Notice)
	return out
}

// Messages は指定カテゴリのメッセージだけを抜き出します。
func Messages(notices []Notice, category Category) []string {
	var out []string
	for _, n := range notices {
		if n.Category == category {
			out = append(out, n.Message)
		}
	}
	return out
}

func flashKey(category Category) string {
	return "flash." + string(category)
}
