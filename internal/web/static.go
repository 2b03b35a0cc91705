package web

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PublicFS は静的ファイル用のファイルシステムです。
// ドットで始まる要素を含むパスは存在しないものとして扱います。
type PublicFS struct {
	fs http.FileSystem
}

// NewPublicFS は dir を公開する PublicFS を作成します。
func NewPublicFS(dir string) *PublicFS {
	return &PublicFS{fs: http.Dir(dir)}
}

// Open は http.FileSystem を満たします。
func (p *PublicFS) Open(name string) (http.File, error) {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return nil, fs.ErrNotExist
		}
	}
	f, err := p.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	// ディレクトリ一覧は出さない
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

// Handler はルート直下で静的ファイルを返すハンドラーです。NoRoute に登録します。
// 該当ファイルが無い場合やドットファイルは 404 になります。
func (p *PublicFS) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Request.URL.Path
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.String(http.StatusNotFound, "Not Found")
			return
		}
		f, err := p.Open(name)
		if err != nil {
			c.String(http.StatusNotFound, "Not Found")
			return
		}
		f.Close()
		c.FileFromFS(name, p)
	}
}
