// Package storage はローカルディレクトリからのファイル読み出しを提供します。
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotFound は対象ファイルが存在しない、またはディレクトリの場合に返されます。
var ErrNotFound = errors.New("file not found")

// File は開いたファイルとそのメタ情報です。呼び出し側で Close すること。
type File struct {
	io.ReadSeekCloser
	Name        string
	Size        int64
	ContentType string
}

// LocalDir はルートディレクトリ配下に限定してファイルを開きます。
type LocalDir struct {
	root string
}

// NewLocalDir は LocalDir を作成します。ディレクトリが無くてもエラーにはしません。
func NewLocalDir(root string) (*LocalDir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	return &LocalDir{root: abs}, nil
}

// Root はルートディレクトリの絶対パスを返します。
func (d *LocalDir) Root() string {
	return d.root
}

// Open はリクエストパスに対応するファイルを開きます。
// ルート外を指すパス、ディレクトリ、ドットファイルは ErrNotFound になります。
func (d *LocalDir) Open(name string) (*File, error) {
	// path.Clean に "/" を前置することで ".." がルートより上に出ないようにする
	cleaned := strings.TrimPrefix(path.Clean("/"+name), "/")
	if cleaned == "" {
		return nil, ErrNotFound
	}
	// ドットで始まる要素は公開しない
	for _, part := range strings.Split(cleaned, "/") {
		if strings.HasPrefix(part, ".") {
			return nil, ErrNotFound
		}
	}
	full := filepath.Join(d.root, filepath.FromSlash(cleaned))
	if !strings.HasPrefix(full, d.root+string(filepath.Separator)) {
		return nil, ErrNotFound
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	return &File{
		ReadSeekCloser: f,
		Name:           info.Name(),
		Size:           info.Size(),
		ContentType:    mtype.String(),
	}, nil
}
