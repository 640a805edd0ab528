package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// FileStore 封面图片的本地文件存储
// 设计说明：
// 1. 文件名使用UUID，避免用户上传文件名冲突与路径穿越
// 2. 保留原始扩展名，便于HTTP层设置Content-Type
// 3. 返回相对路径存入图书记录，删除图书时一并清理
type FileStore struct {
	baseDir string
}

// NewFileStore 创建文件存储，目录不存在时自动创建
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建图片目录失败: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Save 保存上传的图片，返回相对路径（如 ab12cd34....jpg）
func (s *FileStore) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext

	dst, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", apperrors.WrapWithCode(err, apperrors.ErrCodeStorageError, "保存图片失败")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", apperrors.WrapWithCode(err, apperrors.ErrCodeStorageError, "写入图片失败")
	}

	return name, nil
}

// Remove 删除图片，文件不存在视为成功（幂等）
func (s *FileStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	// 只允许删除baseDir内的文件
	full := filepath.Join(s.baseDir, filepath.Base(path))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeStorageError, "删除图片失败")
	}
	return nil
}

// FullPath 返回图片的磁盘绝对路径（HTTP层用于回传文件）
func (s *FileStore) FullPath(path string) string {
	return filepath.Join(s.baseDir, filepath.Base(path))
}
