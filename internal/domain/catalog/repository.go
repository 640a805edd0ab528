package catalog

import (
	"context"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 目录维度错误定义
var (
	ErrAuthorNotFound    = apperrors.New(apperrors.ErrCodeNotFound, "作者不存在")
	ErrGenreNotFound     = apperrors.New(apperrors.ErrCodeNotFound, "类目不存在")
	ErrPublisherNotFound = apperrors.New(apperrors.ErrCodeNotFound, "出版社不存在")
	ErrGenreDuplicate    = apperrors.New(apperrors.ErrCodeDuplicateEntry, "类目名称已存在")
)

// Repository 目录维度仓储接口
// 三个字典型实体共用一个仓储，避免三份几乎相同的接口
type Repository interface {
	CreateAuthor(ctx context.Context, a *Author) error
	ListAuthors(ctx context.Context) ([]*Author, error)
	FindAuthorsByIDs(ctx context.Context, ids []uint) ([]*Author, error)

	CreateGenre(ctx context.Context, g *Genre) error
	ListGenres(ctx context.Context) ([]*Genre, error)
	FindGenresByIDs(ctx context.Context, ids []uint) ([]*Genre, error)

	CreatePublisher(ctx context.Context, p *Publisher) error
	ListPublishers(ctx context.Context) ([]*Publisher, error)
	FindPublisherByID(ctx context.Context, id uint) (*Publisher, error)
}
