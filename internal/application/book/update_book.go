package book

import (
	"context"
	"io"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/infrastructure/storage"
)

// UpdateBookUseCase 图书编辑用例（员工）
// 设计说明：
// 1. 整体替换语义：作者/类目关联以请求为准整体覆盖
// 2. 新封面上传成功且数据库更新成功后，才删除旧封面文件
type UpdateBookUseCase struct {
	bookRepo    book.Repository
	catalogRepo catalog.Repository
	fileStore   *storage.FileStore
}

// NewUpdateBookUseCase 创建编辑用例
func NewUpdateBookUseCase(
	bookRepo book.Repository,
	catalogRepo catalog.Repository,
	fileStore *storage.FileStore,
) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookRepo:    bookRepo,
		catalogRepo: catalogRepo,
		fileStore:   fileStore,
	}
}

// UpdateBookRequest 编辑请求
type UpdateBookRequest struct {
	BookID      uint
	Title       string
	Description string
	Price       int64
	Stock       int
	PublishedAt *time.Time
	Language    string
	Format      string
	PublisherID *uint
	AuthorIDs   []uint
	GenreIDs    []uint
	Image       io.Reader // 新封面（nil表示不更换）
	ImageName   string
}

// Execute 执行编辑
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) error {
	if req.Price <= 0 {
		return book.ErrInvalidPrice
	}
	if req.Stock < 0 {
		return book.ErrInvalidStock
	}

	b, err := uc.bookRepo.FindByID(ctx, req.BookID)
	if err != nil {
		return err
	}

	if err := validateCatalogIDs(ctx, uc.catalogRepo, req.AuthorIDs, req.GenreIDs, req.PublisherID); err != nil {
		return err
	}

	oldImage := b.ImagePath
	newImage := ""
	if req.Image != nil {
		path, err := uc.fileStore.Save(req.Image, req.ImageName)
		if err != nil {
			return err
		}
		newImage = path
		b.ImagePath = path
	}

	b.Title = req.Title
	b.Description = req.Description
	b.Price = req.Price
	b.Stock = req.Stock
	b.PublishedAt = req.PublishedAt
	b.Language = req.Language
	b.Format = req.Format
	b.PublisherID = req.PublisherID
	b.AuthorIDs = req.AuthorIDs
	b.GenreIDs = req.GenreIDs
	b.UpdatedAt = time.Now()

	if err := uc.bookRepo.Update(ctx, b); err != nil {
		if newImage != "" {
			uc.fileStore.Remove(newImage)
		}
		return err
	}

	// 更新成功后清理被替换的旧封面
	if newImage != "" && oldImage != "" {
		uc.fileStore.Remove(oldImage)
	}
	return nil
}

// validateCatalogIDs 校验作者/类目/出版社均存在（发布与编辑共用）
func validateCatalogIDs(ctx context.Context, repo catalog.Repository, authorIDs, genreIDs []uint, publisherID *uint) error {
	if len(authorIDs) > 0 {
		authors, err := repo.FindAuthorsByIDs(ctx, authorIDs)
		if err != nil {
			return err
		}
		if len(authors) != len(authorIDs) {
			return catalog.ErrAuthorNotFound
		}
	}
	if len(genreIDs) > 0 {
		genres, err := repo.FindGenresByIDs(ctx, genreIDs)
		if err != nil {
			return err
		}
		if len(genres) != len(genreIDs) {
			return catalog.ErrGenreNotFound
		}
	}
	if publisherID != nil {
		if _, err := repo.FindPublisherByID(ctx, *publisherID); err != nil {
			return err
		}
	}
	return nil
}
