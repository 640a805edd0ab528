package book

import (
	"context"
	"io"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/infrastructure/storage"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// PublishBookUseCase 图书上架用例（员工）
// 设计说明：
// 1. 校验价格/库存合法性与作者/类目/出版社存在性
// 2. 封面图片先落盘（UUID文件名），再写数据库
// 3. 数据库写入失败时回删图片，避免孤儿文件
type PublishBookUseCase struct {
	bookRepo    book.Repository
	catalogRepo catalog.Repository
	fileStore   *storage.FileStore
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(
	bookRepo book.Repository,
	catalogRepo catalog.Repository,
	fileStore *storage.FileStore,
) *PublishBookUseCase {
	return &PublishBookUseCase{
		bookRepo:    bookRepo,
		catalogRepo: catalogRepo,
		fileStore:   fileStore,
	}
}

// PublishBookRequest 上架请求
type PublishBookRequest struct {
	Title       string
	ISBN        string
	Description string
	Price       int64 // 分
	Stock       int
	PublishedAt *time.Time
	Language    string
	Format      string
	PublisherID *uint
	AuthorIDs   []uint
	GenreIDs    []uint
	Image       io.Reader // 封面图片（可为nil）
	ImageName   string    // 原始文件名（用于取扩展名）
}

// PublishBookResponse 上架响应
type PublishBookResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	ISBN      string `json:"isbn"`
	Price     int64  `json:"price"`
	Stock     int    `json:"stock"`
	ImagePath string `json:"image_path,omitempty"`
}

// Execute 执行上架
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*PublishBookResponse, error) {
	// 1. 基础校验
	if req.Title == "" || req.ISBN == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "书名和ISBN不能为空")
	}
	if req.Price <= 0 {
		return nil, book.ErrInvalidPrice
	}
	if req.Stock < 0 {
		return nil, book.ErrInvalidStock
	}

	// 2. 关联维度校验
	if err := validateCatalogIDs(ctx, uc.catalogRepo, req.AuthorIDs, req.GenreIDs, req.PublisherID); err != nil {
		return nil, err
	}

	// 3. 保存封面图片
	var imagePath string
	if req.Image != nil {
		path, err := uc.fileStore.Save(req.Image, req.ImageName)
		if err != nil {
			return nil, err
		}
		imagePath = path
	}

	// 4. 创建图书
	b := book.NewBook(req.Title, req.ISBN, req.Description, req.Price, req.Stock,
		req.PublishedAt, req.Language, req.Format, imagePath, req.PublisherID,
		req.AuthorIDs, req.GenreIDs)

	if err := uc.bookRepo.Create(ctx, b); err != nil {
		// 数据库写入失败,回删已保存的图片
		if imagePath != "" {
			uc.fileStore.Remove(imagePath)
		}
		return nil, err
	}

	return &PublishBookResponse{
		ID:        b.ID,
		Title:     b.Title,
		ISBN:      b.ISBN,
		Price:     b.Price,
		Stock:     b.Stock,
		ImagePath: b.ImagePath,
	}, nil
}
