package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// CatalogUseCase 目录维度管理用例
// 作者/类目/出版社都是字典型数据（员工创建、所有人可查），
// 合并为一个用例避免三份模板化代码。
type CatalogUseCase struct {
	catalogRepo catalog.Repository
}

// NewCatalogUseCase 创建目录管理用例
func NewCatalogUseCase(catalogRepo catalog.Repository) *CatalogUseCase {
	return &CatalogUseCase{catalogRepo: catalogRepo}
}

// CreateAuthorRequest 创建作者请求
type CreateAuthorRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name" binding:"required"`
	Biography string `json:"biography"`
}

// AuthorResponse 作者响应
type AuthorResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Biography string `json:"biography,omitempty"`
}

// CreateAuthor 创建作者（员工）
func (uc *CatalogUseCase) CreateAuthor(ctx context.Context, req CreateAuthorRequest) (*AuthorResponse, error) {
	if strings.TrimSpace(req.LastName) == "" && strings.TrimSpace(req.FirstName) == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "作者姓名不能为空")
	}

	a := &catalog.Author{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Biography: req.Biography,
		CreatedAt: time.Now(),
	}
	if err := uc.catalogRepo.CreateAuthor(ctx, a); err != nil {
		return nil, err
	}
	return toAuthorResponse(a), nil
}

// ListAuthors 作者列表
func (uc *CatalogUseCase) ListAuthors(ctx context.Context) ([]*AuthorResponse, error) {
	authors, err := uc.catalogRepo.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*AuthorResponse, 0, len(authors))
	for _, a := range authors {
		out = append(out, toAuthorResponse(a))
	}
	return out, nil
}

// CreateGenreRequest 创建类目请求
type CreateGenreRequest struct {
	Name string `json:"name" binding:"required"`
}

// GenreResponse 类目响应
type GenreResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CreateGenre 创建类目（员工）
// 类目名称唯一，重复创建返回重复错误
func (uc *CatalogUseCase) CreateGenre(ctx context.Context, req CreateGenreRequest) (*GenreResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "类目名称不能为空")
	}

	g := &catalog.Genre{Name: name, CreatedAt: time.Now()}
	if err := uc.catalogRepo.CreateGenre(ctx, g); err != nil {
		return nil, err
	}
	return &GenreResponse{ID: g.ID, Name: g.Name}, nil
}

// ListGenres 类目列表
func (uc *CatalogUseCase) ListGenres(ctx context.Context) ([]*GenreResponse, error) {
	genres, err := uc.catalogRepo.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, &GenreResponse{ID: g.ID, Name: g.Name})
	}
	return out, nil
}

// CreatePublisherRequest 创建出版社请求
type CreatePublisherRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// PublisherResponse 出版社响应
type PublisherResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

// CreatePublisher 创建出版社（员工）
func (uc *CatalogUseCase) CreatePublisher(ctx context.Context, req CreatePublisherRequest) (*PublisherResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "出版社名称不能为空")
	}

	p := &catalog.Publisher{
		Name:        name,
		Description: req.Description,
		Website:     req.Website,
		CreatedAt:   time.Now(),
	}
	if err := uc.catalogRepo.CreatePublisher(ctx, p); err != nil {
		return nil, err
	}
	return toPublisherResponse(p), nil
}

// ListPublishers 出版社列表
func (uc *CatalogUseCase) ListPublishers(ctx context.Context) ([]*PublisherResponse, error) {
	publishers, err := uc.catalogRepo.ListPublishers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*PublisherResponse, 0, len(publishers))
	for _, p := range publishers {
		out = append(out, toPublisherResponse(p))
	}
	return out, nil
}

func toAuthorResponse(a *catalog.Author) *AuthorResponse {
	return &AuthorResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		FullName:  a.FullName(),
		Biography: a.Biography,
	}
}

func toPublisherResponse(p *catalog.Publisher) *PublisherResponse {
	return &PublisherResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Website:     p.Website,
	}
}
