package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// catalogRepository 目录维度仓储实现(MySQL)
// 作者/类目/出版社三个字典型实体共用一个仓储
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建目录维度仓储
func NewCatalogRepository(db *gorm.DB) catalog.Repository {
	return &catalogRepository{db: db}
}

// CreateAuthor 创建作者
func (r *catalogRepository) CreateAuthor(ctx context.Context, a *catalog.Author) error {
	model := &AuthorModel{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Biography: a.Biography,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建作者失败")
	}

	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	return nil
}

// ListAuthors 查询全部作者
func (r *catalogRepository) ListAuthors(ctx context.Context) ([]*catalog.Author, error) {
	var models []AuthorModel
	if err := getDB(ctx, r.db).Order("last_name ASC, first_name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询作者列表失败")
	}

	authors := make([]*catalog.Author, len(models))
	for i := range models {
		authors[i] = toAuthorEntity(&models[i])
	}
	return authors, nil
}

// FindAuthorsByIDs 根据ID集合查找作者
// 教学要点:返回数量少于入参数量说明有ID不存在,由调用方校验
func (r *catalogRepository) FindAuthorsByIDs(ctx context.Context, ids []uint) ([]*catalog.Author, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []AuthorModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询作者失败")
	}

	authors := make([]*catalog.Author, len(models))
	for i := range models {
		authors[i] = toAuthorEntity(&models[i])
	}
	return authors, nil
}

// CreateGenre 创建类目
func (r *catalogRepository) CreateGenre(ctx context.Context, g *catalog.Genre) error {
	model := &GenreModel{Name: g.Name}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return catalog.ErrGenreDuplicate
		}
		return apperrors.Wrap(err, "创建类目失败")
	}

	g.ID = model.ID
	g.CreatedAt = model.CreatedAt
	return nil
}

// ListGenres 查询全部类目
func (r *catalogRepository) ListGenres(ctx context.Context) ([]*catalog.Genre, error) {
	var models []GenreModel
	if err := getDB(ctx, r.db).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询类目列表失败")
	}

	genres := make([]*catalog.Genre, len(models))
	for i := range models {
		genres[i] = &catalog.Genre{ID: models[i].ID, Name: models[i].Name, CreatedAt: models[i].CreatedAt}
	}
	return genres, nil
}

// FindGenresByIDs 根据ID集合查找类目
func (r *catalogRepository) FindGenresByIDs(ctx context.Context, ids []uint) ([]*catalog.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []GenreModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询类目失败")
	}

	genres := make([]*catalog.Genre, len(models))
	for i := range models {
		genres[i] = &catalog.Genre{ID: models[i].ID, Name: models[i].Name, CreatedAt: models[i].CreatedAt}
	}
	return genres, nil
}

// CreatePublisher 创建出版社
func (r *catalogRepository) CreatePublisher(ctx context.Context, p *catalog.Publisher) error {
	model := &PublisherModel{
		Name:        p.Name,
		Description: p.Description,
		Website:     p.Website,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建出版社失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	return nil
}

// ListPublishers 查询全部出版社
func (r *catalogRepository) ListPublishers(ctx context.Context) ([]*catalog.Publisher, error) {
	var models []PublisherModel
	if err := getDB(ctx, r.db).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询出版社列表失败")
	}

	publishers := make([]*catalog.Publisher, len(models))
	for i := range models {
		publishers[i] = toPublisherEntity(&models[i])
	}
	return publishers, nil
}

// FindPublisherByID 根据ID查找出版社
func (r *catalogRepository) FindPublisherByID(ctx context.Context, id uint) (*catalog.Publisher, error) {
	var model PublisherModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrPublisherNotFound
		}
		return nil, apperrors.Wrap(err, "查询出版社失败")
	}

	return toPublisherEntity(&model), nil
}

// toAuthorEntity GORM模型 → 领域实体
func toAuthorEntity(model *AuthorModel) *catalog.Author {
	return &catalog.Author{
		ID:        model.ID,
		FirstName: model.FirstName,
		LastName:  model.LastName,
		Biography: model.Biography,
		CreatedAt: model.CreatedAt,
	}
}

// toPublisherEntity GORM模型 → 领域实体
func toPublisherEntity(model *PublisherModel) *catalog.Publisher {
	return &catalog.Publisher{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Website:     model.Website,
		CreatedAt:   model.CreatedAt,
	}
}
