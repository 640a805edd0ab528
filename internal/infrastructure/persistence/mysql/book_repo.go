package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如ISBN重复),转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
// 教学要点:Omit("Authors.*")只写连接表,不回写作者/分类本体
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	err := getDB(ctx, r.db).Omit("Authors.*", "Genres.*").Create(model).Error
	if err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书(预加载作者与分类关联)
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Preload("Authors").Preload("Genres").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// Update 更新图书信息(含作者/分类关联的整体替换)
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	db := getDB(ctx, r.db)
	model := toBookModel(b)

	// 1. 更新本体字段
	err := db.Omit("Authors", "Genres", "CreatedAt").Save(&BookModel{
		ID:          model.ID,
		ISBN:        model.ISBN,
		Title:       model.Title,
		Description: model.Description,
		Price:       model.Price,
		Stock:       model.Stock,
		AvgRating:   model.AvgRating,
		PublishedAt: model.PublishedAt,
		Language:    model.Language,
		Format:      model.Format,
		ImagePath:   model.ImagePath,
		PublisherID: model.PublisherID,
		CreatedAt:   model.CreatedAt,
	}).Error
	if err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "更新图书失败")
	}

	// 2. 整体替换多对多关联
	if err := db.Model(&BookModel{ID: b.ID}).Association("Authors").Replace(model.Authors); err != nil {
		return apperrors.Wrap(err, "更新图书作者失败")
	}
	if err := db.Model(&BookModel{ID: b.ID}).Association("Genres").Replace(model.Genres); err != nil {
		return apperrors.Wrap(err, "更新图书分类失败")
	}

	return nil
}

// Delete 删除图书本体
// 注意:购物车/收藏/书评/折扣等关联数据由应用层在同一事务内显式清理
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)

	// 先清掉连接表
	if err := db.Model(&BookModel{ID: id}).Association("Authors").Clear(); err != nil {
		return apperrors.Wrap(err, "清理图书作者关联失败")
	}
	if err := db.Model(&BookModel{ID: id}).Association("Genres").Clear(); err != nil {
		return apperrors.Wrap(err, "清理图书分类关联失败")
	}

	result := db.Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// List 分页查询图书列表
// 设计说明:
// 1. 支持关键词/作者/分类/价格区间/评分区间/语言/装帧/有无货/促销中等筛选
// 2. 折扣随页批量查出(避免N+1),交给domain层计算展示价
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, map[uint][]book.Discount, int64, error) {
	db := getDB(ctx, r.db)
	now := time.Now()

	query := db.Model(&BookModel{})

	// 关键词搜索(标题、简介)
	if params.Search != "" {
		keyword := "%" + params.Search + "%"
		query = query.Where("books.title LIKE ? OR books.description LIKE ?", keyword, keyword)
	}

	// 按作者筛选(连接表子查询)
	if params.AuthorID != 0 {
		query = query.Where("books.id IN (?)",
			db.Table("book_authors").Select("book_model_id").Where("author_model_id = ?", params.AuthorID))
	}

	// 按分类筛选
	if params.GenreID != 0 {
		query = query.Where("books.id IN (?)",
			db.Table("book_genres").Select("book_model_id").Where("genre_model_id = ?", params.GenreID))
	}

	// 价格区间(分)
	if params.PriceMin != nil {
		query = query.Where("books.price >= ?", *params.PriceMin)
	}
	if params.PriceMax != nil {
		query = query.Where("books.price <= ?", *params.PriceMax)
	}

	// 评分区间
	if params.RatingMin != nil {
		query = query.Where("books.avg_rating >= ?", *params.RatingMin)
	}
	if params.RatingMax != nil {
		query = query.Where("books.avg_rating <= ?", *params.RatingMax)
	}

	if params.Language != "" {
		query = query.Where("books.language = ?", params.Language)
	}
	if len(params.Formats) > 0 {
		query = query.Where("books.format IN ?", params.Formats)
	}

	// 有无货
	if params.InStock != nil {
		if *params.InStock {
			query = query.Where("books.stock > 0")
		} else {
			query = query.Where("books.stock = 0")
		}
	}

	// 仅看促销中(存在生效折扣)
	if params.OnSale {
		query = query.Where("books.id IN (?)",
			db.Model(&DiscountModel{}).Select("book_id").
				Where("on_sale = ?", true).
				Where("start_at <= ? AND end_at >= ?", now, now))
	}

	// 查询总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	// 排序
	switch params.SortBy {
	case "title_asc":
		query = query.Order("books.title ASC")
	case "title_desc":
		query = query.Order("books.title DESC")
	case "price_asc":
		query = query.Order("books.price ASC")
	case "price_desc":
		query = query.Order("books.price DESC")
	case "rating_asc":
		query = query.Order("books.avg_rating ASC")
	case "rating_desc":
		query = query.Order("books.avg_rating DESC")
	default:
		query = query.Order("books.created_at DESC") // 默认按上架时间降序
	}

	// 分页
	offset := (params.Page - 1) * params.PageSize
	var models []BookModel
	err := query.Preload("Authors").Preload("Genres").
		Limit(params.PageSize).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	ids := make([]uint, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
		ids[i] = models[i].ID
	}

	// 批量查出本页图书的全部折扣
	discounts := make(map[uint][]book.Discount)
	if len(ids) > 0 {
		var dms []DiscountModel
		if err := db.Where("book_id IN ?", ids).Find(&dms).Error; err != nil {
			return nil, nil, 0, apperrors.Wrap(err, "查询图书折扣失败")
		}
		for _, dm := range dms {
			discounts[dm.BookID] = append(discounts[dm.BookID], toDiscountEntity(&dm))
		}
	}

	return books, discounts, total, nil
}

// LockByID 悲观锁查询图书(用于订单创建)
// 教学要点:必须在事务中调用,SELECT FOR UPDATE锁定行
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	db := getDB(ctx, r.db)

	var model BookModel
	query := db
	if supportsRowLock(db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}

	return toBookEntity(&model), nil
}

// UpdateStock 更新库存(原子操作)
// UPDATE books SET stock = stock + delta WHERE id = ? AND stock + delta >= 0
func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta). // 防止库存为负
		Update("stock", gorm.Expr("stock + ?", delta))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 可能是图书不存在,或者库存不足,再查一次确定原因
		var model BookModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return apperrors.Wrap(err, "查询图书失败")
		}
		return book.ErrInsufficientStock
	}

	return nil
}

// UpdateAvgRating 更新书评均分冗余字段
func (r *bookRepository) UpdateAvgRating(ctx context.Context, id uint, avg float64) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Update("avg_rating", avg)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书评分失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	authors := make([]AuthorModel, len(b.AuthorIDs))
	for i, id := range b.AuthorIDs {
		authors[i] = AuthorModel{ID: id}
	}
	genres := make([]GenreModel, len(b.GenreIDs))
	for i, id := range b.GenreIDs {
		genres[i] = GenreModel{ID: id}
	}

	return &BookModel{
		ID:          b.ID,
		ISBN:        b.ISBN,
		Title:       b.Title,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
		AvgRating:   b.AvgRating,
		PublishedAt: b.PublishedAt,
		Language:    b.Language,
		Format:      b.Format,
		ImagePath:   b.ImagePath,
		PublisherID: b.PublisherID,
		Authors:     authors,
		Genres:      genres,
		CreatedAt:   b.CreatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	authorIDs := make([]uint, len(model.Authors))
	for i, a := range model.Authors {
		authorIDs[i] = a.ID
	}
	genreIDs := make([]uint, len(model.Genres))
	for i, g := range model.Genres {
		genreIDs[i] = g.ID
	}

	return &book.Book{
		ID:          model.ID,
		ISBN:        model.ISBN,
		Title:       model.Title,
		Description: model.Description,
		Price:       model.Price,
		Stock:       model.Stock,
		AvgRating:   model.AvgRating,
		PublishedAt: model.PublishedAt,
		Language:    model.Language,
		Format:      model.Format,
		ImagePath:   model.ImagePath,
		PublisherID: model.PublisherID,
		AuthorIDs:   authorIDs,
		GenreIDs:    genreIDs,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
