package book

import (
	"time"
)

// Book 图书实体（聚合根）
// DDD设计说明：
// 1. 价格使用int64存储"分"为单位（避免浮点数精度问题）
// 2. 作者、类目为多对多关系，仅保留join表一种表示
//    （旧版schema同时存在单外键与join表，属于需要收敛的冗余）
// 3. AvgRating为书评均分的冗余字段，书评写入时重算
type Book struct {
	ID          uint
	Title       string
	ISBN        string
	Description string
	Price       int64  // 价格（分）
	Stock       int    // 库存数量
	AvgRating   float64
	PublishedAt *time.Time // 出版日期
	Language    string
	Format      string // paperback | hardcover | ebook ...
	ImagePath   string // 封面图片存储路径
	PublisherID *uint
	AuthorIDs   []uint
	GenreIDs    []uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook 创建新图书（工厂方法）
func NewBook(title, isbn, description string, price int64, stock int, publishedAt *time.Time,
	language, format, imagePath string, publisherID *uint, authorIDs, genreIDs []uint) *Book {
	now := time.Now()
	return &Book{
		Title:       title,
		ISBN:        isbn,
		Description: description,
		Price:       price,
		Stock:       stock,
		PublishedAt: publishedAt,
		Language:    language,
		Format:      format,
		ImagePath:   imagePath,
		PublisherID: publisherID,
		AuthorIDs:   authorIDs,
		GenreIDs:    genreIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// EffectivePrice 计算时刻t的有效价格
// 业务规则：在生效折扣中取"最近开始"的一条；无生效折扣则返回原价。
// 注意：该价格仅用于浏览展示，下单按原价结算（批量/忠诚折扣另算）。
func (b *Book) EffectivePrice(discounts []Discount, t time.Time) int64 {
	if d, ok := ActiveDiscount(discounts, t); ok {
		return d.Apply(b.Price)
	}
	return b.Price
}

// ListParams 列表查询参数
// 对应目录页的筛选/排序/分页能力
type ListParams struct {
	Page     int
	PageSize int
	Search   string  // 标题/简介模糊搜索
	AuthorID uint    // 按作者筛选（0表示不筛）
	GenreID  uint    // 按类目筛选
	PriceMin *int64  // 价格下限（分）
	PriceMax *int64  // 价格上限（分）
	RatingMin *float64
	RatingMax *float64
	Language string
	Formats  []string // 多选（逗号分隔传入）
	InStock  *bool    // true仅看有货，false仅看无货
	OnSale   bool     // 仅看当前有生效折扣的图书
	SortBy   string   // title_asc | title_desc | price_asc | price_desc | rating_asc | rating_desc
}
