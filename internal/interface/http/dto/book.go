package dto

import (
	"fmt"
	"strings"
	"time"
)

// BookForm 图书上架/编辑表单（multipart/form-data，封面文件字段名为image）
type BookForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	ISBN        string `form:"isbn" binding:"required,max=20"`
	Description string `form:"description" binding:"max=5000"`
	Price       int64  `form:"price" binding:"required,min=1"` // 价格（分）
	Stock       int    `form:"stock" binding:"min=0"`
	PublishedAt string `form:"published_at"` // 2006-01-02
	Language    string `form:"language" binding:"max=32"`
	Format      string `form:"format" binding:"max=32"`
	PublisherID *uint  `form:"publisher_id"`
	AuthorIDs   []uint `form:"author_ids"`
	GenreIDs    []uint `form:"genre_ids"`
}

// ParsePublishedAt 解析出版日期字段
func (f *BookForm) ParsePublishedAt() (*time.Time, error) {
	if f.PublishedAt == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", f.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("出版日期格式应为2006-01-02: %w", err)
	}
	return &t, nil
}

// ListBooksQuery 图书目录查询参数
type ListBooksQuery struct {
	Page      int      `form:"page" binding:"omitempty,min=1"`
	PageSize  int      `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search    string   `form:"search" binding:"omitempty,max=100"`
	AuthorID  uint     `form:"author_id"`
	GenreID   uint     `form:"genre_id"`
	PriceMin  *int64   `form:"price_min"`
	PriceMax  *int64   `form:"price_max"`
	RatingMin *float64 `form:"rating_min" binding:"omitempty,min=0,max=5"`
	RatingMax *float64 `form:"rating_max" binding:"omitempty,min=0,max=5"`
	Language  string   `form:"language"`
	Formats   string   `form:"formats"` // 逗号分隔多选: paperback,ebook
	InStock   *bool    `form:"in_stock"`
	OnSale    bool     `form:"on_sale"`
	SortBy    string   `form:"sort_by" binding:"omitempty,oneof=title_asc title_desc price_asc price_desc rating_asc rating_desc"`
}

// FormatList 拆分多选的载体格式参数
func (q *ListBooksQuery) FormatList() []string {
	if q.Formats == "" {
		return nil
	}
	parts := strings.Split(q.Formats, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
