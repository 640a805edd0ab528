package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/review"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// reviewRepository 书评仓储实现(MySQL)
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// Create 创建书评
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &ReviewModel{
		BookID:  rv.BookID,
		UserID:  rv.UserID,
		Rating:  rv.Rating,
		Comment: rv.Comment,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		// (user_id, book_id)唯一索引兜底,防止并发下重复评价
		if isDuplicateError(err) {
			return review.ErrDuplicateReview
		}
		return apperrors.Wrap(err, "创建书评失败")
	}

	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	return nil
}

// ExistsByUserAndBook 用户是否已评价过该书
func (r *reviewRepository) ExistsByUserAndBook(ctx context.Context, userID, bookID uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&ReviewModel{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询书评失败")
	}

	return count > 0, nil
}

// ListByBook 查询某书的全部书评(联查评价人姓名)
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*review.WithReviewer, error) {
	type row struct {
		ReviewModel
		FullName string
	}

	var rows []row
	err := getDB(ctx, r.db).Model(&ReviewModel{}).
		Select("reviews.*, users.full_name").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.book_id = ?", bookID).
		Order("reviews.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询书评列表失败")
	}

	reviews := make([]*review.WithReviewer, len(rows))
	for i, rw := range rows {
		reviews[i] = &review.WithReviewer{
			Review: review.Review{
				ID:        rw.ID,
				BookID:    rw.BookID,
				UserID:    rw.UserID,
				Rating:    rw.Rating,
				Comment:   rw.Comment,
				CreatedAt: rw.CreatedAt,
			},
			ReviewerName: rw.FullName,
		}
	}
	return reviews, nil
}

// AverageForBook 计算某书的平均评分,无书评时返回0
func (r *reviewRepository) AverageForBook(ctx context.Context, bookID uint) (float64, error) {
	var avg *float64
	err := getDB(ctx, r.db).Model(&ReviewModel{}).
		Select("AVG(rating)").
		Where("book_id = ?", bookID).
		Scan(&avg).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "计算平均评分失败")
	}

	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// DeleteByBook 删除某书的全部书评(图书级联删除用)
func (r *reviewRepository) DeleteByBook(ctx context.Context, bookID uint) error {
	err := getDB(ctx, r.db).Where("book_id = ?", bookID).Delete(&ReviewModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "删除书评失败")
	}
	return nil
}
