package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// Migrate 自动迁移表结构
// 导出供测试使用（仓储测试基于内存SQLite建表）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&AuthorModel{},
		&GenreModel{},
		&PublisherModel{},
		&BookModel{},
		&DiscountModel{},
		&CartItemModel{},
		&BookmarkModel{},
		&OrderModel{},
		&OrderItemModel{},
		&ReviewModel{},
		&AnnouncementModel{},
		&NotificationModel{},
		&ReceiptModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID              uint      `gorm:"primaryKey"`
	Username        string    `gorm:"uniqueIndex;size:30;not null;comment:用户名"`
	Email           string    `gorm:"size:100;not null;comment:邮箱"`
	Password        string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	FullName        string    `gorm:"size:100;not null;comment:姓名"`
	Role            string    `gorm:"size:10;not null;default:member;comment:角色(member|staff)"`
	FulfilledOrders int       `gorm:"default:0;comment:累计完成订单数"`
	LoyaltyRateBps  int64     `gorm:"default:0;comment:待用忠诚折扣率(基点)"`
	CreatedAt       time.Time `gorm:"comment:创建时间"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// AuthorModel GORM作者模型
type AuthorModel struct {
	ID        uint      `gorm:"primaryKey"`
	FirstName string    `gorm:"size:50;not null;comment:名"`
	LastName  string    `gorm:"size:50;not null;comment:姓"`
	Biography string    `gorm:"type:text;comment:简介"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (AuthorModel) TableName() string {
	return "authors"
}

// GenreModel GORM分类模型
type GenreModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:50;not null;comment:分类名"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (GenreModel) TableName() string {
	return "genres"
}

// PublisherModel GORM出版社模型
type PublisherModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null;comment:出版社名"`
	Description string    `gorm:"type:text;comment:简介"`
	Website     string    `gorm:"size:200;comment:官网"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

func (PublisherModel) TableName() string {
	return "publishers"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. ISBN有唯一索引,防止重复
// 3. 作者、分类通过连接表多对多关联(book_authors、book_genres)
// 4. AvgRating为冗余字段,书评创建时重新计算
type BookModel struct {
	ID          uint           `gorm:"primaryKey"`
	ISBN        string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title       string         `gorm:"index:idx_search;size:200;not null;comment:书名"` // 搜索索引
	Description string         `gorm:"type:text;comment:图书描述"`
	Price       int64          `gorm:"index:idx_list;not null;comment:定价(分)"` // 排序索引
	Stock       int            `gorm:"default:0;comment:库存数量"`
	AvgRating   float64        `gorm:"default:0;comment:平均评分"`
	PublishedAt *time.Time     `gorm:"comment:出版日期"`
	Language    string         `gorm:"index;size:30;comment:语言"`
	Format      string         `gorm:"index;size:30;comment:装帧(精装|平装|电子书)"`
	ImagePath   string         `gorm:"size:500;comment:封面图片路径"`
	PublisherID *uint          `gorm:"index;comment:出版社ID"`
	Authors     []AuthorModel  `gorm:"many2many:book_authors"` // 多对多关联
	Genres      []GenreModel   `gorm:"many2many:book_genres"`  // 多对多关联
	CreatedAt   time.Time      `gorm:"index:idx_list;comment:创建时间"` // 排序索引
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
}

func (BookModel) TableName() string {
	return "books"
}

// DiscountModel GORM图书折扣模型
// 折扣与图书一对多,仅在时间窗口内生效
type DiscountModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"index;not null;comment:图书ID"`
	RateBps   int64     `gorm:"not null;comment:折扣率(基点,1000=10%)"`
	OnSale    bool      `gorm:"default:false;comment:是否标记促销"`
	StartAt   time.Time `gorm:"index;not null;comment:开始时间"`
	EndAt     time.Time `gorm:"index;not null;comment:结束时间"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (DiscountModel) TableName() string {
	return "discounts"
}

// CartItemModel GORM购物车条目模型
// (user_id, book_id)唯一,重复添加时累加数量
type CartItemModel struct {
	ID       uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"uniqueIndex:idx_cart_user_book;not null;comment:用户ID"`
	BookID   uint      `gorm:"uniqueIndex:idx_cart_user_book;not null;comment:图书ID"`
	Quantity int       `gorm:"not null;comment:数量"`
	AddedAt  time.Time `gorm:"comment:加入时间"`
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// BookmarkModel GORM收藏模型
// (user_id, book_id)唯一,重复收藏即取消(toggle语义)
type BookmarkModel struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"uniqueIndex:idx_bookmark_user_book;not null;comment:用户ID"`
	BookID       uint      `gorm:"uniqueIndex:idx_bookmark_user_book;not null;comment:图书ID"`
	BookmarkedAt time.Time `gorm:"comment:收藏时间"`
}

func (BookmarkModel) TableName() string {
	return "bookmarks"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderItemModel是一对多关系
// 2. ClaimCode有唯一索引(到店领取凭证)
// 3. Status使用int存储(节省空间,便于索引)
type OrderModel struct {
	ID        uint             `gorm:"primaryKey"`
	ClaimCode string           `gorm:"uniqueIndex;size:32;not null;comment:领取码"`
	UserID    uint             `gorm:"index;not null;comment:买家用户ID"`
	Discount  int64            `gorm:"default:0;comment:折扣金额(分)"`
	Status    int              `gorm:"index;type:tinyint;default:1;comment:订单状态(1待处理2已取消3已完成)"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time        `gorm:"comment:更新时间"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 教学要点:
// 1. 记录下单时的定价快照(Price字段)
// 2. OrderID外键关联orders表
type OrderItemModel struct {
	ID       uint  `gorm:"primaryKey"`
	OrderID  uint  `gorm:"index;not null;comment:订单ID"`
	BookID   uint  `gorm:"index;not null;comment:图书ID"`
	Quantity int   `gorm:"not null;comment:购买数量"`
	Price    int64 `gorm:"not null;comment:下单时单价(分)"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// ReviewModel GORM书评模型
// (user_id, book_id)唯一,每人每书限评一次
type ReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"uniqueIndex:idx_review_user_book;not null;comment:图书ID"`
	UserID    uint      `gorm:"uniqueIndex:idx_review_user_book;not null;comment:用户ID"`
	Rating    int       `gorm:"not null;comment:评分(1-5)"`
	Comment   string    `gorm:"type:text;not null;comment:评价内容"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

// AnnouncementModel GORM公告模型
type AnnouncementModel struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:200;not null;comment:标题"`
	Description string    `gorm:"type:text;comment:内容"`
	StartAt     time.Time `gorm:"index;not null;comment:开始时间"`
	EndAt       time.Time `gorm:"index;not null;comment:结束时间"`
	CreatedBy   uint      `gorm:"not null;comment:发布员工ID"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

func (AnnouncementModel) TableName() string {
	return "announcements"
}

// NotificationModel GORM站内通知模型
type NotificationModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null;comment:用户ID"`
	BookID    *uint     `gorm:"index;comment:关联图书ID"`
	Content   string    `gorm:"size:500;not null;comment:通知内容"`
	IsRead    bool      `gorm:"default:false;comment:是否已读"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// ReceiptModel GORM收据发件箱模型
// 下单事务内插入pending记录,后台worker轮询发送
type ReceiptModel struct {
	ID        uint       `gorm:"primaryKey"`
	OrderID   uint       `gorm:"index;not null;comment:订单ID"`
	Email     string     `gorm:"size:100;not null;comment:收件邮箱"`
	Subject   string     `gorm:"size:200;not null;comment:邮件主题"`
	Body      string     `gorm:"type:text;not null;comment:邮件正文"`
	Status    string     `gorm:"index;size:10;default:pending;comment:状态(pending|sent|failed)"`
	Attempts  int        `gorm:"default:0;comment:尝试次数"`
	LastError string     `gorm:"size:500;comment:最近一次失败原因"`
	CreatedAt time.Time  `gorm:"index;comment:创建时间"`
	SentAt    *time.Time `gorm:"comment:发送时间"`
}

func (ReceiptModel) TableName() string {
	return "receipts"
}
