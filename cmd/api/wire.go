//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 使用方式：
// Step 1: 修改本文件的Provider分组
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: wire_gen.go中的InitializeApp()替代main.go的手动组装
//
// 说明：RabbitMQ扇出与收据worker依赖运行期配置开关，
// 仍在main.go中手动装配，Injector只负责HTTP侧的依赖链。

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	appbookmark "github.com/xiebiao/bookshop/internal/application/bookmark"
	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	appdiscount "github.com/xiebiao/bookshop/internal/application/discount"
	appnotify "github.com/xiebiao/bookshop/internal/application/notify"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	appreview "github.com/xiebiao/bookshop/internal/application/review"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/notify"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/broadcast"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/infrastructure/storage"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/realtime"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	provideFileStore,
	realtime.NewHub,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewDiscountRepository,
	mysql.NewCatalogRepository,
	mysql.NewCartRepository,
	mysql.NewBookmarkRepository,
	mysql.NewOrderRepository,
	mysql.NewReviewRepository,
	mysql.NewAnnouncementRepository,
	mysql.NewNotificationRepository,
	mysql.NewOutboxRepository,
	mysql.NewTxManager,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewProfileUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appcatalog.NewCatalogUseCase,
	appdiscount.NewManageDiscountUseCase,
	appcart.NewManageCartUseCase,
	appbookmark.NewManageBookmarkUseCase,
	apporder.NewPlaceOrderUseCase,
	apporder.NewCancelOrderUseCase,
	apporder.NewFulfillOrderUseCase,
	apporder.NewListOrdersUseCase,
	appreview.NewCreateReviewUseCase,
	appreview.NewListReviewsUseCase,
	appnotify.NewManageAnnouncementUseCase,
	appnotify.NewNotificationUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	provideBroadcaster,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCatalogHandler,
	handler.NewDiscountHandler,
	handler.NewCartHandler,
	handler.NewBookmarkHandler,
	handler.NewOrderHandler,
	handler.NewReviewHandler,
	handler.NewAnnouncementHandler,
	handler.NewNotificationHandler,
	handler.NewEventsHandler,
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideFileStore 从配置创建封面图片存储
func provideFileStore(cfg *config.Config) (*storage.FileStore, error) {
	return storage.NewFileStore(cfg.Storage.ImageDir)
}

// provideBroadcaster 进程内SSE广播器（MQ扇出由main.go按配置追加）
func provideBroadcaster(hub *realtime.Hub) notify.Broadcaster {
	return broadcast.NewHubBroadcaster(hub)
}

// provideGinEngine 创建Gin引擎并注册全部路由
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	catalogHandler *handler.CatalogHandler,
	discountHandler *handler.DiscountHandler,
	cartHandler *handler.CartHandler,
	bookmarkHandler *handler.BookmarkHandler,
	orderHandler *handler.OrderHandler,
	reviewHandler *handler.ReviewHandler,
	announcementHandler *handler.AnnouncementHandler,
	notificationHandler *handler.NotificationHandler,
	eventsHandler *handler.EventsHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	registerRoutes(r, cfg,
		userHandler, bookHandler, catalogHandler, discountHandler, cartHandler,
		bookmarkHandler, orderHandler, reviewHandler, announcementHandler,
		notificationHandler, eventsHandler, authMiddleware)
	return r
}

// InitializeApp 构建配置好的Gin引擎（Wire Injector）
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
