package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	appbookmark "github.com/xiebiao/bookshop/internal/application/bookmark"
	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	appcatalog "github.com/xiebiao/bookshop/internal/application/catalog"
	appdiscount "github.com/xiebiao/bookshop/internal/application/discount"
	appnotify "github.com/xiebiao/bookshop/internal/application/notify"
	apporder "github.com/xiebiao/bookshop/internal/application/order"
	appoutbox "github.com/xiebiao/bookshop/internal/application/outbox"
	appreview "github.com/xiebiao/bookshop/internal/application/review"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/notify"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/broadcast"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/mail"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/infrastructure/storage"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/realtime"
	"github.com/xiebiao/bookshop/pkg/response"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// main 主程序入口（手动依赖注入）
// 依赖链：Repository ← Service ← UseCase ← Handler ← Router
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 可观测性
	metrics.InitMetrics()
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("bookshop-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Printf("关闭链路追踪失败: %v", err)
			}
		}()
	}

	// 3. 存储
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	if err := mysql.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	fileStore, err := storage.NewFileStore(cfg.Storage.ImageDir)
	if err != nil {
		log.Fatalf("初始化图片存储失败: %v", err)
	}

	// 4. 仓储层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	discountRepo := mysql.NewDiscountRepository(db)
	catalogRepo := mysql.NewCatalogRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	bookmarkRepo := mysql.NewBookmarkRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	reviewRepo := mysql.NewReviewRepository(db)
	announcementRepo := mysql.NewAnnouncementRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)
	outboxRepo := mysql.NewOutboxRepository(db)
	txManager := mysql.NewTxManager(db)

	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)

	// 5. 实时广播
	// 单机：事件直接进本地Hub推SSE。
	// 多实例（RabbitMQ开启）：事件只发交换机，各实例用自己的队列
	// 消费后中继进本地Hub，本实例的事件也走一圈交换机，避免重复推送。
	hub := realtime.NewHub()
	var broadcasters []notify.Broadcaster
	if cfg.RabbitMQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("连接RabbitMQ失败: %v", err)
		}
		defer publisher.Close()
		broadcasters = append(broadcasters, broadcast.NewMQBroadcaster(publisher, cfg.RabbitMQ.Exchange))

		hostname, _ := os.Hostname()
		relay, err := mq.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, "topic",
			"bookshop.sse."+hostname, []string{"#"})
		if err != nil {
			log.Fatalf("创建事件中继消费者失败: %v", err)
		}
		defer relay.Close()
		go func() {
			if err := relay.Consume(ctx, func(body []byte) error {
				return hub.Broadcast(ctx, body)
			}); err != nil {
				log.Printf("事件中继退出: %v", err)
			}
		}()
	} else {
		broadcasters = append(broadcasters, broadcast.NewHubBroadcaster(hub))
	}
	broadcaster := notify.Fanout(broadcasters)

	// 6. 领域层
	userService := user.NewService(userRepo)

	// 7. 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	profileUseCase := appuser.NewProfileUseCase(userRepo)

	publishBookUseCase := appbook.NewPublishBookUseCase(bookRepo, catalogRepo, fileStore)
	listBooksUseCase := appbook.NewListBooksUseCase(bookRepo, catalogRepo)
	getBookUseCase := appbook.NewGetBookUseCase(bookRepo, discountRepo, catalogRepo)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookRepo, catalogRepo, fileStore)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(
		bookRepo, discountRepo, cartRepo, bookmarkRepo, reviewRepo, orderRepo, fileStore, txManager)

	catalogUseCase := appcatalog.NewCatalogUseCase(catalogRepo)
	discountUseCase := appdiscount.NewManageDiscountUseCase(bookRepo, discountRepo)
	cartUseCase := appcart.NewManageCartUseCase(cartRepo, bookRepo)
	bookmarkUseCase := appbookmark.NewManageBookmarkUseCase(bookmarkRepo, bookRepo)

	placeOrderUseCase := apporder.NewPlaceOrderUseCase(
		orderRepo, cartRepo, bookRepo, userRepo, outboxRepo, txManager)
	cancelOrderUseCase := apporder.NewCancelOrderUseCase(orderRepo, bookRepo, txManager)
	fulfillOrderUseCase := apporder.NewFulfillOrderUseCase(
		orderRepo, bookRepo, userRepo, notificationRepo, broadcaster, txManager)
	listOrdersUseCase := apporder.NewListOrdersUseCase(orderRepo, bookRepo)

	createReviewUseCase := appreview.NewCreateReviewUseCase(reviewRepo, orderRepo, bookRepo, txManager)
	listReviewsUseCase := appreview.NewListReviewsUseCase(reviewRepo, bookRepo)

	announcementUseCase := appnotify.NewManageAnnouncementUseCase(announcementRepo, broadcaster)
	notificationUseCase := appnotify.NewNotificationUseCase(notificationRepo)

	// 8. 收据发件箱worker
	mailer := mail.NewSMTPMailer(cfg.Mail)
	receiptWorker := appoutbox.NewReceiptWorker(outboxRepo, mailer)
	go receiptWorker.Run(ctx)

	// 9. 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase, profileUseCase)
	bookHandler := handler.NewBookHandler(
		publishBookUseCase, listBooksUseCase, getBookUseCase, updateBookUseCase, deleteBookUseCase)
	catalogHandler := handler.NewCatalogHandler(catalogUseCase)
	discountHandler := handler.NewDiscountHandler(discountUseCase)
	cartHandler := handler.NewCartHandler(cartUseCase)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkUseCase)
	orderHandler := handler.NewOrderHandler(
		placeOrderUseCase, cancelOrderUseCase, fulfillOrderUseCase, listOrdersUseCase)
	reviewHandler := handler.NewReviewHandler(createReviewUseCase, listReviewsUseCase)
	announcementHandler := handler.NewAnnouncementHandler(announcementUseCase)
	notificationHandler := handler.NewNotificationHandler(notificationUseCase)
	eventsHandler := handler.NewEventsHandler(hub)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 10. 路由
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	registerRoutes(r, cfg,
		userHandler, bookHandler, catalogHandler, discountHandler, cartHandler,
		bookmarkHandler, orderHandler, reviewHandler, announcementHandler,
		notificationHandler, eventsHandler, authMiddleware)

	// 11. 启动与优雅退出
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("服务启动: http://localhost%s (swagger: /swagger/index.html)", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("收到退出信号,开始优雅关闭...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("关闭HTTP服务失败: %v", err)
	}
	log.Println("服务已退出")
}

// registerRoutes 注册全部路由
func registerRoutes(
	r *gin.Engine,
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
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 封面图片静态服务
	r.Static("/images", cfg.Storage.ImageDir)

	v1 := r.Group("/api/v1")
	{
		// 认证（公开）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 目录浏览（公开）
		v1.GET("/books", bookHandler.List)
		v1.GET("/books/:id", bookHandler.Get)
		v1.GET("/books/:id/reviews", reviewHandler.List)
		v1.GET("/books/:id/discounts", discountHandler.ListByBook)
		v1.GET("/discounts", discountHandler.ListActive)
		v1.GET("/discounts/:id", discountHandler.Get)
		v1.GET("/authors", catalogHandler.ListAuthors)
		v1.GET("/genres", catalogHandler.ListGenres)
		v1.GET("/publishers", catalogHandler.ListPublishers)

		// 需要登录
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			authorized.GET("/users/me", userHandler.Profile)

			// 购物车
			authorized.GET("/cart", cartHandler.List)
			authorized.POST("/cart/items", cartHandler.Add)
			authorized.DELETE("/cart/items/:bookId", cartHandler.Remove)

			// 收藏
			authorized.GET("/bookmarks", bookmarkHandler.List)
			authorized.POST("/bookmarks/:bookId", bookmarkHandler.Toggle)

			// 订单
			authorized.POST("/orders", orderHandler.Place)
			authorized.GET("/orders", orderHandler.List)
			authorized.GET("/orders/:id", orderHandler.Get)
			authorized.POST("/orders/:id/cancel", orderHandler.Cancel)

			// 书评
			authorized.POST("/books/:id/reviews", reviewHandler.Create)

			// 公告与通知
			authorized.GET("/announcements", announcementHandler.List)
			authorized.GET("/announcements/:id", announcementHandler.Get)
			authorized.GET("/notifications", notificationHandler.List)
			authorized.POST("/notifications/:id/read", notificationHandler.MarkRead)

			// 实时事件流
			authorized.GET("/events", eventsHandler.Stream)

			// 员工专属
			staff := authorized.Group("")
			staff.Use(authMiddleware.RequireStaff())
			{
				staff.POST("/books", bookHandler.Publish)
				staff.PUT("/books/:id", bookHandler.Update)
				staff.DELETE("/books/:id", bookHandler.Delete)

				staff.POST("/authors", catalogHandler.CreateAuthor)
				staff.POST("/genres", catalogHandler.CreateGenre)
				staff.POST("/publishers", catalogHandler.CreatePublisher)

				staff.POST("/discounts", discountHandler.Create)
				staff.DELETE("/discounts/:id", discountHandler.Delete)

				staff.POST("/orders/fulfill", orderHandler.Fulfill)

				staff.POST("/announcements", announcementHandler.Create)
				staff.PUT("/announcements/:id", announcementHandler.Update)
				staff.DELETE("/announcements/:id", announcementHandler.Delete)
			}
		}
	}
}
