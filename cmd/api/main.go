package main

import (
	"context"
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

	appsearch "github.com/xiebiao/bookstore-search/internal/application/search"
	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
	"github.com/xiebiao/bookstore-search/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-search/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstore-search/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-search/internal/infrastructure/searchindex"
	"github.com/xiebiao/bookstore-search/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-search/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-search/pkg/jwt"
	"github.com/xiebiao/bookstore-search/pkg/metrics"
	"github.com/xiebiao/bookstore-search/pkg/response"
	"github.com/xiebiao/bookstore-search/pkg/tracing"
)

// main 搜索引擎API入口
// 依赖注入链：Repository ← Service/Backend ← UseCase ← Handler
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - 索引目录: %s\n", cfg.Index.Path)

	// 2. 初始化指标与链路追踪
	metrics.InitMetrics()
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("bookstore-search", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	// 3. 初始化存储连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	idx, err := searchindex.NewIndex(cfg.Index.Path)
	if err != nil {
		log.Fatalf("打开搜索索引失败: %v", err)
	}
	defer idx.Close()

	// 4. 依赖注入（手动组装）

	// 基础设施层
	searchRepo := mysql.NewBookSearchRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	metricsRepo := mysql.NewMetricsRepository(db)
	likeStore := redis.NewLikeStore(redisClient)
	searcher := searchindex.NewSearcher(idx, cfg.Index.MinScore, cfg.Index.CountScanLimit)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Leeway)

	// 领域层
	resolver := catalog.NewCategoryResolver(categoryRepo, cfg.Search.CategoryDepth)
	catalogService := catalog.NewService(searchRepo, resolver)

	// 应用层：两条流水线各装配一个搜索用例
	indexBackend := appsearch.NewIndexBackend(searcher, metricsRepo, likeStore)
	relationalSearch := appsearch.NewSearchBooksUseCase(
		catalogService, "relational", cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	indexSearch := appsearch.NewSearchBooksUseCase(
		indexBackend, "index", cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	bestSellerUseCase := appsearch.NewBestSellerUseCase(catalogService)

	// 接口层
	searchHandler := handler.NewSearchHandler(relationalSearch, indexSearch, bestSellerUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// 5. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Tracing(), middleware.Logger(), gin.Recovery(), middleware.Metrics())

	registerRoutes(r, searchHandler, authMiddleware)

	// 6. 启动服务（支持优雅关闭）
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 搜索服务启动成功！\n")
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   图书搜索: GET http://localhost%s/api/v1/search/books\n", addr)
		fmt.Printf("   全文搜索: GET http://localhost%s/api/v1/search/fulltext\n", addr)
		fmt.Printf("   上月畅销: GET http://localhost%s/api/v1/books/best-seller\n", addr)
		fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n\n", addr)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("📴 收到关闭信号，开始优雅关闭...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务关闭失败: %v", err)
	}
	log.Println("✅ 搜索服务已安全关闭")
}

// registerRoutes 注册路由
func registerRoutes(r *gin.Engine, searchHandler *handler.SearchHandler, authMiddleware *middleware.AuthMiddleware) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	// 搜索接口全部公开;OptionalAuth只用于识别登录用户(liked标记)
	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware.OptionalAuth())
	{
		search := v1.Group("/search")
		{
			search.GET("/books", searchHandler.SearchBooks)
			search.GET("/fulltext", searchHandler.SearchFulltext)
		}

		books := v1.Group("/books")
		{
			books.GET("/best-seller", searchHandler.BestSeller)
		}
	}
}
