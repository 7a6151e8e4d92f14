//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 使用方式：
// 1. 修改Provider后运行 `wire gen ./cmd/api`
// 2. Wire生成wire_gen.go，包含完整的依赖创建代码
// 3. main.go可改为调用InitializeApp()

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
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
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	provideIndex,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewBookSearchRepository,
	mysql.NewCategoryRepository,
	mysql.NewMetricsRepository,
	provideLikeStore,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	provideCategoryResolver,
	catalog.NewService,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
)

// provideIndex 从配置打开bleve索引
func provideIndex(cfg *config.Config) (*searchindex.Index, error) {
	return searchindex.NewIndex(cfg.Index.Path)
}

// provideLikeStore LikeStore实现绑定到接口
func provideLikeStore(client *goredis.Client) catalog.LikeStore {
	return redis.NewLikeStore(client)
}

// provideCategoryResolver 从配置创建分类层级解析器
func provideCategoryResolver(cfg *config.Config, categoryRepo catalog.CategoryRepository) *catalog.CategoryResolver {
	return catalog.NewCategoryResolver(categoryRepo, cfg.Search.CategoryDepth)
}

// provideJWTManager 从配置创建JWT解析器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Leeway)
}

// provideSearchHandler 组装两条流水线的用例与处理器
// 同一个用例类型要装配两个实例(relational/index),
// Wire无法按类型区分,这里手动构造
func provideSearchHandler(
	cfg *config.Config,
	service *catalog.Service,
	idx *searchindex.Index,
	metricsRepo catalog.MetricsRepository,
	likeStore catalog.LikeStore,
) *handler.SearchHandler {
	searcher := searchindex.NewSearcher(idx, cfg.Index.MinScore, cfg.Index.CountScanLimit)
	indexBackend := appsearch.NewIndexBackend(searcher, metricsRepo, likeStore)

	relational := appsearch.NewSearchBooksUseCase(
		service, "relational", cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	index := appsearch.NewSearchBooksUseCase(
		indexBackend, "index", cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	bestSeller := appsearch.NewBestSellerUseCase(service)

	return handler.NewSearchHandler(relational, index, bestSeller)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	searchHandler *handler.SearchHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Tracing(), middleware.Logger(), gin.Recovery(), middleware.Metrics())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

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

	return r
}

// InitializeApp 初始化整个应用
// Wire在编译期分析依赖链并生成初始化代码
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		middlewareSet,
		provideSearchHandler,
		provideGinEngine,
	)
	return nil, nil
}
