package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookstore-search/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 本引擎对目录数据只读;AutoMigrate仅保证开发环境表结构存在,
//    数据写入由目录/评价/订单等协作服务负责
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 配置连接池
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
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&PublisherModel{},
		&BookModel{},
		&CategoryModel{},
		&BookCategoryModel{},
		&AuthorModel{},
		&AuthorRoleModel{},
		&BookAuthorModel{},
		&TagModel{},
		&BookTagModel{},
		&ReviewModel{},
		&LikeModel{},
		&BookViewModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}

// PublisherModel GORM出版社模型
type PublisherModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;comment:出版社名称"`
}

// TableName 指定表名
func (PublisherModel) TableName() string {
	return "publishers"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. Active=false的图书对搜索不可见(下架)
// 3. 排序常用列(sale_price、publish_date)加索引
type BookModel struct {
	ID            uint      `gorm:"primaryKey"`
	ISBN          string    `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title         string    `gorm:"index:idx_search;size:200;not null;comment:书名"`
	RegularPrice  int64     `gorm:"not null;comment:定价(分)"`
	SalePrice     int64     `gorm:"index:idx_list;not null;comment:售价(分)"`
	IsSale        bool      `gorm:"default:false;comment:是否促销"`
	Stock         int       `gorm:"default:0;comment:库存数量"`
	Active        bool      `gorm:"index;default:true;comment:是否上架"`
	PublishDate   time.Time `gorm:"index:idx_list;comment:出版日期"`
	PublisherID   uint      `gorm:"index;comment:出版社ID"`
	ThumbnailPath string    `gorm:"size:500;comment:封面缩略图路径"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// CategoryModel GORM分类模型
// 设计说明:
// 1. 自引用树结构,ParentID为NULL表示根分类
// 2. Depth由写入方维护(根为0,子=父+1),本引擎只读不复核
type CategoryModel struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:100;not null;comment:分类名称"`
	ParentID *uint  `gorm:"index;comment:父分类ID(NULL为根)"`
	Depth    int    `gorm:"not null;default:0;comment:层级深度(根为0)"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// BookCategoryModel 图书-分类多对多关联
type BookCategoryModel struct {
	ID         uint `gorm:"primaryKey"`
	BookID     uint `gorm:"index:idx_book_category,unique;not null;comment:图书ID"`
	CategoryID uint `gorm:"index:idx_book_category,unique;index;not null;comment:分类ID"`
}

// TableName 指定表名
func (BookCategoryModel) TableName() string {
	return "book_categories"
}

// AuthorModel GORM作者模型
type AuthorModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"index;size:100;not null;comment:作者姓名"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// AuthorRoleModel 作者角色(著/编/译/绘等)
type AuthorRoleModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50;not null;comment:角色名称"`
}

// TableName 指定表名
func (AuthorRoleModel) TableName() string {
	return "author_roles"
}

// BookAuthorModel 图书-作者多对多关联(可选角色)
type BookAuthorModel struct {
	ID           uint  `gorm:"primaryKey"`
	BookID       uint  `gorm:"index;not null;comment:图书ID"`
	AuthorID     uint  `gorm:"index;not null;comment:作者ID"`
	AuthorRoleID *uint `gorm:"comment:角色ID(可空)"`
}

// TableName 指定表名
func (BookAuthorModel) TableName() string {
	return "book_authors"
}

// TagModel GORM标签模型
type TagModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:50;not null;comment:标签名称"`
}

// TableName 指定表名
func (TagModel) TableName() string {
	return "tags"
}

// BookTagModel 图书-标签多对多关联
type BookTagModel struct {
	ID     uint `gorm:"primaryKey"`
	BookID uint `gorm:"index;not null;comment:图书ID"`
	TagID  uint `gorm:"index;not null;comment:标签ID"`
}

// TableName 指定表名
func (BookTagModel) TableName() string {
	return "book_tags"
}

// ReviewModel GORM评价模型
// 一条评价一行;同一用户可有多条(是否限制由评价服务决定,本引擎不管)
type ReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"index;not null;comment:图书ID"`
	UserID    uint      `gorm:"index;not null;comment:用户ID"`
	Rating    int       `gorm:"not null;comment:评分(整数)"`
	Content   string    `gorm:"type:text;comment:评价内容"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}

// LikeModel GORM点赞模型
// 注意:取消点赞是把IsLiked翻转为false,不删行。
// 因此"点赞数"只能统计IsLiked=true的行,不能按行数算
type LikeModel struct {
	ID      uint `gorm:"primaryKey"`
	BookID  uint `gorm:"index:idx_book_user,unique;not null;comment:图书ID"`
	UserID  uint `gorm:"index:idx_book_user,unique;not null;comment:用户ID"`
	IsLiked bool `gorm:"not null;default:true;comment:是否点赞中"`
}

// TableName 指定表名
func (LikeModel) TableName() string {
	return "likes"
}

// BookViewModel 浏览事件,一次浏览一行
// 浏览数是裸行数,不按用户去重
type BookViewModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"index;not null;comment:图书ID"`
	CreatedAt time.Time `gorm:"comment:浏览时间"`
}

// TableName 指定表名
func (BookViewModel) TableName() string {
	return "book_views"
}

// 订单状态(与订单服务约定一致)
const (
	OrderStatusPending   = 1 // 待支付
	OrderStatusPaid      = 2 // 已支付
	OrderStatusShipped   = 3 // 已发货
	OrderStatusCompleted = 4 // 已完成
	OrderStatusCancelled = 5 // 已取消
)

// OrderModel GORM订单模型(畅销榜统计只读使用)
type OrderModel struct {
	ID        uint      `gorm:"primaryKey"`
	OrderNo   string    `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID    uint      `gorm:"index;not null;comment:买家用户ID"`
	Status    int       `gorm:"index;type:tinyint;default:1;comment:订单状态(1待支付2已支付3已发货4已完成5已取消)"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
type OrderItemModel struct {
	ID       uint  `gorm:"primaryKey"`
	OrderID  uint  `gorm:"index;not null;comment:订单ID"`
	BookID   uint  `gorm:"index;not null;comment:图书ID"`
	Quantity int   `gorm:"not null;comment:购买数量"`
	Price    int64 `gorm:"not null;comment:下单时单价(分)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}
