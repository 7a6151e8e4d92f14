package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/xiebiao/bookstore-search/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-search/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstore-search/internal/infrastructure/searchindex"
)

// main 索引构建工具入口
// 设计说明:
// 1. 从canonical store全量捞取图书,批量写入bleve索引
// 2. 索引是最终一致的副本,重跑本工具即完成一次全量对齐
// 3. API服务和indexer不应同时打开同一个索引目录
//    (bleve是单进程独占),重建期间需停写
func main() {
	batchSize := flag.Int("batch", 500, "每批加载的图书数量")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	idx, err := searchindex.NewIndex(cfg.Index.Path)
	if err != nil {
		log.Fatalf("打开搜索索引失败: %v", err)
	}
	defer idx.Close()

	source := mysql.NewIndexSource(db)
	ctx := context.Background()
	start := time.Now()

	var afterID uint
	var indexed int
	for {
		docs, err := source.LoadBatch(ctx, afterID, *batchSize)
		if err != nil {
			log.Fatalf("加载图书失败(afterID=%d): %v", afterID, err)
		}
		if len(docs) == 0 {
			break
		}

		if err := idx.IndexBooks(docs); err != nil {
			log.Fatalf("写入索引失败(afterID=%d): %v", afterID, err)
		}

		indexed += len(docs)
		afterID = docs[len(docs)-1].ID
		fmt.Printf("  已索引 %d 本(至图书ID %d)\n", indexed, afterID)
	}

	count, err := idx.DocCount()
	if err != nil {
		log.Fatalf("读取索引文档数失败: %v", err)
	}

	fmt.Printf("✅ 索引构建完成: %d 本图书, 索引文档数 %d, 耗时 %v\n",
		indexed, count, time.Since(start).Round(time.Millisecond))
}
