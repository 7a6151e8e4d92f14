package searchindex

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// Index bleve索引的封装
// 设计说明:
// 1. 启动时打开已有索引,不存在则按当前mapping新建
// 2. mappingVersion变化时丢弃旧索引重建,避免新旧mapping混用
// 3. 读写锁保护Rebuild期间的并发访问
type Index struct {
	index bleve.Index
	path  string
	mu    sync.RWMutex
}

// mapping变更时递增,触发启动重建
const mappingVersion = "1"

// indexBatchSize 批量写入的分片大小
const indexBatchSize = 500

// NewIndex 打开或创建图书索引
// dataPath是索引数据目录,索引本体存放在其下的books.bleve
func NewIndex(dataPath string) (*Index, error) {
	indexPath := filepath.Join(dataPath, "books.bleve")
	versionPath := filepath.Join(dataPath, "books.version")

	var idx bleve.Index
	rebuild := false

	if _, err := os.Stat(indexPath); err == nil {
		version, readErr := os.ReadFile(versionPath)
		if readErr != nil || string(version) != mappingVersion {
			rebuild = true
		} else {
			idx, err = bleve.Open(indexPath)
			if err != nil {
				// 打开失败视为索引损坏,重建
				rebuild = true
			}
		}
	}

	if rebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("移除旧索引失败: %w", err)
		}
		idx = nil
	}

	if idx == nil {
		if err := os.MkdirAll(dataPath, 0o755); err != nil {
			return nil, fmt.Errorf("创建索引目录失败: %w", err)
		}
		var err error
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("创建索引失败: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
			return nil, fmt.Errorf("写入索引版本文件失败: %w", err)
		}
	}

	return &Index{index: idx, path: indexPath}, nil
}

// Close 关闭索引
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Close()
}

// IndexBook 写入单个文档
func (i *Index) IndexBook(doc *BookDocument) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	// 用map写入,保证字段名与mapping中的小写蛇形名一致
	return i.index.Index(doc.DocID(), doc.ToMap())
}

// IndexBooks 批量写入文档,按indexBatchSize分片提交
func (i *Index) IndexBooks(docs []*BookDocument) error {
	i.mu.RLock()
	defer i.mu.RUnlock()

	for start := 0; start < len(docs); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(docs) {
			end = len(docs)
		}

		batch := i.index.NewBatch()
		for _, doc := range docs[start:end] {
			if err := batch.Index(doc.DocID(), doc.ToMap()); err != nil {
				return fmt.Errorf("索引文档%s失败: %w", doc.DocID(), err)
			}
		}
		if err := i.index.Batch(batch); err != nil {
			return fmt.Errorf("提交批次[%d,%d)失败: %w", start, end, err)
		}
	}
	return nil
}

// DeleteBook 从索引删除文档
func (i *Index) DeleteBook(id string) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.index.Delete(id)
}

// DocCount 索引中的文档总数
func (i *Index) DocCount() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.index.DocCount()
}
