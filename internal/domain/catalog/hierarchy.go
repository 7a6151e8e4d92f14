package catalog

import "context"

// ChildLister 分类邻接关系的读取接口
// 由infrastructure层基于categories表实现
type ChildLister interface {
	// Exists 分类是否存在
	Exists(ctx context.Context, id uint) (bool, error)

	// ChildIDs 一批父分类的全部直接子分类ID
	ChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error)
}

// CategoryResolver 分类层级解析器
// 设计说明:
// 1. 把单个分类ID展开成过滤用的ID集合:{自身} ∪ 各层后代
// 2. 用逐层宽度优先展开代替固定层数的union写法,展开深度由maxDepth
//    参数化(默认3层)——超出maxDepth的更深后代会被静默排除
// 3. 只向下展开(后代),不包含祖先
// 4. 无状态、无副作用;分类编辑没有版本号,每次请求都要重新解析
type CategoryResolver struct {
	children ChildLister
	maxDepth int
}

// NewCategoryResolver 创建分类层级解析器
// maxDepth<=0时回落到3层(与线上目录树的实际深度匹配)
func NewCategoryResolver(children ChildLister, maxDepth int) *CategoryResolver {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	return &CategoryResolver{
		children: children,
		maxDepth: maxDepth,
	}
}

// Resolve 展开分类ID集合
// 返回值:
// - 分类不存在或id为0 → 空集合(调用方据此返回空页,不报错)
// - 正常 → {id} ∪ 后代(至多maxDepth层),去重
func (r *CategoryResolver) Resolve(ctx context.Context, id uint) ([]uint, error) {
	if id == 0 {
		return nil, nil
	}

	ok, err := r.children.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	// 宽度优先逐层展开
	seen := map[uint]struct{}{id: {}}
	result := []uint{id}
	frontier := []uint{id}

	for depth := 0; depth < r.maxDepth && len(frontier) > 0; depth++ {
		childIDs, err := r.children.ChildIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}

		// 去重:分类树不应有环,但脏数据下也要保证终止
		next := make([]uint, 0, len(childIDs))
		for _, cid := range childIDs {
			if _, dup := seen[cid]; dup {
				continue
			}
			seen[cid] = struct{}{}
			next = append(next, cid)
		}

		result = append(result, next...)
		frontier = next
	}

	return result, nil
}
