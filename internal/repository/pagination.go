package repository

import "gorm.io/gorm"

// 单页上限，防止列表接口一次拉取过多文章。
const maxPageSize = 200

// applyPagination 按 1 起始页码应用分页，非法参数回退到安全值。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
