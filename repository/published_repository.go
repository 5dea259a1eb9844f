package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/loictrobas/discogs-tool/model"
)

// PublishedRepository 定义发布记录的数据库操作接口
type PublishedRepository interface {
	// Create 写一条发布记录
	Create(ctx context.Context, rec *model.PublishedRelease) error

	// ListRecent 按时间倒序取最近n条
	ListRecent(ctx context.Context, n int) ([]*model.PublishedRelease, error)

	// ExistsByTitle 同名release是否已经登记过
	ExistsByTitle(ctx context.Context, title string) (bool, error)
}

// GormPublishedRepository GORM实现的发布记录仓库
type GormPublishedRepository struct {
	db *gorm.DB
}

// NewGormPublishedRepository 创建发布记录仓库实例
func NewGormPublishedRepository(db *gorm.DB) *GormPublishedRepository {
	return &GormPublishedRepository{db: db}
}

func (r *GormPublishedRepository) Create(ctx context.Context, rec *model.PublishedRelease) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *GormPublishedRepository) ListRecent(ctx context.Context, n int) ([]*model.PublishedRelease, error) {
	if n <= 0 {
		n = 20
	}
	var out []*model.PublishedRelease
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(n).
		Find(&out).Error
	return out, err
}

func (r *GormPublishedRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PublishedRelease{}).
		Where("title = ?", title).
		Count(&count).Error
	return count > 0, err
}
