package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/loictrobas/discogs-tool/config"
	"github.com/loictrobas/discogs-tool/model"
)

// GormDB 是 GORM 数据库连接实例，发布记录都写在这
var GormDB *gorm.DB

// ConnectGormDB 打开本地sqlite库并迁移表结构。
// 纯Go驱动，不需要cgo，也不需要装数据库服务。
func ConnectGormDB(cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
		return fmt.Errorf("创建数据库目录失败: %w", err)
	}

	var err error
	GormDB, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database with GORM: %w", err)
	}

	if err := GormDB.AutoMigrate(&model.PublishedRelease{}); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}

// CloseGormDB 关闭 GORM 数据库连接
func CloseGormDB() error {
	if GormDB == nil {
		return nil
	}

	sqlDB, err := GormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
