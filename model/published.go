package model

import "time"

// PublishedRelease 本地发布记录，和Google Sheets的行保持同样的字段。
// Sheets不可用时这里是唯一的记录来源。
type PublishedRelease struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Artists    string    `gorm:"size:255" json:"artists"`
	Country    string    `gorm:"size:64" json:"country"`
	Year       string    `gorm:"size:8" json:"year"`
	Price      string    `gorm:"size:64" json:"price"`
	Sold       string    `gorm:"size:8;default:No" json:"sold"`
	OnIG       string    `gorm:"size:8" json:"onIg"`
	Owner      string    `gorm:"size:64" json:"owner"`
	CreationID string    `gorm:"size:64" json:"creationId"` // carousel parent容器id
	Ambiguous  bool      `json:"ambiguous"`                 // publish结果不确定时为true
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName 指定表名
func (PublishedRelease) TableName() string {
	return "published_release"
}
