package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                     // 主键
	Slug              string         `gorm:"uniqueIndex;not null" json:"slug"`                         // 唯一标识
	NameJSON          JSON           `gorm:"type:json;not null" json:"name"`                           // 多语言名称
	DescriptionJSON   JSON           `gorm:"type:json" json:"description"`                             // 多语言描述
	BasePrice         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_price"` // 基础价格
	Images            StringArray    `gorm:"type:json" json:"images"`                                  // 图片数组
	IsActive          bool           `gorm:"default:true;index" json:"is_active"`                      // 是否上架
	SortOrder         int            `gorm:"default:0;index" json:"sort_order"`                        // 排序权重
	AvailableQuantity int64          `gorm:"-" json:"available_quantity"`                              // 可用库存（由库存流水汇总，不落库）
	IsInStock         bool           `gorm:"-" json:"is_in_stock"`                                     // 是否有货（不落库）
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"` // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductVariant 商品规格（尺寸/重量）
type ProductVariant struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                // 主键
	ProductID   uint           `gorm:"index;not null" json:"product_id"`                    // 商品ID
	Name        string         `gorm:"type:varchar(120);not null" json:"name"`              // 规格名称
	WeightGrams int            `gorm:"not null;default:0" json:"weight_grams"`              // 重量（克）
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 规格价格
	Stock       int            `gorm:"not null;default:0" json:"stock"`                     // 已废弃：仅 TrackStock 时参考，可用量以库存流水为准
	TrackStock  bool           `gorm:"not null;default:false" json:"track_stock"`           // 是否单独跟踪规格库存
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`              // 是否启用
	CreatedAt   time.Time      `json:"created_at"`                                          // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                          // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
