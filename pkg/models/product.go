package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type StockStatus string

const (
	StockIn  StockStatus = "inStock"
	StockLow StockStatus = "lowStock"
	StockOut StockStatus = "outOfStock"
)

type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
)

// Color is one entry of a product's color axis.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// SizeList and ColorList are stored as JSON text columns.
type SizeList []string

func (s SizeList) Value() (driver.Value, error) {
	return jsonValue(s)
}

func (s *SizeList) Scan(src interface{}) error {
	return jsonScan(src, s)
}

type ColorList []Color

func (c ColorList) Value() (driver.Value, error) {
	return jsonValue(c)
}

func (c *ColorList) Scan(src interface{}) error {
	return jsonScan(src, c)
}

type Product struct {
	ID           string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Slug         string         `gorm:"type:varchar(191);uniqueIndex;not null" json:"slug"`
	Name         string         `gorm:"type:varchar(191);not null" json:"name"`
	NameID       string         `gorm:"type:varchar(191)" json:"nameId"`
	Description  string         `gorm:"type:text" json:"description"`
	Price        int64          `gorm:"not null" json:"price"`
	CategoryID   string         `gorm:"type:varchar(36);index" json:"categoryId"`
	Category     *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Gender       Gender         `gorm:"type:varchar(10);default:'unisex'" json:"gender"`
	Sizes        SizeList       `gorm:"type:text" json:"sizes"`
	Colors       ColorList      `gorm:"type:text" json:"colors"`
	IsNew        bool           `gorm:"default:false" json:"isNew"`
	IsBestSeller bool           `gorm:"default:false" json:"isBestSeller"`
	IsFeatured   bool           `gorm:"default:false" json:"isFeatured"`
	IsOnSale     bool           `gorm:"default:false" json:"isOnSale"`
	StockStatus  StockStatus    `gorm:"type:varchar(20);default:'inStock'" json:"stockStatus"`
	ImageURL     string         `gorm:"type:varchar(255)" json:"imageUrl"`
	SortOrder    int            `gorm:"column:sort_order;default:0;index" json:"order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

func jsonValue(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func jsonScan(src, dest interface{}) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(s, dest)
	case string:
		return json.Unmarshal([]byte(s), dest)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
