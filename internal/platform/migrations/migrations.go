package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema shared by the catalog and cart processes.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&stockRecord{},
		&cartStateRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	Title     string          `gorm:"column:title"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Image     string          `gorm:"column:image"`
	Tags      pq.StringArray  `gorm:"column:tags;type:text[]"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Stock schema mirrors the catalog Postgres adapter.
type stockRecord struct {
	ProductID int64     `gorm:"primaryKey;column:product_id"`
	Amount    int       `gorm:"column:amount;check:amount >= 0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "stock" }

// Cart state schema mirrors the cart Postgres store.
type cartStateRecord struct {
	Key       string    `gorm:"primaryKey;column:key;size:255"`
	Value     []byte    `gorm:"column:value;type:bytea;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

func (cartStateRecord) TableName() string { return "cart_state" }
