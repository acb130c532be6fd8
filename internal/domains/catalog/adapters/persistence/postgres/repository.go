package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-cart-engine/internal/domains/catalog/domain"
	"github.com/Apurer/go-cart-engine/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository reads the catalog from PostgreSQL using GORM. The schema comes from platform/migrations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

type stockRecord struct {
	ProductID int64     `gorm:"primaryKey;column:product_id"`
	Amount    int       `gorm:"column:amount"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "stock" }

func (r *Repository) Product(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Products(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *Repository) Stock(ctx context.Context, productID int64) (domain.Stock, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Stock{}, err
	}
	var record stockRecord
	if err := r.db.WithContext(ctx).First(&record, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Stock{}, ports.ErrNotFound
		}
		return domain.Stock{}, err
	}
	return domain.Stock{ProductID: record.ProductID, Amount: record.Amount}, nil
}

// Seed upserts products and stock in one transaction.
func (r *Repository) Seed(ctx context.Context, products []*domain.Product, stock []domain.Stock) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range products {
			if p == nil {
				continue
			}
			record := productRecord{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image, Tags: pq.StringArray(p.Tags)}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"title":      record.Title,
					"price":      record.Price,
					"image":      record.Image,
					"tags":       record.Tags,
					"updated_at": gorm.Expr("NOW()"),
				}),
			}).Create(&record).Error; err != nil {
				return err
			}
		}
		for _, s := range stock {
			record := stockRecord{ProductID: s.ProductID, Amount: s.Amount}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "product_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"amount":     record.Amount,
					"updated_at": gorm.Expr("NOW()"),
				}),
			}).Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:    r.ID,
		Title: r.Title,
		Price: r.Price,
		Image: r.Image,
		Tags:  append([]string(nil), r.Tags...),
	}
}
