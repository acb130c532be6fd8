package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-cart-engine/internal/domains/catalog/domain"
	"github.com/Apurer/go-cart-engine/internal/domains/catalog/ports"
)

var ErrInvalidInput = errors.New("invalid catalog input")

// Service serves catalog reads. Stock is never written through it.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Product(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, mapError(domain.ErrInvalidID)
	}
	return s.repo.Product(ctx, id)
}

func (s *Service) Products(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.Products(ctx)
}

func (s *Service) Stock(ctx context.Context, productID int64) (domain.Stock, error) {
	if productID <= 0 {
		return domain.Stock{}, mapError(domain.ErrInvalidID)
	}
	return s.repo.Stock(ctx, productID)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidID) ||
		errors.Is(err, domain.ErrTitleRequired) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeStock) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
