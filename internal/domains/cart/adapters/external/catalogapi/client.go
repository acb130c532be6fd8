// Package catalogapi reads products and stock from the catalog REST API.
package catalogapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
)

var (
	_ ports.StockOracle   = (*Client)(nil)
	_ ports.CatalogOracle = (*Client)(nil)
)

// ProductPayload is the body of GET /products/{id}.
type ProductPayload struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// StockPayload is the body of GET /stock/{id}.
type StockPayload struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// Client answers both oracle ports over HTTP.
type Client struct {
	http *resty.Client
}

type Option func(*resty.Client)

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *resty.Client) {
		if timeout > 0 {
			c.SetTimeout(timeout)
		}
	}
}

// NewClient targets baseURL, e.g. http://localhost:3333.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog API base URL is required")
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(injectTraceContext)
	for _, opt := range opts {
		if opt != nil {
			opt(rc)
		}
	}
	return &Client{http: rc}, nil
}

func (c *Client) Product(ctx context.Context, productID int64) (domain.CatalogItem, error) {
	path, err := resourcePath("products", productID)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	var payload ProductPayload
	if err := c.get(ctx, path, &payload); err != nil {
		return domain.CatalogItem{}, fmt.Errorf("product %d: %w", productID, err)
	}
	return domain.CatalogItem{
		ID:    productID,
		Name:  payload.Title,
		Price: payload.Price,
		Image: payload.Image,
	}, nil
}

func (c *Client) Stock(ctx context.Context, productID int64) (domain.Stock, error) {
	path, err := resourcePath("stock", productID)
	if err != nil {
		return domain.Stock{}, err
	}
	var payload StockPayload
	if err := c.get(ctx, path, &payload); err != nil {
		return domain.Stock{}, fmt.Errorf("stock %d: %w", productID, err)
	}
	stock, err := domain.NewStock(productID, payload.Amount)
	if err != nil {
		return domain.Stock{}, fmt.Errorf("stock %d: %w", productID, err)
	}
	return stock, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.http.R().SetContext(ctx).SetResult(out).Get(path)
	if err != nil {
		return fmt.Errorf("call catalog API: %w", err)
	}
	switch status := resp.StatusCode(); {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return ports.ErrUnknownProduct
	default:
		return fmt.Errorf("catalog API unexpected status: %s", resp.Status())
	}
}

func resourcePath(resource string, id int64) (string, error) {
	segment, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return "", fmt.Errorf("encode %s id: %w", resource, err)
	}
	return "/" + resource + "/" + segment, nil
}

func injectTraceContext(_ *resty.Client, req *resty.Request) error {
	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))
	return nil
}
