package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/go-cart-engine/internal/domains/catalog/adapters/http/mapper"
	catalogapp "github.com/Apurer/go-cart-engine/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-cart-engine/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-cart-engine/internal/shared/errors"
)

// CatalogAPI serves products and stock read-only.
type CatalogAPI struct {
	service   catalogports.Service
	responder *apierrors.Responder
}

func NewCatalogAPI(service catalogports.Service) *CatalogAPI {
	return &CatalogAPI{
		service:   service,
		responder: apierrors.NewResponder("", mapCatalogError),
	}
}

func (api *CatalogAPI) Register(r gin.IRouter) {
	r.GET("/products", api.ListProducts)
	r.GET("/products/:id", api.GetProduct)
	r.GET("/stock/:id", api.GetStock)
}

// Get /products
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	products, err := api.service.Products(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainProducts(products))
}

// Get /products/:id
func (api *CatalogAPI) GetProduct(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	product, err := api.service.Product(c.Request.Context(), id)
	if err != nil {
		api.respondLookupError(c, "product", id, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainProduct(product))
}

// Get /stock/:id
func (api *CatalogAPI) GetStock(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	stock, err := api.service.Stock(c.Request.Context(), id)
	if err != nil {
		api.respondLookupError(c, "stock", id, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainStock(stock))
}

func (api *CatalogAPI) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		api.responder.BadRequest(c, "id must be an integer")
		return 0, false
	}
	return id, true
}

func (api *CatalogAPI) respondLookupError(c *gin.Context, resource string, id int64, err error) {
	if errors.Is(err, catalogports.ErrNotFound) {
		api.responder.NotFound(c, resource, id)
		return
	}
	api.responder.RespondError(c, err)
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
