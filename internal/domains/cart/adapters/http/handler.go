package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cartmapper "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/http/mapper"
	cartapp "github.com/Apurer/go-cart-engine/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
	apierrors "github.com/Apurer/go-cart-engine/internal/shared/errors"
)

// CartAPI exposes the cart service over HTTP.
type CartAPI struct {
	service   cartports.Service
	responder *apierrors.Responder
}

func NewCartAPI(service cartports.Service) *CartAPI {
	return &CartAPI{service: service, responder: apierrors.NewResponder("")}
}

// Register mounts the cart routes on r.
func (api *CartAPI) Register(r gin.IRouter) {
	r.GET("/cart", api.GetCart)
	r.POST("/cart/items", api.AddItem)
	r.PUT("/cart/items/:productId", api.UpdateAmount)
	r.DELETE("/cart/items/:productId", api.RemoveItem)
}

// Get /cart
func (api *CartAPI) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartmapper.FromDomainCart(api.service.Cart(c.Request.Context())))
}

// Post /cart/items
// Adds one unit of a product
func (api *CartAPI) AddItem(c *gin.Context) {
	var payload cartmapper.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.ValidationFailed(c, map[string]string{"productId": "must be a positive integer"})
		return
	}
	cart, err := api.service.AddItem(c.Request.Context(), payload.ProductID)
	api.respond(c, cart, err)
}

// Put /cart/items/:productId
// Sets the amount of a product already in the cart
func (api *CartAPI) UpdateAmount(c *gin.Context) {
	id, ok := api.productID(c)
	if !ok {
		return
	}
	var payload cartmapper.UpdateAmountRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.ValidationFailed(c, map[string]string{"amount": "is required"})
		return
	}
	cart, err := api.service.UpdateAmount(c.Request.Context(), cartports.UpdateAmountInput{
		ProductID: id,
		Amount:    *payload.Amount,
	})
	api.respond(c, cart, err)
}

// Delete /cart/items/:productId
func (api *CartAPI) RemoveItem(c *gin.Context) {
	id, ok := api.productID(c)
	if !ok {
		return
	}
	cart, err := api.service.RemoveItem(c.Request.Context(), id)
	api.respond(c, cart, err)
}

func (api *CartAPI) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		api.responder.BadRequest(c, "productId must be an integer")
		return 0, false
	}
	return id, true
}

func (api *CartAPI) respond(c *gin.Context, cart cartdomain.Cart, err error) {
	if err == nil {
		c.JSON(http.StatusOK, cartmapper.FromDomainCart(cart))
		return
	}
	api.responder.Respond(c, ProblemFor(err).WithExtension("cart", cartmapper.FromDomainCart(cart)))
}

// ProblemFor maps a cart operation error to its HTTP problem.
func ProblemFor(err error) apierrors.ProblemDetail {
	switch {
	case errors.Is(err, cartapp.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error())
	case errors.Is(err, cartapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error())
	case errors.Is(err, cartapp.ErrNotInCart):
		return apierrors.ErrNotFound.WithDetail(err.Error())
	case errors.Is(err, cartapp.ErrDependency):
		return apierrors.ErrDependency.WithDetail(err.Error())
	default:
		return apierrors.ErrInternal.WithDetail(err.Error())
	}
}
