package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
)

var (
	// ErrInvalidInput signals the request violated a cart invariant.
	ErrInvalidInput = errors.New("invalid cart input")
	// ErrInsufficientStock signals the requested amount exceeds the available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNotInCart signals the operation targeted a product that is not in the cart.
	ErrNotInCart = errors.New("product not in cart")
	// ErrDependency signals an oracle or the store failed.
	ErrDependency = errors.New("cart dependency failed")
)

// Outcome discriminates the result of a cart operation.
type Outcome string

const (
	OutcomeSucceeded        Outcome = "succeeded"
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeDependencyFailed Outcome = "dependency_failed"
)

// Classify maps an operation error to its outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInsufficientStock):
		return OutcomeValidationFailed
	case errors.Is(err, ErrNotInCart):
		return OutcomeNotFound
	default:
		return OutcomeDependencyFailed
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrDuplicateProduct) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func dependencyError(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDependency, what, err)
}
