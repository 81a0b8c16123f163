package handlers

import (
	"errors"

	"centime/internal/services/wallet"
	"centime/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// mapServiceError translates ledger error kinds to HTTP responses. Unknown
// errors come back as 503 because the only unclassified failures are store
// ones.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrCurrencyMismatch),
		errors.Is(err, wallet.ErrInvalidCurrency),
		errors.Is(err, wallet.ErrInvalidOperation):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return utils.UnprocessableEntity(c, err.Error())
	case errors.Is(err, wallet.ErrWalletNotFound),
		errors.Is(err, wallet.ErrTransactionNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, wallet.ErrDuplicateTransaction),
		errors.Is(err, wallet.ErrAlreadyReversed):
		return utils.Conflict(c, err.Error())
	case errors.Is(err, wallet.ErrUnavailable):
		return utils.ServiceUnavailable(c, "ledger temporarily unavailable")
	default:
		return utils.InternalError(c, err.Error())
	}
}
