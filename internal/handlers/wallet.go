package handlers

import (
	"fmt"

	"centime/internal/gateway"
	"centime/internal/middleware"
	"centime/internal/services/wallet"
	"centime/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler serves wallet provisioning, reads and card top-ups.
type WalletHandler struct {
	wallets wallet.Service
	charger gateway.CardCharger
}

// NewWalletHandler builds the handler. The charger may be nil, in which case
// top-ups are disabled.
func NewWalletHandler(wallets wallet.Service, charger gateway.CardCharger) *WalletHandler {
	return &WalletHandler{wallets: wallets, charger: charger}
}

func ownerFromClaims(c *fiber.Ctx) (*middleware.OwnerClaims, error) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// CreateWallet provisions (or returns) the caller's wallet for a currency.
func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	claims, err := ownerFromClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Currency string `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return utils.BadRequest(c, "invalid request format")
	}

	w, err := h.wallets.GetOrCreateWallet(c.Context(), wallet.OwnerRef{
		OwnerID:   claims.OwnerID,
		OwnerType: claims.OwnerType,
		Currency:  input.Currency,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return utils.Created(c, fiber.Map{"wallet": w})
}

// GetWallet returns the wallet row by id.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	walletID, err := c.ParamsInt("id")
	if err != nil || walletID <= 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}

	w, err := h.wallets.GetWallet(c.Context(), uint(walletID))
	if err != nil {
		return mapServiceError(c, err)
	}
	return utils.Success(c, fiber.Map{"wallet": w})
}

// GetBalance returns the wallet balance as money.
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	walletID, err := c.ParamsInt("id")
	if err != nil || walletID <= 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}

	balance, err := h.wallets.GetBalance(c.Context(), uint(walletID))
	if err != nil {
		return mapServiceError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"wallet_id": walletID,
		"amount":    balance.Amount(),
		"currency":  balance.CurrencyCode(),
		"display":   balance.String(),
	})
}

// TopUpWallet charges a card source through the processor, then credits the
// wallet with the processor reference attached. The charge happens first; a
// credit failure after a successful charge is surfaced so the caller can
// retry the credit with the same reference.
func (h *WalletHandler) TopUpWallet(c *fiber.Ctx) error {
	if h.charger == nil {
		return utils.ServiceUnavailable(c, "card top-ups are not configured")
	}

	var input struct {
		WalletID    uint   `json:"wallet_id"`
		Amount      int64  `json:"amount"`
		Currency    string `json:"currency"`
		Source      string `json:"source"`
		ReferenceID string `json:"reference_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "amount must be greater than 0")
	}
	if input.Source == "" {
		return utils.BadRequest(c, "card source is required")
	}

	w, err := h.wallets.GetWallet(c.Context(), input.WalletID)
	if err != nil {
		return mapServiceError(c, err)
	}
	currency := input.Currency
	if currency == "" {
		currency = w.Currency
	}

	result, err := h.charger.Charge(c.Context(), input.Source, input.Amount, currency,
		fmt.Sprintf("wallet %d top-up", input.WalletID))
	if err != nil {
		return utils.UnprocessableEntity(c, err.Error())
	}

	txn, err := h.wallets.Credit(c.Context(), wallet.CreditParams{
		WalletID:    input.WalletID,
		Amount:      input.Amount,
		Currency:    currency,
		ReferenceID: input.ReferenceID,
		Description: "card top-up",
		Processor: &wallet.ProcessorInfo{
			Name:          result.ProcessorName,
			TransactionID: result.ProcessorTxID,
		},
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return utils.Success(c, fiber.Map{"transaction": txn})
}
