package handlers

import (
	"centime/internal/services/reconcile"
	"centime/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the back-office reconciliation endpoint.
type AdminHandler struct {
	reconciler *reconcile.Service
}

func NewAdminHandler(reconciler *reconcile.Service) *AdminHandler {
	return &AdminHandler{reconciler: reconciler}
}

// ReconcileWallet replays a wallet's ledger, repairs the cached balance if it
// drifted and reports tampered rows.
func (h *AdminHandler) ReconcileWallet(c *fiber.Ctx) error {
	walletID, err := c.ParamsInt("id")
	if err != nil || walletID <= 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}

	report, err := h.reconciler.Reconcile(c.Context(), uint(walletID))
	if err != nil {
		return mapServiceError(c, err)
	}
	return utils.Success(c, fiber.Map{"report": report})
}
