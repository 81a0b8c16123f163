package handlers

import (
	"log"
	"time"

	"centime/internal/gateway"
	"centime/internal/services/ledger"
	"centime/internal/services/wallet"
	"centime/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler serves the mutating ledger operations and history reads.
// The charger is optional; without it processor charges are left standing
// when their ledger transaction is refunded.
type TransactionHandler struct {
	wallets wallet.Service
	ledger  *ledger.Service
	charger gateway.CardCharger
}

func NewTransactionHandler(wallets wallet.Service, ledgerSvc *ledger.Service, charger gateway.CardCharger) *TransactionHandler {
	return &TransactionHandler{wallets: wallets, ledger: ledgerSvc, charger: charger}
}

type moveRequest struct {
	WalletID    uint                   `json:"wallet_id"`
	Amount      int64                  `json:"amount"`
	Currency    string                 `json:"currency"`
	ReferenceID string                 `json:"reference_id"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// Credit adds funds to a wallet.
func (h *TransactionHandler) Credit(c *fiber.Ctx) error {
	var input moveRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	txn, err := h.wallets.Credit(c.Context(), wallet.CreditParams{
		WalletID:    input.WalletID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		ReferenceID: input.ReferenceID,
		Description: input.Description,
		Metadata:    input.Metadata,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return utils.Created(c, fiber.Map{"transaction": txn})
}

// Debit removes funds from a wallet.
func (h *TransactionHandler) Debit(c *fiber.Ctx) error {
	var input moveRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	txn, err := h.wallets.Debit(c.Context(), wallet.DebitParams{
		WalletID:    input.WalletID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		ReferenceID: input.ReferenceID,
		Description: input.Description,
		Metadata:    input.Metadata,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return utils.Created(c, fiber.Map{"transaction": txn})
}

// Transfer moves funds between two wallets atomically.
func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	var input struct {
		FromWalletID uint                   `json:"from_wallet_id"`
		ToWalletID   uint                   `json:"to_wallet_id"`
		Amount       int64                  `json:"amount"`
		ReferenceID  string                 `json:"reference_id"`
		Description  string                 `json:"description"`
		Metadata     map[string]interface{} `json:"metadata"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	result, err := h.wallets.Transfer(c.Context(), wallet.TransferParams{
		FromWalletID: input.FromWalletID,
		ToWalletID:   input.ToWalletID,
		Amount:       input.Amount,
		ReferenceID:  input.ReferenceID,
		Description:  input.Description,
		Metadata:     input.Metadata,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return utils.Created(c, fiber.Map{
		"outgoing": result.Outgoing,
		"incoming": result.Incoming,
	})
}

// Refund reverses the transaction identified by reference id. When the
// original row carries processor info, the external charge is refunded too;
// a processor failure is reported but does not undo the committed ledger
// refund.
func (h *TransactionHandler) Refund(c *fiber.Ctx) error {
	var input struct {
		ReferenceID string                 `json:"reference_id"`
		Description string                 `json:"description"`
		Metadata    map[string]interface{} `json:"metadata"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.ReferenceID == "" {
		return utils.BadRequest(c, "reference_id is required")
	}

	original, err := h.ledger.ByReference(c.Context(), input.ReferenceID)
	if err != nil {
		return mapServiceError(c, err)
	}

	txn, err := h.wallets.Refund(c.Context(), wallet.RefundParams{
		ReferenceID: input.ReferenceID,
		Description: input.Description,
		Metadata:    input.Metadata,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	response := fiber.Map{"transaction": txn}
	if h.charger != nil && original.ProcessorTxID != "" {
		if err := h.charger.Refund(c.Context(), original.ProcessorTxID); err != nil {
			log.Printf("processor refund failed for %s (%s %s): %v",
				original.ReferenceID, original.ProcessorName, original.ProcessorTxID, err)
			response["processor_refund"] = "failed"
		} else {
			response["processor_refund"] = "ok"
		}
	}
	return utils.Created(c, response)
}

// ListTransactions returns a wallet's ledger page, filtered by the query
// string: type, status, from, to (RFC 3339), limit, offset.
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	walletID, err := c.ParamsInt("id")
	if err != nil || walletID <= 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}

	q := ledger.Query{
		WalletID: uint(walletID),
		Type:     c.Query("type"),
		Status:   c.Query("status"),
		Limit:    c.QueryInt("limit"),
		Offset:   c.QueryInt("offset"),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.BadRequest(c, "invalid from timestamp")
		}
		q.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.BadRequest(c, "invalid to timestamp")
		}
		q.To = &t
	}

	txns, err := h.ledger.List(c.Context(), q)
	if err != nil {
		return mapServiceError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transactions": txns,
		"count":        len(txns),
	})
}

// GetByReference fetches a single transaction by its idempotency key.
func (h *TransactionHandler) GetByReference(c *fiber.Ctx) error {
	ref := c.Params("reference")
	if ref == "" {
		return utils.BadRequest(c, "reference is required")
	}

	txn, err := h.ledger.ByReference(c.Context(), ref)
	if err != nil {
		return mapServiceError(c, err)
	}
	return utils.Success(c, fiber.Map{"transaction": txn})
}
