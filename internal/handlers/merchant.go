package handlers

import (
	"net/http"
	"time"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/avc/crypto-bridge/internal/ledger"
	"go.uber.org/zap"
)

// MerchantService определяет чтение истории и кошелька мерчанта
type MerchantService interface {
	History() []domain.MerchantTx
	Wallet() domain.Wallet
	Now() time.Time
}

// TokenIssuer подписывает ссылку возобновления для записи истории
type TokenIssuer interface {
	Generate(txID string) (string, error)
}

// MerchantHandler отдает историю и кошелек мерчанта
type MerchantHandler struct {
	merchant MerchantService
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewMerchantHandler создает новый MerchantHandler
func NewMerchantHandler(merchant MerchantService, tokens TokenIssuer, logger *zap.Logger) *MerchantHandler {
	return &MerchantHandler{
		merchant: merchant,
		tokens:   tokens,
		logger:   logger,
	}
}

// TransactionResponse - запись истории с маршрутом возобновления
type TransactionResponse struct {
	domain.MerchantTx
	DeepLink    string `json:"deep_link,omitempty"`
	ResumeToken string `json:"resume_token,omitempty"`
}

func (h *MerchantHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	now := h.merchant.Now()
	history := h.merchant.History()

	if len(history) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	out := make([]TransactionResponse, 0, len(history))
	for _, tx := range history {
		item := TransactionResponse{MerchantTx: tx, DeepLink: ledger.DeepLink(tx, now)}
		if item.DeepLink != "" {
			token, err := h.tokens.Generate(tx.ID)
			if err != nil {
				h.logger.Error("failed to sign resume token", zap.String("tx_id", tx.ID), zap.Error(err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			item.ResumeToken = token
		}
		out = append(out, item)
	}

	writeJSON(w, h.logger, http.StatusOK, out)
}

func (h *MerchantHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.merchant.Wallet())
}
