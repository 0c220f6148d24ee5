package ledger

import (
	"context"
	"time"

	"github.com/xiebiao/bookclub/internal/domain/ledger"
)

// EntryResponse 资金流水DTO
type EntryResponse struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Reason        string `json:"reason"`
	Amount        string `json:"amount"`
	BalanceBefore string `json:"balance_before"`
	BalanceAfter  string `json:"balance_after"`
	RefID         string `json:"ref_id"`
	CreatedAt     string `json:"created_at"`
}

// TreasuryResponse 平台资金概览
type TreasuryResponse struct {
	AccountID uint            `json:"account_id"`
	Balance   string          `json:"balance"`
	Entries   []EntryResponse `json:"entries"`
	Total     int64           `json:"total"`
	Page      int             `json:"page"`
	PageSize  int             `json:"page_size"`
}

// Settings 平台资金账户
type Settings struct {
	TreasuryID uint
}

// GetTreasuryUseCase 查询平台资金余额与流水
type GetTreasuryUseCase struct {
	ledger     ledger.Service
	treasuryID uint
}

func NewGetTreasuryUseCase(ledgerService ledger.Service, settings Settings) *GetTreasuryUseCase {
	return &GetTreasuryUseCase{ledger: ledgerService, treasuryID: settings.TreasuryID}
}

func (uc *GetTreasuryUseCase) Execute(ctx context.Context, page, pageSize int) (*TreasuryResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	balance, err := uc.ledger.Balance(ctx, uc.treasuryID)
	if err != nil {
		return nil, err
	}
	entries, total, err := uc.ledger.Entries(ctx, uc.treasuryID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := &TreasuryResponse{
		AccountID: uc.treasuryID,
		Balance:   balance.StringFixed(2),
		Entries:   make([]EntryResponse, len(entries)),
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}
	for i, e := range entries {
		resp.Entries[i] = EntryResponse{
			ID:            e.ID,
			Kind:          string(e.Kind),
			Reason:        string(e.Reason),
			Amount:        e.Amount.StringFixed(2),
			BalanceBefore: e.BalanceBefore.StringFixed(2),
			BalanceAfter:  e.BalanceAfter.StringFixed(2),
			RefID:         e.RefID,
			CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}
