package handler

import (
	"github.com/gin-gonic/gin"

	appledger "github.com/xiebiao/bookclub/internal/application/ledger"
	"github.com/xiebiao/bookclub/internal/interface/http/dto"
	"github.com/xiebiao/bookclub/pkg/response"
)

// LedgerHandler 平台资金查询
type LedgerHandler struct {
	treasury *appledger.GetTreasuryUseCase
}

func NewLedgerHandler(treasury *appledger.GetTreasuryUseCase) *LedgerHandler {
	return &LedgerHandler{treasury: treasury}
}

// GetTreasury 平台资金余额与流水
// @Summary      平台资金
// @Tags         资金
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=appledger.TreasuryResponse}
// @Failure      403 {object} response.Response "非管理员"
// @Router       /api/v1/ledger [get]
func (h *LedgerHandler) GetTreasury(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.treasury.Execute(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
