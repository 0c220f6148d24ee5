package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookclub/internal/application/user"
	"github.com/xiebiao/bookclub/internal/interface/http/middleware"
	"github.com/xiebiao/bookclub/pkg/response"
)

// UserHandler 用户资料
// 注册与登录由用户服务负责，这里只读
type UserHandler struct {
	profile *appuser.GetProfileUseCase
}

func NewUserHandler(profile *appuser.GetProfileUseCase) *UserHandler {
	return &UserHandler{profile: profile}
}

// Me 当前用户资料
// @Summary      当前用户资料
// @Description  下单时未填写的联系信息取自这里
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.ProfileResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	result, err := h.profile.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
