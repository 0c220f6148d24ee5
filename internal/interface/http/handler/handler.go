package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// bindError 参数绑定失败，把校验信息放进details
func bindError(err error) error {
	return apperrors.ErrBindError.WithDetails(map[string]any{"error": err.Error()})
}

// pathID 解析路径中的:id
func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidParams.WithDetails(map[string]any{"id": c.Param("id")})
	}
	return uint(id), nil
}
