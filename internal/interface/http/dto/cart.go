package dto

// AddCartItemRequest 加购请求，同一本书会合并数量
type AddCartItemRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1" example:"2"`
}

// SetCartItemRequest 修改数量，0表示删除
type SetCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0" example:"3"`
}
