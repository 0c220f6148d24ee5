package dto

// PublishBookRequest 上架请求，进价由系统按类型区间生成
type PublishBookRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Dune"`
	Author      string `json:"author" binding:"required,max=100" example:"Frank Herbert"`
	Description string `json:"description" binding:"max=5000" example:"Desert planet epic"`
	Cover       string `json:"cover" binding:"omitempty,url,max=500" example:"https://example.com/dune.jpg"`
	Stock       int    `json:"stock" binding:"min=0" example:"10"`
	Genre       string `json:"genre" binding:"required" example:"science_fiction"`
	Language    string `json:"language" binding:"required,oneof=english spanish" example:"english"`
}

// UpdateBookRequest 修改图书，售价按新进价重算
type UpdateBookRequest struct {
	Title         string `json:"title" binding:"required,max=200" example:"Dune"`
	Author        string `json:"author" binding:"required,max=100" example:"Frank Herbert"`
	Description   string `json:"description" binding:"max=5000"`
	Cover         string `json:"cover" binding:"omitempty,url,max=500"`
	Genre         string `json:"genre" binding:"required" example:"science_fiction"`
	Language      string `json:"language" binding:"required,oneof=english spanish" example:"english"`
	PurchasePrice string `json:"purchase_price" binding:"required" example:"20.00"`
}

// ManageStockRequest 库存操作
type ManageStockRequest struct {
	Op       string `json:"op" binding:"required,oneof=add decrease set" example:"add"`
	Quantity int    `json:"quantity" binding:"min=0" example:"5"`
}

// ListBooksRequest 图书列表查询参数
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"dune"`
	Genre    string `form:"genre" binding:"omitempty" example:"fantasy"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc" example:"created_at_desc"`
}

// PageQuery 通用分页参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
