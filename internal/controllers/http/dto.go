package http

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type ChangeStatusRequest struct {
	Status string `form:"status"`
	Filter string `form:"filter"`
}

type DeleteOrderRequest struct {
	Confirm string `form:"confirm" binding:"required,oneof=yes no"`
	Filter  string `form:"filter"`
}

type ListOrdersQuery struct {
	Status string `form:"status"`
}
