package http

import (
	"net/http"

	"order-admin/internal/domain"
	"order-admin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

func (h *Handler) redirect(c *gin.Context, session *sessions.Session, location string) {
	if !h.saveSession(c, session) {
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// ListOrders renders the dashboard. The cache is loaded on the first visit
// if the startup load has not populated it yet.
func (h *Handler) ListOrders(c *gin.Context) {
	var q ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	filter, err := domain.ParseFilter(q.Status)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	session := h.session(c)
	if !h.orders.Loaded() {
		if err := h.orders.Load(c.Request.Context(), &flashNotifier{session: session}); err != nil {
			_ = c.Error(err)
		}
	}

	flashes := getFlashes(session)
	if !h.saveSession(c, session) {
		return
	}

	c.HTML(http.StatusOK, "orders.html", gin.H{
		"Orders":    h.orders.Filter(filter),
		"Filter":    filter,
		"Filters":   domain.Filters,
		"Statuses":  domain.Statuses,
		"Counts":    h.orders.Counts(),
		"Loaded":    h.orders.Loaded(),
		"Username":  c.GetString("username"),
		"CsrfField": csrf.TemplateField(c.Request),
		"Flashes":   flashes,
	})
}

func (h *Handler) RefreshOrders(c *gin.Context) {
	session := h.session(c)
	if err := h.orders.Load(c.Request.Context(), &flashNotifier{session: session}); err != nil {
		_ = c.Error(err)
	}
	h.redirect(c, session, ordersURL(c.PostForm("filter")))
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	session := h.session(c)
	notifier := &flashNotifier{session: session}
	if err := h.orders.ChangeStatus(c.Request.Context(), notifier, c.Param("id"), domain.OrderStatus(req.Status)); err != nil {
		_ = c.Error(err)
	}
	h.redirect(c, session, ordersURL(req.Filter))
}

// ConfirmDelete asks the delete question. The answer is posted back to
// DeleteOrder, which hands it to the controller as the confirmation.
func (h *Handler) ConfirmDelete(c *gin.Context) {
	ref := c.Param("id")
	order, found := h.orders.Get(ref)

	c.HTML(http.StatusOK, "confirm_delete.html", gin.H{
		"Ref":       ref,
		"Order":     order,
		"Found":     found,
		"Filter":    c.Query("status"),
		"Title":     services.ConfirmDeleteTitle,
		"Body":      services.ConfirmDeleteBody,
		"CsrfField": csrf.TemplateField(c.Request),
	})
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	var req DeleteOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	session := h.session(c)
	notifier := &flashNotifier{session: session, confirmed: req.Confirm == "yes"}
	if err := h.orders.Delete(c.Request.Context(), notifier, c.Param("id")); err != nil {
		_ = c.Error(err)
	}
	h.redirect(c, session, ordersURL(req.Filter))
}
