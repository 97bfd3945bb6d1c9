package http

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"order-admin/internal/domain"
	"order-admin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionName = "admin-session"

// CircuitState reports the state of the breaker guarding the order store.
type CircuitState interface {
	GetState() string
}

type Handler struct {
	orders   *services.OrderService
	auth     *services.AuthService
	sessions sessions.Store
	circuit  CircuitState
}

func NewHandler(o *services.OrderService, a *services.AuthService, store sessions.Store) *Handler {
	return &Handler{orders: o, auth: a, sessions: store}
}

func (h *Handler) SetCircuit(c CircuitState) {
	h.circuit = c
}

func templates() *template.Template {
	funcs := template.FuncMap{
		"label": func(v any) string {
			switch x := v.(type) {
			case domain.Filter:
				return x.Label()
			case domain.OrderStatus:
				return domain.Filter(x).Label()
			}
			return ""
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(templates())

	r.GET("/health", h.Health)
	r.GET("/login", h.LoginGet)
	r.POST("/login", h.LoginPost)
	r.POST("/logout", h.Logout)

	admin := r.Group("/admin", h.AuthRequired())
	admin.GET("/orders", h.ListOrders)
	admin.POST("/orders/refresh", h.RefreshOrders)
	admin.POST("/orders/:id/status", h.ChangeStatus)
	admin.GET("/orders/:id/delete", h.ConfirmDelete)
	admin.POST("/orders/:id/delete", h.DeleteOrder)
}

func (h *Handler) Health(c *gin.Context) {
	body := gin.H{"status": "healthy", "orders_loaded": h.orders.Loaded()}
	if h.circuit != nil {
		body["store_circuit"] = h.circuit.GetState()
	}
	c.JSON(http.StatusOK, body)
}

// ordersURL keeps the operator on the filter they acted from. Unknown
// filters fall back to All.
func ordersURL(filter string) string {
	f, err := domain.ParseFilter(filter)
	if err != nil || f == domain.FilterAll {
		return "/admin/orders"
	}
	return "/admin/orders?" + url.Values{"status": {string(f)}}.Encode()
}
