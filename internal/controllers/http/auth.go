package http

import (
	"errors"
	"net/http"

	"order-admin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) LoginGet(c *gin.Context) {
	session := h.session(c)
	flashes := getFlashes(session)
	if !h.saveSession(c, session) {
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"CsrfField": csrf.TemplateField(c.Request),
		"Flashes":   flashes,
	})
}

func (h *Handler) LoginPost(c *gin.Context) {
	session := h.session(c)

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Username and password are required."})
		h.redirect(c, session, "/login")
		return
	}

	op, err := h.auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, services.ErrTooManyAttempts):
		session.AddFlash(FlashMessage{Type: "error", Message: "Too many login attempts. Try again later."})
		h.redirect(c, session, "/login")
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid username or password"})
		h.redirect(c, session, "/login")
		return
	case err != nil:
		_ = c.Error(err)
		log.WithError(err).Error("Login failed")
		session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
		h.redirect(c, session, "/login")
		return
	}

	session.Values["authenticated"] = true
	session.Values["operator_id"] = op.ID
	session.Values["username"] = op.Username
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + op.Username + "!"})

	log.WithField("operator_id", op.ID).Info("Login successful")
	h.redirect(c, session, "/admin/orders")
}

func (h *Handler) Logout(c *gin.Context) {
	session := h.session(c)
	delete(session.Values, "authenticated")
	delete(session.Values, "operator_id")
	delete(session.Values, "username")
	session.AddFlash(FlashMessage{Type: "success", Message: "Logged out successfully!"})
	h.redirect(c, session, "/login")
}
