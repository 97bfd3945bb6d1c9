package http

import (
	"context"
	"encoding/gob"
	"net/http"

	"order-admin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

func init() {
	gob.Register(FlashMessage{})
}

type FlashMessage struct {
	Type    string
	Title   string
	Message string
}

func getFlashes(session *sessions.Session) []FlashMessage {
	var messages []FlashMessage
	for _, f := range session.Flashes() {
		if fm, ok := f.(FlashMessage); ok {
			messages = append(messages, fm)
		}
	}
	return messages
}

// flashNotifier turns controller notifications into session flashes shown on
// the next rendered page. The confirmation answer comes from the submitted
// form, the page that asked the question having already been rendered.
type flashNotifier struct {
	session   *sessions.Session
	confirmed bool
}

func (n *flashNotifier) Confirm(context.Context, string, string) bool {
	return n.confirmed
}

func (n *flashNotifier) Notify(kind services.NotificationKind, title, body string) {
	n.session.AddFlash(FlashMessage{Type: string(kind), Title: title, Message: body})
}

func (h *Handler) session(c *gin.Context) *sessions.Session {
	// A cookie that fails to decode still yields a usable new session.
	session, err := h.sessions.Get(c.Request, sessionName)
	if err != nil {
		log.WithError(err).Debug("Discarding unreadable session")
	}
	return session
}

func (h *Handler) saveSession(c *gin.Context, session *sessions.Session) bool {
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.WithError(err).Error("Failed to save session")
		c.String(http.StatusInternalServerError, "Failed to save session")
		return false
	}
	return true
}

// AuthRequired lets through requests whose session carries authenticated=true.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := h.session(c)
		if auth, ok := session.Values["authenticated"].(bool); ok && auth {
			c.Set("username", session.Values["username"])
			c.Next()
			return
		}

		log.WithField("path", c.Request.URL.Path).Info("Unauthenticated request redirected to login")
		session.AddFlash(FlashMessage{Type: "error", Message: "You must be logged in to access this page."})
		_ = session.Save(c.Request, c.Writer)
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}
