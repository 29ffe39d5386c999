// Package http wires the auth service to gin routes and carries flash
// messages across redirects through the cookie session.
package http

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"authgate/internal/domain"
	"authgate/internal/service"
	"authgate/internal/session"
)

// contextIdentityKey is where RequireAuth stores the authenticated identity
// for downstream handlers.
const contextIdentityKey = "auth.identity"

// Flash is a single queued UI notice: consumed on the next page render.
type Flash struct {
	Message  string
	Severity string
}

func init() {
	// flashes travel inside the gob-encoded cookie session
	gob.Register(Flash{})
}

// Handler wires HTTP routes to the auth service.
type Handler struct {
	auth   service.AuthService
	logger *logrus.Logger
}

func NewHandler(auth service.AuthService, logger *logrus.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.index)
	router.GET("/register", h.showRegister)
	router.POST("/register", h.register)
	router.GET("/login", h.showLogin)
	router.POST("/login", h.login)

	protected := router.Group("/")
	protected.Use(h.RequireAuth())
	{
		protected.GET("/dashboard", h.dashboard)
		protected.GET("/logout", h.logout)
	}
}

// RequireAuth is the access-check gate in front of protected routes. On
// denial it queues the outcome's notice and redirects; on success the
// identity is placed in the request context.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.FromContext(c)
		id, deny := h.auth.RequireAuthenticated(sess)
		if deny != nil {
			h.finish(c, *deny)
			c.Abort()
			return
		}
		c.Set(contextIdentityKey, id)
		c.Next()
	}
}

func (h *Handler) index(c *gin.Context) {
	h.render(c, "index.html", gin.H{})
}

func (h *Handler) showRegister(c *gin.Context) {
	h.render(c, "register.html", gin.H{})
}

func (h *Handler) register(c *gin.Context) {
	outcome := h.auth.Register(
		c.Request.Context(),
		c.PostForm("name"),
		c.PostForm("email"),
		c.PostForm("password"),
	)
	h.finish(c, outcome)
}

func (h *Handler) showLogin(c *gin.Context) {
	h.render(c, "login.html", gin.H{})
}

func (h *Handler) login(c *gin.Context) {
	sess := session.FromContext(c)
	outcome := h.auth.Login(
		c.Request.Context(),
		sess,
		c.PostForm("email"),
		c.PostForm("password"),
	)
	h.finish(c, outcome)
}

func (h *Handler) dashboard(c *gin.Context) {
	id := c.MustGet(contextIdentityKey).(domain.Identity)
	h.render(c, "dashboard.html", gin.H{"Name": id.Name})
}

func (h *Handler) logout(c *gin.Context) {
	sess := session.FromContext(c)
	h.finish(c, h.auth.Logout(sess))
}

// finish converts an Outcome into a flashed redirect, or a 500 when the
// operation failed on infrastructure rather than user input.
func (h *Handler) finish(c *gin.Context, outcome service.Outcome) {
	if outcome.Err != nil {
		h.logger.WithError(outcome.Err).Error("auth operation failed")
		c.String(http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	s := sessions.Default(c)
	s.AddFlash(Flash{Message: outcome.Message, Severity: string(outcome.Severity)})
	if err := s.Save(); err != nil {
		h.logger.WithError(err).Error("save flash")
	}
	c.Redirect(http.StatusFound, outcome.Redirect)
}

// render pops queued flashes into the template data and renders the page.
func (h *Handler) render(c *gin.Context, name string, data gin.H) {
	s := sessions.Default(c)
	var flashes []Flash
	for _, raw := range s.Flashes() {
		if f, ok := raw.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	if err := s.Save(); err != nil {
		h.logger.WithError(err).Error("consume flashes")
	}
	data["Flashes"] = flashes
	c.HTML(http.StatusOK, name, data)
}
