package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cerr "github.com/cardinal-network/identity-vault/infrastructure/errors"
	"github.com/cardinal-network/identity-vault/infrastructure/logging"
	"github.com/cardinal-network/identity-vault/internal/vault"
)

const (
	sessionCookie = "vault_session"
	sessionTTL    = 30 * time.Minute
)

// Server is the admin/API surface. The OAuth2 endpoints are stubs; real
// delegation happens offline through authorization envelopes.
type Server struct {
	manager  *vault.Manager
	sessions *SessionCodec
	log      *logging.Logger
}

// NewServer wires the handlers onto a manager.
func NewServer(manager *vault.Manager, sessions *SessionCodec, log *logging.Logger) *Server {
	return &Server{manager: manager, sessions: sessions, log: log}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", s.health)
	router.POST("/login", s.login)
	router.GET("/logout", s.logout)

	admin := router.Group("/admin", s.requireAdmin)
	admin.GET("/accounts", s.listAccounts)

	api := router.Group("/api")
	api.POST("/authorize", s.authorize)
	api.GET("/token", s.token)
	api.GET("/revoke", s.revoke)

	return router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.WithComponent("web").WithField("addr", addr).Info("serving")
	return s.Router().Run(addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithComponent("web").WithFields(map[string]any{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Debug("request")
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	unlocked, err := s.manager.UnlockAccount(c.Request.Context(), username, password)
	if err != nil {
		// NotFound is reported as an authentication failure so account
		// names cannot be probed.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not authenticate"})
		return
	}
	isAdmin := unlocked.IsAdmin
	unlocked.Close()

	token, err := s.sessions.Seal(username, isAdmin, sessionTTL)
	if err != nil {
		c.JSON(cerr.HTTPStatus(err), gin.H{"error": "session unavailable"})
		return
	}

	c.SetCookie(sessionCookie, token, int(sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) requireAdmin(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	session, err := s.sessions.Open(token)
	if err != nil || !session.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin required"})
		return
	}

	c.Next()
}

func (s *Server) listAccounts(c *gin.Context) {
	accounts, err := s.manager.ListAccounts(c.Request.Context())
	if err != nil {
		c.JSON(cerr.HTTPStatus(err), gin.H{"error": "could not list accounts"})
		return
	}

	names := make([]gin.H, 0, len(accounts))
	for _, account := range accounts {
		names = append(names, gin.H{"name": account.Name, "is_admin": account.IsAdmin})
	}
	c.JSON(http.StatusOK, gin.H{"accounts": names})
}

// The OAuth2 surface is a skeleton: it answers in the right shape but
// issues no real tokens.

func (s *Server) authorize(c *gin.Context) {
	if c.PostForm("grant_type") != "password" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "failed",
			"reason": "grant_type not recognized",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  "1234567789",
		"token_type":    "bearer",
		"expires_in":    "300",
		"refresh_token": "987654321",
	})
}

func (s *Server) token(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) revoke(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
