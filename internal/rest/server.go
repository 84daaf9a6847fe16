// Package rest exposes the directory manager over HTTP for identity
// subsystems that cannot link the access layer directly.
package rest

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dirldap "github.com/dirgate/dirgate/internal/ldap"
)

// Directory is the subset of manager operations the API serves.
type Directory interface {
	GetOrganizations(ctx context.Context, name string) ([]*dirldap.Organization, error)
	GetOrganization(ctx context.Context, dn string) (*dirldap.Organization, error)
	AddSubOrganization(ctx context.Context, name, parentDN string) error
	GetUsers(ctx context.Context, name, displayName, commonName string) ([]*dirldap.User, error)
	GetUser(ctx context.Context, dn string) (*dirldap.User, error)
	GetUserByGUID(ctx context.Context, guid string) (*dirldap.User, error)
	GetUserBySID(ctx context.Context, sid string) (*dirldap.User, error)
	GetUserSID(ctx context.Context, dn string) (string, error)
	AddUserToOrganization(ctx context.Context, userName, password, parentDN string) error
	Authenticate(ctx context.Context, principal, password string) bool
	Ping(ctx context.Context) error
}

// Server wires the directory facade into a gin router.
type Server struct {
	dir Directory
	log *zap.Logger
}

// NewServer builds the HTTP facade over dir.
func NewServer(dir Directory, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{dir: dir, log: log}
}

// Router returns the configured gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.health)

	api := r.Group("/api/v1")
	{
		api.GET("/organizations", s.listOrganizations)
		api.POST("/organizations", s.createOrganization)
		api.GET("/organization", s.getOrganization)
		api.GET("/users", s.listUsers)
		api.POST("/users", s.createUser)
		api.GET("/user", s.getUser)
		api.GET("/user/sid", s.getUserSID)
		api.POST("/auth", s.authenticate)
	}
	return r
}
