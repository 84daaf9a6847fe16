package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dirldap "github.com/dirgate/dirgate/internal/ldap"
)

type createOrganizationRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentDN string `json:"parentDN" binding:"required"`
}

type createUserRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
	ParentDN string `json:"parentDN" binding:"required"`
}

type authRequest struct {
	Principal string `json:"principal" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

func (s *Server) health(c *gin.Context) {
	if err := s.dir.Ping(c.Request.Context()); err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listOrganizations(c *gin.Context) {
	orgs, err := s.dir.GetOrganizations(c.Request.Context(), c.Query("name"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orgs)
}

func (s *Server) getOrganization(c *gin.Context) {
	org, err := s.dir.GetOrganization(c.Request.Context(), c.Query("dn"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if org == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
		return
	}
	c.JSON(http.StatusOK, org)
}

func (s *Server) createOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.dir.AddSubOrganization(c.Request.Context(), req.Name, req.ParentDN); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.dir.GetUsers(c.Request.Context(),
		c.Query("name"), c.Query("displayName"), c.Query("cn"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// getUser resolves a user by dn, guid, or sid, whichever is supplied.
func (s *Server) getUser(c *gin.Context) {
	ctx := c.Request.Context()
	var user *dirldap.User
	var err error
	switch {
	case c.Query("dn") != "":
		user, err = s.dir.GetUser(ctx, c.Query("dn"))
	case c.Query("guid") != "":
		user, err = s.dir.GetUserByGUID(ctx, c.Query("guid"))
	case c.Query("sid") != "":
		user, err = s.dir.GetUserBySID(ctx, c.Query("sid"))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "one of dn, guid, or sid is required"})
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) getUserSID(c *gin.Context) {
	sid, err := s.dir.GetUserSID(c.Request.Context(), c.Query("dn"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if sid == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sid": sid})
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.dir.AddUserToOrganization(c.Request.Context(), req.UserName, req.Password, req.ParentDN); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) authenticate(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok := s.dir.Authenticate(c.Request.Context(), req.Principal, req.Password)
	c.JSON(http.StatusOK, gin.H{"authenticated": ok})
}

// writeError maps access-layer errors onto HTTP status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	var argErr *dirldap.ArgumentError
	var connErr *dirldap.ConnectionError
	var dirErr *dirldap.DirectoryError

	switch {
	case errors.As(err, &argErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dirldap.ErrOrganizationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &connErr):
		s.log.Error("directory unreachable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &dirErr):
		if dirErr.Category == dirldap.CategoryNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("directory rejected operation",
			zap.String("operation", dirErr.Operation),
			zap.Uint16("result_code", dirErr.ResultCode),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		s.log.Error("directory operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
