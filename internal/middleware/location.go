package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/location"
)

const (
	HeaderXLocationID = "X-Location-ID"
	ContextLocationID = "location_id"
)

// LocationMiddleware resolves the tenant scope of each request and
// finishes building the session context started by Auth.
type LocationMiddleware struct {
	locations *location.Service
	cache     *cache.Cache
}

type LocationConfig struct {
	CacheDuration   time.Duration
	CleanupInterval time.Duration
}

func DefaultLocationConfig() LocationConfig {
	return LocationConfig{
		CacheDuration:   15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

func NewLocationMiddleware(locations *location.Service, cfg LocationConfig) *LocationMiddleware {
	return &LocationMiddleware{
		locations: locations,
		cache:     cache.New(cfg.CacheDuration, cfg.CleanupInterval),
	}
}

// Resolve reads the location from the X-Location-ID header or the
// location_id query parameter, verifies it exists and that the caller
// may act in it, then installs the complete session on the request
// context.
func (m *LocationMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			abortUnauthorized(c, "not authenticated")
			return
		}

		raw := c.GetHeader(HeaderXLocationID)
		if raw == "" {
			raw = c.Query("location_id")
		}
		if raw == "" {
			m.abortBadLocation(c, "location is required")
			return
		}

		locationID, err := uuid.Parse(raw)
		if err != nil {
			m.abortBadLocation(c, "invalid location id")
			return
		}

		if !m.exists(c, locationID) {
			m.abortBadLocation(c, "unknown location")
			return
		}

		if claims.Role != string(model.UserRoleAdmin) && !containsID(claims.LocationIDs, raw) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: "no access to this location",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}

		sess := &model.SessionContext{
			UserID:     claims.UserID,
			Email:      claims.Email,
			Name:       claims.Name,
			Role:       model.UserRole(claims.Role),
			LocationID: locationID,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}

		c.Set(ContextLocationID, locationID)
		c.Request = c.Request.WithContext(model.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}

// exists checks the location against a short-lived cache before hitting
// the database.
func (m *LocationMiddleware) exists(c *gin.Context, id uuid.UUID) bool {
	key := id.String()
	if _, ok := m.cache.Get(key); ok {
		return true
	}
	loc, err := m.locations.Get(c.Request.Context(), id)
	if err != nil || loc.Status != model.LocationStatusActive {
		return false
	}
	m.cache.Set(key, true, cache.DefaultExpiration)
	return true
}

func (m *LocationMiddleware) abortBadLocation(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: msg,
		TraceID: c.GetString(ContextRequestID),
	})
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// LocationID returns the resolved tenant for the current request.
func LocationID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ContextLocationID)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
