package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

type stubAuditWriter struct {
	logs []models.AuditLog
	err  error
}

func (s *stubAuditWriter) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, *log)
	return s.err
}

type stubObserver struct {
	paths    []string
	statuses []int
}

func (s *stubObserver) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	s.paths = append(s.paths, path)
	s.statuses = append(s.statuses, status)
}

func newAdminRouter(claims *models.JWTClaims, audit *stubAuditWriter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	admin := r.Group("/admin", JWT(stubValidator{claims: claims}), RequireRoles(models.RoleAdmin))
	admin.DELETE("/categories/:id", Audit(audit, nil, models.AuditActionDelete, "category"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	admin.POST("/categories", Audit(audit, nil, models.AuditActionCreate, "category"), func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})
	return r
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	r := newAdminRouter(&models.JWTClaims{AdminID: 1, Role: models.RoleAdmin}, &stubAuditWriter{})

	for _, header := range []string{"", "Token good", "Bearer bad"} {
		req := httptest.NewRequest(http.MethodDelete, "/admin/categories/3", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestRequireRolesRejectsNonAdmin(t *testing.T) {
	r := newAdminRouter(&models.JWTClaims{AdminID: 1, Role: models.Role("editor")}, &stubAuditWriter{})

	req := httptest.NewRequest(http.MethodDelete, "/admin/categories/3", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "you do not have admin access")
}

func TestAuditRecordsSuccessfulMutations(t *testing.T) {
	audit := &stubAuditWriter{}
	r := newAdminRouter(&models.JWTClaims{AdminID: 5, Role: models.RoleAdmin}, audit)

	req := httptest.NewRequest(http.MethodDelete, "/admin/categories/3", nil)
	req.Header.Set("Authorization", "Bearer good")
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	require.Len(t, audit.logs, 1)
	entry := audit.logs[0]
	require.NotNil(t, entry.AdminID)
	assert.Equal(t, int64(5), *entry.AdminID)
	assert.Equal(t, models.AuditActionDelete, entry.Action)
	assert.Equal(t, "category", entry.Resource)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "3", *entry.ResourceID)
	assert.Equal(t, "test-agent", entry.UserAgent)
	assert.Contains(t, string(entry.NewValues), "/admin/categories/:id")
}

func TestAuditSkipsFailedRequests(t *testing.T) {
	audit := &stubAuditWriter{err: errors.New("unused")}
	r := newAdminRouter(&models.JWTClaims{AdminID: 5, Role: models.RoleAdmin}, audit)

	req := httptest.NewRequest(http.MethodPost, "/admin/categories", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, audit.logs)
}

func TestSetCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	var meta map[string]interface{}
	r.GET("/browse", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/browse", nil))

	assert.Equal(t, "HIT", w.Header().Get(CacheStatusHeader))
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &stubObserver{}
	r := gin.New()
	r.Use(Metrics(observer, "/metrics"))
	r.GET("/subjects/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/subjects/1-2-3", "/metrics", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []string{"/subjects/:id", "unmatched"}, observer.paths)
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, observer.statuses)
}
