package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/labauth/internal/config"
	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	"github.com/dropDatabas3/labauth/internal/security/password"
	"github.com/dropDatabas3/labauth/internal/store/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type harness struct {
	t     *testing.T
	h     http.Handler
	store *memory.Store
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.JWT.Secret = testSecret
	return cfg
}

func newHarness(t *testing.T, cfg *config.Config, opts Options) *harness {
	t.Helper()
	st := memory.New()
	opts.Store = st
	if opts.Hasher == nil {
		opts.Hasher = password.NewHasher(password.Params{Memory: 1024, Time: 1, Parallelism: 1})
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	app, err := Build(context.Background(), cfg, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return &harness{t: t, h: app.Handler, store: st}
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	code, _ := decode(t, rec)["code"].(string)
	return code
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder, key string) any {
	t.Helper()
	data, ok := decode(t, rec)["data"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return data[key]
}

// signup devuelve el access token y el id del owner.
func (h *harness) signup(email, lab string) (string, string) {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email": email, "password": "Sup3rSecret!", "firstName": "Owner", "lastName": "Test", "labName": lab,
	})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	out := decode(h.t, rec)
	user := out["user"].(map[string]any)
	return out["accessToken"].(string), user["id"].(string)
}

func (h *harness) login(email, pwd string) *httptest.ResponseRecorder {
	return h.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": email, "password": pwd})
}

func receptionistMatrix() map[string]map[string]bool {
	m := map[string]map[string]bool{}
	for _, e := range types.Entities {
		m[string(e)] = map[string]bool{"create": false, "read": false, "update": false, "delete": false}
	}
	m[string(types.EntityPatient)]["read"] = true
	m[string(types.EntityBill)]["read"] = true
	return m
}

func TestHTTP_ReceptionistScenario(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})
	ownerTok, ownerID := h.signup("owner@lab.test", "Central Lab")

	rec := h.do(http.MethodPost, "/api/v1/admin/roles", ownerTok, map[string]any{
		"name": "Receptionist", "permissions": receptionistMatrix(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	roleID := dataField(t, rec, "id").(string)

	rec = h.do(http.MethodPost, "/api/v1/admin/staff", ownerTok, map[string]any{
		"email": "jane@lab.test", "password": "Sup3rSecret!", "firstName": "Jane", "staffRoleId": roleID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	janeID := dataField(t, rec, "id").(string)

	rec = h.do(http.MethodPost, "/api/v1/departments", ownerTok, map[string]any{"name": "Hematology"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	deptID := dataField(t, rec, "id").(string)

	rec = h.do(http.MethodPost, "/api/v1/patients", ownerTok, map[string]any{"firstName": "Ana", "lastName": "Lopez"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	patientID := dataField(t, rec, "id").(string)

	// paciente de otra organización
	otherTok, _ := h.signup("other@lab.test", "Other Lab")
	rec = h.do(http.MethodPost, "/api/v1/patients", otherTok, map[string]any{"firstName": "Foreign"})
	require.Equal(t, http.StatusCreated, rec.Code)
	foreignID := dataField(t, rec, "id").(string)

	rec = h.login("jane@lab.test", "Sup3rSecret!")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	janeTok := decode(t, rec)["accessToken"].(string)

	t.Run("me carries role and permissions", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/api/auth/me", janeTok, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Receptionist", dataField(t, rec, "staffRoleName"))
	})

	t.Run("delete department is forbidden", func(t *testing.T) {
		rec := h.do(http.MethodDelete, "/api/v1/departments/"+deptID, janeTok, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", errCode(t, rec))
	})

	t.Run("own tenant patient is readable", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/api/v1/patients/"+patientID, janeTok, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Ana", dataField(t, rec, "firstName"))
	})

	t.Run("foreign tenant patient is not found", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/api/v1/patients/"+foreignID, janeTok, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", errCode(t, rec))
	})

	t.Run("admin surface is owner only", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/api/v1/admin/stats", janeTok, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner account is protected", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/api/v1/admin/staff/"+ownerID+"/toggle-active", ownerTok, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "OWNER_PROTECTED", errCode(t, rec))
	})

	t.Run("stats", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/api/v1/admin/stats", ownerTok, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 1, dataField(t, rec, "totalStaff"))
		assert.EqualValues(t, 1, dataField(t, rec, "totalRoles"))
		assert.EqualValues(t, 2, dataField(t, rec, "activeUsers"))
	})

	t.Run("deactivation revokes refresh", func(t *testing.T) {
		rec := h.login("jane@lab.test", "Sup3rSecret!")
		require.Equal(t, http.StatusOK, rec.Code)
		refresh := decode(t, rec)["refreshToken"].(string)

		rec = h.do(http.MethodPost, "/api/v1/admin/staff/"+janeID+"/toggle-active", ownerTok, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, false, dataField(t, rec, "isActive"))

		rec = h.do(http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": refresh})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "SESSION_REVOKED", errCode(t, rec))
	})
}

func TestHTTP_SessionLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	h := newHarness(t, testConfig(), Options{Now: clock})
	h.signup("owner@lab.test", "")

	rec := h.login("owner@lab.test", "Sup3rSecret!")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	access := body["accessToken"].(string)
	assert.Equal(t, "Bearer", body["tokenType"])
	assert.EqualValues(t, 1800, body["expiresIn"])

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refreshToken" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/api/auth", cookie.Path)
	assert.Equal(t, int((720 * time.Hour).Seconds()), cookie.MaxAge)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	// el access token vence a los 30 minutos; el refresh sigue sirviendo
	now = now.Add(31 * time.Minute)
	rec = h.do(http.MethodGet, "/api/auth/me", access, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_EXPIRED", errCode(t, rec))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	access = decode(t, rr)["accessToken"].(string)

	rec = h.do(http.MethodGet, "/api/auth/me", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPost, "/api/auth/logout", access, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	h.h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "SESSION_REVOKED", errCode(t, rr))
}

func TestHTTP_ErrorCatalogue(t *testing.T) {
	h := newHarness(t, testConfig(), Options{})
	tok, _ := h.signup("owner@lab.test", "")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
		code   string
	}{
		{"missing token", http.MethodGet, "/api/auth/me", "", nil, 401, "TOKEN_MISSING"},
		{"garbage token", http.MethodGet, "/api/auth/me", "abc.def.ghi", nil, 401, "TOKEN_INVALID"},
		{"bad credentials", http.MethodPost, "/api/auth/login", "", map[string]any{"email": "owner@lab.test", "password": "nope"}, 401, "INVALID_CREDENTIALS"},
		{"missing fields", http.MethodPost, "/api/auth/login", "", map[string]any{"email": "owner@lab.test"}, 400, "MISSING_FIELDS"},
		{"unknown field", http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a", "password": "b", "x": 1}, 400, "INVALID_JSON"},
		{"duplicate email", http.MethodPost, "/api/auth/signup", "", map[string]any{"email": "OWNER@lab.test", "password": "Sup3rSecret!", "firstName": "A", "lastName": "B"}, 409, "EMAIL_ALREADY_IN_USE"},
		{"weak password", http.MethodPost, "/api/auth/signup", "", map[string]any{"email": "new@lab.test", "password": "short", "firstName": "A", "lastName": "B"}, 422, "PASSWORD_TOO_WEAK"},
		{"bad matrix", http.MethodPost, "/api/v1/admin/roles", tok, map[string]any{"name": "X", "permissions": map[string]any{"bill": map[string]bool{"read": true}}}, 400, "INVALID_FORMAT"},
		{"unknown role", http.MethodPut, "/api/v1/admin/roles/nope", tok, map[string]any{"name": "X"}, 404, "NOT_FOUND"},
		{"unknown route", http.MethodGet, "/api/v2/nothing", "", nil, 404, "ROUTE_NOT_FOUND"},
		{"refresh without token", http.MethodPost, "/api/auth/refresh", "", nil, 401, "TOKEN_MISSING"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.code, errCode(t, rec))
		})
	}
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	h := newHarness(t, testConfig(), Options{Version: "test"})

	rec := h.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	h.login("nobody@lab.test", "whatever1")
	rec = h.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "labauth_login_total"))
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

func TestHTTP_RedisCacheAndLoginLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	cfg.Cache.Kind = "redis"
	cfg.Cache.Redis.Addr = mr.Addr()
	cfg.Rate.Enabled = true
	cfg.Rate.Login.Limit = 2
	cfg.Rate.Login.Window = time.Minute

	h := newHarness(t, cfg, Options{Redis: rdb})
	ownerTok, _ := h.signup("owner@lab.test", "")

	rec := h.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up", decode(t, rec)["checks"].(map[string]any)["cache"])

	// la matriz de un STAFF se resuelve vía redis
	rec = h.do(http.MethodPost, "/api/v1/admin/roles", ownerTok, map[string]any{
		"name": "Receptionist", "permissions": receptionistMatrix(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	roleID := dataField(t, rec, "id").(string)

	rec = h.do(http.MethodPost, "/api/v1/admin/staff", ownerTok, map[string]any{
		"email": "jane@lab.test", "password": "Sup3rSecret!", "firstName": "Jane", "staffRoleId": roleID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	janeID := dataField(t, rec, "id").(string)

	rec = h.login("jane@lab.test", "Sup3rSecret!")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	janeTok := decode(t, rec)["accessToken"].(string)

	rec = h.do(http.MethodGet, "/api/v1/patients", janeTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var acctKey, roleKey bool
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, "labauth:acct:") && strings.HasSuffix(k, ":"+janeID) {
			acctKey = true
		}
		if strings.HasPrefix(k, "labauth:role:") && strings.HasSuffix(k, ":"+roleID) {
			roleKey = true
		}
	}
	assert.True(t, acctKey, "account key missing: %v", mr.Keys())
	assert.True(t, roleKey, "role key missing: %v", mr.Keys())

	// login limitado por IP + email, contadores en redis
	for i := 0; i < 2; i++ {
		rec = h.login("owner@lab.test", "wrong-pass")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec = h.login("owner@lab.test", "Sup3rSecret!")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// la cuenta sigue operando con su access token
	rec = h.do(http.MethodGet, "/api/auth/me", ownerTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTP_LoginLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.Login.Limit = 2
	cfg.Rate.Login.Window = time.Minute

	h := newHarness(t, cfg, Options{})
	h.signup("owner@lab.test", "")

	loginVia := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"owner@lab.test","password":"wrong-pass"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", xff)
		req.RemoteAddr = "198.51.100.4:5555"
		rec := httptest.NewRecorder()
		h.h.ServeHTTP(rec, req)
		return rec.Code
	}

	var codes []int
	for i := 0; i < 6; i++ {
		codes = append(codes, loginVia(fmt.Sprintf("203.0.113.%d", i+1)))
	}
	assert.Equal(t, []int{401, 401, 429, 429, 429, 429}, codes)
}

func TestHTTP_LoginLimitHonoursTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.Login.Limit = 1
	cfg.Rate.Login.Window = time.Minute
	cfg.Server.TrustedProxies = []string{"10.0.0.0/8"}

	h := newHarness(t, cfg, Options{})
	h.signup("owner@lab.test", "")

	loginVia := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"owner@lab.test","password":"wrong-pass"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", xff)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.h.ServeHTTP(rec, req)
		return rec.Code
	}

	// detrás del proxy cada cliente tiene su propio contador
	assert.Equal(t, http.StatusUnauthorized, loginVia("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, loginVia("203.0.113.1"))
	assert.Equal(t, http.StatusUnauthorized, loginVia("203.0.113.2"))
}

func TestBuild_UnknownStorageDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "cassandra"
	_, err := Build(context.Background(), cfg, Options{Registry: prometheus.NewRegistry()})
	assert.Error(t, err)
}

var _ repository.Store = (*memory.Store)(nil)
