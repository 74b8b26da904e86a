// Package metrics define los collectors Prometheus del servicio.
//
// Todos los métodos son nil-safe: un *Metrics nil no registra nada, así los
// services se pueden construir sin métricas en tests.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	loginTotal     *prometheus.CounterVec
	refreshTotal   *prometheus.CounterVec
	authFailures   *prometheus.CounterVec
	authzDenied    *prometheus.CounterVec
	ownerProtected prometheus.Counter
	roleCache      *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New crea y registra los collectors. reg nil => registry nuevo y aislado.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		loginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "labauth_login_total",
			Help: "Intentos de login por resultado",
		}, []string{"result"}),
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "labauth_refresh_total",
			Help: "Refresh de access token por resultado",
		}, []string{"result"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "labauth_authentication_failures_total",
			Help: "Access tokens rechazados por causa",
		}, []string{"reason"}),
		authzDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "labauth_authorization_denied_total",
			Help: "Decisiones de permiso negadas por entidad y acción",
		}, []string{"entity", "action"}),
		ownerProtected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "labauth_owner_protected_total",
			Help: "Intentos de modificar una cuenta OWNER desde administración",
		}),
		roleCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "labauth_role_cache_total",
			Help: "Lookups de matriz de rol por resultado (hit|miss)",
		}, []string{"result"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{
		m.loginTotal, m.refreshTotal, m.authFailures, m.authzDenied,
		m.ownerProtected, m.roleCache, m.httpRequestsTotal, m.httpRequestDuration,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, err
			}
		}
	}
	return m, nil
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) Login(result string) {
	if m != nil {
		m.loginTotal.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Refresh(result string) {
	if m != nil {
		m.refreshTotal.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) AuthFailure(reason string) {
	if m != nil {
		m.authFailures.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) Denied(entity, action string) {
	if m != nil {
		m.authzDenied.WithLabelValues(entity, action).Inc()
	}
}

func (m *Metrics) OwnerProtected() {
	if m != nil {
		m.ownerProtected.Inc()
	}
}

func (m *Metrics) RoleCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.roleCache.WithLabelValues("hit").Inc()
		return
	}
	m.roleCache.WithLabelValues("miss").Inc()
}

// ObserveHTTP registra un request. route es el patrón chi, no el path crudo.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
