package services

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	serviceContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	SERVICE_NAME            = "academy_api"
	DEFAULT_PROMETHEUS_PORT = 2112
)

// HTTP Metrics
var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"endpoint", "method", "status"})

	httpRequestsFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_failed_total",
		Help: "Total HTTP requests answered with a 4xx or 5xx status",
	}, []string{"endpoint", "method"})

	httpRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint", "method", "status"})
)

// Learning Metrics
var (
	metricXPGranted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_xp_granted_total",
		Help: "Total XP granted across all users",
	})

	metricLessonsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academy_lessons_completed_total",
		Help: "Total lesson completions recorded",
	})

	metricAchievementsAwarded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "academy_achievements_awarded_total",
		Help: "Total achievements awarded by category",
	}, []string{"category"})

	metricQuizAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "academy_quiz_attempts_total",
		Help: "Total finished quiz attempts by kind",
	}, []string{"kind"})

	metricQuizSessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "academy_quiz_sessions_active",
		Help: "Quiz sessions currently held in memory",
	})
)

// System Metrics
var (
	heapAllocBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "heap_alloc_bytes",
		Help: "Heap memory allocated in bytes",
	})

	gcTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gc_total",
		Help: "Total number of garbage collections",
	})
)

type MonitoringService struct {
	serviceContext.DefaultService

	port     int
	registry *prometheus.Registry
	app      *fiber.App

	stop        chan struct{}
	lastGCCount uint32
}

func (svc *MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *serviceContext.Context) error {
	svc.port = DEFAULT_PROMETHEUS_PORT
	if p, err := strconv.Atoi(os.Getenv("PROMETHEUS_PORT")); err == nil {
		svc.port = p
	}

	svc.stop = make(chan struct{})

	svc.registry = prometheus.NewRegistry()
	svc.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestsFailedTotal,
		httpRequestDurationSeconds,
		metricXPGranted,
		metricLessonsCompleted,
		metricAchievementsAwarded,
		metricQuizAttempts,
		metricQuizSessionsActive,
		heapAllocBytes,
		gcTotal,
	)

	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) Start() error {
	go svc.sampleRuntime()

	svc.app = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		},
	})
	svc.app.Use(recover.New())

	svc.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(svc.registry, promhttp.HandlerOpts{})))
	svc.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   SERVICE_NAME,
			"timestamp": time.Now().Unix(),
		})
	})

	log.Info().Int("port", svc.port).Msg("Prometheus metrics server started")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *MonitoringService) Shutdown() {
	close(svc.stop)
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// sampleRuntime refreshes the heap gauge and GC counter every 15 seconds
// until Shutdown.
func (svc *MonitoringService) sampleRuntime() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			heapAllocBytes.Set(float64(m.Alloc))
			if m.NumGC > svc.lastGCCount {
				gcTotal.Add(float64(m.NumGC - svc.lastGCCount))
				svc.lastGCCount = m.NumGC
			}
		case <-svc.stop:
			return
		}
	}
}

// MonitoringMiddleware records count, failure and latency metrics for every
// API route.
func MonitoringMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		method := c.Method()

		err := c.Next()

		endpoint := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())

		httpRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
		httpRequestDurationSeconds.WithLabelValues(endpoint, method, status).Observe(time.Since(start).Seconds())
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			httpRequestsFailedTotal.WithLabelValues(endpoint, method).Inc()
		}

		return err
	}
}
