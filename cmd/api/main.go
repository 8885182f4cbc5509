package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catechism/internal/accounts"
	"catechism/internal/attendance"
	"catechism/internal/auth"
	"catechism/internal/config"
	"catechism/internal/grades"
	"catechism/internal/handler"
	"catechism/internal/httpmiddleware"
	"catechism/internal/news"
	"catechism/internal/roster"
	"catechism/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx := context.Background()

	db, err := store.NewDB(ctx, cfg.MongoURL, cfg.DBName)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Close(closeCtx)
	}()

	if err := db.EnsureIndexes(ctx); err != nil {
		log.Printf("warning: index creation failed: %v", err)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	studentsRepo := roster.NewRepository(db.DB)
	accountsRepo := accounts.NewRepository(db.DB)
	gradesRepo := grades.NewRepository(db.DB)
	attRepo := attendance.NewRepository(db.DB)
	attSvc := attendance.NewService(attRepo, studentsRepo)
	newsRepo := news.NewRepository(db.DB)

	h := handler.New(cfg, studentsRepo, accountsRepo, gradesRepo, attSvc, attRepo, newsRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())

	if cfg.RateLimitBackend == "redis" {
		r.Use(httpmiddleware.NewRedisLimiter(redisClient.Client, cfg.RateLimitPerMin).GinMiddleware())
	} else {
		r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		dbHealthy := db.Healthy(c.Request.Context())
		redisHealthy := redisClient.Healthy(c.Request.Context())
		status := http.StatusOK
		if !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
	})

	api := r.Group("/api")

	// Public surface.
	api.POST("/auth/teacher-login", h.TeacherLogin)
	api.POST("/auth/parent-login", h.ParentLogin)
	api.GET("/news", h.ListNews)
	api.GET("/stats/overview", h.Overview)
	api.POST("/init-sample-data", h.InitSampleData)

	// Token required; per-handler checks gate parents to their own student.
	authed := api.Group("", auth.RequireAuth(cfg.JWTSigningKey, cfg.JWTIssuer))
	authed.GET("/grades/student/:id", h.StudentGrades)
	authed.GET("/attendance/student/:id", h.StudentAttendance)

	// Teacher-only surface.
	teacher := authed.Group("", auth.TeacherOnly())
	teacher.POST("/students", h.CreateStudent)
	teacher.GET("/students", h.ListStudents)
	teacher.GET("/students/:id", h.GetStudent)
	teacher.PUT("/students/:id", h.UpdateStudent)
	teacher.PUT("/grades/student/:id/semester/:n", h.UpdateSemester)
	teacher.POST("/attendance", h.MarkAttendance)
	teacher.GET("/attendance/class/:class", h.ClassAttendance)
	teacher.GET("/qr-code/:id", h.GenerateQR)
	teacher.POST("/scan-qr", h.ScanQR)
	teacher.POST("/news", h.CreateNews)
	teacher.POST("/teachers", h.CreateTeacher)
	teacher.GET("/teachers", h.ListTeachers)
	teacher.GET("/teachers/:id", h.GetTeacher)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
