package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	mw "mealsense/internal/middleware"
	"mealsense/internal/services"
)

type RouterConfig struct {
	Accounts  *services.AccountService
	FoodLog   *services.FoodLogService
	JWTSecret []byte
	TokenTTL  time.Duration
	Logger    *zap.Logger
}

// NewRouter mounts the API under /api.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.ZapRequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	validate := NewValidator()
	authHandler := NewAuthHandler(cfg.Accounts, cfg.FoodLog, cfg.JWTSecret, cfg.TokenTTL, validate, cfg.Logger)
	profileHandler := NewProfileHandler(cfg.FoodLog, validate, cfg.Logger)
	mealHandler := NewMealHandler(cfg.FoodLog, cfg.Logger)
	analysisHandler := NewAnalysisHandler(cfg.FoodLog, cfg.Logger)
	migrateHandler := NewMigrateHandler(cfg.FoodLog, cfg.Logger)
	authMW := mw.NewAuthMiddleware(cfg.JWTSecret)

	r.Route("/api", func(api chi.Router) {
		api.Post("/register", authHandler.Register)
		api.Post("/login", authHandler.Login)
		api.With(authMW.Identify).Get("/status", authHandler.Status)
		api.Get("/current_date", mealHandler.CurrentDate)

		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Post("/profile", profileHandler.Save)
			pr.Get("/profile", profileHandler.Get)
			pr.Post("/log_meal", mealHandler.LogMeal)
			pr.Get("/food_log", mealHandler.List)
			pr.Post("/delete_meal", mealHandler.Delete)
			pr.Get("/nutrition_analysis", analysisHandler.Nutrition)
			pr.Get("/improvement_tips", analysisHandler.Tips)
			pr.Get("/suggest_menu", analysisHandler.SuggestMenu)
			pr.Post("/migrate", migrateHandler.MigrateData)
		})
	})
	return r
}
