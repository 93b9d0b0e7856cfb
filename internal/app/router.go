package app

import (
	"github.com/avc/crypto-bridge/internal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// setupRouter создает и настраивает роутер
func setupRouter(deps *dependencies, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	setupMiddleware(r, logger)

	// Маршруты
	setupRoutes(r, deps)

	return r
}

// setupMiddleware настраивает middleware для роутера
func setupMiddleware(r *chi.Mux, logger *zap.Logger) {
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.RecoveryMiddleware(logger))
	r.Use(handlers.MetricsMiddleware())
	r.Use(middleware.Compress(5))
}

// setupRoutes настраивает маршруты приложения
func setupRoutes(r *chi.Mux, deps *dependencies) {
	// Служебные эндпоинты
	r.Get("/health", deps.handlers.health.Health)
	r.Get("/ready", deps.handlers.health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	bridge := deps.handlers.bridge
	r.Route("/api/bridge", func(r chi.Router) {
		r.Post("/orders", bridge.CreateOrder)

		r.Route("/order", func(r chi.Router) {
			r.Get("/", bridge.GetOrder)
			r.Put("/amount", bridge.SetAmount)
			r.Post("/method", bridge.SelectMethod)
			r.Delete("/method", bridge.ChangeMethod)
			r.Post("/payment", bridge.ConfirmPayment)
			r.Put("/beneficiary", bridge.SelectBeneficiary)
			r.Post("/cooling", bridge.StartCooling)
			r.Post("/cooling/skip", bridge.SkipCooling)
			r.Put("/reference", bridge.SetReference)
			r.Post("/verification", bridge.SubmitVerification)
			r.Post("/retry", bridge.RetryVerification)
			r.Post("/settlement", bridge.FinalizeSettlement)
			r.Post("/wallet", bridge.SendToWallet)
		})

		r.Post("/session/reset", bridge.ResetSession)
		r.Post("/resume", bridge.Resume)
		r.Get("/navigation/{step}", bridge.Navigate)
		r.Get("/beneficiaries", bridge.Beneficiaries)
		r.Get("/cooling-options", bridge.CoolingOptions)
	})

	merchant := deps.handlers.merchant
	r.Get("/api/merchant/transactions", merchant.GetTransactions)
	r.Get("/api/merchant/wallet", merchant.GetWallet)
}
