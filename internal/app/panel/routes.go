package panel

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/admin"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/auth/account"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/checkout"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/client"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/preference"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/handlers/support"
	"github.com/magabrotheeeer/stealthnet-panel/internal/http/middlewarectx"
	"github.com/magabrotheeeer/stealthnet-panel/internal/services/guard"
)

// RegisterRoutes регистрирует все маршруты панели.
func RegisterRoutes(r chi.Router, d Deps) {
	log := d.Log
	decisions := d.Metrics.GuardDecisions
	limiter := middlewarectx.NewIPLimiter(d.Config.LoginLimit)

	accountHandler := account.New(log, d.Sessions)
	clientHandler := client.New(log, d.Client, d.Config.PublicURL)
	checkoutHandler := checkout.New(log, d.Checkout, d.Views)
	supportHandler := support.New(log, d.Support, d.Views)
	adminHandler := admin.New(log, d.Admin, d.Views)

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Handle("/metrics", d.Metrics.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(d.Sessions, d.Config.Session, log))

		r.With(middlewarectx.Guard(guard.Root, decisions, log)).Get("/", accountHandler.State)

		r.Route("/api", func(r chi.Router) {
			// Открытые конечные точки, работают с любой сессией
			r.Get("/session", accountHandler.State)
			r.Post("/preference", preference.New(log, d.Preferences).ServeHTTP)
			r.Post("/auth/logout", accountHandler.Logout)
			r.Post("/public/verify-email", accountHandler.Verify)

			// Вход и регистрация только без сессии
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.Guard(guard.GuestOnly, decisions, log))
				r.Use(middlewarectx.RateLimitMiddleware(limiter, log))
				r.Post("/public/login", login.New(log, d.Sessions).ServeHTTP)
				r.Post("/public/register", register.New(log, d.Sessions).ServeHTTP)
				r.Post("/public/resend-verification", accountHandler.Resend)
			})

			r.Route("/client", func(r chi.Router) {
				r.Use(middlewarectx.Guard(guard.ClientOnly, decisions, log))
				r.Get("/me", clientHandler.Profile)
				r.Get("/nodes", clientHandler.Nodes)
				r.Get("/referrals", clientHandler.Referrals)
				r.Post("/activate-trial", clientHandler.Trial)
				r.Post("/activate-promocode", clientHandler.Promocode)

				r.Get("/tariffs", checkoutHandler.Show)
				r.Post("/tariffs/promo", checkoutHandler.Promo)
				r.Post("/tariffs/select", checkoutHandler.Select)
				r.Post("/payments", checkoutHandler.Pay)

				r.Get("/support/tickets", supportHandler.List)
				r.Post("/support/tickets", supportHandler.Create)
				r.Get("/support/tickets/{id}", supportHandler.Thread)
				r.Post("/support/tickets/{id}/reply", supportHandler.Reply)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.Guard(guard.AdminOnly, decisions, log))
				r.Get("/dashboard", adminHandler.Dashboard)
				r.Get("/squads", adminHandler.Squads)

				r.Get("/users", adminHandler.Users)
				r.Get("/users/emails", adminHandler.Emails)
				r.Delete("/users/{id}", adminHandler.DeleteUser)

				r.Get("/tariffs", adminHandler.Tariffs)
				r.Post("/tariffs", adminHandler.CreateTariff)
				r.Put("/tariffs/{id}", adminHandler.UpdateTariff)
				r.Delete("/tariffs/{id}", adminHandler.DeleteTariff)

				r.Get("/promocodes", adminHandler.PromoCodes)
				r.Post("/promocodes", adminHandler.CreatePromoCode)
				r.Delete("/promocodes/{id}", adminHandler.DeletePromoCode)

				r.Get("/settings", adminHandler.Settings)
				r.Put("/settings/referral", adminHandler.SaveReferral)
				r.Put("/settings/system", adminHandler.SaveSystem)
				r.Put("/settings/tariff-features", adminHandler.SaveTariffFeatures)

				r.Post("/broadcast", adminHandler.Broadcast)

				r.Get("/support/tickets", supportHandler.List)
				r.Get("/support/tickets/{id}", supportHandler.Thread)
				r.Post("/support/tickets/{id}/reply", supportHandler.Reply)
				r.Post("/support/tickets/{id}/toggle", supportHandler.Toggle)
			})
		})
	})
}
