package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apexbill/apexbill-backend/api/controllers"
	"github.com/apexbill/apexbill-backend/api/middleware"
	"github.com/apexbill/apexbill-backend/internal/auth"
	"github.com/apexbill/apexbill-backend/internal/businesses"
	"github.com/apexbill/apexbill-backend/internal/distributors"
	"github.com/apexbill/apexbill-backend/internal/invoices"
	"github.com/apexbill/apexbill-backend/internal/products"
	"github.com/apexbill/apexbill-backend/internal/users"
	"github.com/apexbill/apexbill-backend/pkg/config"
	"github.com/apexbill/apexbill-backend/pkg/db"
	"github.com/apexbill/apexbill-backend/pkg/enums"
	"github.com/apexbill/apexbill-backend/pkg/logger"
	"github.com/apexbill/apexbill-backend/pkg/metrics"
	"github.com/apexbill/apexbill-backend/pkg/redis"
)

// Deps bundles everything the router needs wired in.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Registry     *prometheus.Registry
	HTTPMetrics  *metrics.HTTPMetrics
	Auth         auth.Service
	Users        users.Service
	Businesses   businesses.Service
	Distributors distributors.Service
	Products     products.Service
	Invoices     invoices.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(),
	)

	passthrough := func(next http.Handler) http.Handler { return next }
	withSignInLimit := passthrough
	withSignUpLimit := passthrough
	if d.Redis != nil {
		signInPolicy := middleware.NewAuthRateLimitPolicy(
			"signin",
			cfg.AuthRateLimit.SignInWindow,
			cfg.AuthRateLimit.SignInIPLimit,
			cfg.AuthRateLimit.SignInEmailLimit,
		)
		signUpPolicy := middleware.NewAuthRateLimitPolicy(
			"signup",
			cfg.AuthRateLimit.SignUpWindow,
			cfg.AuthRateLimit.SignUpIPLimit,
			cfg.AuthRateLimit.SignUpEmailLimit,
		)
		withSignInLimit = middleware.AuthRateLimit(signInPolicy, d.Redis, logg)
		withSignUpLimit = middleware.AuthRateLimit(signUpPolicy, d.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		var redisPinger redis.Pinger
		if d.Redis != nil {
			redisPinger = d.Redis
		}
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, redisPinger))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(withSignUpLimit).Post("/signup", controllers.AuthSignUp(d.Auth, logg))
		r.With(withSignInLimit).Post("/signin", controllers.AuthSignIn(d.Auth, logg))
		r.Post("/setup-token/redeem", controllers.AuthRedeemSetupToken(d.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
			r.Post("/invoices/{invoiceId}/paid", controllers.InvoiceMarkPaid(d.Invoices, logg))
			r.Post("/invoices/{invoiceId}/unpaid", controllers.InvoiceMarkUnpaid(d.Invoices, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleSuperAdmin, logg))

			r.Route("/businesses", func(r chi.Router) {
				r.Post("/", controllers.BusinessCreate(d.Businesses, logg))
				r.Put("/{businessId}", controllers.BusinessUpdateDetails(d.Businesses, logg))
				r.Delete("/{businessId}", controllers.BusinessDelete(d.Businesses, logg))
			})

			r.Route("/distributors", func(r chi.Router) {
				r.Post("/", controllers.DistributorCreate(d.Distributors, logg))
				r.Put("/{distributorId}", controllers.DistributorUpdateDetails(d.Distributors, logg))
				r.Delete("/{distributorId}", controllers.DistributorDelete(d.Distributors, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.ProductCreate(d.Products, logg))
				r.Put("/{productId}", controllers.ProductUpdateDetails(d.Products, logg))
				r.Delete("/{productId}", controllers.ProductDelete(d.Products, logg))
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Post("/", controllers.InvoiceCreate(d.Invoices, logg))
				r.Delete("/{invoiceId}", controllers.InvoiceDelete(d.Invoices, logg))
			})

			r.Route("/users/{userId}", func(r chi.Router) {
				r.Post("/promote", controllers.UserPromote(d.Users, logg))
				r.Post("/demote", controllers.UserDemote(d.Users, logg))
				r.Post("/businesses", controllers.UserAssociateBusinesses(d.Users, logg))
				r.Delete("/businesses", controllers.UserRemoveBusinessAssociations(d.Users, logg))
				r.Put("/businesses", controllers.UserUpdateBusinessAssociations(d.Users, logg))
			})
		})
	})

	return r
}
