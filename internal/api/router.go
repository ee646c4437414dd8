package api

import (
	"net/http"
	"time"

	"homefind/internal/api/handler"
	"homefind/internal/app/service"
	"homefind/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	propertyService *service.PropertyService,
	imageService *service.ImageService,
	inquiryService *service.InquiryService,
	favoriteService *service.FavoriteService,
	tokens *security.TokenIssuer,
	staticDir string,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses the Authorization header on every request and puts claims in
	// context. Enforcement happens per-route in middleware.Authenticator.
	r.Use(jwtauth.Verifier(tokens.AccessAuth()))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Uploaded listing images
	if staticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService, userService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(userService, propertyService)
		v1.Route("/users", userHandler.RegisterRoutes)

		propertyHandler := handler.NewPropertyHandler(propertyService)
		imageHandler := handler.NewImageHandler(imageService)
		inquiryHandler := handler.NewInquiryHandler(inquiryService)
		v1.Route("/properties", func(pr chi.Router) {
			propertyHandler.RegisterRoutes(pr)
			pr.Route("/{propertyID}/images", imageHandler.RegisterRoutes)
			pr.Route("/{propertyID}/inquiries", inquiryHandler.RegisterPropertyRoutes)
		})

		v1.Route("/inquiries", inquiryHandler.RegisterRoutes)

		favoriteHandler := handler.NewFavoriteHandler(favoriteService)
		v1.Route("/favorites", favoriteHandler.RegisterRoutes)
	})

	return r
}
