package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/config"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Listing    *handlers.ListingHandler
	Moderation *handlers.ModerationHandler
	Favorite   *handlers.FavoriteHandler
	Inquiry    *handlers.InquiryHandler
	Upload     *handlers.UploadHandler
}

func Setup(app *fiber.App, cfg *config.Config, resolver middleware.CallerResolver, h Handlers) {
	// Uploaded images and documents
	app.Static(storage.PublicPrefix, cfg.UploadDir)

	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	protected := []fiber.Handler{middleware.JWTProtected(cfg), middleware.ResolveCaller(resolver)}
	optional := []fiber.Handler{middleware.OptionalJWT(cfg), middleware.ResolveCaller(resolver)}
	admin := append(append([]fiber.Handler{}, protected...), middleware.AdminRequired())

	with := func(chain []fiber.Handler, handler fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, chain...), handler)
	}

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", with(protected, h.Auth.Logout)...)
	auth.Get("/me", with(protected, h.Auth.Me)...)
	auth.Put("/me", with(protected, h.Auth.UpdateMe)...)

	// Listings. Static paths go before /:id.
	listings := api.Group("/listings")
	listings.Get("/", with(optional, h.Listing.List)...)
	listings.Get("/my-listings", with(protected, h.Listing.MyListings)...)
	listings.Get("/all", with(admin, h.Listing.All)...)
	listings.Post("/", with(protected, h.Listing.Create)...)
	listings.Get("/:id", with(optional, h.Listing.Get)...)
	listings.Put("/:id", with(protected, h.Listing.Update)...)
	listings.Delete("/:id", with(protected, h.Listing.Delete)...)
	listings.Put("/:id/status", with(admin, h.Moderation.SetStatus)...)
	listings.Post("/:id/resubmit", with(protected, h.Moderation.Resubmit)...)
	listings.Get("/:id/reviews", with(protected, h.Moderation.Reviews)...)

	favorites := api.Group("/favorites", protected...)
	favorites.Get("/", h.Favorite.List)
	favorites.Post("/", h.Favorite.Add)
	favorites.Delete("/:id", h.Favorite.Remove)

	inquiries := api.Group("/inquiries", protected...)
	inquiries.Get("/", h.Inquiry.List)
	inquiries.Post("/", h.Inquiry.Create)
	inquiries.Delete("/:id", h.Inquiry.Delete)

	api.Post("/upload", with(protected, h.Upload.Upload)...)
}
