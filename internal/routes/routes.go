package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/thaihana/internal/config"
	"github.com/example/thaihana/internal/handlers"
	"github.com/example/thaihana/internal/middleware"
	"github.com/example/thaihana/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramChatID)
	smsService := services.NewSMSService(cfg.MobizonAPIKey)
	captchaService := services.NewCaptchaService(cfg.RecaptchaSecret)

	authHandler := handlers.NewAuthHandler(db, cfg, smsService, captchaService)
	productHandler := handlers.NewProductHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	tagHandler := handlers.NewTagHandler(db, cfg)
	headingHandler := handlers.NewHeadingHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, telegramService)
	cartHandler := handlers.NewCartHandler(db)
	imageHandler := handlers.NewImageHandler(cfg)

	authRequired := middleware.AuthMiddleware(db, cfg)
	adminOnly := []fiber.Handler{authRequired, middleware.RequireAdmin()}

	// Auth routes
	auth := app.Group("/auth/user")
	auth.Post("/preregister", authHandler.Preregister)
	auth.Post("/otp_check", authHandler.CheckOTP)
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot_password", authHandler.ForgotPassword)
	auth.Post("/reset_password", authHandler.ResetPassword)
	auth.Get("/me", authRequired, authHandler.Me)

	// Product routes. Static paths go first so they are not captured by
	// the slug parameter.
	products := app.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/count", productHandler.CountProducts)
	products.Get("/price_range", productHandler.PriceRange)
	products.Get("/category/:id/all", productHandler.ListProductsInCategory)
	products.Get("/tag/:id/all", productHandler.ListProductsWithTag)
	products.Post("/create", append(adminOnly, productHandler.CreateProduct)...)
	products.Get("/id/:id/categories", productHandler.ListProductCategories)
	products.Get("/id/:id/tags", productHandler.ListProductTags)
	products.Get("/id/:id", productHandler.GetProductByID)
	products.Put("/id/:id", append(adminOnly, productHandler.UpdateProductByID)...)
	products.Get("/:slug/categories", productHandler.ListProductCategoriesBySlug)
	products.Get("/:slug/tags", productHandler.ListProductTagsBySlug)
	products.Get("/:slug", productHandler.GetProductBySlug)
	products.Put("/:slug", append(adminOnly, productHandler.UpdateProductBySlug)...)

	// Category routes
	categories := app.Group("/categories")
	categories.Get("/", categoryHandler.ListCategories)
	categories.Post("/create", append(adminOnly, categoryHandler.CreateCategory)...)
	categories.Get("/id/:id", categoryHandler.GetCategoryByID)
	categories.Put("/id/:id", append(adminOnly, categoryHandler.UpdateCategoryByID)...)
	categories.Post("/id/:productID/add/:categoryID", append(adminOnly, categoryHandler.AddProductByID)...)
	categories.Delete("/id/:productID/remove/:categoryID", append(adminOnly, categoryHandler.RemoveProductByID)...)
	categories.Post("/:productSlug/add/:categorySlug", append(adminOnly, categoryHandler.AddProductBySlug)...)
	categories.Delete("/:productSlug/remove/:categorySlug", append(adminOnly, categoryHandler.RemoveProductBySlug)...)
	categories.Get("/:slug", categoryHandler.GetCategoryBySlug)
	categories.Put("/:slug", append(adminOnly, categoryHandler.UpdateCategoryBySlug)...)

	// Tag routes
	tags := app.Group("/tags")
	tags.Get("/", tagHandler.ListTags)
	tags.Post("/create", append(adminOnly, tagHandler.CreateTag)...)
	tags.Get("/in/:categorySlug", tagHandler.ListTagsInCategory)
	tags.Get("/id/:id", tagHandler.GetTagByID)
	tags.Put("/id/:id", append(adminOnly, tagHandler.UpdateTagByID)...)
	tags.Post("/id/:productID/add/:tagID", append(adminOnly, tagHandler.AddProductByID)...)
	tags.Delete("/id/:productID/remove/:tagID", append(adminOnly, tagHandler.RemoveProductByID)...)
	tags.Post("/:productSlug/add/:tagSlug", append(adminOnly, tagHandler.AddProductBySlug)...)
	tags.Delete("/:productSlug/remove/:tagSlug", append(adminOnly, tagHandler.RemoveProductBySlug)...)
	tags.Get("/:slug", tagHandler.GetTagBySlug)
	tags.Put("/:slug", append(adminOnly, tagHandler.UpdateTagBySlug)...)

	// Heading routes
	headings := app.Group("/headings")
	headings.Get("/", headingHandler.ListHeadings)
	headings.Post("/create", append(adminOnly, headingHandler.CreateHeading)...)
	headings.Get("/categories/:slug", headingHandler.ListHeadingCategories)
	headings.Get("/id/:id", headingHandler.GetHeadingByID)
	headings.Put("/id/:id", append(adminOnly, headingHandler.UpdateHeadingByID)...)
	headings.Get("/:slug", headingHandler.GetHeadingBySlug)
	headings.Put("/:slug", append(adminOnly, headingHandler.UpdateHeadingBySlug)...)

	// Cart routes
	cart := app.Group("/cart", authRequired)
	cart.Get("/all", cartHandler.ListCartItems)
	cart.Get("/add", cartHandler.AddCartItem)
	cart.Put("/update", cartHandler.UpdateCartItem)
	cart.Delete("/remove", cartHandler.RemoveCartItem)

	// Order routes
	orders := app.Group("/orders", authRequired)
	orders.Post("/create", orderHandler.CreateOrder)
	orders.Get("/active_orders", orderHandler.ListActiveOrders)

	// Image routes
	images := app.Group("/image", adminOnly...)
	images.Post("/upload_images", imageHandler.UploadImages)
	images.Get("/get_images", imageHandler.ListImages)
	images.Delete("/delete_images", imageHandler.DeleteImage)
}
