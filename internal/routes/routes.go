package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/01moynul/stitchshop/internal/handlers"
	"github.com/01moynul/stitchshop/internal/middleware"
	"github.com/01moynul/stitchshop/web"
)

// SetupRouter wires every page onto a fresh gin engine.
func SetupRouter(h *handlers.Handlers) (*gin.Engine, error) {
	router := gin.New()

	// Recovery first so a panic in any middleware still becomes a 500.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(h.Log))
	router.Use(middleware.Metrics(h.Metrics))
	router.Use(middleware.SessionMiddleware(h.Sessions))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)
	router.NoRoute(h.NotFound)

	// --- Infrastructure ---
	router.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	router.GET("/uploads/*filename", h.ServeUpload)

	// --- Public storefront ---
	router.GET("/", h.Home)
	router.GET("/category/:id", h.CategoryDetail)
	router.GET("/style/:id", h.StyleDetail)
	router.GET("/product/:id", h.ProductDetail)
	router.GET("/fabrics/choose", h.FabricsChoose)
	router.GET("/fabrics/clearance", h.FabricsClearance)

	// --- Admin session ---
	router.GET("/admin/login", h.LoginForm)
	router.POST("/admin/login", h.Login)
	router.GET("/admin/logout", h.Logout)

	// --- Admin (capability token required) ---
	admin := router.Group("/admin")
	admin.Use(middleware.AdminRequired(h.Sessions))
	{
		admin.GET("", h.Dashboard)
		admin.GET("/settings", h.SettingsForm)
		admin.POST("/settings", h.SaveSettings)

		// Categories
		admin.GET("/categories", h.AdminCategories)
		admin.GET("/categories/new", h.NewCategoryForm)
		admin.POST("/categories/new", h.CreateCategory)
		admin.GET("/categories/:id/edit", h.EditCategoryForm)
		admin.POST("/categories/:id/edit", h.UpdateCategory)
		admin.POST("/categories/:id/delete", h.DeleteCategory)

		// Styles, nested under their category
		admin.GET("/categories/:id/styles", h.AdminStyles)
		admin.POST("/categories/:id/styles", h.CreateStyle)
		admin.GET("/styles/:id/edit", h.EditStyleForm)
		admin.POST("/styles/:id/edit", h.UpdateStyle)
		admin.POST("/styles/:id/delete", h.DeleteStyle)

		// Products and variants
		admin.GET("/products", h.AdminProducts)
		admin.GET("/products/new", h.NewProductForm)
		admin.POST("/products/new", h.CreateProduct)
		admin.GET("/products/:id/edit", h.EditProductForm)
		admin.POST("/products/:id/edit", h.UpdateProduct)
		admin.POST("/products/:id/delete", h.DeleteProduct)
		admin.GET("/products/:id/variants", h.AdminVariants)
		admin.POST("/products/:id/variants", h.CreateVariant)
		admin.GET("/variants/:id/edit", h.EditVariantForm)
		admin.POST("/variants/:id/edit", h.UpdateVariant)
		admin.POST("/variants/:id/delete", h.DeleteVariant)

		// Fabrics
		admin.GET("/fabrics", h.AdminFabrics)
		admin.GET("/fabrics/new", h.NewFabricForm)
		admin.POST("/fabrics/new", h.CreateFabric)
		admin.GET("/fabrics/:id/edit", h.EditFabricForm)
		admin.POST("/fabrics/:id/edit", h.UpdateFabric)
		admin.POST("/fabrics/:id/delete", h.DeleteFabric)
		admin.POST("/fabrics/:id/refs/:ref_id/delete", h.DeleteFabricRef)
	}

	return router, nil
}
