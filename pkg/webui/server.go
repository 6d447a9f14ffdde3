// Package webui serves the local storefront and admin panel over HTTP. It is
// rendering glue only: every operation is delegated to the cart, catalog,
// checkout and admin components.
package webui

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/example/storefront/pkg/admin"
	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/cart"
	"github.com/example/storefront/pkg/catalog"
	"github.com/example/storefront/pkg/checkout"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/monitor"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	router   *gin.Engine
	monitor  *monitor.Monitor
	catalog  *catalog.Cache
	cart     *cart.Cart
	checkout *checkout.Flow
	admin    *admin.Manager
}

func NewServer(cfg *config.Config, logger *zap.Logger, mon *monitor.Monitor, cat *catalog.Cache, crt *cart.Cart, flow *checkout.Flow, adm *admin.Manager) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	router.SetHTMLTemplate(pageTemplates)

	return &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		monitor:  mon,
		catalog:  cat,
		cart:     crt,
		checkout: flow,
		admin:    adm,
	}
}

func (s *Server) SetupRoutes() {
	s.router.GET("/health", s.health)

	s.router.GET("/", s.storefront)
	s.router.POST("/cart/add", s.cartAdd)
	s.router.POST("/cart/adjust", s.cartAdjust)
	s.router.POST("/cart/remove", s.cartRemove)
	s.router.POST("/checkout", s.processCheckout)
	s.router.POST("/reconnect", s.reconnect)

	s.router.GET("/admin", s.adminDashboard)
	s.router.POST("/admin/login", s.adminLogin)
	s.router.POST("/admin/logout", s.adminLogout)
	s.router.POST("/admin/products", s.adminCreateProduct)
	s.router.POST("/admin/products/:id", s.adminUpdateProduct)
	s.router.POST("/admin/products/:id/delete", s.adminDeleteProduct)
	s.router.POST("/admin/orders/:id/status", s.adminSetOrderStatus)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Web.Host, s.config.Web.Port)
	s.logger.Info("Storefront panel starting", zap.String("address", addr))
	return s.router.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"connection": s.monitor.State(),
		"endpoint":   s.monitor.ActiveEndpoint(),
	})
}

func (s *Server) storefront(c *gin.Context) {
	category := c.Query("category")
	search := c.Query("q")

	categories := make(map[string]bool)
	for _, p := range s.catalog.Products() {
		categories[p.Category] = true
	}

	c.HTML(http.StatusOK, "storefront", gin.H{
		"Products":   s.catalog.Filter(category, search),
		"Categories": categories,
		"Category":   category,
		"Search":     search,
		"CartItems":  s.cart.Items(),
		"CartTotal":  s.cart.Total(),
		"Connection": s.monitor.State(),
		"Endpoint":   s.monitor.ActiveEndpoint(),
		"Offline":    s.catalog.Offline(),
		"Alert":      c.Query("alert"),
		"AlertKind":  alertKind(c.Query("kind")),
	})
}

func (s *Server) cartAdd(c *gin.Context) {
	productID := c.PostForm("product_id")
	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil {
		quantity = 1
	}
	quantity = s.cart.Clamp(productID, quantity)

	if err := s.cart.Add(productID, quantity); err != nil {
		s.redirectAlert(c, "/", userMessage(err), "warning")
		return
	}
	s.redirectAlert(c, "/", "Added to cart", "success")
}

func (s *Server) cartAdjust(c *gin.Context) {
	productID := c.PostForm("product_id")
	delta, err := strconv.Atoi(c.PostForm("delta"))
	if err != nil {
		s.redirectAlert(c, "/", "Invalid quantity change", "warning")
		return
	}
	if err := s.cart.AdjustQuantity(productID, delta); err != nil {
		s.redirectAlert(c, "/", userMessage(err), "warning")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) cartRemove(c *gin.Context) {
	s.cart.Remove(c.PostForm("product_id"))
	s.redirectAlert(c, "/", "Removed from cart", "info")
}

func (s *Server) processCheckout(c *gin.Context) {
	orderID, err := s.checkout.Submit(c.Request.Context(),
		c.PostForm("customer_name"),
		c.PostForm("discord_id"),
		c.PostForm("additional_info"))
	if err != nil {
		s.redirectAlert(c, "/", userMessage(err), "danger")
		return
	}
	s.redirectAlert(c, "/", "Order "+orderID+" created", "success")
}

// reconnect re-probes the backend and reloads the catalog against whatever
// endpoint the probe settled on.
func (s *Server) reconnect(c *gin.Context) {
	ctx := c.Request.Context()
	if !s.monitor.Probe(ctx) {
		s.redirectAlert(c, "/", "Store is unreachable, showing offline catalog", "warning")
		return
	}
	if err := s.catalog.Reload(ctx); err != nil {
		s.redirectAlert(c, "/", userMessage(err), "warning")
		return
	}
	s.redirectAlert(c, "/", "Reconnected", "success")
}

func (s *Server) adminDashboard(c *gin.Context) {
	if !s.admin.LoggedIn() {
		c.HTML(http.StatusOK, "admin_login", gin.H{
			"Alert":     c.Query("alert"),
			"AlertKind": alertKind(c.Query("kind")),
		})
		return
	}

	c.HTML(http.StatusOK, "admin_dashboard", gin.H{
		"Products":  s.catalog.Products(),
		"Orders":    s.admin.Orders(),
		"Stats":     s.admin.Stats(),
		"Statuses":  []models.OrderStatus{models.StatusPending, models.StatusProcessing, models.StatusCompleted, models.StatusCancelled},
		"Offline":   s.catalog.Offline(),
		"Alert":     c.Query("alert"),
		"AlertKind": alertKind(c.Query("kind")),
	})
}

func (s *Server) adminLogin(c *gin.Context) {
	err := s.admin.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		s.redirectAlert(c, "/admin", userMessage(err), "danger")
		return
	}

	// Populate the dashboard caches right after login.
	ctx := c.Request.Context()
	if err := s.catalog.Reload(ctx); err != nil {
		s.logger.Warn("Catalog reload after login failed", zap.Error(err))
	}
	if err := s.admin.ReloadOrders(ctx); err != nil {
		s.logger.Warn("Order reload after login failed", zap.Error(err))
	}
	s.redirectAlert(c, "/admin", "Welcome back", "success")
}

func (s *Server) adminLogout(c *gin.Context) {
	// The confirmation step lives in the page; by the time this handler runs
	// the logout is unconditional.
	s.admin.Logout()
	s.redirectAlert(c, "/admin", "Logged out", "info")
}

func (s *Server) adminCreateProduct(c *gin.Context) {
	input, err := productInput(c)
	if err != nil {
		s.redirectAlert(c, "/admin", userMessage(err), "warning")
		return
	}
	if _, err := s.admin.CreateProduct(c.Request.Context(), input); err != nil {
		s.redirectAlert(c, "/admin", userMessage(err), "danger")
		return
	}
	s.redirectAlert(c, "/admin", "Product created", "success")
}

func (s *Server) adminUpdateProduct(c *gin.Context) {
	input, err := productInput(c)
	if err != nil {
		s.redirectAlert(c, "/admin", userMessage(err), "warning")
		return
	}
	if _, err := s.admin.UpdateProduct(c.Request.Context(), c.Param("id"), input); err != nil {
		s.redirectAlert(c, "/admin", userMessage(err), "danger")
		return
	}
	s.redirectAlert(c, "/admin", "Product updated", "success")
}

func (s *Server) adminDeleteProduct(c *gin.Context) {
	if err := s.admin.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		s.redirectAlert(c, "/admin", userMessage(err), "danger")
		return
	}
	s.redirectAlert(c, "/admin", "Product deleted", "success")
}

func (s *Server) adminSetOrderStatus(c *gin.Context) {
	status := models.OrderStatus(c.PostForm("status"))
	if err := s.admin.SetOrderStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		s.redirectAlert(c, "/admin", userMessage(err), "danger")
		return
	}
	s.redirectAlert(c, "/admin", "Order status updated", "success")
}

func productInput(c *gin.Context) (admin.ProductInput, error) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		return admin.ProductInput{}, &admin.InvalidFieldError{Field: "price"}
	}
	stock, err := strconv.Atoi(c.PostForm("stock"))
	if err != nil {
		return admin.ProductInput{}, &admin.InvalidFieldError{Field: "stock"}
	}
	return admin.ProductInput{
		Name:        c.PostForm("name"),
		Category:    c.PostForm("category"),
		Price:       price,
		Stock:       stock,
		Description: c.PostForm("description"),
	}, nil
}

// redirectAlert sends the browser back to target with a one-shot alert. The
// message travels as a query parameter and is escaped again at render time.
func (s *Server) redirectAlert(c *gin.Context, target, message, kind string) {
	q := url.Values{}
	q.Set("alert", message)
	q.Set("kind", kind)
	c.Redirect(http.StatusSeeOther, target+"?"+q.Encode())
}

func alertKind(kind string) string {
	switch kind {
	case "success", "info", "warning", "danger":
		return kind
	default:
		return "info"
	}
}

// userMessage maps component errors onto the short messages shown in alerts.
func userMessage(err error) string {
	var missing *checkout.MissingFieldError
	var invalid *admin.InvalidFieldError
	var httpErr *api.HTTPError
	var appErr *api.AppError

	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		return "Product not found"
	case errors.Is(err, cart.ErrInvalidQuantity):
		return "Quantity must be at least 1"
	case errors.Is(err, cart.ErrInsufficientStock):
		return "Not enough stock available"
	case errors.Is(err, checkout.ErrEmptyCart):
		return "Your cart is empty"
	case errors.As(err, &missing):
		return "Please fill in " + missing.Field
	case errors.As(err, &invalid):
		return "Please check the " + invalid.Field + " field"
	case errors.Is(err, api.ErrTimeout):
		return "The store took too long to respond, please try again"
	case errors.Is(err, api.ErrUnreachable):
		return "The store is unreachable right now"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("The store returned an error (HTTP %d)", httpErr.Status)
	case errors.As(err, &appErr):
		return appErr.Message
	default:
		return err.Error()
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
