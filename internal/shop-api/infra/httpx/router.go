package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/ecommerce-pricing/internal/shop-api/infra/httpx/middlewares"
)

func NewRouter(handler *Handler, sessionTTL time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)

	r.Group(func(r chi.Router) {
		r.Use(middlewares.Session(sessionTTL))
		r.Get("/cart", handler.GetCart)
		r.Post("/cart/items/{productID}", handler.AddItem)
		r.Post("/cart/items/{productID}/decrement", handler.DecrementItem)
		r.Put("/cart/items/{productID}", handler.SetQuantity)
		r.Delete("/cart/items/{productID}", handler.RemoveItem)
		r.Post("/checkout", handler.Checkout)
	})

	r.Get("/orders/{id}", handler.GetOrderByID)
	r.Get("/orders/{id}/saga", handler.GetOrderSaga)
	r.Patch("/orders/{id}/status", handler.UpdateOrderStatus)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", handler.ListCategories)
		r.Post("/", handler.CreateCategory)
		r.Get("/{id}", handler.GetCategory)
		r.Put("/{id}", handler.UpdateCategory)
		r.Delete("/{id}", handler.DeleteCategory)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Post("/", handler.CreateProduct)
		r.Get("/{id}", handler.GetProduct)
		r.Put("/{id}", handler.UpdateProduct)
		r.Delete("/{id}", handler.DeleteProduct)
		r.Post("/{id}/restore", handler.RestoreProduct)
		r.Put("/{id}/stock", handler.SetStock)
		r.Get("/{id}/quote", handler.Quote)
		r.Get("/{id}/discount", handler.ProductDiscount)
	})

	r.Route("/trash", func(r chi.Router) {
		r.Get("/", handler.ListTrash)
		r.Delete("/{id}", handler.PurgeProduct)
	})

	r.Route("/discounts", func(r chi.Router) {
		r.Get("/", handler.ListDiscounts)
		r.Post("/", handler.CreateDiscount)
		r.Put("/{id}", handler.UpdateDiscount)
		r.Delete("/{id}", handler.DeleteDiscount)
		r.Post("/{id}/toggle", handler.ToggleDiscount)
	})

	return otelhttp.NewHandler(r, "shop-api")
}
