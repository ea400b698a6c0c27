package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// webhookCORS is the browser policy for the webhook surface. Deliveries come
// from MercadoPago servers; only the ping and manual replays from a dashboard
// go through a browser, so no credentials are allowed.
func webhookCORS(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader, "X-Signature"},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
}

// CORS returns the webhook CORS middleware for origins, all origins when
// none are configured.
func CORS(origins ...string) gin.HandlerFunc {
	return cors.New(webhookCORS(origins))
}
