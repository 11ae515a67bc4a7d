package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nordverk/factora_backend/utils"
)

// CompanyMiddleware requires the tenant header on all app routes and puts the
// company id in the request context, where the company guard plugin scopes
// every query with it.
func CompanyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/readyz" {
			c.Next()
			return
		}
		companyId := strings.TrimSpace(c.GetHeader("x-company-id"))
		if companyId == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "x-company-id header is required"})
			return
		}
		c.Request = c.Request.WithContext(utils.SetCompanyIdInContext(c.Request.Context(), companyId))
		c.Next()
	}
}
