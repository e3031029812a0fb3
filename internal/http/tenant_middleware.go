package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"ai-assistant/internal/service"
)

const tenantHeader = "X-Tenant-ID"

// tenantMiddleware resuelve el tenant del request y lo deja en el context.Context.
// Con secreto configurado, un bearer token valido manda sobre el header.
// Un token invalido no corta el request: se cae al header o al tenant por defecto.
func tenantMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := ""
		if secret != "" {
			tenantID = tenantFromBearer(c.GetHeader("Authorization"), secret)
		}
		if tenantID == "" {
			tenantID = strings.TrimSpace(c.GetHeader(tenantHeader))
		}
		if tenantID == "" {
			tenantID = service.DefaultTenant
		}
		c.Request = c.Request.WithContext(service.WithTenant(c.Request.Context(), tenantID))
		c.Next()
	}
}

func tenantFromBearer(header, secret string) string {
	header = strings.TrimSpace(header)
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	raw := strings.TrimSpace(header[len("Bearer "):])

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ""
	}

	if tenant, ok := claims["tenant_id"].(string); ok && strings.TrimSpace(tenant) != "" {
		return strings.TrimSpace(tenant)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(sub)
}
