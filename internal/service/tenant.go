package service

import (
	"context"
	"strings"
)

const DefaultTenant = "default"

type tenantKey struct{}

// WithTenant guarda el tenant del request en el contexto.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, strings.TrimSpace(tenantID))
}

// TenantFromContext devuelve el tenant del request o DefaultTenant.
func TenantFromContext(ctx context.Context) string {
	if ctx == nil {
		return DefaultTenant
	}
	if id, ok := ctx.Value(tenantKey{}).(string); ok && id != "" {
		return id
	}
	return DefaultTenant
}
