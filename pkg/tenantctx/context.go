// Package tenantctx carries the authenticated tenant identity through a
// request context. The record services trust this identity; it is the
// only authorization input they receive.
package tenantctx

import "context"

type keyType string

const (
	tenantHandleKey keyType = "tenant_handle"
	roleKey         keyType = "role"
)

// WithTenant returns a context carrying the tenant handle and role.
func WithTenant(ctx context.Context, handle, role string) context.Context {
	ctx = context.WithValue(ctx, tenantHandleKey, handle)
	return context.WithValue(ctx, roleKey, role)
}

// TenantHandle extracts the tenant handle, if any.
func TenantHandle(ctx context.Context) (string, bool) {
	handle, ok := ctx.Value(tenantHandleKey).(string)
	return handle, ok && handle != ""
}

// Role extracts the caller role, if any.
func Role(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok && role != ""
}
