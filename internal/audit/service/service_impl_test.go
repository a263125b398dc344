package service

import (
	"context"
	"testing"
	"time"

	"github.com/brokerbase/polisdesk/internal/audit/domain"
	"github.com/brokerbase/polisdesk/internal/audit/repository"
	"github.com/brokerbase/polisdesk/internal/clock"
	"github.com/brokerbase/polisdesk/pkg/db/pagination"
	"github.com/brokerbase/polisdesk/pkg/tenantctx"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&domain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(Params{
		DB:    gdb,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func tenantCtx(handle string) context.Context {
	return tenantctx.WithTenant(context.Background(), handle, "user")
}

func TestRecordRequiresTenant(t *testing.T) {
	svc := newTestService(t)

	err := svc.Record(context.Background(), "customer.create", "eko-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTenant)

	err = svc.Record(tenantCtx("eko"), "  ", "eko-1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
}

func TestRecordMasksSensitiveMetadata(t *testing.T) {
	svc := newTestService(t)
	ctx := tenantCtx("eko")

	require.NoError(t, svc.Record(ctx, "user.login", "", map[string]any{
		"username": "eko",
		"password": "secret123",
	}))

	resp, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)

	entry := resp.AuditLogs[0]
	assert.Equal(t, "eko", entry.Metadata["username"])
	assert.Equal(t, "****", entry.Metadata["password"])
	assert.Nil(t, entry.TargetID)
}

func TestListIsTenantScoped(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Record(tenantCtx("eko"), "customer.create", "eko-1", nil))
	require.NoError(t, svc.Record(tenantCtx("budi"), "customer.create", "budi-1", nil))

	resp, err := svc.List(tenantCtx("eko"), domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)
	assert.Equal(t, "eko", resp.AuditLogs[0].Tenant)

	_, err = svc.List(context.Background(), domain.ListRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidTenant)
}

func TestListActionFilterAndPagination(t *testing.T) {
	svc := newTestService(t)
	ctx := tenantCtx("eko")

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, "customer.create", "eko-1", nil))
	}
	require.NoError(t, svc.Record(ctx, "customer.delete", "eko-1", nil))

	resp, err := svc.List(ctx, domain.ListRequest{Action: "customer.delete"})
	require.NoError(t, err)
	assert.Len(t, resp.AuditLogs, 1)

	// Page through all four entries two at a time.
	first, err := svc.List(ctx, domain.ListRequest{Pagination: pagination.Pagination{PageSize: 2}})
	require.NoError(t, err)
	require.Len(t, first.AuditLogs, 2)
	require.True(t, first.HasMore)
	require.NotEmpty(t, first.NextPageToken)

	second, err := svc.List(ctx, domain.ListRequest{Pagination: pagination.Pagination{
		PageSize:  2,
		PageToken: first.NextPageToken,
	}})
	require.NoError(t, err)
	require.Len(t, second.AuditLogs, 2)
	assert.False(t, second.HasMore)

	seen := map[snowflake.ID]struct{}{}
	for _, entry := range append(first.AuditLogs, second.AuditLogs...) {
		_, dup := seen[entry.ID]
		assert.False(t, dup)
		seen[entry.ID] = struct{}{}
	}
}

func TestListRejectsBadInput(t *testing.T) {
	svc := newTestService(t)
	ctx := tenantCtx("eko")

	_, err := svc.List(ctx, domain.ListRequest{Pagination: pagination.Pagination{PageToken: "garbage"}})
	assert.ErrorIs(t, err, domain.ErrInvalidPageToken)

	start := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err = svc.List(ctx, domain.ListRequest{StartAt: &start, EndAt: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}
