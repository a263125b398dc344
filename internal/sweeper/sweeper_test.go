package sweeper

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/brokerbase/polisdesk/internal/clock"
	"github.com/brokerbase/polisdesk/internal/config"
	customerdomain "github.com/brokerbase/polisdesk/internal/customer/domain"
	customerservice "github.com/brokerbase/polisdesk/internal/customer/service"
	propertydomain "github.com/brokerbase/polisdesk/internal/property/domain"
	propertyservice "github.com/brokerbase/polisdesk/internal/property/service"
	"github.com/brokerbase/polisdesk/internal/treestore"
	"github.com/brokerbase/polisdesk/pkg/tenantctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSweeper(t *testing.T) (*Sweeper, customerdomain.Service, propertydomain.Service, *clock.FakeClock) {
	t.Helper()

	store := treestore.NewMemoryStore()
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	customerSvc := customerservice.NewService(customerservice.Params{Log: log, Store: store, Clock: fake})
	propertySvc := propertyservice.NewService(propertyservice.Params{Log: log, Store: store, Clock: fake})

	holder := &config.SweepConfigHolder{}
	holder.Store(config.DefaultSweepConfig())

	sw := New(Params{
		Log:         log,
		Store:       store,
		CustomerSvc: customerSvc,
		PropertySvc: propertySvc,
		Clock:       fake,
		Holder:      holder,
	})
	return sw, customerSvc, propertySvc, fake
}

func TestRunOnceSweepsAllTenants(t *testing.T) {
	sw, customerSvc, propertySvc, fake := newTestSweeper(t)
	past := strconv.FormatInt(fake.Now().UnixMilli()-1, 10)

	ekoCtx := tenantctx.WithTenant(context.Background(), "eko", "user")
	budiCtx := tenantctx.WithTenant(context.Background(), "budi", "user")

	created, err := customerSvc.Create(ekoCtx, customerdomain.CreateRequest{Name: "Due Customer"})
	require.NoError(t, err)
	var update customerdomain.UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"carData": {"dueDate": `+past+`}}`), &update))
	_, err = customerSvc.Update(ekoCtx, created.ID, update)
	require.NoError(t, err)

	var create propertydomain.CreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"ownerName": "Due Owner",
		"insuranceData": {"endDate": `+past+`}
	}`), &create))
	property, err := propertySvc.Create(budiCtx, create)
	require.NoError(t, err)

	require.NoError(t, sw.RunOnce(context.Background()))

	customer, err := customerSvc.Get(ekoCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, customerdomain.StatusExpired, customer.Status)

	swept, err := propertySvc.Get(budiCtx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, propertydomain.StatusExpired, swept.Status)

	// Idempotent across runs.
	require.NoError(t, sw.RunOnce(context.Background()))
}

func TestRunOnceEmptyStore(t *testing.T) {
	sw, _, _, _ := newTestSweeper(t)
	assert.NoError(t, sw.RunOnce(context.Background()))
}
