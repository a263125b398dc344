// Package sweeper runs the periodic expiry pass over every tenant's
// records. The same transition logic backs the per-tenant check-expired
// endpoint; this loop just drives it across all tenants on a schedule.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/brokerbase/polisdesk/internal/clock"
	"github.com/brokerbase/polisdesk/internal/config"
	customerdomain "github.com/brokerbase/polisdesk/internal/customer/domain"
	propertydomain "github.com/brokerbase/polisdesk/internal/property/domain"
	"github.com/brokerbase/polisdesk/internal/treestore"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Store       treestore.Store
	CustomerSvc customerdomain.Service
	PropertySvc propertydomain.Service
	Clock       clock.Clock
	Holder      *config.SweepConfigHolder
}

type Sweeper struct {
	log         *zap.Logger
	store       treestore.Store
	customerSvc customerdomain.Service
	propertySvc propertydomain.Service
	clock       clock.Clock
	holder      *config.SweepConfigHolder
}

func New(p Params) *Sweeper {
	return &Sweeper{
		log:         p.Log.Named("sweeper"),
		store:       p.Store,
		customerSvc: p.CustomerSvc,
		propertySvc: p.PropertySvc,
		clock:       p.Clock,
		holder:      p.Holder,
	}
}

// RunForever loops until ctx is cancelled. The interval is re-read every
// cycle so config reloads take effect without a restart.
func (s *Sweeper) RunForever(ctx context.Context) {
	for {
		cfg := s.holder.Get()
		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.Interval):
		}

		cfg = s.holder.Get()
		if !cfg.Enabled {
			continue
		}

		runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
		if err := s.RunOnce(runCtx); err != nil {
			s.log.Warn("sweep run finished with errors", zap.Error(err))
		}
		cancel()
	}
}

// RunOnce sweeps every tenant once. Per-tenant failures are joined and
// reported; one tenant's storage trouble does not stop the others.
func (s *Sweeper) RunOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sweep panic: %v", r)
			s.log.Error("sweep run panicked", zap.Any("panic", r))
		}
	}()

	start := s.clock.Now()
	tenants, err := s.tenants(ctx)
	if err != nil {
		return err
	}

	var runErr error
	customersExpired, propertiesExpired := 0, 0
	for _, tenant := range tenants {
		if ctx.Err() != nil {
			runErr = errors.Join(runErr, ctx.Err())
			break
		}

		count, err := s.customerSvc.SweepExpired(ctx, tenant)
		if err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("customers %s: %w", tenant, err))
		}
		customersExpired += count

		count, err = s.propertySvc.SweepExpired(ctx, tenant)
		if err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("properties %s: %w", tenant, err))
		}
		propertiesExpired += count
	}

	s.log.Info("sweep run finished",
		zap.Int("tenants", len(tenants)),
		zap.Int("customers_expired", customersExpired),
		zap.Int("properties_expired", propertiesExpired),
		zap.Duration("took", s.clock.Now().Sub(start)),
	)
	return runErr
}

// tenants unions the tenant handles present in both record trees.
func (s *Sweeper) tenants(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	for _, branch := range []string{treestore.BranchCustomerData, treestore.BranchPropertyData} {
		handles, err := s.store.Tenants(ctx, branch)
		if err != nil {
			return nil, err
		}
		for _, handle := range handles {
			seen[handle] = struct{}{}
		}
	}

	tenants := make([]string, 0, len(seen))
	for handle := range seen {
		tenants = append(tenants, handle)
	}
	sort.Strings(tenants)
	return tenants, nil
}
