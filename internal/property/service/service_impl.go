package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/brokerbase/polisdesk/internal/clock"
	obsmetrics "github.com/brokerbase/polisdesk/internal/observability/metrics"
	"github.com/brokerbase/polisdesk/internal/property/domain"
	"github.com/brokerbase/polisdesk/internal/sequence"
	"github.com/brokerbase/polisdesk/internal/treestore"
	"github.com/brokerbase/polisdesk/pkg/field"
	"github.com/brokerbase/polisdesk/pkg/recordid"
	"github.com/brokerbase/polisdesk/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const collection = "property"

type service struct {
	log     *zap.Logger
	store   treestore.Store
	seq     *sequence.Allocator
	clock   clock.Clock
	metrics *obsmetrics.Metrics
}

// Params collects the service dependencies.
type Params struct {
	fx.In

	Log     *zap.Logger
	Store   treestore.Store
	Clock   clock.Clock
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewService(p Params) domain.Service {
	return &service{
		log:     p.Log.Named("property.service"),
		store:   p.Store,
		seq:     sequence.NewAllocator(p.Store, treestore.BranchPropertyCounters),
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (domain.Property, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return domain.Property{}, domain.ErrNoTenant
	}

	ownerName := strings.TrimSpace(req.OwnerName)
	if ownerName == "" {
		return domain.Property{}, domain.ErrOwnerNameRequired
	}

	status := domain.StatusActive
	if trimmed := strings.TrimSpace(req.Status); trimmed != "" {
		status = domain.Status(trimmed)
		if !domain.KnownStatus(status) {
			return domain.Property{}, domain.ErrInvalidStatus
		}
	}

	seq, err := s.seq.Next(ctx, tenant)
	if err != nil {
		return domain.Property{}, err
	}

	now := s.clock.Now().UnixMilli()
	record := domain.Property{
		ID:           recordid.Format(tenant, seq),
		OwnerName:    ownerName,
		OwnerPhone:   strings.TrimSpace(req.OwnerPhone),
		OwnerEmail:   strings.TrimSpace(req.OwnerEmail),
		OwnerAddress: strings.TrimSpace(req.OwnerAddress),
		Notes:        req.Notes,
		Status:       status,
		CreatedBy:    tenant,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if req.PropertyData != nil {
		record.PropertyData = mergePropertyData(record.PropertyData, *req.PropertyData)
	}
	if req.InsuranceData != nil {
		record.InsuranceData = mergeInsuranceData(record.InsuranceData, *req.InsuranceData)
	}

	if err := s.persist(ctx, tenant, record); err != nil {
		return domain.Property{}, err
	}

	s.metrics.RecordOp(ctx, collection, "create")
	s.log.Info("property created",
		zap.String("tenant", tenant),
		zap.String("property_id", record.ID),
	)
	return record, nil
}

func (s *service) Get(ctx context.Context, id string) (domain.Property, error) {
	_, record, err := s.resolve(ctx, id)
	return record, err
}

func (s *service) List(ctx context.Context) ([]domain.Property, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return nil, domain.ErrNoTenant
	}
	return s.listTenant(ctx, tenant)
}

func (s *service) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Property, error) {
	if !domain.KnownStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Property, 0, len(records))
	for _, record := range records {
		if record.Status == status {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Property, error) {
	tenant, existing, err := s.resolve(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}

	if req.OwnerName.Present() && strings.TrimSpace(req.OwnerName.Or("")) == "" {
		return domain.Property{}, domain.ErrOwnerNameRequired
	}
	if err := validateStatusChange(req.Status); err != nil {
		return domain.Property{}, err
	}

	updated := applyUpdate(existing, req, s.clock.Now().UnixMilli())
	if err := s.persist(ctx, tenant, updated); err != nil {
		return domain.Property{}, err
	}

	s.metrics.RecordOp(ctx, collection, "update")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tenant, _, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, treestore.BranchPropertyData, tenant, id); err != nil {
		return err
	}

	s.metrics.RecordOp(ctx, collection, "delete")
	s.log.Info("property deleted",
		zap.String("tenant", tenant),
		zap.String("property_id", id),
	)
	return nil
}

func (s *service) Search(ctx context.Context, query string) ([]domain.Property, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return nil, domain.ErrNoTenant
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	records, err := s.listTenant(ctx, tenant)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Property, 0, len(records))
	for _, record := range records {
		if matchesQuery(record, query) {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

func (s *service) Stats(ctx context.Context) (domain.Stats, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return domain.Stats{}, domain.ErrNoTenant
	}

	records, err := s.listTenant(ctx, tenant)
	if err != nil {
		return domain.Stats{}, err
	}
	current, err := s.seq.Current(ctx, tenant)
	if err != nil {
		return domain.Stats{}, err
	}

	stats := domain.Stats{
		TotalProperties: int64(len(records)),
		CurrentCounter:  current,
		NextPropertyID:  recordid.Format(tenant, current+1),
	}
	for _, record := range records {
		switch record.Status {
		case domain.StatusActive:
			stats.ActiveProperties++
		case domain.StatusExpired:
			stats.ExpiredProperties++
		}
	}
	return stats, nil
}

// SweepExpired moves Active records whose policy end date is strictly
// before now to Expired. Cancelled records never move; the sweep is
// idempotent.
func (s *service) SweepExpired(ctx context.Context, tenant string) (int, error) {
	records, err := s.listTenant(ctx, tenant)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now().UnixMilli()
	transitioned := 0
	for _, record := range records {
		if !sweepEligible(record, now) {
			continue
		}
		record.Status = domain.StatusExpired
		record.UpdatedAt = now
		if err := s.persist(ctx, tenant, record); err != nil {
			return transitioned, err
		}
		transitioned++
	}

	if transitioned > 0 {
		s.metrics.RecordSweepTransitions(ctx, collection, transitioned)
		s.log.Info("property sweep transitioned records",
			zap.String("tenant", tenant),
			zap.Int("count", transitioned),
		)
	}
	return transitioned, nil
}

func (s *service) resolve(ctx context.Context, id string) (string, domain.Property, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return "", domain.Property{}, domain.ErrNoTenant
	}

	handle, _, err := recordid.Split(id)
	if err != nil {
		return "", domain.Property{}, domain.ErrInvalidID
	}
	if handle != tenant {
		s.metrics.RecordAccessDenied(ctx, collection)
		return "", domain.Property{}, domain.ErrForbidden
	}

	raw, err := s.store.Get(ctx, treestore.BranchPropertyData, tenant, id)
	if err != nil {
		if errors.Is(err, treestore.ErrNotFound) {
			return "", domain.Property{}, domain.ErrNotFound
		}
		return "", domain.Property{}, err
	}

	var record domain.Property
	if err := json.Unmarshal(raw, &record); err != nil {
		return "", domain.Property{}, fmt.Errorf("decode property %s: %w", id, err)
	}
	return tenant, record, nil
}

func (s *service) listTenant(ctx context.Context, tenant string) ([]domain.Property, error) {
	children, err := s.store.Children(ctx, treestore.BranchPropertyData, tenant)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Property, 0, len(children))
	for key, raw := range children {
		var record domain.Property
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("decode property %s: %w", key, err)
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return sequenceOf(records[i].ID) < sequenceOf(records[j].ID)
	})
	return records, nil
}

func (s *service) persist(ctx context.Context, tenant string, record domain.Property) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode property %s: %w", record.ID, err)
	}
	return s.store.Set(ctx, treestore.BranchPropertyData, tenant, record.ID, raw)
}

// validateStatusChange accepts any known lifecycle state or an explicit
// null, which clears the status back to unset.
func validateStatusChange(status field.Opt[string]) error {
	if !status.Present() {
		return nil
	}
	value, ok := status.Value()
	if !ok {
		return nil
	}
	if !domain.KnownStatus(domain.Status(value)) {
		return domain.ErrInvalidStatus
	}
	return nil
}

func sweepEligible(record domain.Property, now int64) bool {
	if record.Status != "" && record.Status != domain.StatusActive {
		return false
	}
	end := record.InsuranceData.EndDate
	return end != nil && *end < now
}

func matchesQuery(record domain.Property, query string) bool {
	haystacks := []string{
		record.OwnerName,
		record.OwnerPhone,
		record.OwnerEmail,
		record.PropertyData.Address,
		record.PropertyData.City,
		record.PropertyData.PropertyType,
		record.InsuranceData.PolicyNumber,
		record.InsuranceData.InsuranceCompany,
	}
	for _, field := range haystacks {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func sequenceOf(id string) int64 {
	_, seq, err := recordid.Split(id)
	if err != nil {
		return 0
	}
	return seq
}
