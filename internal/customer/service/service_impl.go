package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/brokerbase/polisdesk/internal/clock"
	"github.com/brokerbase/polisdesk/internal/customer/domain"
	obsmetrics "github.com/brokerbase/polisdesk/internal/observability/metrics"
	"github.com/brokerbase/polisdesk/internal/sequence"
	"github.com/brokerbase/polisdesk/internal/treestore"
	"github.com/brokerbase/polisdesk/pkg/field"
	"github.com/brokerbase/polisdesk/pkg/recordid"
	"github.com/brokerbase/polisdesk/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const collection = "customer"

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
		log:     p.Log.Named("customer.service"),
		store:   p.Store,
		seq:     sequence.NewAllocator(p.Store, treestore.BranchCustomerCounters),
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (domain.Customer, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return domain.Customer{}, domain.ErrNoTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrNameRequired
	}

	seq, err := s.seq.Next(ctx, tenant)
	if err != nil {
		return domain.Customer{}, err
	}

	now := s.clock.Now().UnixMilli()
	record := domain.Customer{
		ID:        recordid.Format(tenant, seq),
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		Notes:     req.Notes,
		CarData:   domain.DefaultCarData(name),
		CreatedBy: tenant,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.CarData != nil {
		record.CarData = mergeCarData(record.CarData, *req.CarData)
	}
	if req.DocumentStatus != nil {
		record.DocumentStatus = mergeDocumentStatus(record.DocumentStatus, *req.DocumentStatus)
	}
	if req.CarPhotos != nil {
		record.CarPhotos = mergeCarPhotos(record.CarPhotos, *req.CarPhotos)
	}
	if req.DocumentPhotos != nil {
		record.DocumentPhotos = mergeDocumentPhotos(record.DocumentPhotos, *req.DocumentPhotos)
	}

	if err := s.persist(ctx, tenant, record); err != nil {
		return domain.Customer{}, err
	}

	s.metrics.RecordOp(ctx, collection, "create")
	s.log.Info("customer created",
		zap.String("tenant", tenant),
		zap.String("customer_id", record.ID),
	)
	return record, nil
}

func (s *service) Get(ctx context.Context, id string) (domain.Customer, error) {
	_, record, err := s.resolve(ctx, id)
	return record, err
}

func (s *service) List(ctx context.Context) ([]domain.Customer, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return nil, domain.ErrNoTenant
	}
	return s.listTenant(ctx, tenant)
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Customer, error) {
	tenant, existing, err := s.resolve(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	if req.Name.Present() && strings.TrimSpace(req.Name.Or("")) == "" {
		return domain.Customer{}, domain.ErrNameRequired
	}
	if err := validateStatusChange(req.Status); err != nil {
		return domain.Customer{}, err
	}

	updated := applyUpdate(existing, req, s.clock.Now().UnixMilli())
	if err := s.persist(ctx, tenant, updated); err != nil {
		return domain.Customer{}, err
	}

	s.metrics.RecordOp(ctx, collection, "update")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tenant, _, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, treestore.BranchCustomerData, tenant, id); err != nil {
		return err
	}

	s.metrics.RecordOp(ctx, collection, "delete")
	s.log.Info("customer deleted",
		zap.String("tenant", tenant),
		zap.String("customer_id", id),
	)
	return nil
}

func (s *service) Search(ctx context.Context, query string) ([]domain.Customer, error) {
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

	matches := make([]domain.Customer, 0, len(records))
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

	total, err := s.store.Count(ctx, treestore.BranchCustomerData, tenant)
	if err != nil {
		return domain.Stats{}, err
	}
	current, err := s.seq.Current(ctx, tenant)
	if err != nil {
		return domain.Stats{}, err
	}

	return domain.Stats{
		TotalCustomers: total,
		CurrentCounter: current,
		NextCustomerID: recordid.Format(tenant, current+1),
	}, nil
}

// SweepExpired moves due records of tenant to Expired. Only unset and
// Active records with a due date strictly before now transition;
// Cancelled records never move. The sweep is idempotent.
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
		s.log.Info("customer sweep transitioned records",
			zap.String("tenant", tenant),
			zap.Int("count", transitioned),
		)
	}
	return transitioned, nil
}

// resolve checks the id against the caller's tenant before any storage
// read: malformed ids and foreign ids never reach the backend.
func (s *service) resolve(ctx context.Context, id string) (string, domain.Customer, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return "", domain.Customer{}, domain.ErrNoTenant
	}

	handle, _, err := recordid.Split(id)
	if err != nil {
		return "", domain.Customer{}, domain.ErrInvalidID
	}
	if handle != tenant {
		s.metrics.RecordAccessDenied(ctx, collection)
		return "", domain.Customer{}, domain.ErrForbidden
	}

	raw, err := s.store.Get(ctx, treestore.BranchCustomerData, tenant, id)
	if err != nil {
		if errorsIsNotFound(err) {
			return "", domain.Customer{}, domain.ErrNotFound
		}
		return "", domain.Customer{}, err
	}

	var record domain.Customer
	if err := json.Unmarshal(raw, &record); err != nil {
		return "", domain.Customer{}, fmt.Errorf("decode customer %s: %w", id, err)
	}
	return tenant, record, nil
}

func (s *service) listTenant(ctx context.Context, tenant string) ([]domain.Customer, error) {
	children, err := s.store.Children(ctx, treestore.BranchCustomerData, tenant)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Customer, 0, len(children))
	for key, raw := range children {
		var record domain.Customer
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("decode customer %s: %w", key, err)
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return sequenceOf(records[i].ID) < sequenceOf(records[j].ID)
	})
	return records, nil
}

func (s *service) persist(ctx context.Context, tenant string, record domain.Customer) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode customer %s: %w", record.ID, err)
	}
	return s.store.Set(ctx, treestore.BranchCustomerData, tenant, record.ID, raw)
}

// validateStatusChange rejects caller-set statuses other than Cancelled.
// Null clears the status back to unset; Active and Expired are derived
// by the sweep, never written by hand.
func validateStatusChange(status field.Opt[string]) error {
	if !status.Present() {
		return nil
	}
	value, ok := status.Value()
	if !ok {
		return nil
	}
	if value != string(domain.StatusCancelled) {
		return domain.ErrInvalidStatus
	}
	return nil
}

func sweepEligible(record domain.Customer, now int64) bool {
	if record.Status != "" && record.Status != domain.StatusActive {
		return false
	}
	due := record.CarData.DueDate
	return due != nil && *due < now
}

func matchesQuery(record domain.Customer, query string) bool {
	haystacks := []string{
		record.Name,
		record.Email,
		record.Phone,
		record.CarData.PlateNumber,
		record.CarData.CarBrand,
		record.CarData.CarModel,
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

func errorsIsNotFound(err error) bool {
	return errors.Is(err, treestore.ErrNotFound)
}
