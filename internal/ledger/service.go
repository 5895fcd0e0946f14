package ledger

import (
	"context"
	"time"

	"mediameter/internal/models"
	"mediameter/internal/storage"
	"mediameter/internal/utils"
)

// UsageRecorder accepts usage events for asynchronous persistence.
// Satisfied by storage.UsageQueueWorker.
type UsageRecorder interface {
	Enqueue(ctx context.Context, event *models.UsageEvent) error
}

// Service is the orchestration layer over the ledger repository. It
// adds the Redis snapshot cache on the read path and emits usage
// events on the debit path. All amounts are whole media tokens; the
// repository enforces sufficiency and the reserved invariant.
type Service struct {
	repo   *storage.LedgerRepository
	cache  *SnapshotCache
	usage  UsageRecorder
	logger *utils.Logger
}

// NewService creates a ledger service. cache and usage may be nil; the
// service then skips snapshot caching and usage recording.
func NewService(repo *storage.LedgerRepository, cache *SnapshotCache, usage UsageRecorder) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		usage:  usage,
		logger: utils.NewLogger("ledger-service"),
	}
}

// Bootstrap ensures the account exists, raises its guaranteed minimum
// to desiredMin, and stamps the active pricing version. Returns the
// resulting snapshot. Idempotent.
func (s *Service) Bootstrap(ctx context.Context, userID string, desiredMin int64, pricingVersion string) (models.Snapshot, error) {
	acct, err := s.repo.Bootstrap(ctx, userID, desiredMin, pricingVersion, "client bootstrap")
	if err != nil {
		return models.Snapshot{}, err
	}

	snap := acct.Snapshot(time.Now())
	s.storeSnapshot(ctx, userID, snap)
	return snap, nil
}

// Snapshot returns the current account view, served from the Redis
// cache when fresh.
func (s *Service) Snapshot(ctx context.Context, userID string) (models.Snapshot, error) {
	if s.cache != nil {
		if snap, ok, err := s.cache.Get(ctx, userID); err == nil && ok {
			return snap, nil
		} else if err != nil {
			s.logger.Warn("snapshot cache read failed", "user_id", userID, "error", err)
		}
	}

	acct, err := s.repo.Get(ctx, userID)
	if err != nil {
		return models.Snapshot{}, err
	}

	snap := acct.Snapshot(time.Now())
	s.storeSnapshot(ctx, userID, snap)
	return snap, nil
}

// Grant adds purchased tokens (a pack redemption or a promotion) to
// the balance and returns the updated snapshot.
func (s *Service) Grant(ctx context.Context, userID string, amount int64, refType, refID string, metadata models.JSONB) (models.Snapshot, error) {
	acct, err := s.repo.Grant(ctx, userID, amount, refType, refID, metadata)
	if err != nil {
		return models.Snapshot{}, err
	}

	snap := acct.Snapshot(time.Now())
	s.storeSnapshot(ctx, userID, snap)
	return snap, nil
}

// Reserve claims amount tokens for a pending action and returns the
// updated snapshot. Fails with storage.ErrInsufficientFunds when the
// available balance cannot cover the claim.
func (s *Service) Reserve(ctx context.Context, userID string, amount int64) (models.Snapshot, error) {
	acct, err := s.repo.Reserve(ctx, userID, amount)
	if err != nil {
		return models.Snapshot{}, err
	}

	snap := acct.Snapshot(time.Now())
	s.storeSnapshot(ctx, userID, snap)
	return snap, nil
}

// Release returns a reservation without charging, for cancelled or
// failed actions.
func (s *Service) Release(ctx context.Context, userID string, amount int64) (models.Snapshot, error) {
	acct, err := s.repo.Release(ctx, userID, amount)
	if err != nil {
		return models.Snapshot{}, err
	}

	snap := acct.Snapshot(time.Now())
	s.storeSnapshot(ctx, userID, snap)
	return snap, nil
}

// Debit charges the final cost of a completed action, releases the
// reservation that covered it, and records a usage event.
func (s *Service) Debit(ctx context.Context, userID string, amount, releaseReserved int64, service, refType, refID string) (models.Snapshot, error) {
	acct, err := s.repo.Debit(ctx, userID, amount, releaseReserved, refType, refID)
	if err != nil {
		return models.Snapshot{}, err
	}

	s.recordUsage(ctx, &models.UsageEvent{
		UserID:      userID,
		Service:     service,
		Kind:        "debit",
		MediaTokens: amount,
		RefType:     refType,
		RefID:       refID,
	})

	snap := acct.Snapshot(time.Now())
	s.storeSnapshot(ctx, userID, snap)
	return snap, nil
}

// RecordEstimate logs a served estimate as a usage event. Estimates do
// not touch the balance; the event exists for usage analysis only.
func (s *Service) RecordEstimate(ctx context.Context, userID, service string, billableUnits, mediaTokens int64, refType, refID string) {
	s.recordUsage(ctx, &models.UsageEvent{
		UserID:        userID,
		Service:       service,
		Kind:          "estimate",
		BillableUnits: billableUnits,
		MediaTokens:   mediaTokens,
		RefType:       refType,
		RefID:         refID,
	})
}

func (s *Service) storeSnapshot(ctx context.Context, userID string, snap models.Snapshot) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, userID, snap); err != nil {
		s.logger.Warn("snapshot cache write failed", "user_id", userID, "error", err)
	}
}

func (s *Service) recordUsage(ctx context.Context, event *models.UsageEvent) {
	if s.usage == nil {
		return
	}
	if err := s.usage.Enqueue(ctx, event); err != nil {
		s.logger.Warn("failed to enqueue usage event", "user_id", event.UserID, "error", err)
	}
}
