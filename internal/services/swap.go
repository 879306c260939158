package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"slotswapper/internal/domain"
)

// swapService is the slot-swap engine. Every state transition of an event's
// swap status and of a request's lifecycle happens here, inside a unit of
// work; nothing else writes those fields.
type swapService struct {
	uow            domain.UnitOfWork
	eventRepo      domain.EventRepository
	swapRepo       domain.SwapRequestRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewSwapService creates a SwapService. The plain repositories serve the
// read-side listings; all multi-record mutations go through the unit of work.
// emailService may be nil to disable notifications.
func NewSwapService(
	uow domain.UnitOfWork,
	eventRepo domain.EventRepository,
	swapRepo domain.SwapRequestRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SwapService {
	return &swapService{
		uow:            uow,
		eventRepo:      eventRepo,
		swapRepo:       swapRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// lockSlotPair reads and locks both slots in id order, so two transactions
// touching the same pair always lock in the same sequence and cannot deadlock.
func lockSlotPair(ctx context.Context, events domain.EventRepository, idA, idB string) (slotA, slotB *domain.Event, err error) {
	first, second := idA, idB
	if second < first {
		first, second = second, first
	}
	firstSlot, err := events.GetByIDForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	secondSlot, err := events.GetByIDForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}
	if first == idA {
		return firstSlot, secondSlot, nil
	}
	return secondSlot, firstSlot, nil
}

func (s *swapService) CreateSwapRequest(ctx context.Context, requesterID, mySlotID, theirSlotID, message string) (*domain.SwapRequestDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if mySlotID == theirSlotID {
		return nil, domain.ErrSelfSwap
	}

	var created *domain.SwapRequest
	var mySlot, theirSlot *domain.Event
	err := s.uow.Do(ctx, func(stores domain.SwapStores) error {
		var err error
		mySlot, theirSlot, err = lockSlotPair(ctx, stores.Events(), mySlotID, theirSlotID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrIneligibleSlot
			}
			return fmt.Errorf("lock slots: %w", err)
		}

		// My slot must be mine and published; eligibility is re-checked here
		// under lock, whatever the caller saw before.
		if err := assertOwner(mySlot, requesterID); err != nil {
			return domain.ErrIneligibleSlot
		}
		if mySlot.Status != domain.StatusSwappable {
			return domain.ErrIneligibleSlot
		}
		// Their slot must be published and belong to someone else.
		if theirSlot.Status != domain.StatusSwappable || theirSlot.OwnerID == requesterID {
			return domain.ErrIneligibleSlot
		}

		if _, err := stores.SwapRequests().FindActiveBetween(ctx, mySlotID, theirSlotID); err == nil {
			return domain.ErrDuplicateRequest
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("check duplicate request: %w", err)
		}

		// The receiver is whoever owns the target slot right now, never
		// client-supplied.
		now := time.Now()
		created = domain.NewSwapRequest(requesterID, theirSlot.OwnerID, mySlotID, theirSlotID, message, now, now)
		if err := stores.SwapRequests().Create(ctx, created); err != nil {
			return fmt.Errorf("create swap request: %w", err)
		}
		if err := stores.Events().SetStatus(ctx, mySlotID, domain.StatusSwapPending); err != nil {
			return fmt.Errorf("freeze requester slot: %w", err)
		}
		if err := stores.Events().SetStatus(ctx, theirSlotID, domain.StatusSwapPending); err != nil {
			return fmt.Errorf("freeze receiver slot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	mySlot.Status = domain.StatusSwapPending
	theirSlot.Status = domain.StatusSwapPending
	detail := &domain.SwapRequestDetail{
		Request:       created,
		RequesterSlot: mySlot,
		ReceiverSlot:  theirSlot,
	}
	if requester, err := s.userRepo.GetByID(ctx, created.RequesterID); err == nil {
		detail.Requester = requester.Summary()
	}
	receiver, err := s.userRepo.GetByID(ctx, created.ReceiverID)
	if err == nil {
		detail.Receiver = receiver.Summary()
	}

	s.notifyReceiver(ctx, detail, receiver)
	return detail, nil
}

// notifyReceiver emails the slot owner about the new request. The swap is
// already committed; a delivery failure is logged, not surfaced.
func (s *swapService) notifyReceiver(ctx context.Context, detail *domain.SwapRequestDetail, receiver *domain.User) {
	if s.emailService == nil || receiver == nil {
		return
	}
	requesterName := detail.Request.RequesterID
	if detail.Requester != nil {
		requesterName = detail.Requester.Username
	}
	data := &domain.SwapRequestedEmailData{
		Email:          receiver.Email,
		ReceiverName:   receiver.FirstName,
		RequesterName:  requesterName,
		TheirSlotTitle: detail.ReceiverSlot.Title,
		MySlotTitle:    detail.RequesterSlot.Title,
		Message:        detail.Request.Message,
	}
	if err := s.emailService.SendSwapRequested(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "swap request notification failed",
			"request_id", detail.Request.ID, "receiver_id", receiver.ID, "err", err)
	}
}

func (s *swapService) RespondToSwapRequest(ctx context.Context, actingUserID, requestID string, accept bool) (*domain.SwapRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var resolved *domain.SwapRequest
	err := s.uow.Do(ctx, func(stores domain.SwapStores) error {
		req, err := stores.SwapRequests().GetByIDForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrSwapRequestNotFound
			}
			return fmt.Errorf("get swap request: %w", err)
		}
		// Non-receivers get the same answer as a missing request.
		if err := assertReceiver(req, actingUserID); err != nil {
			return domain.ErrSwapRequestNotFound
		}
		if req.Status != domain.SwapPending {
			return domain.ErrAlreadyResolved
		}

		requesterSlot, receiverSlot, err := lockSlotPair(ctx, stores.Events(), req.RequesterSlotID, req.ReceiverSlotID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Pending slots are undeletable; a missing row means something
				// outside the engine broke the invariant.
				s.logger.ErrorContext(ctx, "consistency fault: pending swap references missing slot",
					"request_id", req.ID, "requester_slot_id", req.RequesterSlotID, "receiver_slot_id", req.ReceiverSlotID)
				return domain.ErrSlotVanished
			}
			return fmt.Errorf("lock slots: %w", err)
		}

		if accept {
			// Exchange ownership; both sides land BUSY so neither is
			// immediately re-listed.
			if err := stores.Events().SetOwnerAndStatus(ctx, requesterSlot.ID, req.ReceiverID, domain.StatusBusy); err != nil {
				return fmt.Errorf("transfer requester slot: %w", err)
			}
			if err := stores.Events().SetOwnerAndStatus(ctx, receiverSlot.ID, req.RequesterID, domain.StatusBusy); err != nil {
				return fmt.Errorf("transfer receiver slot: %w", err)
			}
			resolved, err = stores.SwapRequests().Resolve(ctx, req.ID, domain.SwapAccepted)
			if err != nil {
				return fmt.Errorf("resolve swap request: %w", err)
			}
			return nil
		}

		// Reject restores SWAPPABLE, not BUSY: the owners published these
		// slots and a refusal doesn't withdraw them.
		if err := stores.Events().SetStatus(ctx, requesterSlot.ID, domain.StatusSwappable); err != nil {
			return fmt.Errorf("release requester slot: %w", err)
		}
		if err := stores.Events().SetStatus(ctx, receiverSlot.ID, domain.StatusSwappable); err != nil {
			return fmt.Errorf("release receiver slot: %w", err)
		}
		resolved, err = stores.SwapRequests().Resolve(ctx, req.ID, domain.SwapRejected)
		if err != nil {
			return fmt.Errorf("resolve swap request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (s *swapService) ListSwappableSlots(ctx context.Context, excludeUserID string) ([]*domain.SlotWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListSwappable(ctx, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("list swappable events: %w", err)
	}

	owners := newUserSummaryCache(s.userRepo)
	slots := make([]*domain.SlotWithOwner, 0, len(events))
	for _, e := range events {
		slots = append(slots, &domain.SlotWithOwner{
			Event: e,
			Owner: owners.get(ctx, e.OwnerID),
		})
	}
	return slots, nil
}

func (s *swapService) ListSwapRequests(ctx context.Context, userID string, direction domain.SwapDirection) ([]*domain.SwapRequestDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reqs, err := s.swapRepo.ListForUser(ctx, userID, direction)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}

	users := newUserSummaryCache(s.userRepo)
	details := make([]*domain.SwapRequestDetail, 0, len(reqs))
	for _, req := range reqs {
		detail := &domain.SwapRequestDetail{
			Request:   req,
			Requester: users.get(ctx, req.RequesterID),
			Receiver:  users.get(ctx, req.ReceiverID),
		}
		// Slots may have been deleted after the request resolved; the request
		// itself is still worth showing.
		if slot, err := s.eventRepo.GetByID(ctx, req.RequesterSlotID); err == nil {
			detail.RequesterSlot = slot
		}
		if slot, err := s.eventRepo.GetByID(ctx, req.ReceiverSlotID); err == nil {
			detail.ReceiverSlot = slot
		}
		details = append(details, detail)
	}
	return details, nil
}

// userSummaryCache memoizes user lookups while building one listing response.
type userSummaryCache struct {
	repo domain.UserRepository
	byID map[string]*domain.UserSummary
}

func newUserSummaryCache(repo domain.UserRepository) *userSummaryCache {
	return &userSummaryCache{repo: repo, byID: make(map[string]*domain.UserSummary)}
}

// get returns nil when the user cannot be loaded; listings tolerate a missing
// owner rather than failing the whole response.
func (c *userSummaryCache) get(ctx context.Context, id string) *domain.UserSummary {
	if summary, ok := c.byID[id]; ok {
		return summary
	}
	user, err := c.repo.GetByID(ctx, id)
	if err != nil {
		c.byID[id] = nil
		return nil
	}
	summary := user.Summary()
	c.byID[id] = summary
	return summary
}
