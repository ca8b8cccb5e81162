// Package requests is the admin approval queue. Approving a request applies its
// effect to the ledger (or roster) in the same write that records the decision.
package requests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	auction "chit-auction/internal/auctionService"
	"chit-auction/internal/auctionerrors"
	"chit-auction/internal/ledger"
	"chit-auction/internal/metrics"
	"chit-auction/internal/models"
	"chit-auction/internal/repository"
	roster "chit-auction/internal/rosterService"
	"chit-auction/utils"
)

// Service owns the gk_userRequests record. Ledger changes are written through the
// engine, which serializes them with settlement.
type Service struct {
	store  repository.KVStore
	engine *auction.Engine
	roster *roster.Service
	now    func() time.Time
	mu     sync.Mutex
}

// NewService creates the request service
func NewService(store repository.KVStore, engine *auction.Engine, r *roster.Service) *Service {
	return &Service{store: store, engine: engine, roster: r, now: time.Now}
}

// Submit validates req and queues it as Pending at the head of the queue
func (s *Service) Submit(ctx context.Context, req models.UserRequest) (models.UserRequest, error) {
	if req.Details == nil {
		return models.UserRequest{}, fmt.Errorf("service: submit request: %w: details are required", auctionerrors.ErrInvalidRequest)
	}
	if strings.TrimSpace(req.UserName) == "" {
		return models.UserRequest{}, fmt.Errorf("service: submit request: %w: user name is required", auctionerrors.ErrInvalidRequest)
	}
	req.Type = req.Details.RequestType()
	if req.Type != models.RequestRegistration && req.UserID == "" {
		return models.UserRequest{}, fmt.Errorf("service: submit %s request: %w: user id is required", req.Type, auctionerrors.ErrInvalidRequest)
	}
	if d, ok := req.Details.(models.JoinChitDetails); ok && d.BatchID == "" {
		return models.UserRequest{}, fmt.Errorf("service: submit request: %w: batch id is required", auctionerrors.ErrInvalidRequest)
	}

	req.ID = utils.PrefixedID("REQ")
	req.Status = models.RequestPending
	req.Date = s.now().Format(ledger.DateLayout)
	req.AdminComment = ""

	s.mu.Lock()
	defer s.mu.Unlock()

	queue, err := s.load(ctx)
	if err != nil {
		return models.UserRequest{}, fmt.Errorf("service: submit request: %w", err)
	}

	b := repository.Batch{}
	if err := b.Put(repository.KeyUserRequests, append([]models.UserRequest{req}, queue...)); err != nil {
		return models.UserRequest{}, fmt.Errorf("service: submit request: %w", err)
	}
	if err := b.Commit(ctx, s.store); err != nil {
		return models.UserRequest{}, fmt.Errorf("service: submit request: %w", err)
	}

	utils.Info("Requests: submitted", map[string]any{"request_id": req.ID, "type": req.Type, "user_id": req.UserID})
	return req, nil
}

// List returns the queue, newest first, optionally filtered by status and user
func (s *Service) List(ctx context.Context, status, userID string) ([]models.UserRequest, error) {
	queue, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: list requests: %w", err)
	}
	out := make([]models.UserRequest, 0, len(queue))
	for _, r := range queue {
		if status != "" && r.Status != status {
			continue
		}
		if userID != "" && r.UserID != userID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Reject closes a Pending request without side effects
func (s *Service) Reject(ctx context.Context, id, comment string) (models.UserRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue, i, err := s.pending(ctx, id)
	if err != nil {
		return models.UserRequest{}, fmt.Errorf("service: reject request: %w", err)
	}
	queue[i].Status = models.RequestRejected
	queue[i].AdminComment = comment

	b := repository.Batch{}
	if err := b.Put(repository.KeyUserRequests, queue); err != nil {
		return models.UserRequest{}, fmt.Errorf("service: reject request: %w", err)
	}
	if err := b.Commit(ctx, s.store); err != nil {
		return models.UserRequest{}, fmt.Errorf("service: reject request: %w", err)
	}

	metrics.RecordRequestDecision(string(queue[i].Type), models.RequestRejected)
	utils.Info("Requests: rejected", map[string]any{"request_id": id, "type": queue[i].Type})
	return queue[i], nil
}

// Approve closes a Pending request and applies its effect
func (s *Service) Approve(ctx context.Context, id, comment string) (models.UserRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue, i, err := s.pending(ctx, id)
	if err != nil {
		return models.UserRequest{}, fmt.Errorf("service: approve request: %w", err)
	}
	req := queue[i]
	req.Status = models.RequestApproved
	req.AdminComment = comment

	switch d := req.Details.(type) {
	case models.RegistrationDetails:
		err = s.approveRegistration(ctx, &req, d, queue, i)
	case models.ForexDetails:
		queue[i] = req
		err = s.commitQueue(ctx, queue, nil)
	default:
		err = s.approveLedger(ctx, req, queue, i)
	}
	if err != nil {
		return models.UserRequest{}, fmt.Errorf("service: approve %s request %s: %w", req.Type, id, err)
	}

	metrics.RecordRequestDecision(string(req.Type), models.RequestApproved)
	utils.Info("Requests: approved", map[string]any{"request_id": id, "type": req.Type, "user_id": req.UserID})
	return req, nil
}

// approveLedger handles the request types that add a chit, loan or deposit
func (s *Service) approveLedger(ctx context.Context, req models.UserRequest, queue []models.UserRequest, i int) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: request has no user id", auctionerrors.ErrInvalidRequest)
	}

	now := s.now()
	var apply func(models.Ledger) (models.Ledger, error)
	switch d := req.Details.(type) {
	case models.JoinChitDetails:
		batch, err := s.roster.Batch(ctx, d.BatchID)
		if err != nil {
			return err
		}
		apply = func(l models.Ledger) (models.Ledger, error) {
			return ledger.AssignChit(l, req.UserID, batch, now)
		}
	case models.NewLoanDetails:
		loanID := utils.PrefixedID("LN")
		apply = func(l models.Ledger) (models.Ledger, error) {
			return ledger.AddLoan(l, req.UserID, loanID, d.Amount, now), nil
		}
	case models.NewDepositDetails:
		depositID := utils.PrefixedID("FD")
		apply = func(l models.Ledger) (models.Ledger, error) {
			return ledger.AddDeposit(l, req.UserID, depositID, d.Amount, now), nil
		}
	default:
		return fmt.Errorf("%w: unsupported type %s", auctionerrors.ErrInvalidRequest, req.Type)
	}

	queue[i] = req
	b := repository.Batch{}
	if err := b.Put(repository.KeyUserRequests, queue); err != nil {
		return err
	}
	return s.engine.UpdateLedger(ctx, "approve "+string(req.Type), apply, b)
}

// approveRegistration creates the member and records the new id on the request
func (s *Service) approveRegistration(ctx context.Context, req *models.UserRequest, d models.RegistrationDetails, queue []models.UserRequest, i int) error {
	req.UserID = utils.PrefixedID("USR")
	user := models.User{ID: req.UserID, Name: req.UserName, Email: d.Email, Phone: d.Phone}

	queue[i] = *req
	b := repository.Batch{}
	if err := b.Put(repository.KeyUserRequests, queue); err != nil {
		return err
	}
	_, err := s.roster.AddWith(ctx, user, b)
	return err
}

func (s *Service) commitQueue(ctx context.Context, queue []models.UserRequest, extra repository.Batch) error {
	b := repository.Batch{}
	for k, v := range extra {
		b[k] = v
	}
	if err := b.Put(repository.KeyUserRequests, queue); err != nil {
		return err
	}
	return b.Commit(ctx, s.store)
}

// pending loads the queue and locates a Pending request. Callers hold s.mu.
func (s *Service) pending(ctx context.Context, id string) ([]models.UserRequest, int, error) {
	queue, err := s.load(ctx)
	if err != nil {
		return nil, -1, err
	}
	for i, r := range queue {
		if r.ID != id {
			continue
		}
		if r.Status != models.RequestPending {
			return nil, -1, fmt.Errorf("request %s is %s: %w", id, r.Status, auctionerrors.ErrRequestNotPending)
		}
		return queue, i, nil
	}
	return nil, -1, fmt.Errorf("request %s: %w", id, auctionerrors.ErrRequestNotFound)
}

// load decodes the queue item by item so one unreadable request does not hide the rest
func (s *Service) load(ctx context.Context) ([]models.UserRequest, error) {
	raw, err := repository.Load(ctx, s.store, repository.KeyUserRequests, []json.RawMessage{})
	if err != nil && !errors.Is(err, auctionerrors.ErrMalformedStoredValue) {
		return nil, err
	}
	if err != nil {
		utils.Warn("Requests: malformed queue, starting empty", map[string]any{"error": err.Error()})
	}

	queue := make([]models.UserRequest, 0, len(raw))
	for _, item := range raw {
		var r models.UserRequest
		if err := json.Unmarshal(item, &r); err != nil {
			utils.Warn("Requests: dropping unreadable request", map[string]any{"error": err.Error()})
			continue
		}
		queue = append(queue, r)
	}
	return queue, nil
}
