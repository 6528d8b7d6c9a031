package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"quizrush/internal/ledger"
	"quizrush/internal/logger"
	"quizrush/internal/metrics"
	"quizrush/internal/payment"
	"quizrush/internal/user"

	"github.com/google/uuid"
)

var (
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrPlanInactive         = errors.New("subscription plan is not active")
	ErrAlreadySubscribed    = errors.New("an active subscription for this plan already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadyCancelled     = errors.New("subscription is already cancelled")
	ErrPaymentFailed        = errors.New("payment could not be initiated")
)

// Notifier sends subscription lifecycle emails. Implemented by the
// email service; nil disables notifications.
type Notifier interface {
	SendSubscriptionActivated(ctx context.Context, email, name, planName string) error
	SendPaymentFailed(ctx context.Context, email, name, planName string) error
	SendSubscriptionCancelled(ctx context.Context, email, name, planName string) error
}

type Service interface {
	Classify(mode string) Entitlement
	HasActiveSubscription(ctx context.Context, userID int) (bool, error)
	CanPlayGameMode(ctx context.Context, userID int, mode string) (bool, error)
	Limits(ctx context.Context, userID int) (*Limits, error)
	ValidateGameCreation(ctx context.Context, userID int, mode string, maxPlayers *int) (*GameValidation, error)
	Purchase(ctx context.Context, userID int, req PurchaseRequest) (*PurchaseResult, error)
	HandlePaymentSucceeded(ctx context.Context, ref string) error
	HandlePaymentFailed(ctx context.Context, ref string) error
	Cancel(ctx context.Context, userID, subscriptionID int, reason string) (*SubscriptionWithPlan, string, error)
	IncrementGamesPlayed(ctx context.Context, userID int) error
	ListByUser(ctx context.Context, userID int) ([]*Subscription, error)
	ListPlans(ctx context.Context) ([]Plan, error)
}

type service struct {
	repo     Repository
	plans    PlanRepository
	users    user.Repository
	payments payment.Provider
	ledger   ledger.Repository
	notifier Notifier
	modes    ModeCatalog
}

func NewService(
	repo Repository,
	plans PlanRepository,
	users user.Repository,
	payments payment.Provider,
	ledgerRepo ledger.Repository,
	notifier Notifier,
	modes ModeCatalog,
) Service {
	return &service{
		repo:     repo,
		plans:    plans,
		users:    users,
		payments: payments,
		ledger:   ledgerRepo,
		notifier: notifier,
		modes:    modes,
	}
}

func (s *service) Classify(mode string) Entitlement {
	return s.modes.Classify(mode)
}

func (s *service) HasActiveSubscription(ctx context.Context, userID int) (bool, error) {
	return s.repo.HasActive(ctx, userID)
}

// activeWithPlan loads the user's newest active subscription and its
// plan. Any plan counts: entitlement is not narrowed to the plan whose
// game_mode matches the requested mode.
func (s *service) activeWithPlan(ctx context.Context, userID int) (*Subscription, *Plan, error) {
	sub, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	plan, err := s.plans.GetByID(ctx, sub.PlanID)
	if err != nil {
		return nil, nil, err
	}

	return sub, plan, nil
}

func (s *service) CanPlayGameMode(ctx context.Context, userID int, mode string) (bool, error) {
	if s.modes.Classify(mode) == EntitlementFree {
		return true, nil
	}

	sub, plan, err := s.activeWithPlan(ctx, userID)
	if err != nil {
		return false, err
	}
	if sub == nil {
		return false, nil
	}

	if plan.Unlimited() {
		return true, nil
	}

	return plan.GamesAllowed-sub.GamesPlayed > 0, nil
}

func (s *service) Limits(ctx context.Context, userID int) (*Limits, error) {
	sub, plan, err := s.activeWithPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &Limits{PlayersLimit: DefaultPlayersLimit}, nil
	}

	remaining := plan.GamesAllowed - sub.GamesPlayed
	if plan.Unlimited() {
		remaining = UnlimitedGames
	}

	return &Limits{
		HasSubscription:  true,
		GamesLimit:       plan.GamesAllowed,
		GamesPlayed:      sub.GamesPlayed,
		GamesRemaining:   remaining,
		QuestionsLimit:   plan.QuestionsAllowed,
		PlayersLimit:     plan.PlayersAllowed,
		SubscriptionType: plan.Name,
	}, nil
}

// ValidateGameCreation runs the entitlement checks in order; the first
// failing check determines the response.
func (s *service) ValidateGameCreation(ctx context.Context, userID int, mode string, maxPlayers *int) (*GameValidation, error) {
	if s.modes.Classify(mode) == EntitlementFree {
		return &GameValidation{Valid: true}, nil
	}

	sub, plan, err := s.activeWithPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &GameValidation{
			Valid:                false,
			Message:              "Subscription required to play this game mode",
			SubscriptionRequired: true,
		}, nil
	}

	if !plan.Unlimited() && plan.GamesAllowed-sub.GamesPlayed <= 0 {
		return &GameValidation{
			Valid:   false,
			Message: "No games remaining in your subscription",
		}, nil
	}

	if maxPlayers != nil && *maxPlayers > plan.PlayersAllowed {
		return &GameValidation{
			Valid:   false,
			Message: fmt.Sprintf("Your subscription allows maximum %d players", plan.PlayersAllowed),
		}, nil
	}

	return &GameValidation{Valid: true}, nil
}

func (s *service) Purchase(ctx context.Context, userID int, req PurchaseRequest) (*PurchaseResult, error) {
	plan, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.Status != PlanActive {
		return nil, ErrPlanInactive
	}

	exists, err := s.repo.HasActiveForPlan(ctx, userID, req.PlanID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}

	usr, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// The subscription row exists before the provider is contacted, so
	// a provider failure still leaves a reconcilable record.
	sub, err := s.repo.Create(ctx, userID, req.PlanID, ProviderStripe, plan.PriceCents, plan.Currency)
	if err != nil {
		return nil, err
	}

	intent, err := s.initiatePayment(ctx, usr, plan, sub)
	if err != nil {
		logger.Errorf("Purchase: payment initiation failed for subscription %d: %v", sub.ID, err)
		if mErr := s.repo.UpdateStatus(ctx, sub.ID, StatusFailed, PaymentFailed); mErr != nil {
			logger.Errorf("Purchase: failed to mark subscription %d failed: %v", sub.ID, mErr)
		}
		metrics.RecordPurchase(plan.Name, "failed")
		return nil, ErrPaymentFailed
	}

	// First purchase promotes the buyer to host; room listings and
	// game creation filter on that role.
	if usr.Role == user.RolePlayer {
		if rErr := s.users.SetRole(ctx, userID, user.RoleHost); rErr != nil {
			logger.Errorf("Purchase: failed to promote user %d to host: %v", userID, rErr)
		}
	}

	metrics.RecordPurchase(plan.Name, "pending")
	logger.Infof("Subscription %d created for user %d, plan %q, intent %s", sub.ID, userID, plan.Name, intent.ID)

	return &PurchaseResult{
		ClientSecret:    intent.ClientSecret,
		SubscriptionID:  sub.ID,
		PaymentIntentID: intent.ID,
		AmountCents:     plan.PriceCents,
		Currency:        plan.Currency,
		Status:          StatusPending,
	}, nil
}

func (s *service) initiatePayment(ctx context.Context, usr *user.User, plan *Plan, sub *Subscription) (*payment.Intent, error) {
	billingID := usr.BillingID
	if billingID == "" {
		customer, err := s.payments.CreateCustomer(ctx, usr.Name, usr.Email, usr.ID)
		if err != nil {
			return nil, err
		}
		if err := s.users.SetBillingID(ctx, usr.ID, customer.ID); err != nil {
			return nil, err
		}
		billingID = customer.ID
	}

	orderRef := uuid.New().String()

	intent, err := s.payments.CreatePaymentIntent(ctx, payment.IntentRequest{
		AmountCents: plan.PriceCents,
		Currency:    plan.Currency,
		CustomerID:  billingID,
		Metadata: map[string]string{
			"subscription_id": strconv.Itoa(sub.ID),
			"user_id":         strconv.Itoa(usr.ID),
			"plan_id":         strconv.Itoa(plan.ID),
			"order_ref":       orderRef,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetPaymentRef(ctx, sub.ID, intent.ID); err != nil {
		return nil, err
	}

	if _, err := s.ledger.CreateSubscriptionTransaction(ctx, ledger.CreateSubscriptionTransactionParams{
		SubscriptionID: sub.ID,
		UserID:         usr.ID,
		OrderRef:       orderRef,
		AmountCents:    plan.PriceCents,
		Currency:       plan.Currency,
		Reference:      intent.ID,
		Status:         ledger.TxPending,
		Provider:       ProviderStripe,
	}); err != nil {
		return nil, err
	}

	return intent, nil
}

// HandlePaymentSucceeded is safe to replay: activating an already
// active subscription rewrites the same terminal state, and an unknown
// reference is a logged no-op so webhook delivery never fails loudly.
func (s *service) HandlePaymentSucceeded(ctx context.Context, ref string) error {
	sub, err := s.repo.FindByPaymentRef(ctx, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Infof("Payment webhook: no subscription for reference %s, ignoring", ref)
			return nil
		}
		return err
	}

	if err := s.repo.UpdateStatus(ctx, sub.ID, StatusActive, PaymentCompleted); err != nil {
		// A second pending purchase of the same plan can hit the
		// partial unique active index here; the event is consumed so
		// the provider stops retrying.
		if errors.Is(err, ErrAlreadySubscribed) {
			logger.Infof("Payment webhook: subscription %d duplicates an active plan subscription, ignoring (reference %s)", sub.ID, ref)
			return nil
		}
		return err
	}

	if err := s.ledger.MarkStatusByReference(ctx, ref, ledger.TxCompleted); err != nil {
		logger.Errorf("Payment webhook: failed to complete ledger entry %s: %v", ref, err)
	}

	s.notify(ctx, sub, func(email, name, planName string) {
		if err := s.notifier.SendSubscriptionActivated(ctx, email, name, planName); err != nil {
			logger.Errorf("Payment webhook: activation email for subscription %d: %v", sub.ID, err)
		}
	})

	logger.Infof("Subscription %d activated (reference %s)", sub.ID, ref)
	return nil
}

func (s *service) HandlePaymentFailed(ctx context.Context, ref string) error {
	sub, err := s.repo.FindByPaymentRef(ctx, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Infof("Payment webhook: no subscription for reference %s, ignoring", ref)
			return nil
		}
		return err
	}

	if err := s.repo.UpdateStatus(ctx, sub.ID, StatusFailed, PaymentFailed); err != nil {
		return err
	}

	if err := s.ledger.MarkStatusByReference(ctx, ref, ledger.TxFailed); err != nil {
		logger.Errorf("Payment webhook: failed to fail ledger entry %s: %v", ref, err)
	}

	s.notify(ctx, sub, func(email, name, planName string) {
		if err := s.notifier.SendPaymentFailed(ctx, email, name, planName); err != nil {
			logger.Errorf("Payment webhook: failure email for subscription %d: %v", sub.ID, err)
		}
	})

	logger.Infof("Subscription %d marked failed (reference %s)", sub.ID, ref)
	return nil
}

func (s *service) notify(ctx context.Context, sub *Subscription, send func(email, name, planName string)) {
	if s.notifier == nil {
		return
	}

	usr, err := s.users.FindByID(ctx, sub.UserID)
	if err != nil {
		logger.Errorf("Notification skipped: user %d lookup failed: %v", sub.UserID, err)
		return
	}

	planName := ""
	if plan, err := s.plans.GetByID(ctx, sub.PlanID); err == nil {
		planName = plan.Name
	}

	send(usr.Email, usr.Name, planName)
}

// Cancel is scoped to the owning user; someone else's subscription id
// reports not-found rather than forbidden. Cancelling twice is an
// error, unlike the replay-tolerant webhook handlers.
func (s *service) Cancel(ctx context.Context, userID, subscriptionID int, reason string) (*SubscriptionWithPlan, string, error) {
	sub, err := s.repo.FindByIDForUser(ctx, subscriptionID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrSubscriptionNotFound
		}
		return nil, "", err
	}

	if sub.Status == StatusCancelled {
		return nil, "", ErrAlreadyCancelled
	}

	if err := s.repo.UpdateStatus(ctx, sub.ID, StatusCancelled, sub.PaymentStatus); err != nil {
		return nil, "", err
	}
	sub.Status = StatusCancelled

	metrics.RecordCancellation()

	s.notify(ctx, sub, func(email, name, planName string) {
		if err := s.notifier.SendSubscriptionCancelled(ctx, email, name, planName); err != nil {
			logger.Errorf("Cancel: cancellation email for subscription %d: %v", sub.ID, err)
		}
	})

	result := &SubscriptionWithPlan{Subscription: *sub}
	if plan, err := s.plans.GetByID(ctx, sub.PlanID); err == nil {
		result.Plan = plan
	} else {
		logger.Errorf("Cancel: plan %d lookup for subscription %d: %v", sub.PlanID, sub.ID, err)
	}

	message := "Subscription cancelled"
	if reason != "" {
		message += ": " + reason
	}

	return result, message, nil
}

func (s *service) IncrementGamesPlayed(ctx context.Context, userID int) error {
	return s.repo.IncrementGamesPlayed(ctx, userID)
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]*Subscription, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListPlans(ctx context.Context) ([]Plan, error) {
	return s.plans.ListActive(ctx)
}
