package checkout

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/fatflowers/marketpay/internal/app/repository"
	"github.com/fatflowers/marketpay/internal/models"
	"github.com/fatflowers/marketpay/internal/platform/mercadopago"
	"github.com/fatflowers/marketpay/pkg/apperr"
	"github.com/fatflowers/marketpay/pkg/config"
	"github.com/fatflowers/marketpay/pkg/logctx"
	"github.com/fatflowers/marketpay/pkg/tool"
	"github.com/fatflowers/marketpay/pkg/types"
)

const (
	ReferencePrefixOrder        = "ORD"
	ReferencePrefixSubscription = "SUB"
)

// Service creates processor checkout sessions and the local records tracking them.
// The processor is always called first; nothing is persisted unless it succeeds.
type Service struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	client   mercadopago.Client
	txns     repository.TransactionRepository
	subs     repository.SubscriptionRepository
	validate *validator.Validate
}

func NewService(cfg *config.Config, log *zap.SugaredLogger, client mercadopago.Client, txns repository.TransactionRepository, subs repository.SubscriptionRepository) *Service {
	return &Service{
		cfg:      cfg,
		log:      log,
		client:   client,
		txns:     txns,
		subs:     subs,
		validate: newValidator(),
	}
}

// CreateCheckout creates a one-off payment preference for the caller's items.
func (s *Service) CreateCheckout(ctx context.Context, userID string, req *CreateCheckoutRequest) (*CheckoutResult, error) {
	currency, err := s.validateCheckout(req)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, apperr.Auth("authentication required")
	}

	ref := tool.NewExternalReference(ReferencePrefixOrder)
	log := logctx.FromCtx(ctx, s.log).With("external_reference", ref)

	pref, err := s.client.CreatePreference(ctx, s.preferenceRequest(ref, req))
	if err != nil {
		log.Errorw("create_preference_failed", "err", err)
		return nil, apperr.Upstream(err, "payment processor rejected checkout")
	}

	txn := &models.Transaction{
		ID:                 tool.GenerateUUIDV7(),
		ExternalReference:  ref,
		BuyerID:            userID,
		Amount:             types.LineItemsTotal(req.Items),
		Currency:           currency,
		Items:              datatypes.NewJSONType(req.Items),
		Status:             types.TransactionStatusPending,
		VendorPreferenceID: pref.ID,
	}
	if req.SellerID != "" {
		txn.SellerID = lo.ToPtr(req.SellerID)
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		// the preference exists at the processor; its webhooks will be acked as not_found
		log.Errorw("persist_transaction_failed", "preference_id", pref.ID, "err", err)
		return nil, apperr.Internal(err, "failed to persist transaction")
	}

	log.Infow("checkout_created", "transaction_id", txn.ID, "preference_id", pref.ID, "amount", txn.Amount.String(), "currency", currency)
	return &CheckoutResult{
		TransactionID:     txn.ID,
		ExternalReference: ref,
		PreferenceID:      pref.ID,
		InitPoint:         pref.InitPoint,
		SandboxInitPoint:  pref.SandboxInitPoint,
	}, nil
}

// validateCheckout returns the single currency shared by all items.
func (s *Service) validateCheckout(req *CreateCheckoutRequest) (string, error) {
	if req == nil || len(req.Items) == 0 {
		return "", apperr.Validation("items must not be empty")
	}
	if err := s.validate.Struct(req); err != nil {
		return "", validationError(err)
	}
	currency := req.Items[0].CurrencyID
	for i, it := range req.Items {
		if !it.UnitPrice.IsPositive() {
			return "", apperr.Validation("items[%d].unit_price must be positive", i)
		}
		if it.CurrencyID != currency {
			return "", apperr.Validation("items[%d].currency_id %q differs from %q", i, it.CurrencyID, currency)
		}
	}
	return currency, nil
}

func (s *Service) preferenceRequest(ref string, req *CreateCheckoutRequest) *mercadopago.PreferenceRequest {
	cb := s.cfg.Callbacks
	out := &mercadopago.PreferenceRequest{
		Items: lo.Map(req.Items, func(it types.LineItem, _ int) mercadopago.PreferenceItem {
			return mercadopago.PreferenceItem{
				ID:          it.ID,
				Title:       lo.Ternary(it.Title != "", it.Title, it.ID),
				Description: it.Description,
				PictureURL:  it.PictureURL,
				CategoryID:  it.CategoryID,
				Quantity:    it.Quantity,
				CurrencyID:  it.CurrencyID,
				UnitPrice:   it.UnitPrice.InexactFloat64(),
			}
		}),
		BackURLs: &mercadopago.BackURLs{
			Success: cb.SuccessURL,
			Failure: cb.FailureURL,
			Pending: cb.PendingURL,
		},
		NotificationURL:   cb.NotificationURL,
		ExternalReference: ref,
	}
	if cb.SuccessURL != "" {
		out.AutoReturn = "approved"
	}
	if p := req.Payer; p != nil {
		out.Payer = &mercadopago.Payer{Name: p.Name, Surname: p.Surname, Email: p.Email}
	}
	return out
}

// CreateSubscription creates a recurring preapproval for a configured plan.
func (s *Service) CreateSubscription(ctx context.Context, userID string, req *CreateSubscriptionRequest) (*SubscriptionResult, error) {
	if req == nil {
		return nil, apperr.Validation("empty request")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if userID == "" {
		return nil, apperr.Auth("authentication required")
	}
	plan := s.cfg.GetPlanByID(req.PlanID)
	if plan == nil {
		return nil, apperr.NotFound("plan %q not found", req.PlanID)
	}

	ref := tool.NewExternalReference(ReferencePrefixSubscription)
	log := logctx.FromCtx(ctx, s.log).With("external_reference", ref, "plan_id", plan.ID)

	pre, err := s.client.CreatePreapproval(ctx, &mercadopago.PreapprovalRequest{
		Reason:            lo.Ternary(plan.Name != "", plan.Name, plan.ID),
		ExternalReference: ref,
		PayerEmail:        req.PayerEmail,
		AutoRecurring: mercadopago.AutoRecurring{
			Frequency:         plan.Frequency,
			FrequencyType:     string(plan.FrequencyType),
			TransactionAmount: plan.Amount.InexactFloat64(),
			CurrencyID:        plan.Currency,
		},
		BackURL:         s.cfg.Callbacks.SubscriptionBackURL,
		NotificationURL: s.cfg.Callbacks.NotificationURL,
	})
	if err != nil {
		log.Errorw("create_preapproval_failed", "err", err)
		return nil, apperr.Upstream(err, "payment processor rejected subscription")
	}

	sub := &models.Subscription{
		ID:                   tool.GenerateUUIDV7(),
		ExternalReference:    ref,
		BuyerID:              userID,
		PlanID:               plan.ID,
		PayerEmail:           req.PayerEmail,
		Amount:               plan.Amount,
		Currency:             plan.Currency,
		Frequency:            plan.Frequency,
		FrequencyType:        plan.FrequencyType,
		Status:               types.SubscriptionStatusPending,
		VendorSubscriptionID: lo.EmptyableToPtr(pre.ID),
		VendorStatus:         pre.Status,
		NextPaymentAt:        pre.NextPaymentDate,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		log.Errorw("persist_subscription_failed", "vendor_subscription_id", pre.ID, "err", err)
		return nil, apperr.Internal(err, "failed to persist subscription")
	}

	log.Infow("subscription_created", "subscription_id", sub.ID, "vendor_subscription_id", pre.ID, "vendor_status", pre.Status)
	return &SubscriptionResult{
		SubscriptionID:       sub.ID,
		ExternalReference:    ref,
		VendorSubscriptionID: pre.ID,
		InitPoint:            pre.InitPoint,
		Status:               sub.Status,
		VendorStatus:         pre.Status,
	}, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names so messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("%s", err.Error())
	}
	msgs := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		if fe.Param() != "" {
			return fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s: %s", field, fe.Tag())
	})
	return apperr.Validation("%s", strings.Join(msgs, "; "))
}
