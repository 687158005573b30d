package checkout

import (
	"github.com/fatflowers/marketpay/pkg/types"
)

// PayerOverride replaces the payer details the processor would otherwise ask for.
type PayerOverride struct {
	Name    string `json:"name,omitempty" validate:"max=128"`
	Surname string `json:"surname,omitempty" validate:"max=128"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

type CreateCheckoutRequest struct {
	Items    []types.LineItem `json:"items" validate:"dive"`
	Payer    *PayerOverride   `json:"payer,omitempty"`
	SellerID string           `json:"seller_id,omitempty" validate:"max=64"`
}

type CheckoutResult struct {
	TransactionID     string `json:"transaction_id"`
	ExternalReference string `json:"external_reference"`
	PreferenceID      string `json:"preference_id"`
	InitPoint         string `json:"init_point"`
	SandboxInitPoint  string `json:"sandbox_init_point"`
}

type CreateSubscriptionRequest struct {
	PlanID     string `json:"plan_id" validate:"required,max=64"`
	PayerEmail string `json:"payer_email" validate:"required,email"`
}

type SubscriptionResult struct {
	SubscriptionID       string                   `json:"subscription_id"`
	ExternalReference    string                   `json:"external_reference"`
	VendorSubscriptionID string                   `json:"vendor_subscription_id"`
	InitPoint            string                   `json:"init_point"`
	Status               types.SubscriptionStatus `json:"status"`
	VendorStatus         string                   `json:"vendor_status"`
}
