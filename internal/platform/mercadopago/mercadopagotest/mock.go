// Package mercadopagotest provides a testify mock of mercadopago.Client.
package mercadopagotest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fatflowers/marketpay/internal/platform/mercadopago"
)

type MockClient struct {
	mock.Mock
}

var _ mercadopago.Client = (*MockClient)(nil)

func (m *MockClient) CreatePreference(ctx context.Context, req *mercadopago.PreferenceRequest) (*mercadopago.Preference, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mercadopago.Preference), args.Error(1)
}

func (m *MockClient) CreatePreapproval(ctx context.Context, req *mercadopago.PreapprovalRequest) (*mercadopago.Preapproval, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mercadopago.Preapproval), args.Error(1)
}

func (m *MockClient) GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mercadopago.Payment), args.Error(1)
}

func (m *MockClient) GetPreapproval(ctx context.Context, preapprovalID string) (*mercadopago.Preapproval, error) {
	args := m.Called(ctx, preapprovalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mercadopago.Preapproval), args.Error(1)
}

func (m *MockClient) SearchPaymentsByExternalReference(ctx context.Context, ref string) ([]*mercadopago.Payment, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mercadopago.Payment), args.Error(1)
}
