package easclient

import (
	"context"

	"github.com/ruteri/eas-attestation-api/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockClient mocks the AttestationService interface
type MockClient struct {
	mock.Mock
}

var _ interfaces.AttestationService = (*MockClient)(nil)

// RegisterSchema mocks the RegisterSchema method
func (m *MockClient) RegisterSchema(ctx context.Context, schema string, revocable bool) (*TxResult, error) {
	args := m.Called(ctx, schema, revocable)
	res, _ := args.Get(0).(*TxResult)
	return res, args.Error(1)
}

// GetSchema mocks the GetSchema method
func (m *MockClient) GetSchema(ctx context.Context, uid UID) (*interfaces.SchemaRecord, error) {
	args := m.Called(ctx, uid)
	res, _ := args.Get(0).(*interfaces.SchemaRecord)
	return res, args.Error(1)
}

// Attest mocks the Attest method
func (m *MockClient) Attest(ctx context.Context, req *interfaces.AttestationRequest) (*TxResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*TxResult)
	return res, args.Error(1)
}

// GetAttestation mocks the GetAttestation method
func (m *MockClient) GetAttestation(ctx context.Context, uid UID) (*interfaces.Attestation, error) {
	args := m.Called(ctx, uid)
	res, _ := args.Get(0).(*interfaces.Attestation)
	return res, args.Error(1)
}

// Revoke mocks the Revoke method
func (m *MockClient) Revoke(ctx context.Context, schemaUID UID, attestationUID UID) (*TxResult, error) {
	args := m.Called(ctx, schemaUID, attestationUID)
	res, _ := args.Get(0).(*TxResult)
	return res, args.Error(1)
}
