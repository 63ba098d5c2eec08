package clients

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/ruteri/eas-attestation-api/api"
	"github.com/ruteri/eas-attestation-api/api/attesthandler"
	"github.com/ruteri/eas-attestation-api/easclient"
	"github.com/ruteri/eas-attestation-api/interfaces"
	"github.com/ruteri/eas-attestation-api/schema"
	"github.com/ruteri/eas-attestation-api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*AttestationClient, *easclient.MockClient) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend, err := storage.NewFileBackend(t.TempDir(), logger)
	require.NoError(t, err)

	eas := new(easclient.MockClient)
	handler := attesthandler.NewHandler(eas, logger,
		attesthandler.WithArchive(storage.NewReceiptArchive(backend, logger)))

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	t.Cleanup(func() { eas.AssertExpectations(t) })

	return NewAttestationClient(server.URL, 5*time.Second), eas
}

func TestAttestationClient_RegisterSchema(t *testing.T) {
	client, eas := newTestAPI(t)
	uid := schema.ComputeSchemaUID("bool flag", common.Address{}, true)

	eas.On("RegisterSchema", mock.Anything, "bool flag", true).Return(&easclient.TxResult{UID: uid}, nil).Once()

	res, err := client.RegisterSchema(context.Background(), "bool flag", true)
	require.NoError(t, err)
	assert.Equal(t, uid, res.UID)
	assert.Len(t, res.ReceiptID, 64)

	id, err := interfaces.NewContentIDFromHex(res.ReceiptID)
	require.NoError(t, err)
	receipt, err := client.Receipt(context.Background(), id, interfaces.SchemaReceiptType)
	require.NoError(t, err)
	assert.Equal(t, uid, receipt.UID)
	assert.Equal(t, "bool flag", receipt.Schema)
}

func TestAttestationClient_APIError(t *testing.T) {
	client, eas := newTestAPI(t)

	_, err := client.RegisterSchema(context.Background(), "noType field0", true)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, attesthandler.MsgSchemaFormat, apiErr.Message)

	eas.On("RegisterSchema", mock.Anything, "bool flag", true).Return(nil, interfaces.ErrSchemaAlreadyRegistered).Once()
	_, err = client.RegisterSchema(context.Background(), "bool flag", true)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, attesthandler.MsgSchemaAlreadyRegistered, apiErr.Message)
}

func TestAttestationClient_AttestAndRevoke(t *testing.T) {
	client, eas := newTestAPI(t)
	schemaUID := schema.UID{0x01}
	attestUID := schema.UID{0x02}

	eas.On("Attest", mock.Anything, mock.MatchedBy(func(req *interfaces.AttestationRequest) bool {
		return req.Schema == schemaUID && len(req.Data) == 32
	})).Return(&easclient.TxResult{UID: attestUID}, nil).Once()
	eas.On("Revoke", mock.Anything, schemaUID, attestUID).Return(&easclient.TxResult{UID: attestUID}, nil).Once()

	res, err := client.Attest(context.Background(), &api.AttestRequest{
		Schema:    "bool flag",
		SchemaUID: schemaUID.String(),
		Data:      []any{true},
	})
	require.NoError(t, err)
	assert.Equal(t, attestUID, res.UID)

	receiptID, err := client.Revoke(context.Background(), schemaUID, attestUID)
	require.NoError(t, err)
	assert.NotEmpty(t, receiptID)
}

func TestAttestationClient_Info(t *testing.T) {
	client, eas := newTestAPI(t)
	schemaUID := schema.UID{0x01}
	attestUID := schema.UID{0x02}

	encoder, err := schema.NewEncoder("string note")
	require.NoError(t, err)
	data, err := encoder.Encode([]schema.EncodedField{{Name: "note", Type: "string", Value: "hi"}})
	require.NoError(t, err)

	record := &interfaces.SchemaRecord{UID: schemaUID, Revocable: true, Schema: "string note"}
	eas.On("GetSchema", mock.Anything, schemaUID).Return(record, nil).Twice()
	eas.On("GetAttestation", mock.Anything, attestUID).
		Return(&interfaces.Attestation{UID: attestUID, Schema: schemaUID, Data: data}, nil).Once()

	gotSchema, err := client.SchemaInfo(context.Background(), schemaUID)
	require.NoError(t, err)
	assert.Equal(t, record, gotSchema)

	info, err := client.AttestationInfo(context.Background(), attestUID)
	require.NoError(t, err)
	assert.Equal(t, attestUID, info.UID)
	assert.Equal(t, "string note", info.SchemaString)
	assert.Equal(t, []schema.DecodedField{{Name: "note", Type: "string", Value: "hi"}}, info.DecodedData)
	assert.Equal(t, data, []byte(info.Data))
}

func TestAttestationClient_Unreachable(t *testing.T) {
	client := NewAttestationClient("http://127.0.0.1:1", time.Second)

	_, err := client.SchemaInfo(context.Background(), schema.UID{0x01})
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
