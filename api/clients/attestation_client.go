package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ruteri/eas-attestation-api/api"
	"github.com/ruteri/eas-attestation-api/interfaces"
)

// ReceiptIDHeader mirrors the header the API sets on archived writes.
const ReceiptIDHeader = "X-Receipt-Id"

// APIError is a non-2xx response of the attestation API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("attestation api returned %d: %s", e.StatusCode, e.Message)
}

// WriteResult is the outcome of a write call.
type WriteResult struct {
	UID interfaces.UID

	// ReceiptID is empty when the server has no receipt archive.
	ReceiptID string
}

// AttestationClient calls the attestation HTTP API.
type AttestationClient struct {
	rest *resty.Client
}

// NewAttestationClient creates a client for the API served at baseURL
// (e.g. "http://localhost:8080").
func NewAttestationClient(baseURL string, timeout time.Duration) *AttestationClient {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &AttestationClient{rest: rest}
}

// RegisterSchema registers a schema and returns its UID.
func (c *AttestationClient) RegisterSchema(ctx context.Context, schema string, revocable bool) (*WriteResult, error) {
	var result api.TypedResponse[interfaces.UID]
	resp, err := c.post(ctx, "/register-schema", api.RegisterSchemaRequest{Schema: schema, Revocable: &revocable}, &result)
	if err != nil {
		return nil, err
	}
	return &WriteResult{UID: result.Message, ReceiptID: resp.Header().Get(ReceiptIDHeader)}, nil
}

// Attest creates an attestation and returns its UID.
func (c *AttestationClient) Attest(ctx context.Context, req *api.AttestRequest) (*WriteResult, error) {
	var result api.TypedResponse[interfaces.UID]
	resp, err := c.post(ctx, "/onchain-attest", req, &result)
	if err != nil {
		return nil, err
	}
	return &WriteResult{UID: result.Message, ReceiptID: resp.Header().Get(ReceiptIDHeader)}, nil
}

// Revoke revokes an attestation and returns the receipt ID, if any.
func (c *AttestationClient) Revoke(ctx context.Context, schemaUID, attestationUID interfaces.UID) (string, error) {
	var result api.TypedResponse[string]
	resp, err := c.post(ctx, "/revoke-onchain-attest", api.RevokeRequest{
		SchemaUID:      schemaUID.String(),
		AttestationUID: attestationUID.String(),
	}, &result)
	if err != nil {
		return "", err
	}
	return resp.Header().Get(ReceiptIDHeader), nil
}

// SchemaInfo fetches a schema record.
func (c *AttestationClient) SchemaInfo(ctx context.Context, uid interfaces.UID) (*interfaces.SchemaRecord, error) {
	var result api.TypedResponse[interfaces.SchemaRecord]
	if err := c.get(ctx, "/schema-info", map[string]string{"schemaUID": uid.String()}, &result); err != nil {
		return nil, err
	}
	return &result.Message, nil
}

// AttestationInfo fetches an attestation with its decoded data.
func (c *AttestationClient) AttestationInfo(ctx context.Context, uid interfaces.UID) (*api.AttestationInfo, error) {
	var result api.TypedResponse[api.AttestationInfo]
	if err := c.get(ctx, "/attestation-info", map[string]string{"attestUID": uid.String()}, &result); err != nil {
		return nil, err
	}
	return &result.Message, nil
}

// Receipt fetches an archived receipt.
func (c *AttestationClient) Receipt(ctx context.Context, id interfaces.ContentID, kind interfaces.ContentType) (*interfaces.Receipt, error) {
	var result api.TypedResponse[interfaces.Receipt]
	if err := c.get(ctx, "/receipts/"+id.String(), map[string]string{"kind": kind.String()}, &result); err != nil {
		return nil, err
	}
	return &result.Message, nil
}

func (c *AttestationClient) post(ctx context.Context, path string, body, result any) (*resty.Response, error) {
	var apiErr api.Response
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		SetError(&apiErr).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("could not request %s: %w", path, err)
	}
	return resp, checkResponse(resp, &apiErr)
}

func (c *AttestationClient) get(ctx context.Context, path string, query map[string]string, result any) error {
	var apiErr api.Response
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(result).
		SetError(&apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("could not request %s: %w", path, err)
	}
	return checkResponse(resp, &apiErr)
}

func checkResponse(resp *resty.Response, apiErr *api.Response) error {
	if !resp.IsError() {
		return nil
	}
	message, ok := apiErr.Message.(string)
	if !ok {
		message = http.StatusText(resp.StatusCode())
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: message}
}
