package attesthandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/ruteri/eas-attestation-api/api"
	"github.com/ruteri/eas-attestation-api/interfaces"
	"github.com/ruteri/eas-attestation-api/metrics"
	"github.com/ruteri/eas-attestation-api/schema"
)

// MaxBodySize caps request bodies.
const MaxBodySize = 1 << 20

// ReceiptIDHeader carries the content ID of the archived receipt of a write.
const ReceiptIDHeader = "X-Receipt-Id"

// Archiver stores and loads receipts of on-chain writes.
type Archiver interface {
	Archive(ctx context.Context, receipt *interfaces.Receipt) (interfaces.ContentID, error)
	Load(ctx context.Context, id interfaces.ContentID, kind interfaces.ContentType) (*interfaces.Receipt, error)
}

// Handler serves the attestation API: schema registration, attestation,
// revocation and lookups. Requests are validated before any on-chain call.
type Handler struct {
	eas       interfaces.AttestationService
	archive   Archiver
	publisher interfaces.ReceiptPublisher
	metrics   *metrics.Metrics
	recipient common.Address
	log       *slog.Logger
	now       func() time.Time
}

type Option func(*Handler)

// WithArchive archives a receipt of every successful write and serves them on /receipts.
func WithArchive(archive Archiver) Option {
	return func(h *Handler) { h.archive = archive }
}

// WithPublisher publishes a receipt of every successful write.
func WithPublisher(publisher interfaces.ReceiptPublisher) Option {
	return func(h *Handler) { h.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithDefaultRecipient sets the recipient of attestations that do not name one.
func WithDefaultRecipient(recipient common.Address) Option {
	return func(h *Handler) { h.recipient = recipient }
}

func NewHandler(eas interfaces.AttestationService, log *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		eas: eas,
		log: log,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes configures the HTTP router with the attestation endpoints:
//   - POST /register-schema
//   - POST /onchain-attest (and its alias POST /attest)
//   - POST /revoke-onchain-attest
//   - GET|POST /schema-info
//   - GET|POST /attestation-info
//   - GET /receipts/{content_id}, when an archive is configured
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/register-schema", h.HandleRegisterSchema)
	r.Post("/onchain-attest", h.HandleAttest)
	r.Post("/attest", h.HandleAttest)
	r.Post("/revoke-onchain-attest", h.HandleRevoke)
	r.Get("/schema-info", h.HandleSchemaInfo)
	r.Post("/schema-info", h.HandleSchemaInfo)
	r.Get("/attestation-info", h.HandleAttestationInfo)
	r.Post("/attestation-info", h.HandleAttestationInfo)
	if h.archive != nil {
		r.Get("/receipts/{content_id}", h.HandleReceipt)
	}
}

// HandleRegisterSchema registers a schema and responds with its UID.
//
// Request: {"schema": "uint256 score, bool passed", "revocable": true}
func (h *Handler) HandleRegisterSchema(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterSchemaRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if !schema.ValidateSchema(req.Schema) {
		h.reject(w, "schema", MsgSchemaFormat)
		return
	}

	revocable := true
	if req.Revocable != nil {
		revocable = *req.Revocable
	}

	res, err := h.eas.RegisterSchema(r.Context(), req.Schema, revocable)
	if errors.Is(err, interfaces.ErrSchemaAlreadyRegistered) {
		h.writeMessage(w, http.StatusBadRequest, MsgSchemaAlreadyRegistered)
		return
	}
	if err != nil {
		h.log.Error("Failed to register schema", "err", err, "schema", req.Schema)
		h.writeMessage(w, http.StatusBadRequest, MsgTransactionFailed)
		return
	}

	h.log.Info("Registered schema", "uid", res.UID, "tx", res.TxHash)
	h.recordReceipt(r.Context(), w, &interfaces.Receipt{
		Kind:      interfaces.SchemaReceiptType,
		UID:       res.UID,
		SchemaUID: res.UID,
		Schema:    req.Schema,
		TxHash:    res.TxHash,
	})
	h.writeMessage(w, http.StatusOK, res.UID)
}

// HandleAttest validates the schema, schema UID and data, encodes the data
// and creates an on-chain attestation. It responds with the attestation UID.
//
// Request: {"schema": "...", "schemaUID": "0x...", "data": [...], "recipient": "0x...",
// "expirationTime": 0, "revocable": true, "refUID": "0x..."}
func (h *Handler) HandleAttest(w http.ResponseWriter, r *http.Request) {
	var req api.AttestRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if !schema.ValidateSchema(req.Schema) {
		h.reject(w, "schema", MsgSchemaFormat)
		return
	}

	schemaUID, err := schema.ParseUID(req.SchemaUID)
	if err != nil {
		h.reject(w, "schemaUID", MsgSchemaUIDFormat)
		return
	}

	fields, err := schema.Correlate(req.Schema, req.Data)
	if err != nil {
		h.reject(w, "data", MsgLengthMismatch)
		return
	}

	attestation, field := h.attestationRequest(&req)
	if field != "" {
		h.reject(w, field, FieldFormatMessage(field))
		return
	}
	attestation.Schema = schemaUID

	encoder, err := schema.NewEncoder(req.Schema)
	if err != nil {
		h.reject(w, "schema", MsgSchemaFormat)
		return
	}
	attestation.Data, err = encoder.Encode(fields)
	if err != nil {
		h.log.Debug("Rejected attestation data", "err", err)
		h.reject(w, "data", MsgDataFormat)
		return
	}

	res, err := h.eas.Attest(r.Context(), attestation)
	if err != nil {
		h.log.Error("Failed to attest", "err", err, "schemaUID", schemaUID)
		h.writeMessage(w, http.StatusBadRequest, MsgLaunchFailed)
		return
	}

	h.log.Info("Created attestation", "uid", res.UID, "schemaUID", schemaUID, "tx", res.TxHash)
	h.recordReceipt(r.Context(), w, &interfaces.Receipt{
		Kind:      interfaces.AttestationReceiptType,
		UID:       res.UID,
		SchemaUID: schemaUID,
		Schema:    req.Schema,
		TxHash:    res.TxHash,
		Data:      attestation.Data,
		Fields:    fields,
	})
	h.writeMessage(w, http.StatusOK, res.UID)
}

// attestationRequest applies the optional attestation fields over the
// defaults. It returns the name of the first malformed field, if any.
func (h *Handler) attestationRequest(req *api.AttestRequest) (*interfaces.AttestationRequest, string) {
	out := &interfaces.AttestationRequest{
		Recipient: h.recipient,
		Revocable: true,
	}

	if req.Recipient != nil {
		if !common.IsHexAddress(*req.Recipient) {
			return nil, "recipient"
		}
		out.Recipient = common.HexToAddress(*req.Recipient)
	}
	if req.ExpirationTime != nil {
		expiration, err := strconv.ParseUint(req.ExpirationTime.String(), 10, 64)
		if err != nil {
			return nil, "expirationTime"
		}
		out.ExpirationTime = expiration
	}
	if req.Revocable != nil {
		out.Revocable = *req.Revocable
	}
	if req.RefUID != nil {
		if err := out.RefUID.UnmarshalText([]byte(*req.RefUID)); err != nil {
			return nil, "refUID"
		}
	}
	return out, ""
}

// HandleRevoke revokes an attestation.
//
// Request: {"schemaUID": "0x...", "attestationUID": "0x..."}
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	var req api.RevokeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	schemaUID, err := schema.ParseUID(req.SchemaUID)
	if err != nil {
		h.reject(w, "schemaUID", MsgSchemaUIDFormat)
		return
	}
	attestationUID, err := schema.ParseUID(req.AttestationUID)
	if err != nil {
		h.reject(w, "attestationUID", MsgAttestationUIDFormat)
		return
	}

	res, err := h.eas.Revoke(r.Context(), schemaUID, attestationUID)
	if err != nil {
		h.log.Error("Failed to revoke attestation", "err", err, "uid", attestationUID)
		h.writeMessage(w, http.StatusBadRequest, MsgSomethingWentWrong)
		return
	}

	h.log.Info("Revoked attestation", "uid", attestationUID, "tx", res.TxHash)
	h.recordReceipt(r.Context(), w, &interfaces.Receipt{
		Kind:      interfaces.RevocationReceiptType,
		UID:       attestationUID,
		SchemaUID: schemaUID,
		TxHash:    res.TxHash,
	})
	h.writeMessage(w, http.StatusOK, MsgRevoked)
}

// HandleSchemaInfo responds with the registry record of a schema.
// The UID is read from the schemaUID query parameter, or from the JSON body on POST.
func (h *Handler) HandleSchemaInfo(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("schemaUID")
	if r.Method == http.MethodPost {
		var req api.SchemaInfoRequest
		if !h.decodeBody(w, r, &req) {
			return
		}
		raw = req.SchemaUID
	}

	uid, err := schema.ParseUID(raw)
	if err != nil {
		h.reject(w, "schemaUID", MsgSchemaUIDFormat)
		return
	}

	record, err := h.eas.GetSchema(r.Context(), uid)
	if err != nil {
		if !errors.Is(err, interfaces.ErrSchemaNotFound) {
			h.log.Error("Failed to get schema", "err", err, "uid", uid)
		}
		h.writeMessage(w, http.StatusBadRequest, MsgSomethingWentWrong)
		return
	}

	h.writeMessage(w, http.StatusOK, record)
}

// HandleAttestationInfo responds with an attestation and, when its schema can
// be resolved, its decoded data.
// The UID is read from the attestUID query parameter, or from the JSON body on POST.
func (h *Handler) HandleAttestationInfo(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("attestUID")
	if r.Method == http.MethodPost {
		var req api.AttestationInfoRequest
		if !h.decodeBody(w, r, &req) {
			return
		}
		raw = req.AttestUID
	}

	uid, err := schema.ParseUID(raw)
	if err != nil {
		h.reject(w, "attestUID", MsgAttestUIDFormat)
		return
	}

	attestation, err := h.eas.GetAttestation(r.Context(), uid)
	if errors.Is(err, interfaces.ErrAttestationNotFound) {
		h.writeMessage(w, http.StatusBadRequest, MsgUnknownAttestation)
		return
	}
	if err != nil {
		h.log.Error("Failed to get attestation", "err", err, "uid", uid)
		h.writeMessage(w, http.StatusBadRequest, MsgSomethingWentWrong)
		return
	}

	info := api.AttestationInfo{Attestation: *attestation}
	h.decodeAttestationData(r.Context(), &info)
	h.writeMessage(w, http.StatusOK, info)
}

// decodeAttestationData fills in the schema and decoded data on a best-effort basis.
func (h *Handler) decodeAttestationData(ctx context.Context, info *api.AttestationInfo) {
	record, err := h.eas.GetSchema(ctx, info.Schema)
	if err != nil {
		h.log.Debug("Could not resolve attestation schema", "err", err, "schemaUID", info.Schema)
		return
	}
	info.SchemaString = record.Schema

	encoder, err := schema.NewEncoder(record.Schema)
	if err != nil {
		// Registered by someone else with types this service does not encode.
		return
	}
	decoded, err := encoder.Decode(info.Data)
	if err != nil {
		h.log.Debug("Could not decode attestation data", "err", err, "uid", info.UID)
		return
	}
	info.DecodedData = decoded
}

// HandleReceipt serves an archived receipt.
//
// URL format: GET /receipts/{content_id}?kind=attestation
func (h *Handler) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := interfaces.NewContentIDFromHex(chi.URLParam(r, "content_id"))
	if err != nil {
		h.reject(w, "content_id", FieldFormatMessage("content_id"))
		return
	}

	kind := interfaces.AttestationReceiptType
	if raw := r.URL.Query().Get("kind"); raw != "" {
		kind, err = interfaces.ParseContentType(raw)
		if err != nil {
			h.reject(w, "kind", FieldFormatMessage("kind"))
			return
		}
	}

	receipt, err := h.archive.Load(r.Context(), id, kind)
	if errors.Is(err, interfaces.ErrContentNotFound) {
		h.writeMessage(w, http.StatusNotFound, MsgUnknownReceipt)
		return
	}
	if err != nil {
		h.log.Error("Failed to load receipt", "err", err, "contentID", id)
		h.writeMessage(w, http.StatusInternalServerError, MsgSomethingWentWrong)
		return
	}

	h.writeMessage(w, http.StatusOK, receipt)
}

// recordReceipt archives and publishes a receipt. Failures are logged and
// never fail the request: the transaction is already mined.
func (h *Handler) recordReceipt(ctx context.Context, w http.ResponseWriter, receipt *interfaces.Receipt) {
	receipt.Timestamp = h.now().UTC()

	if h.archive != nil {
		id, err := h.archive.Archive(ctx, receipt)
		if err != nil {
			h.log.Warn("Failed to archive receipt", "err", err, "kind", receipt.Kind, "uid", receipt.UID)
		} else {
			w.Header().Set(ReceiptIDHeader, id.String())
		}
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, receipt); err != nil {
			h.log.Warn("Failed to publish receipt", "err", err, "kind", receipt.Kind, "uid", receipt.UID)
		}
	}
}

// decodeBody reads a JSON body into dst, keeping numbers as json.Number so
// that uint256 values survive without float rounding.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	decoder.UseNumber()
	if err := decoder.Decode(dst); err != nil {
		h.log.Debug("Invalid request body", "err", err, "path", r.URL.Path)
		h.reject(w, "body", MsgInvalidBody)
		return false
	}
	return true
}

func (h *Handler) reject(w http.ResponseWriter, field, message string) {
	h.metrics.IncValidationFailure(field)
	h.writeMessage(w, http.StatusBadRequest, message)
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, message any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(api.Response{Message: message}); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}
