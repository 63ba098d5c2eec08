package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ruteri/eas-attestation-api/interfaces"
)

// ReceiptArchive keeps JSON receipts of on-chain writes in a storage backend.
type ReceiptArchive struct {
	backend interfaces.StorageBackend
	log     *slog.Logger
}

func NewReceiptArchive(backend interfaces.StorageBackend, log *slog.Logger) *ReceiptArchive {
	return &ReceiptArchive{backend: backend, log: log}
}

// NewReceiptArchiveFromURIs builds an archive over every URI. It returns nil
// and no error when no URIs are configured.
func NewReceiptArchiveFromURIs(uris []string, log *slog.Logger) (*ReceiptArchive, error) {
	if len(uris) == 0 {
		return nil, nil
	}

	locations, err := ParseLocations(uris)
	if err != nil {
		return nil, err
	}
	backend, err := NewStorageBackendFactory(log).CreateMultiBackend(locations)
	if err != nil {
		return nil, err
	}

	log.Info("receipt archive enabled", "location", backend.LocationURI())
	return NewReceiptArchive(backend, log), nil
}

// Archive stores the receipt under its kind and returns its content ID.
func (a *ReceiptArchive) Archive(ctx context.Context, receipt *interfaces.Receipt) (interfaces.ContentID, error) {
	data, err := json.Marshal(receipt)
	if err != nil {
		return interfaces.ContentID{}, fmt.Errorf("could not marshal receipt: %w", err)
	}

	id, err := a.backend.Store(ctx, data, receipt.Kind)
	if err != nil {
		return id, err
	}

	a.log.Debug("archived receipt", "kind", receipt.Kind, "uid", receipt.UID, "contentID", id)
	return id, nil
}

// Load fetches an archived receipt.
func (a *ReceiptArchive) Load(ctx context.Context, id interfaces.ContentID, kind interfaces.ContentType) (*interfaces.Receipt, error) {
	data, err := a.backend.Fetch(ctx, id, kind)
	if err != nil {
		return nil, err
	}

	var receipt interfaces.Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, fmt.Errorf("could not unmarshal receipt %s: %w", id, err)
	}
	return &receipt, nil
}
