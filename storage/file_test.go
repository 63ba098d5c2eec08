package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruteri/eas-attestation-api/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileBackend_StoreFetch(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir, testLogger())
	require.NoError(t, err)
	require.True(t, backend.Available(context.Background()))

	for _, ct := range interfaces.AllContentTypes {
		assert.DirExists(t, filepath.Join(dir, ct.String()))
	}

	data := []byte(`{"kind":"attestation"}`)
	id, err := backend.Store(context.Background(), data, interfaces.AttestationReceiptType)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeID(data), id)

	fetched, err := backend.Fetch(context.Background(), id, interfaces.AttestationReceiptType)
	require.NoError(t, err)
	assert.Equal(t, data, fetched)

	// Kinds are separate namespaces.
	_, err = backend.Fetch(context.Background(), id, interfaces.SchemaReceiptType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)

	// Storing the same content twice is idempotent.
	again, err := backend.Store(context.Background(), data, interfaces.AttestationReceiptType)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestFileBackend_DetectsTampering(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir, testLogger())
	require.NoError(t, err)

	id, err := backend.Store(context.Background(), []byte("original"), interfaces.RevocationReceiptType)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(backend.filePath(id, interfaces.RevocationReceiptType), []byte("tampered"), 0o644))
	_, err = backend.Fetch(context.Background(), id, interfaces.RevocationReceiptType)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestStorageBackendFactory(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())
	dir := t.TempDir()

	tests := []struct {
		uri      string
		wantName string
		wantErr  bool
	}{
		{uri: "file://" + dir, wantName: "file-" + filepath.Base(dir)},
		{uri: "s3://receipts/eas?region=eu-west-1", wantName: "s3-receipts"},
		{uri: "s3://AKIA:secret@receipts?endpoint=http://127.0.0.1:9000&pathStyle=true", wantName: "s3-receipts"},
		{uri: "ipfs://127.0.0.1/receipts", wantName: "ipfs-127.0.0.1:5001"},
		{uri: "ipfs://127.0.0.1:5002?timeout=bogus", wantErr: true},
		{uri: "vault://token@127.0.0.1:8200/secret/eas", wantName: "vault-secret-eas"},
		{uri: "vault://127.0.0.1:8200", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			loc, err := interfaces.NewStorageBackendLocation(tt.uri)
			require.NoError(t, err)

			backend, err := factory.StorageBackendFor(loc)
			if tt.wantErr {
				assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, backend.Name())
		})
	}
}

func TestParseLocations(t *testing.T) {
	_, err := ParseLocations([]string{"file:///tmp/a", "github://owner/repo"})
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	locations, err := ParseLocations([]string{"file:///tmp/a", "s3://bucket"})
	require.NoError(t, err)
	assert.Len(t, locations, 2)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "vault://xxxxx@vault:8200/secret", redact("vault://s.token@vault:8200/secret"))
	assert.Equal(t, "s3://xxxxx@bucket/p", redact("s3://AKIA:secret@bucket/p"))
	assert.Equal(t, "file:///tmp", redact("file:///tmp"))
}
