package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ruteri/eas-attestation-api/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// objectStore is an in-memory key/value store behind the fake servers.
type objectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newObjectStore() *objectStore {
	return &objectStore{objects: make(map[string][]byte)}
}

func (s *objectStore) put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
}

func (s *objectStore) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// fakeS3 serves path-style PUT/GET object and HEAD bucket requests.
func fakeS3(t *testing.T, bucket string) (*httptest.Server, *objectStore) {
	store := newObjectStore()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := strings.CutPrefix(r.URL.Path, "/"+bucket)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		key = strings.TrimPrefix(key, "/")

		switch {
		case r.Method == http.MethodHead && key == "":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut:
			data, _ := io.ReadAll(r.Body)
			store.put(key, data)
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet:
			data, ok := store.get(key)
			if !ok {
				w.Header().Set("Content-Type", "application/xml")
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
				return
			}
			w.Write(data)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestS3Backend(t *testing.T) {
	srv, store := fakeS3(t, "receipts")

	backend, err := NewS3Backend(S3Options{
		Bucket:    "receipts",
		Prefix:    "/eas/",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
		PathStyle: true,
	}, testLogger())
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, backend.Available(ctx))
	assert.Equal(t, "s3://receipts/eas?region=us-east-1", backend.LocationURI())

	data := []byte(`{"kind":"schema"}`)
	id, err := backend.Store(ctx, data, interfaces.SchemaReceiptType)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeID(data), id)

	stored, ok := store.get("eas/schema/" + id.String() + ".json")
	require.True(t, ok)
	assert.Equal(t, data, stored)

	fetched, err := backend.Fetch(ctx, id, interfaces.SchemaReceiptType)
	require.NoError(t, err)
	assert.Equal(t, data, fetched)

	_, err = backend.Fetch(ctx, id, interfaces.RevocationReceiptType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestS3Backend_FromLocation(t *testing.T) {
	srv, store := fakeS3(t, "receipts")

	loc, err := interfaces.NewStorageBackendLocation("s3://test:test@receipts/eas?region=us-east-1&pathStyle=1&endpoint=" + srv.URL)
	require.NoError(t, err)

	backend, err := NewStorageBackendFactory(testLogger()).StorageBackendFor(loc)
	require.NoError(t, err)

	data := []byte(`{"kind":"attestation"}`)
	id, err := backend.Store(context.Background(), data, interfaces.AttestationReceiptType)
	require.NoError(t, err)

	_, ok := store.get("eas/attestation/" + id.String() + ".json")
	assert.True(t, ok, "path-style request should reach the bucket path")
}

// fakeVault serves a KV v2 mount and the health endpoint.
func fakeVault(t *testing.T, sealed bool) (*httptest.Server, *objectStore) {
	store := newObjectStore()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/sys/health" {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"initialized": true, "sealed": sealed})
			return
		}
		if r.Header.Get("X-Vault-Token") != "root" {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/v1/")
		switch r.Method {
		case http.MethodPut, http.MethodPost:
			var body struct {
				Data map[string]string `json:"data"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			store.put(path, []byte(body.Data["content"]))
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			data, ok := store.get(path)
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"data": map[string]any{"content": string(data)}},
			})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestVaultBackend(t *testing.T) {
	srv, store := fakeVault(t, false)

	backend, err := NewVaultBackend(srv.URL, "/secret/", "eas-receipts", "root", testLogger())
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, backend.Available(ctx))

	data := []byte(`{"kind":"attestation"}`)
	id, err := backend.Store(ctx, data, interfaces.AttestationReceiptType)
	require.NoError(t, err)

	_, ok := store.get("secret/data/eas-receipts/attestation/" + id.String())
	require.True(t, ok)

	fetched, err := backend.Fetch(ctx, id, interfaces.AttestationReceiptType)
	require.NoError(t, err)
	assert.Equal(t, data, fetched)

	_, err = backend.Fetch(ctx, id, interfaces.SchemaReceiptType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestVaultBackend_Sealed(t *testing.T) {
	srv, _ := fakeVault(t, true)

	backend, err := NewVaultBackend(srv.URL, "secret", "", "root", testLogger())
	require.NoError(t, err)
	assert.False(t, backend.Available(context.Background()))
}

// fakeIPFS serves the MFS subset of the IPFS HTTP API used by IPFSBackend.
func fakeIPFS(t *testing.T) (*httptest.Server, *objectStore) {
	store := newObjectStore()
	writeError := func(w http.ResponseWriter, msg string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"Message": msg, "Code": 0, "Type": "error"})
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arg := r.URL.Query().Get("arg")
		switch r.URL.Path {
		case "/api/v0/version":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"Version":"0.20.0","Commit":"","Repo":"14","System":"amd64/linux","Golang":"go1.21"}`)
		case "/api/v0/id":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"ID":"12D3KooWtest"}`)
		case "/api/v0/files/write":
			mr, err := r.MultipartReader()
			if err != nil {
				writeError(w, err.Error())
				return
			}
			part, err := mr.NextPart()
			if err != nil {
				writeError(w, err.Error())
				return
			}
			data, _ := io.ReadAll(part)
			store.put(arg, data)
			w.WriteHeader(http.StatusOK)
		case "/api/v0/files/stat":
			if _, ok := store.get(arg); !ok {
				writeError(w, "file does not exist")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"Hash":"QmTest","Size":1,"CumulativeSize":1,"Blocks":0,"Type":"file"}`)
		case "/api/v0/files/read":
			data, ok := store.get(arg)
			if !ok {
				writeError(w, "file does not exist")
				return
			}
			w.Header().Set("Content-Type", "text/plain")
			w.Write(data)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestIPFSBackend(t *testing.T) {
	srv, store := fakeIPFS(t)

	backend := NewIPFSBackend(strings.TrimPrefix(srv.URL, "http://"), "eas-receipts/", 5*time.Second, testLogger())

	ctx := context.Background()
	assert.True(t, backend.Available(ctx))

	data := []byte(`{"kind":"revocation"}`)
	id, err := backend.Store(ctx, data, interfaces.RevocationReceiptType)
	require.NoError(t, err)

	_, ok := store.get("/eas-receipts/revocation/" + id.String() + ".json")
	require.True(t, ok)

	fetched, err := backend.Fetch(ctx, id, interfaces.RevocationReceiptType)
	require.NoError(t, err)
	assert.Equal(t, data, fetched)

	_, err = backend.Fetch(ctx, id, interfaces.SchemaReceiptType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}
