package storage

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ruteri/eas-attestation-api/interfaces"
)

// StorageBackendFactory creates receipt storage backends from location URIs.
type StorageBackendFactory struct {
	log *slog.Logger
}

var _ interfaces.StorageBackendFactory = (*StorageBackendFactory)(nil)

func NewStorageBackendFactory(log *slog.Logger) *StorageBackendFactory {
	return &StorageBackendFactory{log: log}
}

// StorageBackendFor creates a storage backend from a location URI.
//
// Supported schemes:
//   - file:///var/lib/eas-receipts
//   - s3://[ACCESS_KEY:SECRET_KEY@]bucket/prefix?region=eu-west-1&endpoint=http://minio:9000&pathStyle=true
//   - ipfs://127.0.0.1:5001/eas-receipts?timeout=30s
//   - vault://[TOKEN@]vault.internal:8200/secret/eas-receipts?tls=true
func (sf *StorageBackendFactory) StorageBackendFor(loc interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	u, err := url.Parse(loc.Raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	sf.log.Debug("Creating storage backend", "scheme", loc.Scheme, "host", loc.Host)

	switch {
	case loc.IsFile():
		return sf.createFileBackend(u)
	case loc.IsS3():
		return sf.createS3Backend(loc, u)
	case loc.IsIPFS():
		return sf.createIPFSBackend(u)
	case loc.IsVault():
		return sf.createVaultBackend(u)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", interfaces.ErrInvalidLocationURI, loc.Scheme)
	}
}

// CreateMultiBackend creates a backend writing to every location. Locations
// that cannot be turned into a backend are logged and skipped.
func (sf *StorageBackendFactory) CreateMultiBackend(locations []interfaces.StorageBackendLocation) (interfaces.StorageBackend, error) {
	backends := make([]interfaces.StorageBackend, 0, len(locations))
	for _, loc := range locations {
		backend, err := sf.StorageBackendFor(loc)
		if err != nil {
			sf.log.Warn("Failed to create storage backend", "err", err, "location", redact(loc.Raw))
			continue
		}
		backends = append(backends, backend)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("%w: no valid storage backends", interfaces.ErrInvalidLocationURI)
	}
	return NewMultiStorageBackend(backends, sf.log), nil
}

// ParseLocations parses a list of URIs, failing on the first invalid one.
func ParseLocations(uris []string) ([]interfaces.StorageBackendLocation, error) {
	locations := make([]interfaces.StorageBackendLocation, 0, len(uris))
	for _, uri := range uris {
		loc, err := interfaces.NewStorageBackendLocation(uri)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", interfaces.ErrInvalidLocationURI, redact(uri), err)
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

func (sf *StorageBackendFactory) createFileBackend(u *url.URL) (interfaces.StorageBackend, error) {
	path := u.Path
	if u.Host != "" {
		// file://./relative/dir
		path = u.Host + "/" + strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path in file URI", interfaces.ErrInvalidLocationURI)
	}
	return NewFileBackend(path, sf.log)
}

func (sf *StorageBackendFactory) createS3Backend(loc interfaces.StorageBackendLocation, u *url.URL) (interfaces.StorageBackend, error) {
	if loc.Host == "" {
		return nil, fmt.Errorf("%w: missing S3 bucket", interfaces.ErrInvalidLocationURI)
	}

	opts := S3Options{
		Bucket:    loc.Host,
		Prefix:    loc.Path,
		Region:    loc.GetParam("region"),
		Endpoint:  loc.GetParam("endpoint"),
		PathStyle: loc.GetParamBool("pathStyle"),
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	if u.User != nil {
		opts.AccessKey = u.User.Username()
		opts.SecretKey, _ = u.User.Password()
	}

	return NewS3Backend(opts, sf.log)
}

func (sf *StorageBackendFactory) createIPFSBackend(u *url.URL) (interfaces.StorageBackend, error) {
	host := u.Host
	if u.Port() == "" {
		host += ":5001"
	}

	timeout := 30 * time.Second
	if t := u.Query().Get("timeout"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid IPFS timeout: %v", interfaces.ErrInvalidLocationURI, err)
		}
		timeout = d
	}

	root := u.Path
	if strings.Trim(root, "/") == "" {
		root = "/eas-receipts"
	}
	return NewIPFSBackend(host, root, timeout, sf.log), nil
}

func (sf *StorageBackendFactory) createVaultBackend(u *url.URL) (interfaces.StorageBackend, error) {
	mount, dataPath, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	if mount == "" {
		return nil, fmt.Errorf("%w: missing Vault mount path", interfaces.ErrInvalidLocationURI)
	}

	scheme := "http"
	if u.Query().Get("tls") == "true" {
		scheme = "https"
	}

	var token string
	if u.User != nil {
		token = u.User.Username()
	}

	return NewVaultBackend(scheme+"://"+u.Host, mount, dataPath, token, sf.log)
}

// redact drops credentials from a URI before it is logged.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<invalid uri>"
	}
	if u.User != nil {
		u.User = url.User("xxxxx")
	}
	return u.String()
}
