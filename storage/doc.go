// Package storage archives transaction receipts in content-addressed storage.
//
// Every receipt is JSON encoded and stored under the SHA-256 hash of its
// encoding, in a namespace per receipt kind (schema, attestation,
// revocation). Backends are created from location URIs:
//
//	file:///var/lib/eas-receipts
//	s3://[ACCESS_KEY:SECRET_KEY@]bucket/prefix?region=eu-west-1
//	ipfs://127.0.0.1:5001/eas-receipts?timeout=30s
//	vault://[TOKEN@]vault.internal:8200/secret/eas-receipts?tls=true
//
// Several locations are combined into a MultiStorageBackend which writes to
// all available backends and reads from the first that has the content.
// ReceiptArchive sits on top and handles the receipt encoding:
//
//	archive, err := storage.NewReceiptArchiveFromURIs(uris, log)
//	if err != nil {
//		return err
//	}
//	id, err := archive.Archive(ctx, receipt)
//	...
//	receipt, err = archive.Load(ctx, id, interfaces.AttestationReceiptType)
package storage
