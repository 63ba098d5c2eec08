// Package clients provides a Go client for the attestation HTTP API.
//
// Errors returned by the API surface as *APIError carrying the status code
// and the server message, so callers can match on the messages exported by
// the attesthandler package:
//
//	client := clients.NewAttestationClient("http://localhost:8080", 30*time.Second)
//	res, err := client.RegisterSchema(ctx, "uint256 score, bool passed", true)
//	var apiErr *clients.APIError
//	if errors.As(err, &apiErr) && apiErr.Message == attesthandler.MsgSchemaAlreadyRegistered {
//		// already there
//	}
package clients
