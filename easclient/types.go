package easclient

import "github.com/ruteri/eas-attestation-api/interfaces"

type (
	UID      = interfaces.UID
	TxResult = interfaces.TxResult
)
