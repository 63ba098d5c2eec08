package attesthandler

// Response messages. They are part of the API contract: clients match on them.
const (
	MsgInvalidBody             = "Invalid request body"
	MsgSchemaFormat            = "Field 'schema' has incorrect format"
	MsgSchemaUIDFormat         = "Field 'schemaUID' has incorrect format"
	MsgAttestUIDFormat         = "Field 'attestUID' has incorrect format"
	MsgAttestationUIDFormat    = "Field 'attestationUID' has incorrect format"
	MsgLengthMismatch          = "Field 'schema' and 'data' must contain the same number of elements"
	MsgDataFormat              = "Field 'data' has incorrect format"
	MsgTransactionFailed       = "Transaction failed"
	MsgSchemaAlreadyRegistered = "Schema already registered"
	MsgLaunchFailed            = "Something went wrong while launching the transaction"
	MsgRevoked                 = "Attestation revoked successfully"
	MsgSomethingWentWrong      = "Something went wrong"
	MsgUnknownAttestation      = "Unknown attestation UID"
	MsgUnknownReceipt          = "Unknown receipt"
)

// FieldFormatMessage is the message returned for a malformed request field.
func FieldFormatMessage(field string) string {
	return "Field '" + field + "' has incorrect format"
}
