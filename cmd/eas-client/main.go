package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/eas-attestation-api/api"
	"github.com/ruteri/eas-attestation-api/api/attesthandler"
	"github.com/ruteri/eas-attestation-api/api/clients"
	"github.com/ruteri/eas-attestation-api/cmd/flags"
	"github.com/ruteri/eas-attestation-api/interfaces"
	"github.com/ruteri/eas-attestation-api/schema"
	"github.com/urfave/cli/v2"
)

var flagSchema = &cli.StringFlag{
	Name:     "schema",
	Required: true,
	Usage:    "schema string, e.g. \"uint256 score, bool passed\"",
}
var flagSchemaUID = &cli.StringFlag{
	Name:  "schema-uid",
	Usage: "0x-prefixed 32-byte schema UID",
}
var flagAttestationUID = &cli.StringFlag{
	Name:     "attestation-uid",
	Required: true,
	Usage:    "0x-prefixed 32-byte attestation UID",
}
var flagData = &cli.StringFlag{
	Name:  "data",
	Usage: "JSON array with one value per schema field, e.g. '[1, true]'",
}
var flagIrrevocable = &cli.BoolFlag{
	Name:  "irrevocable",
	Usage: "register an irrevocable schema, or make an irrevocable attestation",
}
var flagRecipient = &cli.StringFlag{
	Name:  "recipient",
	Usage: "attestation recipient address (server default if unset)",
}
var flagExpiration = &cli.Uint64Flag{
	Name:  "expiration-time",
	Usage: "attestation expiration as unix seconds, 0 for none",
}
var flagRefUID = &cli.StringFlag{
	Name:  "ref-uid",
	Usage: "UID of a referenced attestation",
}
var flagReceiptID = &cli.StringFlag{
	Name:     "id",
	Required: true,
	Usage:    "receipt content ID as returned in the X-Receipt-Id header",
}
var flagReceiptKind = &cli.StringFlag{
	Name:  "kind",
	Value: interfaces.AttestationReceiptType.String(),
	Usage: "receipt kind: schema, attestation or revocation",
}
var flagTimeout = &cli.DurationFlag{
	Name:  "timeout",
	Value: api.DefaultTxTimeout,
	Usage: "request timeout, writes wait for the transaction to be mined",
}

const usage string = `Registers schemas, creates, revokes and inspects attestations through the
attestation API. The validate command runs the API's input checks offline.`

func main() {
	app := &cli.App{
		Name:  "eas-client",
		Usage: usage,
		Flags: []cli.Flag{
			flags.APIURLFlag,
			flagTimeout,
		},
		Commands: []*cli.Command{
			{
				Name:  "register-schema",
				Usage: "register a schema and print its UID",
				Flags: []cli.Flag{flagSchema, flagIrrevocable},
				Action: func(cCtx *cli.Context) error {
					res, err := newClient(cCtx).RegisterSchema(cCtx.Context, cCtx.String(flagSchema.Name), !cCtx.Bool(flagIrrevocable.Name))
					if err != nil {
						return fmt.Errorf("registration failed: %w", err)
					}
					return printJSON(res)
				},
			},
			{
				Name:  "attest",
				Usage: "create an on-chain attestation and print its UID",
				Flags: []cli.Flag{flagSchema, requiredSchemaUID(), flagData, flagRecipient, flagExpiration, flagIrrevocable, flagRefUID},
				Action: func(cCtx *cli.Context) error {
					req, err := attestRequest(cCtx)
					if err != nil {
						return err
					}
					res, err := newClient(cCtx).Attest(cCtx.Context, req)
					if err != nil {
						return fmt.Errorf("attestation failed: %w", err)
					}
					return printJSON(res)
				},
			},
			{
				Name:  "revoke",
				Usage: "revoke an attestation",
				Flags: []cli.Flag{requiredSchemaUID(), flagAttestationUID},
				Action: func(cCtx *cli.Context) error {
					schemaUID, err := parseUIDFlag(cCtx, flagSchemaUID.Name)
					if err != nil {
						return err
					}
					attestationUID, err := parseUIDFlag(cCtx, flagAttestationUID.Name)
					if err != nil {
						return err
					}
					receiptID, err := newClient(cCtx).Revoke(cCtx.Context, schemaUID, attestationUID)
					if err != nil {
						return fmt.Errorf("revocation failed: %w", err)
					}
					return printJSON(map[string]string{"uid": attestationUID.String(), "receiptID": receiptID})
				},
			},
			{
				Name:  "schema-info",
				Usage: "print a registered schema",
				Flags: []cli.Flag{requiredSchemaUID()},
				Action: func(cCtx *cli.Context) error {
					uid, err := parseUIDFlag(cCtx, flagSchemaUID.Name)
					if err != nil {
						return err
					}
					record, err := newClient(cCtx).SchemaInfo(cCtx.Context, uid)
					if err != nil {
						return fmt.Errorf("schema request failed: %w", err)
					}
					return printJSON(record)
				},
			},
			{
				Name:  "attestation-info",
				Usage: "print an attestation with its decoded data",
				Flags: []cli.Flag{flagAttestationUID},
				Action: func(cCtx *cli.Context) error {
					uid, err := parseUIDFlag(cCtx, flagAttestationUID.Name)
					if err != nil {
						return err
					}
					info, err := newClient(cCtx).AttestationInfo(cCtx.Context, uid)
					if err != nil {
						return fmt.Errorf("attestation request failed: %w", err)
					}
					return printJSON(info)
				},
			},
			{
				Name:  "receipt",
				Usage: "print an archived transaction receipt",
				Flags: []cli.Flag{flagReceiptID, flagReceiptKind},
				Action: func(cCtx *cli.Context) error {
					id, err := interfaces.NewContentIDFromHex(cCtx.String(flagReceiptID.Name))
					if err != nil {
						return fmt.Errorf("could not parse receipt id: %w", err)
					}
					kind, err := interfaces.ParseContentType(cCtx.String(flagReceiptKind.Name))
					if err != nil {
						return err
					}
					receipt, err := newClient(cCtx).Receipt(cCtx.Context, id, kind)
					if err != nil {
						return fmt.Errorf("receipt request failed: %w", err)
					}
					return printJSON(receipt)
				},
			},
			{
				Name:   "validate",
				Usage:  "check a schema, schema UID and data without calling the API, and print the encoded data",
				Flags:  []cli.Flag{flagSchema, flagSchemaUID, flagData, flagIrrevocable},
				Action: validate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func requiredSchemaUID() *cli.StringFlag {
	f := *flagSchemaUID
	f.Required = true
	return &f
}

func newClient(cCtx *cli.Context) *clients.AttestationClient {
	return clients.NewAttestationClient(cCtx.String(flags.APIURLFlag.Name), cCtx.Duration(flagTimeout.Name))
}

func parseUIDFlag(cCtx *cli.Context, name string) (schema.UID, error) {
	uid, err := schema.ParseUID(cCtx.String(name))
	if err != nil {
		return schema.UID{}, fmt.Errorf("--%s: %w", name, err)
	}
	return uid, nil
}

func parseData(raw string) ([]any, error) {
	if raw == "" {
		return nil, nil
	}
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	var data []any
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("--data must be a JSON array: %w", err)
	}
	return data, nil
}

func attestRequest(cCtx *cli.Context) (*api.AttestRequest, error) {
	data, err := parseData(cCtx.String(flagData.Name))
	if err != nil {
		return nil, err
	}

	req := &api.AttestRequest{
		Schema:    cCtx.String(flagSchema.Name),
		SchemaUID: cCtx.String(flagSchemaUID.Name),
		Data:      data,
	}
	if cCtx.IsSet(flagRecipient.Name) {
		recipient := cCtx.String(flagRecipient.Name)
		req.Recipient = &recipient
	}
	if cCtx.IsSet(flagExpiration.Name) {
		expiration := json.Number(fmt.Sprint(cCtx.Uint64(flagExpiration.Name)))
		req.ExpirationTime = &expiration
	}
	if cCtx.IsSet(flagIrrevocable.Name) {
		revocable := !cCtx.Bool(flagIrrevocable.Name)
		req.Revocable = &revocable
	}
	if cCtx.IsSet(flagRefUID.Name) {
		refUID := cCtx.String(flagRefUID.Name)
		req.RefUID = &refUID
	}
	return req, nil
}

type validationResult struct {
	Schema    string                `json:"schema"`
	SchemaUID schema.UID            `json:"schemaUID"`
	Fields    []schema.EncodedField `json:"fields,omitempty"`
	Data      hexutil.Bytes         `json:"data,omitempty"`
}

// validate applies the API's checks in the same order as the server.
func validate(cCtx *cli.Context) error {
	schemaStr := cCtx.String(flagSchema.Name)
	if !schema.ValidateSchema(schemaStr) {
		return errors.New(attesthandler.MsgSchemaFormat)
	}

	result := validationResult{
		Schema:    schemaStr,
		SchemaUID: schema.ComputeSchemaUID(schemaStr, common.Address{}, !cCtx.Bool(flagIrrevocable.Name)),
	}

	if cCtx.IsSet(flagSchemaUID.Name) {
		if _, err := parseUIDFlag(cCtx, flagSchemaUID.Name); err != nil {
			return errors.New(attesthandler.MsgSchemaUIDFormat)
		}
	}

	if cCtx.IsSet(flagData.Name) {
		data, err := parseData(cCtx.String(flagData.Name))
		if err != nil {
			return err
		}
		result.Fields, err = schema.Correlate(schemaStr, data)
		if err != nil {
			return errors.New(attesthandler.MsgLengthMismatch)
		}

		encoder, err := schema.NewEncoder(schemaStr)
		if err != nil {
			return err
		}
		result.Data, err = encoder.Encode(result.Fields)
		if err != nil {
			return fmt.Errorf("%s: %w", attesthandler.MsgDataFormat, err)
		}
	}

	return printJSON(result)
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
