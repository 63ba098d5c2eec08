/*
Package easclient talks to the Ethereum Attestation Service contracts.

Client wraps the SchemaRegistry and EAS bindings and implements
interfaces.AttestationService. Reads go through eth_call, writes are signed
with the transact options set by SetTransactOpts and awaited until mined. The
UIDs of new schemas and attestations are taken from the events in the
transaction receipt.

Usage:

	client, err := easclient.NewFromConfig(ctx, log, &api.EASConfig{
		RPCURL:          "https://eth-sepolia.g.alchemy.com/v2/<key>",
		EASAddress:      "0xC2679fBD37d54388Ce493F1DB75320D236e1815e",
		RegistryAddress: "0x0a7E2Ff54e76B8E6659aedc9103FB21c038050D0",
		AdminPrivateKey: os.Getenv("ADMIN_PRIVATE_KEY"),
	})
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := client.RegisterSchema(ctx, "uint256 score, bool passed", true)

MockClient is a testify mock of the same interface for handler tests.
*/
package easclient
