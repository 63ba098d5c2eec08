package flags

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/eas-attestation-api/api"
	"github.com/ruteri/eas-attestation-api/common"
	"github.com/urfave/cli/v2"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String(LogServiceFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger) *api.HTTPServerConfig {
	drainDuration := time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second
	txTimeout := cCtx.Duration(TxTimeoutFlag.Name)

	return &api.HTTPServerConfig{
		ListenAddr:               cCtx.String(ListenAddrFlag.Name),
		MetricsAddr:              cCtx.String(MetricsAddrFlag.Name),
		EnablePprof:              cCtx.Bool(PprofFlag.Name),
		CORSOrigins:              cCtx.StringSlice(CORSOriginsFlag.Name),
		Log:                      logger,
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: txTimeout + 30*time.Second,
		ReadTimeout:              60 * time.Second,
		// Writes block until the transaction is mined.
		WriteTimeout: txTimeout + 30*time.Second,
	}
}

func ConfigureEAS(cCtx *cli.Context) *api.EASConfig {
	return &api.EASConfig{
		RPCURL:           cCtx.String(RpcAddrFlag.Name),
		EASAddress:       cCtx.String(EASContractFlag.Name),
		RegistryAddress:  cCtx.String(RegistryContractFlag.Name),
		AdminPrivateKey:  cCtx.String(AdminPrivateKeyFlag.Name),
		DefaultRecipient: cCtx.String(DefaultRecipientFlag.Name),
		TxTimeout:        cCtx.Duration(TxTimeoutFlag.Name),
	}
}

func ConfigureReceipts(cCtx *cli.Context) *api.ReceiptConfig {
	return &api.ReceiptConfig{
		StorageURIs: cCtx.StringSlice(ReceiptStorageFlag.Name),
		AMQPURL:     cCtx.String(AMQPURLFlag.Name),
		Exchange:    cCtx.String(AMQPExchangeFlag.Name),
	}
}

var RpcAddrFlag = &cli.StringFlag{
	Name:    "rpc-addr",
	Value:   "http://127.0.0.1:8545",
	Usage:   "Ethereum JSON-RPC endpoint",
	EnvVars: []string{"ALCHEMY_URL"},
}

var EASContractFlag = &cli.StringFlag{
	Name:     "eas-contract",
	Required: true,
	Usage:    "EAS contract address",
	EnvVars:  []string{"EAS_CONTRACT_ADDRESS"},
}

var RegistryContractFlag = &cli.StringFlag{
	Name:     "registry-contract",
	Required: true,
	Usage:    "SchemaRegistry contract address",
	EnvVars:  []string{"REGISTRY_CONTRACT_ADDRESS"},
}

var AdminPrivateKeyFlag = &cli.StringFlag{
	Name:    "admin-private-key",
	Usage:   "hex-encoded key signing registrations, attestations and revocations. Without it the API is read-only",
	EnvVars: []string{"ADMIN_PRIVATE_KEY"},
}

var DefaultRecipientFlag = &cli.StringFlag{
	Name:    "default-recipient",
	Usage:   "recipient of attestations that do not name one (zero address if unset)",
	EnvVars: []string{"DEFAULT_RECIPIENT"},
}

var TxTimeoutFlag = &cli.DurationFlag{
	Name:  "tx-timeout",
	Value: api.DefaultTxTimeout,
	Usage: "how long to wait for a transaction to be mined",
}

var ListenAddrFlag = &cli.StringFlag{
	Name:    "listen-addr",
	Value:   "127.0.0.1:8080",
	Usage:   "address to listen on for API",
	EnvVars: []string{"LISTEN_ADDR"},
}

var CORSOriginsFlag = &cli.StringSliceFlag{
	Name:  "cors-origin",
	Value: cli.NewStringSlice("*"),
	Usage: "origin allowed to call the API from a browser, may be repeated",
}

var ReceiptStorageFlag = &cli.StringSliceFlag{
	Name:    "receipt-storage",
	Usage:   "storage backend URI for receipts (file://, s3://, ipfs://, vault://), may be repeated",
	EnvVars: []string{"RECEIPT_STORAGE"},
}

var AMQPURLFlag = &cli.StringFlag{
	Name:    "amqp-url",
	Usage:   "RabbitMQ URL to publish receipts to",
	EnvVars: []string{"AMQP_URL"},
}

var AMQPExchangeFlag = &cli.StringFlag{
	Name:  "amqp-exchange",
	Value: api.DefaultReceiptExchange,
	Usage: "topic exchange receipts are published to",
}

var APIURLFlag = &cli.StringFlag{
	Name:    "api-url",
	Value:   "http://127.0.0.1:8080",
	Usage:   "attestation API base URL",
	EnvVars: []string{"EAS_API_URL"},
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: common.PackageName,
	Usage: "add 'service' tag to logs",
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics",
}

var LogFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
}

var ServerFlags = []cli.Flag{
	ListenAddrFlag,
	MetricsAddrFlag,
	PprofFlag,
	DrainSecondsFlag,
	CORSOriginsFlag,
}

var EASFlags = []cli.Flag{
	RpcAddrFlag,
	EASContractFlag,
	RegistryContractFlag,
	AdminPrivateKeyFlag,
	DefaultRecipientFlag,
	TxTimeoutFlag,
}

var ReceiptFlags = []cli.Flag{
	ReceiptStorageFlag,
	AMQPURLFlag,
	AMQPExchangeFlag,
}
