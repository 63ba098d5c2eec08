/*
Package httpserver runs the attestation API.

The server mounts the API handler routes on a chi router behind the
flashbots slog access logger and a per-route request counter, adds health
and drain endpoints, and optionally serves pprof and CORS headers. Prometheus
metrics are served on a separate address.

# Endpoints

  - API routes, see package attesthandler
  - GET /livez - Liveness check
  - GET /readyz - Readiness check, 503 while draining
  - GET /drain - Mark server as not ready
  - GET /undrain - Mark server as ready
  - /debug/pprof/* - When EnablePprof is set

# Example Usage

	registry := prometheus.NewRegistry()
	m := metrics.InitMetrics(common.PackageName, registry)

	cfg := &api.HTTPServerConfig{
		ListenAddr:               ":8080",
		MetricsAddr:              ":9090",
		CORSOrigins:              []string{"*"},
		Log:                      logger,
		DrainDuration:            30 * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              5 * time.Second,
		WriteTimeout:             3 * time.Minute,
	}

	handler := attesthandler.NewHandler(easClient, logger, attesthandler.WithMetrics(m))
	server := httpserver.New(cfg, handler, m, registry)
	server.RunInBackground()
	defer server.Shutdown()

Writes wait for the transaction to be mined, so WriteTimeout must exceed the
transaction timeout of the EAS client.
*/
package httpserver
