// Package logging provides the logging facade used by the bridge.
//
// Two backends are available:
//
//	// log/slog, bound to slog.Default() when nil
//	logger := logging.New(nil)
//
//	// go.uber.org/zap
//	z, _ := zap.NewProduction()
//	logger := logging.NewZap(z)
//
// Host-supplied launch options and argument strings may carry credentials or
// room identifiers. Log them with Redacted instead of their value:
//
//	logger.Info(ctx, "launch options applied", logging.Redacted("options"))
package logging
