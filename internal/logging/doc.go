// Package logging provides structured logging for the edit harness.
//
// It wraps log/slog with a JSON handler and carries persistent attributes
// (edit name, method) so every line written while an edit is patching a
// method can be correlated afterwards.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/logs", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	editLog := logger.WithEdit("QuickStackILEdit").WithMethod("Terraria.Player::QuickStackAllChests")
//	editLog.Warn("patch failed", "reason", reason)
//
// Pass an empty directory to log to stderr, or use [NewWriterLogger] to log to
// any io.Writer. [NopLogger] discards everything and is the default when a
// component is constructed without a logger.
package logging
