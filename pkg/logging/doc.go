// Package logging provides structured logging configuration for seedapi.
//
// This package wraps log/slog so every component logs the same way:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("server started", "addr", ":3000")
//	logger.Warn("cannot load seed", "error", err)
//
// Components accept a *slog.Logger in their constructor or through an option.
// If no logger is provided, use logging.Nop().
package logging
