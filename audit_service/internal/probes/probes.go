// Package probes signals liveness and readiness to the orchestrator through files,
// for workers that expose no HTTP endpoint.
package probes

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// MarkReady creates the readiness file.
func MarkReady(path string) error {
	if err := touch(path); err != nil {
		return fmt.Errorf("failed to create readiness file: %w", err)
	}
	return nil
}

// Clear removes the probe files, a missing file is not an error.
func Clear(logger *slog.Logger, paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove probe file", "path", path, "error", err)
		}
	}
}

// RunLiveness touches the liveness file every interval until ctx is done.
func RunLiveness(ctx context.Context, path string, interval time.Duration, logger *slog.Logger) error {
	if err := touch(path); err != nil {
		return fmt.Errorf("failed to create liveness file: %w", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := touch(path); err != nil {
				logger.Error("failed to update liveness file", "path", path, "error", err)
			}
		}
	}
}

func touch(path string) error {
	now := time.Now()
	if err := os.Chtimes(path, now, now); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(now.UTC().Format(time.RFC3339)), 0o644)
}
