package main

import (
	"context"
	"log/slog"
	"smm-wrapper/cmd/smm-cli/commands"
	"smm-wrapper/lib/serviceutil"
	"smm-wrapper/lib/telemetry"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()

	tel, telErr := telemetry.SetupFromEnv(ctx, "smm-cli")
	if telErr != nil {
		slog.Debug("telemetry disabled", "err", telErr)
	}

	err := commands.ExecuteContext(ctx)

	if telErr == nil {
		shutdownErr := tel.Shutdown(context.Background())
		if shutdownErr != nil {
			slog.Warn("failed to shutdown telemetry", "err", shutdownErr)
		}
	}
	cancel()

	if err != nil {
		serviceutil.Fatal("command failed", err)
	}
}
