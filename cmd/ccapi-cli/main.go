package main

import (
	"context"
	"fmt"
	"os"

	"ccapi/cmd/ccapi-cli/commands"
	"ccapi/lib/serviceutil"
	"ccapi/lib/telemetry"
)

func main() {
	tel, err := telemetry.SetupFromEnv(context.Background(), "ccapi-cli")
	if err == nil {
		serviceutil.OnExit(func() {
			tel.Shutdown(context.Background())
		})
	}

	err = commands.ExecuteContext(serviceutil.SignalContext())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		serviceutil.Exit(1)
	}
	serviceutil.Exit(0)
}
