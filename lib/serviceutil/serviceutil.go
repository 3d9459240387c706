package serviceutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Returns a context that will live until Ctrl+C is pressed
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

var (
	exitLock  sync.Mutex
	exitHooks []func()
)

// OnExit registers fn to run when the process leaves through Exit or Fatal,
// hooks run last registered first.
func OnExit(fn func()) {
	exitLock.Lock()
	defer exitLock.Unlock()
	exitHooks = append(exitHooks, fn)
}

func runExitHooks() {
	exitLock.Lock()
	hooks := exitHooks
	exitHooks = nil
	exitLock.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// Exit runs the exit hooks and then terminates the process with code.
func Exit(code int) {
	runExitHooks()
	os.Exit(code)
}

func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	Exit(1)
}
