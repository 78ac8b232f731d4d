// Package signals maps process signals onto application lifecycle events.
//
// SIGHUP asks the application to restart its settings lifecycle (re-run the
// startup reconciliation, as after a reset). SIGINT and SIGTERM ask it to
// shut down. Handlers run on the goroutine executing Handle, in registration
// order, each protected against panics.
package signals

import (
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// sigChan is buffered to avoid missing signals delivered while no receiver is ready.
var sigChan = make(chan os.Signal, 1)

// Handler is a function called when a signal is received.
type Handler func()

// HandlerID is a unique identifier returned by registration functions,
// used to deregister individual handlers.
type HandlerID int

type registeredHandler struct {
	id HandlerID
	fn Handler
}

var (
	mu         sync.RWMutex
	restarters []registeredHandler
	shutdowns  []registeredHandler
	nextID     HandlerID
	stopOnce   sync.Once
)

// RegisterRestartHandler registers a handler called on SIGHUP.
// Nil handlers are silently ignored and return -1.
func RegisterRestartHandler(f Handler) HandlerID {
	return register(&restarters, f)
}

// DeregisterRestartHandler removes a previously registered restart handler.
func DeregisterRestartHandler(id HandlerID) {
	deregister(&restarters, id)
}

// RegisterShutdownHandler registers a handler called on SIGINT/SIGTERM.
// Nil handlers are silently ignored and return -1.
func RegisterShutdownHandler(f Handler) HandlerID {
	return register(&shutdowns, f)
}

// DeregisterShutdownHandler removes a previously registered shutdown handler.
func DeregisterShutdownHandler(id HandlerID) {
	deregister(&shutdowns, id)
}

func register(list *[]registeredHandler, f Handler) HandlerID {
	if f == nil {
		return -1
	}
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	*list = append(*list, registeredHandler{id: id, fn: f})
	return id
}

func deregister(list *[]registeredHandler, id HandlerID) {
	mu.Lock()
	defer mu.Unlock()
	for i, h := range *list {
		if h.id == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

func handleRestart() {
	run("restart", &restarters)
}

func handleShutdown() {
	run("shutdown", &shutdowns)
}

func run(kind string, list *[]registeredHandler) {
	mu.RLock()
	snapshot := make([]registeredHandler, len(*list))
	copy(snapshot, *list)
	mu.RUnlock()
	for _, h := range snapshot {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(logger.Fields{
						"at":      "signals.run",
						"handler": kind,
						"panic":   fmt.Sprint(r),
					}).Error("recovered panic in signal handler")
				}
			}()
			h.fn()
		}()
	}
}

// StopHandle closes the signal channel, causing Handle() to return.
// Safe to call multiple times; only the first call takes effect.
func StopHandle() {
	stopOnce.Do(func() {
		signal.Stop(sigChan)
		close(sigChan)
	})
}
