// Package app provides the lifecycle controller that owns the key store,
// the settings reconciler and the settings panel bridge.
//
// # Serialization
//
// Every writer outside the controller (the panel watcher, signal handlers,
// the terminal UI and CLI commands) goes through Controller.Apply, which
// holds a single mutex for the duration of the write and the store
// notifications it triggers. Restart is reached from inside such a
// notification and therefore never takes that mutex itself; Reload is the
// entry point for callers that do not already hold it.
//
// # Basic Usage
//
//	c, err := app.NewFromConfig(config.CurrentConfig())
//	if err != nil {
//		log.Fatalf("startup failed: %v", err)
//	}
//	defer c.Close()
//
//	if err := c.Start(); err != nil {
//		log.Fatalf("startup failed: %v", err)
//	}
//	c.Wait()
package app
