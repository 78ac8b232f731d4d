// Package settings implements the reconciliation engine between build-time
// metadata, the user-editable settings panel and the runtime key store.
//
// # Namespaces
//
// Keys are split into two closed enumerations. InfoKey covers build-time
// metadata (build, version, copyright) plus the application's own runtime
// flags (did-open-app, endpoint). SettingKey covers what the settings panel
// shows: the mirrored metadata plus the user-editable reset flag and
// endpoint.
//
// # Policy
//
//   - Initialize (cold start, and after every restart): handle a pending
//     reset, force-sync metadata into the Setting namespace, and seed the
//     Setting endpoint from the Info endpoint or DefaultEndpoint.
//   - OnStoreChanged (every store write): a set reset flag wins and triggers
//     Reset followed by Restarter.Restart; otherwise a diverging Setting
//     endpoint is copied into the Info endpoint.
//
// Empty strings read from any store are treated as absent.
package settings
