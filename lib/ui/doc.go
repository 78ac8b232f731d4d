// Package ui is the terminal presentation of settingsync. It shows the
// one-time welcome box until the user dismisses it and a label with the
// effective endpoint, refreshed whenever the store changes or the
// application restarts.
package ui
