// Package app wires roster together.
//
// Run performs startup in this order:
//
//  1. Load and validate config (internal/config), applying the -base-url override
//  2. Build the zap logger writing to log_file (internal/logging)
//  3. Load preferences (internal/prefs)
//  4. Create the users API client (internal/users)
//  5. Hand everything to the Bubble Tea program (internal/ui) and block
//
// There is no background work: the UI fetches the list itself when it starts
// and on reload. Cancelling ctx (SIGINT/SIGTERM from cmd/roster) stops the
// program and aborts an in-flight list fetch.
package app
