// Package config loads roster's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/roster/config.toml
//  3. If the file doesn't exist, fall back to Default()
//  4. If the file exists but fields are empty, use defaults for those fields
//
// The result is validated before it is returned; every violated field is
// listed in the error.
//
// # TOML Format
//
//	base_url = "https://jsonplaceholder.typicode.com"
//	timeout = "5s"
//	log_file = "~/.local/state/roster/roster.log"
//	debug = false
//	reconcile_create = false
//
// reconcile_create makes a successful create replace the optimistic
// placeholder instead of prepending the server's record next to it.
package config
