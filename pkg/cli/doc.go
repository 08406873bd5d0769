// Package cli builds the series-registry command tree.
//
// The root command carries a persistent --config flag. Subcommands:
//
//	serve             run the HTTP API (and optional frontend)
//	subscribers list  print the stored subscriber list
//	version           print build information
package cli
