// Package config loads runtime configuration for the mailgate CLI.
//
// Sources, later ones winning: built-in defaults, an optional JSON or YAML
// file selected with -c/-config, then the -a (server address) and -t
// (request timeout) flags.
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s"
//	}
package config
