// Package api defines the mailgate account RPC contract: request and
// response types, the JSON wire codec and the gRPC service descriptor shared
// by the server and the client.
package api
