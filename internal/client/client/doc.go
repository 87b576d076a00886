// Package client contains the client-side connection to the mailgate
// account API.
//
// GRPCClient dials the server with the JSON codec, keeps the session token
// returned by Register or Login in memory and attaches it to every call via
// a unary interceptor. gRPC status codes are mapped to the sentinel errors
// in errors.go.
package client
