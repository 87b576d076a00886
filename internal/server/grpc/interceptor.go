package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/dmitrijs2005/mailgate/internal/common"
)

type ctxKey string

const sessionTokenKey ctxKey = "sessionToken"

// sessionTokenInterceptor copies the session token from the incoming
// metadata into the request context. Authorization happens in the mailbox
// service, so a missing token is passed through as empty.
func (s *GRPCServer) sessionTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.SessionTokenHeaderName); len(values) > 0 {
			token = values[0]
		}
	}

	ctx = context.WithValue(ctx, sessionTokenKey, token)
	return handler(ctx, req)
}

func sessionToken(ctx context.Context) string {
	token, _ := ctx.Value(sessionTokenKey).(string)
	return token
}
