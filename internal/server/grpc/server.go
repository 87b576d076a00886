// Package grpc serves the account API: registration, login and the
// session-gated mailbox operations.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/mailgate/internal/api"
	"github.com/dmitrijs2005/mailgate/internal/logging"
	"github.com/dmitrijs2005/mailgate/internal/server/models"
)

type accountSvc interface {
	Register(ctx context.Context, username, password string) (*models.Account, error)
	Login(ctx context.Context, username, password string) (string, *models.Account, error)
	StartSession(ctx context.Context, username string) (string, error)
	Logout(ctx context.Context, token string) error
}

type mailboxSvc interface {
	GetAccount(ctx context.Context, token, username string) (*models.Account, error)
	ListMessages(ctx context.Context, token, username string) ([]*models.Message, error)
	SetForwarding(ctx context.Context, token, username, address string) error
	DeleteMessage(ctx context.Context, token, username, id string) error
}

type GRPCServer struct {
	address  string
	accounts accountSvc
	mailbox  mailboxSvc
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as accountSvc, ms mailboxSvc) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: as,
		mailbox:  ms,
	}
}

// newServer builds the grpc.Server with the JSON codec and the session
// interceptor, and registers the account service on it.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ForceServerCodec(api.Codec{}),
		grpc.ChainUnaryInterceptor(s.sessionTokenInterceptor),
	)
	api.RegisterAccountServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
