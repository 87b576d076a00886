package client

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/mailgate/internal/api"
	"github.com/dmitrijs2005/mailgate/internal/common"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.AccountServiceClient

	mu       sync.RWMutex
	token    string
	username string
}

func withSessionToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.SessionTokenHeaderName)
	if token != "" {
		md.Set(common.SessionTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) sessionTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	return invoker(withSessionToken(ctx, token), method, req, reply, cc, opts...)
}

func NewMailgateClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(api.Codec{})),
		grpc.WithUnaryInterceptor(s.sessionTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewAccountServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) setSession(username, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.token = token
}

// Username returns the logged-in account name, or "" when logged out.
func (s *GRPCClient) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *GRPCClient) currentUser() (string, error) {
	u := s.Username()
	if u == "" {
		return "", ErrNotLoggedIn
	}
	return u, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

// Register creates the account and keeps the session it returns.
func (s *GRPCClient) Register(ctx context.Context, username, password string) error {

	resp, err := s.client.Register(ctx, &api.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return s.mapError(err)
	}

	s.setSession(resp.Username, resp.Token)
	return nil

}

func (s *GRPCClient) Login(ctx context.Context, username, password string) error {

	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return s.mapError(err)
	}

	s.setSession(resp.Username, resp.Token)
	return nil

}

// Logout destroys the server session. The local session is dropped even
// when the server call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	if _, err := s.currentUser(); err != nil {
		return err
	}

	_, err := s.client.Logout(ctx, &api.LogoutRequest{})
	s.setSession("", "")
	if err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Account(ctx context.Context) (*api.Account, error) {
	u, err := s.currentUser()
	if err != nil {
		return nil, err
	}

	resp, err := s.client.GetAccount(ctx, &api.GetAccountRequest{Username: u})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Account, nil
}

// SetForwarding sets the forwarding address, or clears it when address is
// empty, and returns the stored value.
func (s *GRPCClient) SetForwarding(ctx context.Context, address string) (string, error) {
	u, err := s.currentUser()
	if err != nil {
		return "", err
	}

	resp, err := s.client.SetForwarding(ctx, &api.SetForwardingRequest{Username: u, Address: address})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.ForwardingAddress, nil
}

func (s *GRPCClient) ListMessages(ctx context.Context) ([]api.Message, error) {
	u, err := s.currentUser()
	if err != nil {
		return nil, err
	}

	resp, err := s.client.ListMessages(ctx, &api.ListMessagesRequest{Username: u})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Messages, nil
}

func (s *GRPCClient) DeleteMessage(ctx context.Context, id string) (bool, error) {
	u, err := s.currentUser()
	if err != nil {
		return false, err
	}

	resp, err := s.client.DeleteMessage(ctx, &api.DeleteMessageRequest{Username: u, ID: id})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Deleted, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
