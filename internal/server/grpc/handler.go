package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mailgate/internal/api"
	"github.com/dmitrijs2005/mailgate/internal/common"
	"github.com/dmitrijs2005/mailgate/internal/server/models"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request", "username", req.Username)

	account, err := s.accounts.Register(ctx, req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, common.ErrorValidation) && !errors.Is(err, common.ErrUsernameTaken) {
			s.logger.Error(ctx, "registration failed", "username", req.Username, "error", err)
		}
		return nil, toStatus(err)
	}

	token, err := s.accounts.StartSession(ctx, account.Username)
	if err != nil {
		s.logger.Error(ctx, "session start failed", "username", account.Username, "error", err)
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "username", account.Username)
	return &api.RegisterResponse{Username: account.Username, Token: token}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	token, account, err := s.accounts.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.LoginResponse{Username: account.Username, Token: token}, nil

}

func (s *GRPCServer) Logout(ctx context.Context, req *api.LogoutRequest) (*api.LogoutResponse, error) {

	if err := s.accounts.Logout(ctx, sessionToken(ctx)); err != nil {
		return nil, toStatus(err)
	}

	return &api.LogoutResponse{}, nil

}

func (s *GRPCServer) GetAccount(ctx context.Context, req *api.GetAccountRequest) (*api.GetAccountResponse, error) {

	account, err := s.mailbox.GetAccount(ctx, sessionToken(ctx), req.Username)
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.GetAccountResponse{Account: accountToAPI(account)}, nil

}

func (s *GRPCServer) SetForwarding(ctx context.Context, req *api.SetForwardingRequest) (*api.SetForwardingResponse, error) {

	token := sessionToken(ctx)
	if err := s.mailbox.SetForwarding(ctx, token, req.Username, req.Address); err != nil {
		return nil, toStatus(err)
	}

	account, err := s.mailbox.GetAccount(ctx, token, req.Username)
	if err != nil {
		return nil, toStatus(err)
	}

	addr, _ := account.ForwardsTo()
	return &api.SetForwardingResponse{ForwardingAddress: addr}, nil

}

func (s *GRPCServer) ListMessages(ctx context.Context, req *api.ListMessagesRequest) (*api.ListMessagesResponse, error) {

	msgs, err := s.mailbox.ListMessages(ctx, sessionToken(ctx), req.Username)
	if err != nil {
		return nil, toStatus(err)
	}

	out := make([]api.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageToAPI(m))
	}

	return &api.ListMessagesResponse{Messages: out}, nil

}

func (s *GRPCServer) DeleteMessage(ctx context.Context, req *api.DeleteMessageRequest) (*api.DeleteMessageResponse, error) {

	err := s.mailbox.DeleteMessage(ctx, sessionToken(ctx), req.Username, req.ID)
	if errors.Is(err, common.ErrorNotFound) {
		return &api.DeleteMessageResponse{Deleted: false}, nil
	}
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.DeleteMessageResponse{Deleted: true}, nil

}

func accountToAPI(a *models.Account) api.Account {
	addr, _ := a.ForwardsTo()
	return api.Account{Username: a.Username, ForwardingAddress: addr, CreatedAt: a.CreatedAt}
}

func messageToAPI(m *models.Message) api.Message {
	return api.Message{
		ID:            m.ID,
		Subject:       m.Subject,
		Body:          m.Body,
		SenderAddress: m.SenderAddress,
		ReceivedAt:    m.ReceivedAt,
	}
}
