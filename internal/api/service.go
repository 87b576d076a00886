package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "mailgate.AccountService"

// Full method names, as seen by interceptors.
const (
	MethodPing          = "/" + ServiceName + "/Ping"
	MethodRegister      = "/" + ServiceName + "/Register"
	MethodLogin         = "/" + ServiceName + "/Login"
	MethodLogout        = "/" + ServiceName + "/Logout"
	MethodGetAccount    = "/" + ServiceName + "/GetAccount"
	MethodSetForwarding = "/" + ServiceName + "/SetForwarding"
	MethodListMessages  = "/" + ServiceName + "/ListMessages"
	MethodDeleteMessage = "/" + ServiceName + "/DeleteMessage"
)

// AccountServiceServer is implemented by the RPC server.
type AccountServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error)
	SetForwarding(context.Context, *SetForwardingRequest) (*SetForwardingResponse, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
	DeleteMessage(context.Context, *DeleteMessageRequest) (*DeleteMessageResponse, error)
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountServiceDesc, srv)
}

// unary adapts a typed server method to grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(AccountServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(AccountServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*Req))
		})
	}
}

var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, AccountServiceServer.Ping)},
		{MethodName: "Register", Handler: unary(MethodRegister, AccountServiceServer.Register)},
		{MethodName: "Login", Handler: unary(MethodLogin, AccountServiceServer.Login)},
		{MethodName: "Logout", Handler: unary(MethodLogout, AccountServiceServer.Logout)},
		{MethodName: "GetAccount", Handler: unary(MethodGetAccount, AccountServiceServer.GetAccount)},
		{MethodName: "SetForwarding", Handler: unary(MethodSetForwarding, AccountServiceServer.SetForwarding)},
		{MethodName: "ListMessages", Handler: unary(MethodListMessages, AccountServiceServer.ListMessages)},
		{MethodName: "DeleteMessage", Handler: unary(MethodDeleteMessage, AccountServiceServer.DeleteMessage)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mailgate/account",
}

// AccountServiceClient is the client side of AccountService. The connection
// must use Codec, e.g. via grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})).
type AccountServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error)
	SetForwarding(ctx context.Context, in *SetForwardingRequest, opts ...grpc.CallOption) (*SetForwardingResponse, error)
	ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error)
	DeleteMessage(ctx context.Context, in *DeleteMessageRequest, opts ...grpc.CallOption) (*DeleteMessageResponse, error)
}

type accountServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountServiceClient(cc grpc.ClientConnInterface) AccountServiceClient {
	return &accountServiceClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingRequest, PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *accountServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterRequest, RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *accountServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginRequest, LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *accountServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutRequest, LogoutResponse](ctx, c.cc, MethodLogout, in, opts)
}

func (c *accountServiceClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error) {
	return invoke[GetAccountRequest, GetAccountResponse](ctx, c.cc, MethodGetAccount, in, opts)
}

func (c *accountServiceClient) SetForwarding(ctx context.Context, in *SetForwardingRequest, opts ...grpc.CallOption) (*SetForwardingResponse, error) {
	return invoke[SetForwardingRequest, SetForwardingResponse](ctx, c.cc, MethodSetForwarding, in, opts)
}

func (c *accountServiceClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	return invoke[ListMessagesRequest, ListMessagesResponse](ctx, c.cc, MethodListMessages, in, opts)
}

func (c *accountServiceClient) DeleteMessage(ctx context.Context, in *DeleteMessageRequest, opts ...grpc.CallOption) (*DeleteMessageResponse, error) {
	return invoke[DeleteMessageRequest, DeleteMessageResponse](ctx, c.cc, MethodDeleteMessage, in, opts)
}
