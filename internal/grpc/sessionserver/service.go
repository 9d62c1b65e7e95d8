package sessionserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "munchers.v1.SessionService"

const (
	SessionService_CreateSession_FullMethodName  = "/" + ServiceName + "/CreateSession"
	SessionService_StartGame_FullMethodName      = "/" + ServiceName + "/StartGame"
	SessionService_Move_FullMethodName           = "/" + ServiceName + "/Move"
	SessionService_Munch_FullMethodName          = "/" + ServiceName + "/Munch"
	SessionService_Tick_FullMethodName           = "/" + ServiceName + "/Tick"
	SessionService_Quit_FullMethodName           = "/" + ServiceName + "/Quit"
	SessionService_GetState_FullMethodName       = "/" + ServiceName + "/GetState"
	SessionService_CloseSession_FullMethodName   = "/" + ServiceName + "/CloseSession"
	SessionService_GetLeaderboard_FullMethodName = "/" + ServiceName + "/GetLeaderboard"
	SessionService_WatchSession_FullMethodName   = "/" + ServiceName + "/WatchSession"
)

// SessionServiceServer is the server API for the session service.
// Requests and responses are google.protobuf.Struct messages.
type SessionServiceServer interface {
	CreateSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Move(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Munch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Tick(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Quit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLeaderboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchSession(*structpb.Struct, grpc.ServerStreamingServer[structpb.Struct]) error
}

// RegisterSessionServiceServer registers srv with s
func RegisterSessionServiceServer(s grpc.ServiceRegistrar, srv SessionServiceServer) {
	s.RegisterService(&SessionService_ServiceDesc, srv)
}

type unaryMethod func(SessionServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a unary method to grpc's handler signature, running
// it through the server's interceptor chain when one is installed.
func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SessionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SessionServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchSessionHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(structpb.Struct)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(SessionServiceServer).WatchSession(m, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}

// SessionService_ServiceDesc is the grpc.ServiceDesc for the session service
var SessionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SessionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateSession", Handler: unaryHandler(SessionService_CreateSession_FullMethodName, SessionServiceServer.CreateSession)},
		{MethodName: "StartGame", Handler: unaryHandler(SessionService_StartGame_FullMethodName, SessionServiceServer.StartGame)},
		{MethodName: "Move", Handler: unaryHandler(SessionService_Move_FullMethodName, SessionServiceServer.Move)},
		{MethodName: "Munch", Handler: unaryHandler(SessionService_Munch_FullMethodName, SessionServiceServer.Munch)},
		{MethodName: "Tick", Handler: unaryHandler(SessionService_Tick_FullMethodName, SessionServiceServer.Tick)},
		{MethodName: "Quit", Handler: unaryHandler(SessionService_Quit_FullMethodName, SessionServiceServer.Quit)},
		{MethodName: "GetState", Handler: unaryHandler(SessionService_GetState_FullMethodName, SessionServiceServer.GetState)},
		{MethodName: "CloseSession", Handler: unaryHandler(SessionService_CloseSession_FullMethodName, SessionServiceServer.CloseSession)},
		{MethodName: "GetLeaderboard", Handler: unaryHandler(SessionService_GetLeaderboard_FullMethodName, SessionServiceServer.GetLeaderboard)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchSession",
			Handler:       watchSessionHandler,
			ServerStreams: true,
		},
	},
	Metadata: "munchers/v1/session.proto",
}

// SessionServiceClient is the client API for the session service
type SessionServiceClient interface {
	CreateSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	StartGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Move(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Munch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Tick(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Quit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CloseSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetLeaderboard(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	WatchSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error)
}

type sessionServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSessionServiceClient creates a client over cc
func NewSessionServiceClient(cc grpc.ClientConnInterface) SessionServiceClient {
	return &sessionServiceClient{cc}
}

func (c *sessionServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sessionServiceClient) CreateSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionService_CreateSession_FullMethodName, in, opts)
}

func (c *sessionServiceClient) StartGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionService_StartGame_FullMethodName, in, opts)
}

func (c *sessionServiceClient) Move(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionService_Move_FullMethodName, in, opts)
}

func (c *sessionServiceClient) Munch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionService_Munch_FullMethodName, in, opts)
}

func (c *sessionServiceClient) Tick(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionService_Tick_FullMethodName, in, opts)
}

func (c *sessionServiceClient) Quit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionService_Quit_FullMethodName, in, opts)
}

func (c *sessionServiceClient) GetState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionService_GetState_FullMethodName, in, opts)
}

func (c *sessionServiceClient) CloseSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionService_CloseSession_FullMethodName, in, opts)
}

func (c *sessionServiceClient) GetLeaderboard(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SessionService_GetLeaderboard_FullMethodName, in, opts)
}

func (c *sessionServiceClient) WatchSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &SessionService_ServiceDesc.Streams[0], SessionService_WatchSession_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
