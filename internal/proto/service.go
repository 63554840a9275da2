// Package proto describes the teamdeck.identity.v1.Identity gRPC service:
// its method names, typed messages, the server descriptor used for
// registration and the client stub. Messages travel as google.protobuf.Struct
// through the codec registered under CodecName.
package proto

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "teamdeck.identity.v1.Identity"

const (
	MethodPing           = "Ping"
	MethodCreateSession  = "CreateSession"
	MethodGetSession     = "GetSession"
	MethodGetAccount     = "GetAccount"
	MethodCreateJWT      = "CreateJWT"
	MethodUpdatePrefs    = "UpdatePrefs"
	MethodCreateUser     = "CreateUser"
	MethodDeleteSessions = "DeleteSessions"
)

// FullMethod returns the "/service/method" path gRPC uses on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// IdentityServer is implemented by the identity authority.
type IdentityServer interface {
	Ping(context.Context, *Empty) (*PingResponse, error)
	CreateSession(context.Context, *CreateSessionRequest) (*Session, error)
	GetSession(context.Context, *GetSessionRequest) (*Session, error)
	GetAccount(context.Context, *Empty) (*User, error)
	CreateJWT(context.Context, *Empty) (*JWT, error)
	UpdatePrefs(context.Context, *UpdatePrefsRequest) (*User, error)
	CreateUser(context.Context, *CreateUserRequest) (*User, error)
	DeleteSessions(context.Context, *Empty) (*Empty, error)
}

func unaryMethod[Req, Resp any](name string, call func(IdentityServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(IdentityServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(IdentityServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// IdentityServiceDesc is the grpc.ServiceDesc for the identity service.
var IdentityServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodPing, IdentityServer.Ping),
		unaryMethod(MethodCreateSession, IdentityServer.CreateSession),
		unaryMethod(MethodGetSession, IdentityServer.GetSession),
		unaryMethod(MethodGetAccount, IdentityServer.GetAccount),
		unaryMethod(MethodCreateJWT, IdentityServer.CreateJWT),
		unaryMethod(MethodUpdatePrefs, IdentityServer.UpdatePrefs),
		unaryMethod(MethodCreateUser, IdentityServer.CreateUser),
		unaryMethod(MethodDeleteSessions, IdentityServer.DeleteSessions),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "teamdeck/identity/v1/identity.proto",
}

// RegisterIdentityServer registers srv with s.
func RegisterIdentityServer(s grpc.ServiceRegistrar, srv IdentityServer) {
	s.RegisterService(&IdentityServiceDesc, srv)
}

// IdentityClient is the client API for the identity service.
type IdentityClient interface {
	Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error)
	CreateSession(ctx context.Context, in *CreateSessionRequest, opts ...grpc.CallOption) (*Session, error)
	GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*Session, error)
	GetAccount(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*User, error)
	CreateJWT(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*JWT, error)
	UpdatePrefs(ctx context.Context, in *UpdatePrefsRequest, opts ...grpc.CallOption) (*User, error)
	CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*User, error)
	DeleteSessions(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
}

type identityClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityClient(cc grpc.ClientConnInterface) IdentityClient {
	return &identityClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *identityClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *identityClient) CreateSession(ctx context.Context, in *CreateSessionRequest, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Session](ctx, c.cc, MethodCreateSession, in, opts)
}

func (c *identityClient) GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Session](ctx, c.cc, MethodGetSession, in, opts)
}

func (c *identityClient) GetAccount(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, MethodGetAccount, in, opts)
}

func (c *identityClient) CreateJWT(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*JWT, error) {
	return invoke[JWT](ctx, c.cc, MethodCreateJWT, in, opts)
}

func (c *identityClient) UpdatePrefs(ctx context.Context, in *UpdatePrefsRequest, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, MethodUpdatePrefs, in, opts)
}

func (c *identityClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, MethodCreateUser, in, opts)
}

func (c *identityClient) DeleteSessions(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteSessions, in, opts)
}
