package authority

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/client/models"
	"github.com/dmitrijs2005/teamdeck/internal/common"
	pb "github.com/dmitrijs2005/teamdeck/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	cc          grpc.ClientConnInterface
	timeout     time.Duration
	dialOpts    []grpc.DialOption

	mu     sync.RWMutex
	secret string
}

type Option func(*GRPCClient)

// WithTimeout bounds every call; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *GRPCClient) { c.timeout = d }
}

// WithDialOptions appends extra dial options (custom dialers in tests).
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) { c.dialOpts = append(c.dialOpts, opts...) }
}

func withSession(ctx context.Context, secret string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.SessionHeaderName, secret)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) sessionInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if secret := c.Session(); secret != "" {
		ctx = withSession(ctx, secret)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	for _, o := range opts {
		o(c)
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.sessionInterceptor),
	}, c.dialOpts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.cc = conn
	return c, nil
}

func (c *GRPCClient) SetSession(secret string) {
	c.mu.Lock()
	c.secret = secret
	c.mu.Unlock()
}

func (c *GRPCClient) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.secret
}

func (c *GRPCClient) rpc() pb.IdentityClient {
	return pb.NewIdentityClient(c.cc)
}

// callContext applies the per-call timeout.
func (c *GRPCClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.rpc().Ping(ctx, &pb.Empty{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) CreateSession(ctx context.Context, email, password string) (*models.Session, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.rpc().CreateSession(ctx, &pb.CreateSessionRequest{Email: email, Password: password})
	if err != nil {
		return nil, mapError(err)
	}

	c.SetSession(resp.Secret)
	return sessionFromPB(resp), nil
}

func (c *GRPCClient) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.rpc().GetSession(ctx, &pb.GetSessionRequest{SessionID: sessionID})
	if err != nil {
		return nil, mapError(err)
	}

	s := sessionFromPB(resp)
	// the authority does not echo the secret back
	if s.Secret == "" {
		s.Secret = c.Session()
	}
	return s, nil
}

func (c *GRPCClient) GetAccount(ctx context.Context) (*models.User, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.rpc().GetAccount(ctx, &pb.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return userFromPB(resp), nil
}

func (c *GRPCClient) CreateJWT(ctx context.Context) (string, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.rpc().CreateJWT(ctx, &pb.Empty{})
	if err != nil {
		return "", mapError(err)
	}
	return resp.JWT, nil
}

func (c *GRPCClient) UpdatePrefs(ctx context.Context, prefs models.Prefs) (*models.User, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.rpc().UpdatePrefs(ctx, &pb.UpdatePrefsRequest{Prefs: prefs})
	if err != nil {
		return nil, mapError(err)
	}
	return userFromPB(resp), nil
}

func (c *GRPCClient) CreateUser(ctx context.Context, userID, email, password, name string) (*models.User, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	req := &pb.CreateUserRequest{UserID: userID, Email: email, Password: password, Name: name}
	resp, err := c.rpc().CreateUser(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	return userFromPB(resp), nil
}

func (c *GRPCClient) DeleteSessions(ctx context.Context) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.rpc().DeleteSessions(ctx, &pb.Empty{}); err != nil {
		return mapError(err)
	}
	c.SetSession("")
	return nil
}

func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("close connection: %w", err)
	}
	return nil
}

func sessionFromPB(s *pb.Session) *models.Session {
	return &models.Session{ID: s.ID, UserID: s.UserID, Secret: s.Secret, Expire: s.Expire}
}

func userFromPB(u *pb.User) *models.User {
	return &models.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Prefs:        models.Prefs(u.Prefs),
		Registration: u.Registration,
	}
}
