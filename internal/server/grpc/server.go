// Package grpc exposes the identity service over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/teamdeck/internal/logging"
	pb "github.com/dmitrijs2005/teamdeck/internal/proto"
	"github.com/dmitrijs2005/teamdeck/internal/server/models"
	"google.golang.org/grpc"
)

// identitySvc is the business layer behind the handlers;
// *services.IdentityService implements it.
type identitySvc interface {
	CreateUser(ctx context.Context, id, email, password, name string) (*models.User, error)
	CreateSession(ctx context.Context, email, password string) (*models.Session, error)
	Authenticate(ctx context.Context, secret string) (*models.Session, error)
	GetSession(ctx context.Context, current *models.Session, id string) (*models.Session, error)
	GetAccount(ctx context.Context, current *models.Session) (*models.User, error)
	CreateJWT(ctx context.Context, current *models.Session) (string, error)
	UpdatePrefs(ctx context.Context, current *models.Session, prefs map[string]any) (*models.User, error)
	DeleteSessions(ctx context.Context, current *models.Session) error
}

type GRPCServer struct {
	address  string
	identity identitySvc
	logger   logging.Logger
}

var _ pb.IdentityServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, identity identitySvc) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		identity: identity,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.sessionInterceptor))
	pb.RegisterIdentityServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	<-stopped
	return nil
}
