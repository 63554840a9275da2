package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/common"
	pb "github.com/dmitrijs2005/teamdeck/internal/proto"
	"github.com/dmitrijs2005/teamdeck/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const sessionKey ctxKey = "session"

// publicMethods can be called without a session.
var publicMethods = map[string]bool{
	pb.FullMethod(pb.MethodPing):          true,
	pb.FullMethod(pb.MethodCreateSession): true,
	pb.FullMethod(pb.MethodCreateUser):    true,
}

func sessionSecret(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.SessionHeaderName)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func withSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func sessionFromContext(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*models.Session)
	return s, ok && s != nil
}

// sessionInterceptor resolves the x-session header for every method that
// needs a caller and stores the session in the context.
func (s *GRPCServer) sessionInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	session, err := s.identity.Authenticate(ctx, sessionSecret(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return handler(withSession(ctx, session), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
