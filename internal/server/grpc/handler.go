package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/teamdeck/internal/common"
	pb "github.com/dmitrijs2005/teamdeck/internal/proto"
	"github.com/dmitrijs2005/teamdeck/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC codes. Unexpected errors are
// logged and hidden behind a generic Internal status.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrSessionExpired):
		return status.Error(codes.Unauthenticated, "session expired")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, "invalid token")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) current(ctx context.Context) (*models.Session, error) {
	session, ok := sessionFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing session")
	}
	return session, nil
}

func sessionToPB(session *models.Session, current *models.Session) *pb.Session {
	return &pb.Session{
		ID:      session.ID,
		UserID:  session.UserID,
		Expire:  session.ExpiresAt,
		Current: current != nil && session.ID == current.ID,
	}
}

func userToPB(u *models.User) *pb.User {
	return &pb.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Prefs:        u.Prefs,
		Registration: u.CreatedAt,
	}
}

func (s *GRPCServer) Ping(ctx context.Context, _ *pb.Empty) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *pb.CreateUserRequest) (*pb.User, error) {
	user, err := s.identity.CreateUser(ctx, req.UserID, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return userToPB(user), nil
}

// CreateSession is the only call that returns the session secret.
func (s *GRPCServer) CreateSession(ctx context.Context, req *pb.CreateSessionRequest) (*pb.Session, error) {
	session, err := s.identity.CreateSession(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := sessionToPB(session, session)
	resp.Secret = session.Secret
	return resp, nil
}

func (s *GRPCServer) GetSession(ctx context.Context, req *pb.GetSessionRequest) (*pb.Session, error) {
	current, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.identity.GetSession(ctx, current, req.SessionID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return sessionToPB(session, current), nil
}

func (s *GRPCServer) GetAccount(ctx context.Context, _ *pb.Empty) (*pb.User, error) {
	current, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.identity.GetAccount(ctx, current)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return userToPB(user), nil
}

func (s *GRPCServer) CreateJWT(ctx context.Context, _ *pb.Empty) (*pb.JWT, error) {
	current, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	token, err := s.identity.CreateJWT(ctx, current)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.JWT{JWT: token}, nil
}

func (s *GRPCServer) UpdatePrefs(ctx context.Context, req *pb.UpdatePrefsRequest) (*pb.User, error) {
	current, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.identity.UpdatePrefs(ctx, current, req.Prefs)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return userToPB(user), nil
}

func (s *GRPCServer) DeleteSessions(ctx context.Context, _ *pb.Empty) (*pb.Empty, error) {
	current, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.identity.DeleteSessions(ctx, current); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Signed out everywhere", "user_id", current.UserID)
	return &pb.Empty{}, nil
}
