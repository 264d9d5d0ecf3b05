// Package grpcserver exposes the PersonaService gRPC API handlers.
package grpcserver

import (
	"context"
	"errors"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	pb "github.com/and161185/persona-keeper/internal/api/personav1"
	"github.com/and161185/persona-keeper/internal/convert"
	"github.com/and161185/persona-keeper/internal/errs"
	"github.com/and161185/persona-keeper/internal/service"
)

// Server wires services into gRPC handlers.
type Server struct {
	pb.UnimplementedPersonaServiceServer
	auth  service.AuthService
	vault service.VaultService
	chars service.CharacterService
	log   *zap.Logger
}

var _ pb.PersonaServiceServer = (*Server)(nil)

// New constructs a gRPC server with injected services.
func New(auth service.AuthService, vault service.VaultService, chars service.CharacterService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{auth: auth, vault: vault, chars: chars, log: log}
}

// statusFromErr maps domain sentinels to gRPC status codes. Unknown errors
// are logged and hidden behind Internal.
func (s *Server) statusFromErr(op string, err error) error {
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, "unauthenticated")
	case errors.Is(err, errs.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errs.ErrDuplicateCredential):
		return status.Error(codes.AlreadyExists, "credential for this service already exists")
	case errors.Is(err, errs.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, errs.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, errs.ErrRateLimited):
		return status.Error(codes.ResourceExhausted, "rate limited")
	case errors.Is(err, errs.ErrCrypto):
		s.log.Error(op, zap.Error(err))
		return status.Error(codes.Internal, "crypto failure")
	case errors.Is(err, errs.ErrPersistence):
		s.log.Error(op, zap.Error(err))
		return status.Error(codes.Unavailable, "storage unavailable")
	default:
		s.log.Error(op, zap.Error(err))
		return status.Error(codes.Internal, "internal")
	}
}

// --- Auth ---

// Register creates a new user account.
func (s *Server) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	if req.GetEmail() == "" || req.GetPassword() == "" {
		return nil, status.Error(codes.InvalidArgument, "empty email/password")
	}
	userID, err := s.auth.Register(ctx, req.GetEmail(), req.GetPassword())
	if err != nil {
		return nil, s.statusFromErr("register", err)
	}
	return &pb.RegisterResponse{UserID: userID}, nil
}

// remoteIP returns the peer host without its port so that reconnects share a limiter key.
func remoteIP(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	addr := p.Addr.String()
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// Login authenticates a user and returns an access token.
func (s *Server) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	tok, err := s.auth.Login(ctx, req.GetEmail(), req.GetPassword(), remoteIP(ctx))
	if err != nil {
		if errors.Is(err, errs.ErrUnauthenticated) {
			return nil, status.Error(codes.Unauthenticated, "bad credentials")
		}
		return nil, s.statusFromErr("login", err)
	}
	return &pb.LoginResponse{AccessToken: tok.AccessToken, ExpiresAt: timestamppb.New(tok.ExpiresAt)}, nil
}

// --- Credentials ---

// AddCredential seals and stores an API key for a provider.
func (s *Server) AddCredential(ctx context.Context, req *pb.AddCredentialRequest) (*pb.AddCredentialResponse, error) {
	owner, ok := UserIDFromCtx(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no auth")
	}
	rec, err := s.vault.Store(ctx, owner, req.GetService(), req.GetAPIKey())
	if err != nil {
		return nil, s.statusFromErr("add credential", err)
	}
	return &pb.AddCredentialResponse{Credential: convert.ToWireCredential(rec)}, nil
}

// ListCredentials returns the caller's credentials without key material.
func (s *Server) ListCredentials(ctx context.Context, _ *pb.ListCredentialsRequest) (*pb.ListCredentialsResponse, error) {
	owner, ok := UserIDFromCtx(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no auth")
	}
	recs, err := s.vault.List(ctx, owner)
	if err != nil {
		return nil, s.statusFromErr("list credentials", err)
	}
	return &pb.ListCredentialsResponse{Credentials: convert.ToWireCredentials(recs)}, nil
}

// RemoveCredential deletes one of the caller's credentials. Unknown ids succeed.
func (s *Server) RemoveCredential(ctx context.Context, req *pb.RemoveCredentialRequest) (*pb.RemoveCredentialResponse, error) {
	owner, ok := UserIDFromCtx(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no auth")
	}
	id, err := convert.ParseID(req.GetID())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "bad id")
	}
	if err := s.vault.Remove(ctx, owner, id); err != nil {
		return nil, s.statusFromErr("remove credential", err)
	}
	return &pb.RemoveCredentialResponse{}, nil
}

// --- Characters ---

// CreateCharacter creates a character and its prompt modules.
func (s *Server) CreateCharacter(ctx context.Context, req *pb.CreateCharacterRequest) (*pb.CreateCharacterResponse, error) {
	owner, ok := UserIDFromCtx(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no auth")
	}
	c, err := s.chars.CreateCharacter(ctx, owner, convert.FromWireNewCharacter(req))
	if err != nil {
		return nil, s.statusFromErr("create character", err)
	}
	return &pb.CreateCharacterResponse{Character: convert.ToWireCharacter(c)}, nil
}

// ListCharacters returns the caller's characters, newest first.
func (s *Server) ListCharacters(ctx context.Context, _ *pb.ListCharactersRequest) (*pb.ListCharactersResponse, error) {
	owner, ok := UserIDFromCtx(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no auth")
	}
	cs, err := s.chars.ListCharacters(ctx, owner)
	if err != nil {
		return nil, s.statusFromErr("list characters", err)
	}
	return &pb.ListCharactersResponse{Characters: convert.ToWireCharacters(cs)}, nil
}

// GetCharacter returns one character with its linked modules.
func (s *Server) GetCharacter(ctx context.Context, req *pb.GetCharacterRequest) (*pb.GetCharacterResponse, error) {
	owner, ok := UserIDFromCtx(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no auth")
	}
	id, err := convert.ParseID(req.GetID())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "bad id")
	}
	d, err := s.chars.GetCharacter(ctx, owner, id)
	if err != nil {
		return nil, s.statusFromErr("get character", err)
	}
	return convert.ToWireCharacterDetail(d), nil
}
