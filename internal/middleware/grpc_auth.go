package middleware

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/zippy-link/zippy/internal/auth"
)

// GRPCAuthMiddleware resolves the authorization metadata entry to an
// account identity, mirroring the HTTP cookie middleware.
type GRPCAuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewGRPCAuthMiddleware creates a GRPCAuthMiddleware with the provided JWT service.
func NewGRPCAuthMiddleware(jwtService *auth.JWTService) *GRPCAuthMiddleware {
	return &GRPCAuthMiddleware{
		jwtService: jwtService,
	}
}

// UnaryInterceptor attaches the account email to the context when a valid
// token is supplied; requests without one proceed anonymously.
func (m *GRPCAuthMiddleware) UnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return handler(ctx, req)
	}

	authHeader := md.Get("authorization")
	if len(authHeader) == 0 {
		return handler(ctx, req)
	}

	claims, err := m.jwtService.ValidateToken(authHeader[0])
	if err != nil {
		return handler(ctx, req)
	}

	ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
	return handler(ctx, req)
}
