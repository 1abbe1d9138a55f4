package handler

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/zippy-link/zippy/internal/middleware"
	"github.com/zippy-link/zippy/internal/proto"
	"github.com/zippy-link/zippy/internal/storage"
)

// ShortenerGRPCServer exposes the directory over gRPC.
type ShortenerGRPCServer struct {
	proto.UnimplementedShortenerServiceServer
	urls       URLService
	users      UserService
	associator Associator
}

// NewShortenerGRPCServer constructs the gRPC server over the same
// services the HTTP handler uses.
func NewShortenerGRPCServer(urls URLService, users UserService, associator Associator) *ShortenerGRPCServer {
	return &ShortenerGRPCServer{
		urls:       urls,
		users:      users,
		associator: associator,
	}
}

func (s *ShortenerGRPCServer) ShortenURL(ctx context.Context, req *proto.ShortenRequest) (*proto.ShortenResponse, error) {
	if req.Url == "" {
		return nil, status.Error(codes.InvalidArgument, "url is required")
	}

	shortCode := req.ShortCode
	if req.Random {
		shortCode = ""
	} else if shortCode == "" {
		return nil, status.Error(codes.InvalidArgument, "short_code is required unless random is set")
	}

	email, authenticated := middleware.GetUserEmailFromContext(ctx)

	rec, err := s.urls.Create(ctx, req.Url, shortCode, authenticated)
	if err != nil {
		if errors.Is(err, storage.ErrCodeExists) {
			return &proto.ShortenResponse{
				OriginalUrl: rec.OriginalURL,
				ShortUrl:    s.urls.AbsoluteURL(rec.ShortCode),
				Created:     false,
			}, nil
		}
		return nil, status.Errorf(codes.Internal, "failed to shorten URL: %v", err)
	}

	if authenticated && s.associator != nil {
		if err := s.associator.Submit(email, []string{rec.ShortCode}); err != nil {
			log.Error().Err(err).Str("email", email).Str("code", rec.ShortCode).
				Msg("Failed to submit ownership update")
		}
	}

	return &proto.ShortenResponse{
		OriginalUrl: rec.OriginalURL,
		ShortUrl:    s.urls.AbsoluteURL(rec.ShortCode),
		Created:     true,
	}, nil
}

func (s *ShortenerGRPCServer) ExpandURL(ctx context.Context, req *proto.ExpandRequest) (*proto.ExpandResponse, error) {
	if req.Code == "" {
		return nil, status.Error(codes.InvalidArgument, "code is required")
	}

	rec, found, err := s.urls.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to expand URL: %v", err)
	}
	if !found {
		return nil, status.Error(codes.NotFound, "url not found")
	}

	return &proto.ExpandResponse{OriginalUrl: rec.OriginalURL}, nil
}

func (s *ShortenerGRPCServer) ListUserURLs(ctx context.Context, _ *emptypb.Empty) (*proto.UserURLsResponse, error) {
	email, ok := middleware.GetUserEmailFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}

	account, found, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to load account: %v", err)
	}
	if !found {
		return nil, status.Error(codes.NotFound, "account not found")
	}

	resp := &proto.UserURLsResponse{
		Urls: make([]*proto.URLData, 0, len(account.OwnedCodes)),
	}

	for _, code := range account.OwnedCodes {
		rec, mapped, err := s.urls.FindByCode(ctx, code)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "failed to resolve owned code: %v", err)
		}
		if !mapped {
			continue
		}

		resp.Urls = append(resp.Urls, &proto.URLData{
			ShortUrl:    s.urls.AbsoluteURL(code),
			OriginalUrl: rec.OriginalURL,
		})
	}

	return resp, nil
}
