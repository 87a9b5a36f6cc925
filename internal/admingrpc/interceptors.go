package admingrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// SharedSecret gates the admin gRPC surface behind a single shared
// secret passed in the "x-admin-secret" metadata key. Adapted from the
// teacher's stream auth interceptor: here the identity check is a
// constant-time-adjacent string compare instead of a full Auther
// collaborator, since the admin surface has no per-caller identity.
type SharedSecret string

// UnaryAuthInterceptor rejects unary calls missing a matching secret.
func UnaryAuthInterceptor(secret SharedSecret) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if secret == "" {
			return handler(ctx, req)
		}
		if !hasSecret(ctx, secret) {
			return nil, status.Error(codes.Unauthenticated, "admin gRPC: missing or invalid secret")
		}
		return handler(ctx, req)
	}
}

// StreamAuthInterceptor is the streaming counterpart, mirroring the
// teacher's NewStreamAuthInterceptor shape (context-wrapping is
// unnecessary here since the admin surface carries no derived identity).
func StreamAuthInterceptor(secret SharedSecret) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if secret == "" {
			return handler(srv, ss)
		}
		if !hasSecret(ss.Context(), secret) {
			return status.Error(codes.Unauthenticated, "admin gRPC: missing or invalid secret")
		}
		return handler(srv, ss)
	}
}

func hasSecret(ctx context.Context, secret SharedSecret) bool {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return false
	}
	values := md.Get("x-admin-secret")
	for _, v := range values {
		if v == string(secret) {
			return true
		}
	}
	return false
}
