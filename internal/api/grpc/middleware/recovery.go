package middleware

import (
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/interview-assistant/internal/logger"
)

// Recovery turns handler panics into Internal errors instead of crashing the process.
type Recovery struct {
	logger *logger.Logger
}

// NewRecovery creates a new Recovery middleware.
func NewRecovery(logger *logger.Logger) *Recovery {
	return &Recovery{logger: logger}
}

func (r *Recovery) handle(p any) error {
	r.logger.Error("gRPC handler panicked",
		"panic", fmt.Sprint(p))
	return status.Error(codes.Internal, "internal server error")
}

func (r *Recovery) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(r.handle))
}

func (r *Recovery) StreamInterceptor() grpc.StreamServerInterceptor {
	return recovery.StreamServerInterceptor(recovery.WithRecoveryHandler(r.handle))
}
