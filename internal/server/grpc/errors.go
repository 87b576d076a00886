package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/mailgate/internal/common"
)

// toStatus maps service errors onto gRPC status codes. Validation messages
// are passed to the caller; anything unexpected becomes a bare Internal.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	case errors.Is(err, common.ErrUsernameTaken):
		return status.Error(codes.AlreadyExists, common.ErrUsernameTaken.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrCreationFailed):
		return status.Error(codes.Internal, common.ErrCreationFailed.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
