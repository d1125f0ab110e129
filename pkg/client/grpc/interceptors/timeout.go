package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryCallBudget caps the whole call, retries included, at budget.
// A caller deadline that is already sooner is left alone, and a budget <= 0 disables the cap.
// When the budget itself expires, the DeadlineExceeded status names the method and the budget.
func UnaryCallBudget(budget time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if budget <= 0 {
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= budget {
			return invoker(ctx, method, req, reply, cc, opts...)
		}

		callCtx, cancel := context.WithTimeout(ctx, budget)
		defer cancel()
		err := invoker(callCtx, method, req, reply, cc, opts...)
		if status.Code(err) == codes.DeadlineExceeded && ctx.Err() == nil {
			return status.Errorf(codes.DeadlineExceeded, "%s exceeded the %s call budget: %v", method, budget, status.Convert(err).Message())
		}
		return err
	}
}
