package middleware

import "context"

type contextKey string

const userCaptureKey contextKey = "user_capture"

func withUserCapture(ctx context.Context, capture *userCapture) context.Context {
	return context.WithValue(ctx, userCaptureKey, capture)
}

func userCaptureFrom(ctx context.Context) *userCapture {
	capture, _ := ctx.Value(userCaptureKey).(*userCapture)
	return capture
}
