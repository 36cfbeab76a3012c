package logging

import (
	"context"

	"go.viam.com/utils"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type debugTagKey struct{}

// DebugTagMetadataKey carries the debug tag of a call to the planner.
const DebugTagMetadataKey = "hpp-debug-tag"

// EnableDebugMode marks ctx so that C-prefixed debug calls log regardless of the logger level.
// The tag identifies the marked calls; an empty tag is replaced with a random one.
func EnableDebugMode(ctx context.Context, tag string) context.Context {
	if tag == "" {
		tag = utils.RandomAlphaString(6)
	}
	return context.WithValue(ctx, debugTagKey{}, tag)
}

// DebugTag returns the tag set by EnableDebugMode, or "" when ctx is not marked.
func DebugTag(ctx context.Context) string {
	tag, _ := ctx.Value(debugTagKey{}).(string)
	return tag
}

// IsDebugMode reports whether ctx was marked by EnableDebugMode.
func IsDebugMode(ctx context.Context) bool {
	return DebugTag(ctx) != ""
}

// UnaryClientInterceptor forwards the debug tag of ctx to the planner.
func UnaryClientInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if tag := DebugTag(ctx); tag != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, DebugTagMetadataKey, tag)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// UnaryServerInterceptor marks the handler context with the debug tag sent by the caller.
func UnaryServerInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	if tags := metadata.ValueFromIncomingContext(ctx, DebugTagMetadataKey); len(tags) == 1 {
		ctx = EnableDebugMode(ctx, tags[0])
	}
	return handler(ctx, req)
}
