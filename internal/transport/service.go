package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"lector/token"
)

const (
	ServiceName     = "lector.v1.TransformService"
	TransformMethod = "/" + ServiceName + "/Transform"
)

// TransformFunc is the in-process transformer a server exposes.
type TransformFunc func(ctx context.Context, tokens token.Tokens, opts map[string]any) (token.Tokens, error)

// TransformServer is the server API for lector.v1.TransformService.
type TransformServer interface {
	Transform(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// funcServer decodes requests, runs fn and encodes the result.
type funcServer struct {
	fn TransformFunc
}

func (s funcServer) Transform(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tokens, opts, err := DecodeRequest(req)
	if err != nil {
		return nil, err
	}
	out, err := s.fn(ctx, tokens, opts)
	if err != nil {
		return nil, err
	}
	return EncodeResponse(out)
}

func RegisterTransformServer(s grpc.ServiceRegistrar, srv TransformServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func transformHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TransformServer).Transform(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: TransformMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TransformServer).Transform(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc describes lector.v1.TransformService. Messages are
// google.protobuf.Struct so plugins need no generated stubs.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TransformServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Transform",
			Handler:    transformHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lector/v1/transform.proto",
}
