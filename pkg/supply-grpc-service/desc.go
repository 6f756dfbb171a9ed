package supply_grpc_service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "supply.v1.SupplyService"

const (
	methodGetState    = "/" + ServiceName + "/GetState"
	methodInitialize  = "/" + ServiceName + "/Initialize"
	methodReplaceSlot = "/" + ServiceName + "/ReplaceSlot"
	methodUndo        = "/" + ServiceName + "/Undo"
	methodReset       = "/" + ServiceName + "/Reset"
)

// SupplyServiceServer is the server API. Requests and responses are protobuf
// well-known types, so no generated code is needed.
type SupplyServiceServer interface {
	GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Initialize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReplaceSlot(context.Context, *wrapperspb.Int32Value) (*structpb.Struct, error)
	Undo(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Reset(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterSupplyServiceServer registers srv on s.
func RegisterSupplyServiceServer(s grpc.ServiceRegistrar, srv SupplyServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes SupplyService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SupplyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetState", Handler: emptyHandler(methodGetState, SupplyServiceServer.GetState)},
		{MethodName: "Initialize", Handler: initializeHandler},
		{MethodName: "ReplaceSlot", Handler: replaceSlotHandler},
		{MethodName: "Undo", Handler: emptyHandler(methodUndo, SupplyServiceServer.Undo)},
		{MethodName: "Reset", Handler: emptyHandler(methodReset, SupplyServiceServer.Reset)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "supply/v1/supply.proto",
}

type emptyMethod func(SupplyServiceServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)

func emptyHandler(fullMethod string, call emptyMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SupplyServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SupplyServiceServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func initializeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SupplyServiceServer).Initialize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodInitialize}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SupplyServiceServer).Initialize(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func replaceSlotHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int32Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SupplyServiceServer).ReplaceSlot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodReplaceSlot}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SupplyServiceServer).ReplaceSlot(ctx, req.(*wrapperspb.Int32Value))
	}
	return interceptor(ctx, in, info, handler)
}

// SupplyServiceClient is the client API for SupplyService.
type SupplyServiceClient interface {
	GetState(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Initialize(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ReplaceSlot(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*structpb.Struct, error)
	Undo(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Reset(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type supplyServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSupplyServiceClient(cc grpc.ClientConnInterface) SupplyServiceClient {
	return &supplyServiceClient{cc}
}

func (c *supplyServiceClient) invoke(ctx context.Context, method string, in interface{}, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *supplyServiceClient) GetState(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGetState, in, opts)
}

func (c *supplyServiceClient) Initialize(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodInitialize, in, opts)
}

func (c *supplyServiceClient) ReplaceSlot(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodReplaceSlot, in, opts)
}

func (c *supplyServiceClient) Undo(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodUndo, in, opts)
}

func (c *supplyServiceClient) Reset(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodReset, in, opts)
}
