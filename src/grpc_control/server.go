package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "macroobserver.DashboardControl"

// DashboardControlServer is the control surface of a running dashboard.
// Messages are protobuf well-known types so no generated code is needed.
type DashboardControlServer interface {
	Reload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SortBy(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GoToPage(context.Context, *wrapperspb.Int32Value) (*structpb.Struct, error)
	ToggleSelection(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ResetState(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterDashboardControlServer attaches srv to a grpc.Server.
func RegisterDashboardControlServer(s grpc.ServiceRegistrar, srv DashboardControlServer) {
	s.RegisterService(&serviceDesc, srv)
}

// -----------------------------------------------------------------------------

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardControlServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Reload", func() *structpb.Struct { return new(structpb.Struct) }, DashboardControlServer.Reload),
		unary("SortBy", func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }, DashboardControlServer.SortBy),
		unary("GoToPage", func() *wrapperspb.Int32Value { return new(wrapperspb.Int32Value) }, DashboardControlServer.GoToPage),
		unary("ToggleSelection", func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }, DashboardControlServer.ToggleSelection),
		unary("ResetState", func() *emptypb.Empty { return new(emptypb.Empty) }, DashboardControlServer.ResetState),
		unary("GetState", func() *emptypb.Empty { return new(emptypb.Empty) }, DashboardControlServer.GetState),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dashboard_control.proto",
}

// unary builds the method descriptor that decodes Req and dispatches to call.
func unary[Req proto.Message](
	method string,
	newReq func() Req,
	call func(DashboardControlServer, context.Context, Req) (*structpb.Struct, error),
) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DashboardControlServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(DashboardControlServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

// DashboardControlClient calls a remote DashboardControl service.
type DashboardControlClient struct {
	cc grpc.ClientConnInterface
}

func NewDashboardControlClient(cc grpc.ClientConnInterface) *DashboardControlClient {
	return &DashboardControlClient{cc: cc}
}

func (c *DashboardControlClient) invoke(ctx context.Context, method string, in proto.Message, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardControlClient) Reload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Reload", in, opts...)
}

func (c *DashboardControlClient) SortBy(ctx context.Context, field string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SortBy", wrapperspb.String(field), opts...)
}

func (c *DashboardControlClient) GoToPage(ctx context.Context, page int32, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GoToPage", wrapperspb.Int32(page), opts...)
}

func (c *DashboardControlClient) ToggleSelection(ctx context.Context, code string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ToggleSelection", wrapperspb.String(code), opts...)
}

func (c *DashboardControlClient) ResetState(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ResetState", &emptypb.Empty{}, opts...)
}

func (c *DashboardControlClient) GetState(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetState", &emptypb.Empty{}, opts...)
}
