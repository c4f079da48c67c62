package askmodev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	Guard_Check_FullMethodName    = "/askmode.v1.Guard/Check"
	Guard_ToolCall_FullMethodName = "/askmode.v1.Guard/ToolCall"
	Guard_Status_FullMethodName   = "/askmode.v1.Guard/Status"
	Guard_Toggle_FullMethodName   = "/askmode.v1.Guard/Toggle"
)

type CheckRequest struct {
	Command string `json:"command"`
}

type CheckResponse struct {
	Safe     bool   `json:"safe"`
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

type ToolCallRequest struct {
	ToolName string         `json:"tool_name"`
	Input    map[string]any `json:"input,omitempty"`
}

type ToolCallResponse struct {
	Block  bool   `json:"block"`
	Reason string `json:"reason,omitempty"`
}

type StatusRequest struct{}

type StatusResponse struct {
	Mode        string   `json:"mode"`
	Restricted  bool     `json:"restricted"`
	ActiveTools []string `json:"active_tools"`
	SavedTools  []string `json:"saved_tools,omitempty"`
	SessionId   string   `json:"session_id"`
	ConfigHash  string   `json:"config_hash"`
}

type ToggleRequest struct{}

type ToggleResponse struct {
	Mode        string   `json:"mode"`
	ActiveTools []string `json:"active_tools"`
}

// GuardClient is the client API for the Guard service.
type GuardClient interface {
	Check(ctx context.Context, in *CheckRequest, opts ...grpc.CallOption) (*CheckResponse, error)
	ToolCall(ctx context.Context, in *ToolCallRequest, opts ...grpc.CallOption) (*ToolCallResponse, error)
	Status(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	Toggle(ctx context.Context, in *ToggleRequest, opts ...grpc.CallOption) (*ToggleResponse, error)
}

type guardClient struct {
	cc grpc.ClientConnInterface
}

func NewGuardClient(cc grpc.ClientConnInterface) GuardClient {
	return &guardClient{cc}
}

func (c *guardClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *guardClient) Check(ctx context.Context, in *CheckRequest, opts ...grpc.CallOption) (*CheckResponse, error) {
	out := new(CheckResponse)
	if err := c.invoke(ctx, Guard_Check_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *guardClient) ToolCall(ctx context.Context, in *ToolCallRequest, opts ...grpc.CallOption) (*ToolCallResponse, error) {
	out := new(ToolCallResponse)
	if err := c.invoke(ctx, Guard_ToolCall_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *guardClient) Status(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	out := new(StatusResponse)
	if err := c.invoke(ctx, Guard_Status_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *guardClient) Toggle(ctx context.Context, in *ToggleRequest, opts ...grpc.CallOption) (*ToggleResponse, error) {
	out := new(ToggleResponse)
	if err := c.invoke(ctx, Guard_Toggle_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// GuardServer is the server API for the Guard service.
// Implementations must embed UnimplementedGuardServer.
type GuardServer interface {
	Check(context.Context, *CheckRequest) (*CheckResponse, error)
	ToolCall(context.Context, *ToolCallRequest) (*ToolCallResponse, error)
	Status(context.Context, *StatusRequest) (*StatusResponse, error)
	Toggle(context.Context, *ToggleRequest) (*ToggleResponse, error)
	mustEmbedUnimplementedGuardServer()
}

// UnimplementedGuardServer returns Unimplemented for every method.
type UnimplementedGuardServer struct{}

func (UnimplementedGuardServer) Check(context.Context, *CheckRequest) (*CheckResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Check not implemented")
}
func (UnimplementedGuardServer) ToolCall(context.Context, *ToolCallRequest) (*ToolCallResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ToolCall not implemented")
}
func (UnimplementedGuardServer) Status(context.Context, *StatusRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Status not implemented")
}
func (UnimplementedGuardServer) Toggle(context.Context, *ToggleRequest) (*ToggleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Toggle not implemented")
}
func (UnimplementedGuardServer) mustEmbedUnimplementedGuardServer() {}

func RegisterGuardServer(s grpc.ServiceRegistrar, srv GuardServer) {
	s.RegisterService(&Guard_ServiceDesc, srv)
}

func _Guard_Check_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CheckRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GuardServer).Check(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Guard_Check_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GuardServer).Check(ctx, req.(*CheckRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Guard_ToolCall_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ToolCallRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GuardServer).ToolCall(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Guard_ToolCall_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GuardServer).ToolCall(ctx, req.(*ToolCallRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Guard_Status_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GuardServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Guard_Status_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GuardServer).Status(ctx, req.(*StatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Guard_Toggle_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ToggleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GuardServer).Toggle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Guard_Toggle_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GuardServer).Toggle(ctx, req.(*ToggleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Guard_ServiceDesc is the grpc.ServiceDesc for the Guard service.
var Guard_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "askmode.v1.Guard",
	HandlerType: (*GuardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Check", Handler: _Guard_Check_Handler},
		{MethodName: "ToolCall", Handler: _Guard_ToolCall_Handler},
		{MethodName: "Status", Handler: _Guard_Status_Handler},
		{MethodName: "Toggle", Handler: _Guard_Toggle_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "askmode/v1/guard",
}
