package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/ppiankov/askmode/api/askmode/v1"
	"github.com/ppiankov/askmode/internal/engine"
	"github.com/ppiankov/askmode/internal/model"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:7077"

// Config holds gRPC server configuration.
type Config struct {
	Addr   string
	Engine engine.Options
}

// Server implements the askmode.v1.Guard gRPC service over one engine.
type Server struct {
	pb.UnimplementedGuardServer

	engine     *engine.Engine
	addr       string
	grpcServer *grpc.Server
}

// New creates a gRPC server with a freshly loaded engine.
func New(cfg Config) (*Server, error) {
	eng, err := engine.New(cfg.Engine)
	if err != nil {
		return nil, err
	}

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	s := &Server{
		engine:     eng,
		addr:       addr,
		grpcServer: grpc.NewServer(),
	}
	pb.RegisterGuardServer(s.grpcServer, s)
	return s, nil
}

// Engine returns the engine behind the server.
func (s *Server) Engine() *engine.Engine { return s.engine }

// Serve listens on the configured address. Blocks until stopped.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.addr, err)
	}
	return s.grpcServer.Serve(lis)
}

// ServeOn starts the gRPC server on the given listener. For testing.
func (s *Server) ServeOn(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// GracefulStop gracefully shuts down the gRPC server.
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}

// Close cleans up resources.
func (s *Server) Close() error {
	return s.engine.Close()
}

// Reload re-reads configuration. Called by the hot-reloader on file change.
func (s *Server) Reload() error {
	return s.engine.Reload()
}

// Check implements the Check RPC. The verdict ignores the current mode.
func (s *Server) Check(_ context.Context, req *pb.CheckRequest) (*pb.CheckResponse, error) {
	v := s.engine.Controller.Classifier().Classify(req.Command)
	resp := &pb.CheckResponse{
		Safe:     v.Safe,
		Decision: string(model.Allow),
		Reason:   v.Reason,
	}
	if !v.Safe {
		resp.Decision = string(model.Deny)
	}
	return resp, nil
}

// ToolCall implements the ToolCall RPC.
func (s *Server) ToolCall(ctx context.Context, req *pb.ToolCallRequest) (*pb.ToolCallResponse, error) {
	if req.ToolName == "" {
		return nil, status.Error(codes.InvalidArgument, "tool_name is required")
	}
	res := s.engine.Controller.HandleToolCall(ctx, model.ToolCall{ToolName: req.ToolName, Input: req.Input})
	if res == nil {
		return &pb.ToolCallResponse{}, nil
	}
	return &pb.ToolCallResponse{Block: res.Block, Reason: res.Reason}, nil
}

// Status implements the Status RPC.
func (s *Server) Status(_ context.Context, _ *pb.StatusRequest) (*pb.StatusResponse, error) {
	ctrl := s.engine.Controller
	resp := &pb.StatusResponse{
		Mode:        string(ctrl.Mode()),
		Restricted:  ctrl.Restricted(),
		ActiveTools: s.engine.Session.ActiveTools().Strings(),
		SessionId:   s.engine.Session.ID(),
		ConfigHash:  s.engine.ConfigHash(),
	}
	if resp.Restricted {
		resp.SavedTools = ctrl.SavedCapabilities().Strings()
	}
	return resp, nil
}

// Toggle implements the Toggle RPC.
func (s *Server) Toggle(_ context.Context, _ *pb.ToggleRequest) (*pb.ToggleResponse, error) {
	s.engine.Controller.Toggle()
	return &pb.ToggleResponse{
		Mode:        string(s.engine.Controller.Mode()),
		ActiveTools: s.engine.Session.ActiveTools().Strings(),
	}, nil
}
