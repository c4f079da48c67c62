package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/ppiankov/askmode/api/askmode/v1"
	"github.com/ppiankov/askmode/internal/model"
	"github.com/ppiankov/askmode/internal/safecmd"
)

// DefaultTimeout bounds every RPC.
const DefaultTimeout = 5 * time.Second

// Client connects to an askmode gRPC guard server.
type Client struct {
	conn   *grpc.ClientConn
	client pb.GuardClient
}

// New creates a gRPC client for the given address. The connection is lazy:
// an unreachable server surfaces on the first call.
func New(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("client: connect to guard server: %w", err)
	}
	return &Client{
		conn:   conn,
		client: pb.NewGuardClient(conn),
	}, nil
}

// Check classifies command on the remote server.
// Fail-closed: returns an unsafe verdict on any RPC error.
func (c *Client) Check(ctx context.Context, command string) safecmd.Verdict {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	resp, err := c.client.Check(ctx, &pb.CheckRequest{Command: command})
	if err != nil {
		return safecmd.Verdict{
			Safe:   false,
			Reason: fmt.Sprintf("guard server unreachable: %v", err),
		}
	}
	return safecmd.Verdict{Safe: resp.Safe, Reason: resp.Reason}
}

// ToolCall runs the remote pre-execution hook. A nil result lets the call
// proceed. Fail-closed: any RPC error blocks the call.
func (c *Client) ToolCall(ctx context.Context, call model.ToolCall) *model.ToolCallResult {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	resp, err := c.client.ToolCall(ctx, &pb.ToolCallRequest{ToolName: call.ToolName, Input: call.Input})
	if err != nil {
		return &model.ToolCallResult{
			Block:  true,
			Reason: fmt.Sprintf("guard server unreachable: %v", err),
		}
	}
	if !resp.Block {
		return nil
	}
	return &model.ToolCallResult{Block: true, Reason: resp.Reason}
}

// Status returns the remote controller state.
func (c *Client) Status(ctx context.Context) (*pb.StatusResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	return c.client.Status(ctx, &pb.StatusRequest{})
}

// Toggle flips the remote controller between normal and ask mode.
func (c *Client) Toggle(ctx context.Context) (*pb.ToggleResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	return c.client.Toggle(ctx, &pb.ToggleRequest{})
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
