package client

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	methodEncrypt                 = "/pharmafhe.relayer.v1.Relayer/Encrypt"
	methodRequestPublicDecryption = "/pharmafhe.relayer.v1.Relayer/RequestPublicDecryption"
	methodGetPublicDecryption     = "/pharmafhe.relayer.v1.Relayer/GetPublicDecryption"
	methodPing                    = "/pharmafhe.relayer.v1.Relayer/Ping"
)

// relayerRPC is the wire surface of the relayer service. Requests and
// responses are google.protobuf.Struct messages.
type relayerRPC interface {
	Encrypt(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RequestPublicDecryption(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetPublicDecryption(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type relayerRPCClient struct {
	cc grpc.ClientConnInterface
}

func newRelayerRPCClient(cc grpc.ClientConnInterface) relayerRPC {
	return &relayerRPCClient{cc: cc}
}

func (c *relayerRPCClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *relayerRPCClient) Encrypt(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodEncrypt, in, opts...)
}

func (c *relayerRPCClient) RequestPublicDecryption(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodRequestPublicDecryption, in, opts...)
}

func (c *relayerRPCClient) GetPublicDecryption(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGetPublicDecryption, in, opts...)
}

func (c *relayerRPCClient) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodPing, in, opts...)
}

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}
