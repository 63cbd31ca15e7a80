package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	"github.com/dmitrijs2005/pharmafhe/internal/common"
	"github.com/dmitrijs2005/pharmafhe/internal/logging"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	encryptedType = "euint32"

	decryptionReady  = "ready"
	decryptionFailed = "failed"

	defaultPollInterval    = 500 * time.Millisecond
	defaultMaxPollInterval = 5 * time.Second
)

var uint256Type = mustNewType("uint256")

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// GRPCClient talks to the FHE relayer.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      relayerRPC
	secret      []byte
	log         logging.Logger

	pollInterval    time.Duration
	maxPollInterval time.Duration

	mu      sync.Mutex
	account string
	token   string
}

var _ Relayer = (*GRPCClient)(nil)

func NewRelayerClient(endpointURL, secret string, log logging.Logger) (*GRPCClient, error) {
	c := &GRPCClient{
		endpointURL:     endpointURL,
		secret:          []byte(secret),
		log:             log,
		pollInterval:    defaultPollInterval,
		maxPollInterval: defaultMaxPollInterval,
	}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

// InitGRPCClient opens the connection. Extra options are appended to the
// defaults (insecure transport, auth interceptor).
func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.authInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = newRelayerRPCClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// SetAccount switches the account that relayer tokens are issued for.
func (s *GRPCClient) SetAccount(account string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = account
	s.token = ""
}

func (s *GRPCClient) accessToken(renew bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.secret) == 0 {
		return "", nil
	}
	if s.token != "" && !renew {
		return s.token, nil
	}

	token, err := GenerateToken(s.account, s.secret, tokenValidity)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	s.token = token
	return token, nil
}

func withAuth(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationHeaderName)
	if token != "" {
		md.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	if len(md.Get(common.RequestIDHeaderName)) == 0 {
		md.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) authInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	token, err := s.accessToken(false)
	if err != nil {
		return err
	}

	ctx = withAuth(ctx, token)

	err = invoker(ctx, method, req, reply, cc, opts...)

	if err != nil {

		st, ok := status.FromError(err)
		if !ok {
			return err
		}

		if st.Code() != codes.Unauthenticated {
			return err
		}
		if st.Message() != ErrTokenExpired.Error() {
			return err
		}

		if len(s.secret) == 0 {
			return err
		}

		token, err = s.accessToken(true)
		if err != nil {
			return err
		}

		ctx = withAuth(ctx, token)
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

// timeoutOr turns a failure caused by an expired ctx into common.ErrTimeout.
func timeoutOr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", common.ErrTimeout, err)
	}
	return err
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &structpb.Struct{})
	if err != nil {
		return s.mapError(err)
	}

	if stringField(resp, "status") != "OK" {
		return ErrUnavailable
	}

	return nil
}

// Encrypt asks the relayer to encrypt value for use by user against contract.
func (s *GRPCClient) Encrypt(ctx context.Context, contract, user ethcommon.Address, value int64) (models.EncryptedInput, error) {
	req, err := structpb.NewStruct(map[string]any{
		"contract": contract.Hex(),
		"user":     user.Hex(),
		"value":    value,
		"type":     encryptedType,
	})
	if err != nil {
		return models.EncryptedInput{}, err
	}

	resp, err := s.client.Encrypt(ctx, req)
	if err != nil {
		return models.EncryptedInput{}, timeoutOr(ctx, s.mapError(err))
	}

	handle, err := hexutil.Decode(stringField(resp, "handle"))
	if err != nil || len(handle) != ethcommon.HashLength {
		return models.EncryptedInput{}, fmt.Errorf("%w: bad handle", ErrMalformedResponse)
	}
	proof, err := hexutil.Decode(stringField(resp, "proof"))
	if err != nil {
		return models.EncryptedInput{}, fmt.Errorf("%w: bad proof: %w", ErrMalformedResponse, err)
	}

	return models.EncryptedInput{Handle: ethcommon.BytesToHash(handle), Proof: proof}, nil
}

type decryptionResponse struct {
	clearValues []byte
	proof       []byte
}

func (s *GRPCClient) requestDecryption(ctx context.Context, contract ethcommon.Address, handles []models.Handle) (string, error) {
	hs := make([]any, 0, len(handles))
	for _, h := range handles {
		hs = append(hs, h.Hex())
	}
	req, err := structpb.NewStruct(map[string]any{
		"contract": contract.Hex(),
		"handles":  hs,
	})
	if err != nil {
		return "", err
	}

	resp, err := s.client.RequestPublicDecryption(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}

	id := stringField(resp, "request_id")
	if id == "" {
		return "", fmt.Errorf("%w: empty request id", ErrMalformedResponse)
	}
	return id, nil
}

func (s *GRPCClient) pollDecryption(ctx context.Context, requestID string) (*decryptionResponse, error) {
	req, err := structpb.NewStruct(map[string]any{"request_id": requestID})
	if err != nil {
		return nil, err
	}

	var result *decryptionResponse
	backoff := retry.WithCappedDuration(s.maxPollInterval, retry.NewExponential(s.pollInterval))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := s.client.GetPublicDecryption(ctx, req)
		if err != nil {
			err = s.mapError(err)
			if errors.Is(err, ErrUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}

		state := strings.ToLower(stringField(resp, "status"))
		s.log.Debug(ctx, "decryption poll", "request_id", requestID, "status", state)

		switch state {
		case decryptionReady:
			clear, err := hexutil.Decode(stringField(resp, "abi_encoded"))
			if err != nil {
				return fmt.Errorf("%w: bad clear values: %w", ErrMalformedResponse, err)
			}
			proof, err := hexutil.Decode(stringField(resp, "proof"))
			if err != nil {
				return fmt.Errorf("%w: bad proof: %w", ErrMalformedResponse, err)
			}
			result = &decryptionResponse{clearValues: clear, proof: proof}
			return nil
		case decryptionFailed:
			return fmt.Errorf("%w: %s", ErrDecryptionRejected, stringField(resp, "error"))
		default:
			return retry.RetryableError(errDecryptionPending)
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VerifyDecryption runs the public decryption of handles: the oracle result
// is anchored on chain through submit and only returned once confirmed.
func (s *GRPCClient) VerifyDecryption(ctx context.Context, handles []models.Handle, contract ethcommon.Address, submit SubmitFunc) (*DecryptionResult, error) {
	if len(handles) == 0 {
		return &DecryptionResult{ClearValues: map[models.Handle]int64{}}, nil
	}

	requestID, err := s.requestDecryption(ctx, contract, handles)
	if err != nil {
		return nil, timeoutOr(ctx, err)
	}
	s.log.Debug(ctx, "decryption requested", "request_id", requestID, "handles", len(handles))

	resp, err := s.pollDecryption(ctx, requestID)
	if err != nil {
		return nil, timeoutOr(ctx, err)
	}

	tx, err := submit(ctx, resp.clearValues, resp.proof)
	if err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "decryption proof submitted", "request_id", requestID, "tx", tx.Hash())

	if err := tx.Wait(ctx); err != nil {
		return nil, timeoutOr(ctx, err)
	}

	values, err := decodeClearValues(handles, resp.clearValues)
	if err != nil {
		return nil, err
	}
	return &DecryptionResult{ClearValues: values}, nil
}

func decodeClearValues(handles []models.Handle, data []byte) (map[models.Handle]int64, error) {
	args := make(abi.Arguments, len(handles))
	for i := range args {
		args[i] = abi.Argument{Type: uint256Type}
	}

	vals, err := args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: clear values: %w", ErrMalformedResponse, err)
	}

	out := make(map[models.Handle]int64, len(handles))
	for i, h := range handles {
		v, _ := vals[i].(*big.Int)
		if v == nil || !v.IsInt64() {
			out[h] = 0
			continue
		}
		out[h] = v.Int64()
	}
	return out, nil
}
