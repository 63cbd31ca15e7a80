// Package services contains the application services of the client.
// WorkflowService drives the submit, refresh and decrypt-and-verify flows
// against the record store and the FHE capabilities, keeps the record cache
// reconciled and reports progress through the status tracker.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/pharmafhe/internal/client/cache"
	"github.com/dmitrijs2005/pharmafhe/internal/client/chain"
	"github.com/dmitrijs2005/pharmafhe/internal/client/client"
	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	"github.com/dmitrijs2005/pharmafhe/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/pharmafhe/internal/client/repositories/records"
	"github.com/dmitrijs2005/pharmafhe/internal/client/status"
	"github.com/dmitrijs2005/pharmafhe/internal/common"
	"github.com/dmitrijs2005/pharmafhe/internal/logging"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// WorkflowService is the core of the client.
//
// Every whole-operation failure is reported once on the status tracker and
// also returned, wrapping one of the package sentinels. Per-record fetch
// failures during a refresh are logged and skipped.
type WorkflowService interface {
	// Connect activates account with its signer. A relayer that does not
	// answer is reported on the status tracker but does not prevent the
	// connection.
	Connect(ctx context.Context, account string, writer chain.Writer) error
	Disconnect()
	Connected() bool
	Account() string

	Refresh(ctx context.Context) error
	Refreshing() bool

	Submit(ctx context.Context, draft *models.Draft) error
	Decrypt(ctx context.Context, id string) (models.Decryption, error)
	CheckAvailability(ctx context.Context) (bool, error)

	Snapshot() *cache.Snapshot
	LoadOffline(ctx context.Context) error
}

// Pinger checks that the relayer is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies wires the collaborators of the workflow. Records, Metadata
// and Relayer are optional.
type Dependencies struct {
	Reader    chain.Reader
	Encryptor client.Encryptor
	Decryptor client.Decryptor
	Relayer   Pinger
	Cache     *cache.Cache
	Status    *status.Tracker
	Records   records.Repository
	Metadata  metadata.Repository
	Logger    logging.Logger
}

type Options struct {
	RecordPrefix        string
	ConfirmationTimeout time.Duration
	DecryptionTimeout   time.Duration
	Now                 func() time.Time
}

type workflowService struct {
	reader    chain.Reader
	encryptor client.Encryptor
	decryptor client.Decryptor
	relayer   Pinger
	cache     *cache.Cache
	status    *status.Tracker
	records   records.Repository
	meta      metadata.Repository
	log       logging.Logger
	opts      Options

	mu      sync.RWMutex
	account string
	writer  chain.Writer

	refreshing atomic.Int32
}

func NewWorkflowService(deps Dependencies, opts Options) WorkflowService {
	if opts.RecordPrefix == "" {
		opts.RecordPrefix = common.DefaultRecordPrefix
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if deps.Cache == nil {
		deps.Cache = cache.New()
	}
	if deps.Status == nil {
		deps.Status = status.NewTracker(0, 0)
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}

	return &workflowService{
		reader:    deps.Reader,
		encryptor: deps.Encryptor,
		decryptor: deps.Decryptor,
		relayer:   deps.Relayer,
		cache:     deps.Cache,
		status:    deps.Status,
		records:   deps.Records,
		meta:      deps.Metadata,
		log:       deps.Logger.With("component", "workflow"),
		opts:      opts,
	}
}

func (s *workflowService) Connect(ctx context.Context, account string, writer chain.Writer) error {
	if account == "" || writer == nil {
		return ErrNotConnected
	}

	s.mu.Lock()
	s.account = account
	s.writer = writer
	s.mu.Unlock()

	s.cache.Rebind(account)
	s.log.Info(ctx, "connected", "account", account)

	if s.relayer != nil {
		if err := s.relayer.Ping(ctx); err != nil {
			s.log.Error(ctx, "relayer ping failed", "error", err)
			s.status.Error(msgRelayerDown)
		}
	}
	return nil
}

func (s *workflowService) Disconnect() {
	s.mu.Lock()
	s.account = ""
	s.writer = nil
	s.mu.Unlock()

	s.cache.Rebind("")
}

func (s *workflowService) session() (string, chain.Writer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.writer, s.account != "" && s.writer != nil
}

func (s *workflowService) Connected() bool {
	_, _, ok := s.session()
	return ok
}

func (s *workflowService) Account() string {
	account, _, _ := s.session()
	return account
}

func (s *workflowService) Refreshing() bool {
	return s.refreshing.Load() > 0
}

func (s *workflowService) Snapshot() *cache.Snapshot {
	return s.cache.Snapshot()
}

// Refresh replaces the cache with a full read of the store.
func (s *workflowService) Refresh(ctx context.Context) error {
	account, _, ok := s.session()
	if !ok {
		return ErrNotConnected
	}
	return s.refresh(ctx, account)
}

func (s *workflowService) refresh(ctx context.Context, account string) error {
	s.refreshing.Add(1)
	defer s.refreshing.Add(-1)

	gen := s.cache.NextGeneration()

	ids, err := s.reader.ListRecordIDs(ctx)
	if err != nil {
		s.log.Error(ctx, "list record ids", "error", err)
		s.status.Error(msgLoadFailed)
		return fmt.Errorf("%w: %w", ErrListFetch, err)
	}

	list := make([]models.Record, 0, len(ids))
	skipped := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		r, err := s.reader.GetRecord(ctx, id)
		if err != nil {
			s.log.Warn(ctx, "skipping record", "id", id, "error", err)
			skipped++
			continue
		}
		list = append(list, r)
	}

	// A cancelled refresh keeps the previous cache.
	if err := ctx.Err(); err != nil {
		return err
	}

	if !s.cache.Replace(gen, list, account) {
		s.log.Debug(ctx, "refresh superseded", "generation", gen)
		return nil
	}
	s.log.Info(ctx, "refresh finished", "records", len(list), "skipped", skipped)

	s.persist(ctx, list, account)
	return nil
}

// persist stores the snapshot for offline use. Failures are only logged.
func (s *workflowService) persist(ctx context.Context, list []models.Record, account string) {
	if s.records == nil {
		return
	}
	if err := s.records.ReplaceAll(ctx, list); err != nil {
		s.log.Warn(ctx, "persist snapshot", "error", err)
		return
	}
	if s.meta == nil {
		return
	}
	info := metadata.SnapshotInfo{
		TakenAt:  s.cache.Snapshot().BuiltAt(),
		Account:  account,
		Contract: s.reader.Address().Hex(),
	}
	if err := s.meta.SaveSnapshotInfo(ctx, info); err != nil {
		s.log.Warn(ctx, "persist snapshot info", "error", err)
	}
}

// LoadOffline fills an empty cache from the last persisted snapshot of the
// same store.
func (s *workflowService) LoadOffline(ctx context.Context) error {
	if s.records == nil {
		return nil
	}

	var info metadata.SnapshotInfo
	if s.meta != nil {
		var err error
		info, err = s.meta.SnapshotInfo(ctx)
		if err != nil {
			return err
		}
		if info.Contract != "" && !common.SameAccount(info.Contract, s.reader.Address().Hex()) {
			s.log.Info(ctx, "offline snapshot belongs to another store", "contract", info.Contract)
			return nil
		}
	}

	list, err := s.records.GetAll(ctx)
	if err != nil {
		return err
	}

	account := s.Account()
	if account == "" {
		account = info.Account
	}
	if s.cache.Restore(list, account, info.TakenAt) {
		s.log.Info(ctx, "offline snapshot loaded", "records", len(list), "taken_at", info.TakenAt)
	}
	return nil
}

// Submit encrypts the draft value and creates a record. The draft is reset
// only after the creation has been confirmed.
func (s *workflowService) Submit(ctx context.Context, draft *models.Draft) error {
	account, writer, ok := s.session()
	if !ok {
		s.status.Error(msgConnectFirst)
		return ErrNotConnected
	}
	if draft == nil {
		draft = &models.Draft{}
	}

	s.status.Pending(msgSubmitting)

	id := models.NewRecordID(s.opts.RecordPrefix, s.opts.Now())
	value := draft.ValueInt()
	log := s.log.With("id", id)

	encrypted, err := s.encryptor.Encrypt(ctx, s.reader.Address(), ethcommon.HexToAddress(account), value)
	if err != nil {
		return s.submitFailed(ctx, log, fmt.Errorf("encrypt: %w", err))
	}

	tx, err := writer.CreateRecord(ctx, models.CreateRecordInput{
		ID:           id,
		Name:         draft.Name,
		Encrypted:    encrypted,
		PublicValue1: value,
		PublicValue2: draft.ScoreInt(),
		Description:  draft.Description,
	})
	if err != nil {
		return s.submitFailed(ctx, log, err)
	}

	s.status.Pending(msgAwaitConfirmation)
	log.Debug(ctx, "create record sent", "tx", tx.Hash())

	if err := s.wait(ctx, tx, s.opts.ConfirmationTimeout); err != nil {
		return s.submitFailed(ctx, log, err)
	}

	s.status.Success(msgUploaded)
	log.Info(ctx, "record created", "tx", tx.Hash())

	if err := s.refresh(ctx, account); err != nil {
		log.Warn(ctx, "reconcile after submit", "error", err)
	}
	draft.Reset()
	return nil
}

func (s *workflowService) submitFailed(ctx context.Context, log logging.Logger, err error) error {
	if errors.Is(err, ErrUserRejected) {
		log.Info(ctx, "submit rejected by user")
		s.status.Error(msgRejected)
		return err
	}
	log.Error(ctx, "submit failed", "error", err)
	s.status.Error(msgUploadFailed + err.Error())
	return fmt.Errorf("%w: %w", ErrSubmitFailed, err)
}

func (s *workflowService) wait(ctx context.Context, tx models.Transaction, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return tx.Wait(ctx)
}

// Decrypt returns the clear value of a record's encrypted field, running a
// verified decryption first unless the store already holds one.
func (s *workflowService) Decrypt(ctx context.Context, id string) (models.Decryption, error) {
	account, writer, ok := s.session()
	if !ok {
		s.status.Error(msgConnectFirst)
		return models.Decryption{}, ErrNotConnected
	}

	log := s.log.With("id", id)

	rec, err := s.reader.GetRecord(ctx, id)
	if err != nil {
		return models.Decryption{}, s.decryptFailed(ctx, log, fmt.Errorf("get record: %w", err))
	}
	if rec.IsVerified {
		s.status.Success(msgAlreadyVerified)
		return models.Decryption{RecordID: id, Value: rec.DecryptedValue, AlreadyVerified: true}, nil
	}

	s.status.Pending(msgDecrypting)

	handle, err := s.reader.GetCiphertextHandle(ctx, id)
	if err != nil {
		return models.Decryption{}, s.decryptFailed(ctx, log, fmt.Errorf("get handle: %w", err))
	}

	submit := func(ctx context.Context, clearValues, proof []byte) (models.Transaction, error) {
		s.status.Pending(msgVerifying)
		return writer.VerifyRecord(ctx, id, clearValues, proof)
	}

	dctx := ctx
	if s.opts.DecryptionTimeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, s.opts.DecryptionTimeout)
		defer cancel()
	}

	res, err := s.decryptor.VerifyDecryption(dctx, []models.Handle{handle}, s.reader.Address(), submit)
	if errors.Is(err, ErrAlreadyVerified) || (errors.Is(err, common.ErrReverted) && s.verifiedNow(ctx, id)) {
		return s.alreadyVerified(ctx, log, account, id)
	}
	if err != nil {
		return models.Decryption{}, s.decryptFailed(ctx, log, err)
	}

	if err := s.refresh(ctx, account); err != nil {
		log.Warn(ctx, "reconcile after decrypt", "error", err)
	}

	value, found := res.ClearValues[handle]
	if !found {
		r, ok := s.cache.Snapshot().Get(id)
		if !ok || !r.IsVerified {
			return models.Decryption{}, s.decryptFailed(ctx, log,
				fmt.Errorf("%w: no clear value for handle %s", client.ErrMalformedResponse, handle.Hex()))
		}
		value = r.DecryptedValue
	}
	s.status.Success(msgVerified)
	log.Info(ctx, "decryption verified")
	return models.Decryption{RecordID: id, Value: value}, nil
}

// verifiedNow reports whether the store holds a verified result for id. A
// verify transaction that was mined and reverted without a reason may have
// lost the race against another client.
func (s *workflowService) verifiedNow(ctx context.Context, id string) bool {
	r, err := s.reader.GetRecord(ctx, id)
	return err == nil && r.IsVerified
}

// alreadyVerified settles a lost verification race: another party anchored
// the result first, so the store value is returned.
func (s *workflowService) alreadyVerified(ctx context.Context, log logging.Logger, account, id string) (models.Decryption, error) {
	log.Info(ctx, "record verified concurrently")
	s.status.Success(msgAlreadyVerified)

	if err := s.refresh(ctx, account); err != nil {
		log.Warn(ctx, "reconcile after race", "error", err)
	}

	out := models.Decryption{RecordID: id, AlreadyVerified: true}
	if r, ok := s.cache.Snapshot().Get(id); ok && r.IsVerified {
		out.Value = r.DecryptedValue
		return out, nil
	}
	if r, err := s.reader.GetRecord(ctx, id); err == nil {
		out.Value = r.DecryptedValue
	}
	return out, nil
}

func (s *workflowService) decryptFailed(ctx context.Context, log logging.Logger, err error) error {
	log.Error(ctx, "decryption failed", "error", err)
	s.status.Error(msgDecryptFailed)
	return fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
}

func (s *workflowService) CheckAvailability(ctx context.Context) (bool, error) {
	ok, err := s.reader.IsAvailable(ctx)
	if err != nil {
		s.log.Error(ctx, "availability check", "error", err)
		s.status.Error(msgAvailabilityFail)
		return false, err
	}
	s.status.Success(msgAvailable + strconv.FormatBool(ok))
	return ok, nil
}
