package minter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MixinNetwork/launchpad/mint"
	"github.com/shopspring/decimal"
)

type fakeStore struct {
	sync.Mutex
	props    map[string][]byte
	attempts map[string]*Attempt
	progress map[string]*Progress

	failState int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		props:    make(map[string][]byte),
		attempts: make(map[string]*Attempt),
		progress: make(map[string]*Progress),
	}
}

func (s *fakeStore) WriteProperty(key, val []byte) error {
	s.Lock()
	defer s.Unlock()
	s.props[string(key)] = val
	return nil
}

func (s *fakeStore) ReadProperty(key []byte) ([]byte, error) {
	s.Lock()
	defer s.Unlock()
	return s.props[string(key)], nil
}

func (s *fakeStore) WriteAttempt(a *Attempt) error {
	s.Lock()
	defer s.Unlock()
	if s.failState != 0 && a.State == s.failState {
		return errors.New("journal unavailable")
	}
	dup := *a
	s.attempts[a.IdempotencyKey] = &dup
	return nil
}

func (s *fakeStore) ReadAttempt(idempotencyKey string) (*Attempt, error) {
	s.Lock()
	defer s.Unlock()
	return s.attempts[idempotencyKey], nil
}

func (s *fakeStore) ListAttempts(state int, limit int) ([]*Attempt, error) {
	s.Lock()
	defer s.Unlock()
	var attempts []*Attempt
	for _, a := range s.attempts {
		if a.State != state {
			continue
		}
		attempts = append(attempts, a)
		if len(attempts) == limit {
			break
		}
	}
	return attempts, nil
}

func (s *fakeStore) WriteProgress(collectionId string, p *Progress) error {
	s.Lock()
	defer s.Unlock()
	s.progress[collectionId] = p
	return nil
}

func (s *fakeStore) ReadProgress(collectionId string) (*Progress, error) {
	s.Lock()
	defer s.Unlock()
	return s.progress[collectionId], nil
}

type fakeInventory struct {
	sync.Mutex
	collection *mint.Collection
	progress   *Progress

	builds      int
	buildErr    error
	finalizes   map[string]int
	finalizeErr error
	reports     []string
	reportGate  chan struct{}
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{finalizes: make(map[string]int)}
}

func (f *fakeInventory) ReadCollection(ctx context.Context, collectionId string) (*mint.Collection, error) {
	f.Lock()
	defer f.Unlock()
	if f.collection == nil {
		return nil, mint.ErrCollectionNotFound
	}
	return f.collection, nil
}

func (f *fakeInventory) BuildMintTransaction(ctx context.Context, collectionId, buyer string, unitPrice decimal.Decimal) (*UnsignedTransaction, error) {
	f.Lock()
	defer f.Unlock()
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	f.builds += 1
	return &UnsignedTransaction{
		Raw:            []byte(fmt.Sprintf("raw-%d", f.builds)),
		IdempotencyKey: fmt.Sprintf("key-%d", f.builds),
	}, nil
}

func (f *fakeInventory) FinalizeMint(ctx context.Context, collectionId, buyer, signature, idempotencyKey string) error {
	f.Lock()
	defer f.Unlock()
	if f.finalizeErr != nil {
		return f.finalizeErr
	}
	f.finalizes[idempotencyKey] += 1
	return nil
}

func (f *fakeInventory) ReportMintFailure(ctx context.Context, collectionId, buyer string, quantity int, reason string) error {
	f.Lock()
	gate := f.reportGate
	f.Unlock()
	if gate != nil {
		<-gate
	}
	f.Lock()
	defer f.Unlock()
	f.reports = append(f.reports, reason)
	return nil
}

func (f *fakeInventory) ReadProgress(ctx context.Context, collectionId string) (*Progress, error) {
	f.Lock()
	defer f.Unlock()
	if f.progress == nil {
		return nil, errors.New("no progress")
	}
	return f.progress, nil
}

func (f *fakeInventory) buildCount() int {
	f.Lock()
	defer f.Unlock()
	return f.builds
}

func (f *fakeInventory) finalizeCount(key string) int {
	f.Lock()
	defer f.Unlock()
	return f.finalizes[key]
}

func (f *fakeInventory) reportCount() int {
	f.Lock()
	defer f.Unlock()
	return len(f.reports)
}

func (f *fakeInventory) setProgress(p *Progress) {
	f.Lock()
	defer f.Unlock()
	f.progress = p
}

type fakeSigner struct {
	sync.Mutex
	calls  int
	failAt int
	err    error
}

func (s *fakeSigner) Sign(ctx context.Context, raw []byte) ([]byte, error) {
	s.Lock()
	defer s.Unlock()
	s.calls += 1
	if s.failAt > 0 && s.calls == s.failAt {
		err := s.err
		if err == nil {
			err = mint.ErrUserRejected
		}
		return nil, err
	}
	return append([]byte("signed-"), raw...), nil
}

type fakeLedger struct {
	sync.Mutex
	submits    int
	submitErr  error
	confirmErr error
}

func (l *fakeLedger) Submit(ctx context.Context, signedRaw []byte) (string, error) {
	l.Lock()
	defer l.Unlock()
	if l.submitErr != nil {
		return "", l.submitErr
	}
	l.submits += 1
	return fmt.Sprintf("sig-%d", l.submits), nil
}

func (l *fakeLedger) Confirm(ctx context.Context, signature string) error {
	l.Lock()
	defer l.Unlock()
	return l.confirmErr
}

type fakeOracle struct {
	rate decimal.Decimal
	err  error
}

func (o *fakeOracle) ExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	if o.err != nil {
		return decimal.Zero, o.err
	}
	return o.rate, nil
}

type fakeFeed struct {
	sync.Mutex
	calls        int
	chans        []chan *Progress
	errs         []error
	alwaysClosed bool
}

func (f *fakeFeed) Subscribe(ctx context.Context, collectionId string) (<-chan *Progress, error) {
	f.Lock()
	defer f.Unlock()
	i := f.calls
	f.calls += 1
	if f.alwaysClosed {
		ch := make(chan *Progress)
		close(ch)
		return ch, nil
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.chans) {
		return f.chans[i], nil
	}
	return nil, errors.New("feed unavailable")
}

func (f *fakeFeed) subscribeCount() int {
	f.Lock()
	defer f.Unlock()
	return f.calls
}

type fakeListener struct {
	sync.Mutex
	events []string
}

func (l *fakeListener) record(ev string) {
	l.Lock()
	defer l.Unlock()
	l.events = append(l.events, ev)
}

func (l *fakeListener) UnitStarted(index, total int) {
	l.record(fmt.Sprintf("started %d/%d", index, total))
}

func (l *fakeListener) UnitFinalized(index, total int, signature string) {
	l.record(fmt.Sprintf("finalized %d/%d", index, total))
}

func (l *fakeListener) UnitFailed(index, total int, err error) {
	l.record(fmt.Sprintf("failed %d/%d", index, total))
}

func (l *fakeListener) BatchComplete(succeeded, requested int) {
	l.record(fmt.Sprintf("complete %d/%d", succeeded, requested))
}

func (l *fakeListener) all() []string {
	l.Lock()
	defer l.Unlock()
	return append([]string{}, l.events...)
}
