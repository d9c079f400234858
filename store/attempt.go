package store

import (
	"encoding/binary"

	"github.com/MixinNetwork/launchpad/minter"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v3"
)

const (
	prefixAttemptPayload = "ATTEMPT:PAYLOAD:"
	prefixAttemptState   = "ATTEMPT:STATE:"
)

func (bs *BadgerStore) WriteAttempt(a *minter.Attempt) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		err := bs.resetOldAttempt(txn, a)
		if err != nil {
			return err
		}
		key := []byte(prefixAttemptPayload + a.IdempotencyKey)
		val := common.MsgpackMarshalPanic(a)
		err = txn.Set(key, val)
		if err != nil {
			return err
		}

		key = buildAttemptTimedKey(a)
		return txn.Set(key, []byte{1})
	})
}

func (bs *BadgerStore) ReadAttempt(idempotencyKey string) (*minter.Attempt, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readAttempt(txn, idempotencyKey)
}

func (bs *BadgerStore) ListAttempts(state int, limit int) ([]*minter.Attempt, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(attemptStatePrefix(state))
	it := txn.NewIterator(opts)
	defer it.Close()

	var attempts []*minter.Attempt
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		key := it.Item().Key()
		id := string(key[len(opts.Prefix)+8:])
		a, err := bs.readAttempt(txn, id)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
		if len(attempts) == limit {
			break
		}
	}
	return attempts, nil
}

func (bs *BadgerStore) readAttempt(txn *badger.Txn, idempotencyKey string) (*minter.Attempt, error) {
	key := []byte(prefixAttemptPayload + idempotencyKey)
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var a minter.Attempt
	err = common.MsgpackUnmarshal(val, &a)
	return &a, err
}

func (bs *BadgerStore) resetOldAttempt(txn *badger.Txn, a *minter.Attempt) error {
	old, err := bs.readAttempt(txn, a.IdempotencyKey)
	if err != nil || old == nil {
		return err
	}
	if old.State == a.State {
		return nil
	}

	key := buildAttemptTimedKey(old)
	return txn.Delete(key)
}

func buildAttemptTimedKey(a *minter.Attempt) []byte {
	buf := make([]byte, 8)
	ts := a.UpdatedAt.UnixNano()
	binary.BigEndian.PutUint64(buf, uint64(ts))
	prefix := attemptStatePrefix(a.State)
	key := append([]byte(prefix), buf...)
	return append(key, []byte(a.IdempotencyKey)...)
}

func attemptStatePrefix(state int) string {
	prefix := prefixAttemptState
	switch state {
	case minter.AttemptStateRequesting:
		return prefix + "requestg"
	case minter.AttemptStateAwaitingSignature:
		return prefix + "awaitsig"
	case minter.AttemptStateSubmitted:
		return prefix + "submittd"
	case minter.AttemptStateConfirming:
		return prefix + "confirmg"
	case minter.AttemptStateFinalized:
		return prefix + "finalizd"
	case minter.AttemptStateFailed:
		return prefix + "failedxx"
	}
	panic(state)
}
