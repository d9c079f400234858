package store

import (
	"github.com/MixinNetwork/launchpad/minter"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v3"
)

const prefixProgressPayload = "PROGRESS:PAYLOAD:"

// The progress mirror keeps the last supply view seen for a collection so
// a restarted session can render something before the feed connects.

func (bs *BadgerStore) WriteProgress(collectionId string, p *minter.Progress) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		key := []byte(prefixProgressPayload + collectionId)
		return txn.Set(key, common.MsgpackMarshalPanic(p))
	})
}

func (bs *BadgerStore) ReadProgress(collectionId string) (*minter.Progress, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	key := []byte(prefixProgressPayload + collectionId)
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
	var p minter.Progress
	err = common.MsgpackUnmarshal(val, &p)
	return &p, err
}
