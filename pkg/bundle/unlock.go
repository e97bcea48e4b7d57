package bundle

import (
	"github.com/google/uuid"

	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/models"
)

// Unlock grants caller permanent read access to the bundle's private contents
// in exchange for exactly its cost. Overpayment and underpayment are both
// rejected; there is no change-making. Unlocking a bundle already unlocked is
// a no-op that returns the contents without logging a second sale.
func (s *Service) Unlock(caller string, id uint64, funds, clock uint64) (models.Contents, error) {
	b, err := s.load(id)
	if err != nil {
		return models.Contents{}, err
	}
	hidden, err := s.hiddenFromPublic(id)
	if err != nil {
		return models.Contents{}, err
	}
	if hidden {
		return models.Contents{}, ErrBundleNotFound
	}
	if funds != b.Cost {
		return models.Contents{}, ErrPaymentMismatch
	}

	contents := models.Contents{Text: b.ContentsText, ExternalRef: b.ExternalRef, Passphrase: b.Passphrase}

	already, err := s.IsUnlockedBy(caller, id)
	if err != nil {
		return models.Contents{}, err
	}
	if already || caller == b.Owner {
		return contents, nil
	}

	sealed, err := s.IsSealed(id)
	if err != nil {
		return models.Contents{}, err
	}
	if sealed {
		return models.Contents{}, ErrSealed
	}

	if err := kvstore.SetJSON(s.txn, kvstore.Key(kvstore.RegionUnlockedByID, []byte(caller), kvstore.U64Key(id)), true); err != nil {
		return models.Contents{}, err
	}
	if _, err := kvstore.NewList(s.txn, kvstore.RegionUnlocked, []byte(caller)).Append(encodeJSON(id)); err != nil {
		return models.Contents{}, err
	}
	if err := s.logSale(b, caller, clock); err != nil {
		return models.Contents{}, err
	}
	return contents, nil
}

// logSale appends the owner-side and buyer-side records of one paid unlock.
// Record ids are derived from the unlock itself so replicas answering the same
// call produce identical logs.
func (s *Service) logSale(b models.Bundle, buyer string, clock uint64) error {
	seed := kvstore.Key("tx", kvstore.U64Key(b.ID), []byte(buyer), kvstore.U64Key(clock))
	txID := uuid.NewSHA1(uuid.NameSpaceOID, seed).String()

	sale := models.SaleTx{
		ID:        txID,
		BundleID:  b.ID,
		Buyer:     s.displayName(buyer),
		Amount:    b.Cost,
		Timestamp: clock,
	}
	if _, err := kvstore.NewList(s.txn, kvstore.RegionSaleTx, []byte(b.Owner)).Append(encodeJSON(sale)); err != nil {
		return err
	}

	purchase := models.PurchaseTx{
		ID:        txID,
		BundleID:  b.ID,
		Handle:    s.displayName(b.Owner),
		Amount:    b.Cost,
		Timestamp: clock,
	}
	_, err := kvstore.NewList(s.txn, kvstore.RegionPurchaseTx, []byte(buyer)).Append(encodeJSON(purchase))
	return err
}

// displayName prefers the registered handle and falls back to the address.
func (s *Service) displayName(addr string) string {
	acct, err := s.reg.Account(addr)
	if err != nil {
		return addr
	}
	return acct.Handle
}

// ListUnlocked returns the caller's unlock history, newest first.
func (s *Service) ListUnlocked(caller string, page, pageSize uint32) ([]models.BundleView, error) {
	pageSize = s.limits.ClampPageSize(pageSize)
	entries, err := kvstore.NewList(s.txn, kvstore.RegionUnlocked, []byte(caller)).PageDesc(page, pageSize)
	if err != nil {
		return nil, err
	}
	views := make([]models.BundleView, 0, len(entries))
	for _, e := range entries {
		var id uint64
		if err := decodeJSON(e.Value, &id); err != nil {
			return nil, err
		}
		v, err := s.Get(id, caller)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// ListSales returns the owner-side sale log, newest first.
func (s *Service) ListSales(owner string, page, pageSize uint32) ([]models.SaleTx, error) {
	pageSize = s.limits.ClampPageSize(pageSize)
	entries, err := kvstore.NewList(s.txn, kvstore.RegionSaleTx, []byte(owner)).PageDesc(page, pageSize)
	if err != nil {
		return nil, err
	}
	txs := make([]models.SaleTx, 0, len(entries))
	for _, e := range entries {
		var tx models.SaleTx
		if err := decodeJSON(e.Value, &tx); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// ListPurchases returns the buyer-side purchase log, newest first.
func (s *Service) ListPurchases(buyer string, page, pageSize uint32) ([]models.PurchaseTx, error) {
	pageSize = s.limits.ClampPageSize(pageSize)
	entries, err := kvstore.NewList(s.txn, kvstore.RegionPurchaseTx, []byte(buyer)).PageDesc(page, pageSize)
	if err != nil {
		return nil, err
	}
	txs := make([]models.PurchaseTx, 0, len(entries))
	for _, e := range entries {
		var tx models.PurchaseTx
		if err := decodeJSON(e.Value, &tx); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
