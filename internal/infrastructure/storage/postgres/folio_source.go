package postgres

import (
	"context"

	"puntoventa/pkg/folio"
)

// FolioSource adapts TxManager to folio.Source so folio allocation
// joins whatever transaction is active on the context.
type FolioSource struct {
	txm *TxManager
}

// NewFolioSource creates a folio source backed by the tx manager.
func NewFolioSource(txm *TxManager) *FolioSource {
	return &FolioSource{txm: txm}
}

// Querier implements folio.Source.
func (s *FolioSource) Querier(ctx context.Context) folio.Querier {
	return s.txm.GetQuerier(ctx)
}
