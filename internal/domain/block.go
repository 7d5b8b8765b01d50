package domain

// BlockSummary is the read-only view of a fetched block: its height, how
// many transactions it carried, and which validators signed its commit.
type BlockSummary struct {
	Height  int64
	TxCount int
	Signers map[string]struct{}
}

// Signed reports whether the validator's signature is present in the
// block's commit.
func (b BlockSummary) Signed(addr string) bool {
	_, ok := b.Signers[addr]
	return ok
}
