package naming

// SourceClaims tracks which source files a batch has already scheduled, so
// a dry run reports a repeated record the way a live run would: the second
// move finds its source gone.
type SourceClaims struct {
	owners map[string]string // source path → destination it was claimed for
}

// NewSourceClaims creates an empty tracker.
func NewSourceClaims() *SourceClaims {
	return &SourceClaims{owners: make(map[string]string)}
}

// Claim records that src moves to dst. If src was already claimed it returns
// the earlier destination and false.
func (c *SourceClaims) Claim(src, dst string) (string, bool) {
	if prev, ok := c.owners[src]; ok {
		return prev, false
	}
	c.owners[src] = dst
	return dst, true
}
