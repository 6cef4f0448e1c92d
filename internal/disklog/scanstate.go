package disklog

// scanCursor tracks position during a single scan. It is used by Len and
// exists only for the lifetime of one call — unlike the persistent offset
// index this store's ancestor kept resident in memory for the life of the
// whole process, nothing here survives past the call that created it, since
// every operation here walks the file directly rather than trusting a
// cached position.
type scanCursor struct {
	offset int64
}

func (c *scanCursor) advance(frameLen uint64) {
	c.offset += int64(frameLen)
}
