package viewmodel

// Pagination drives the previous/next controls. The board never exposes raw cursors to the
// browser; the controls post a direction and the server follows its stored cursor.
type Pagination struct {
	HasPrev    bool
	HasNext    bool
	TotalCount int
	Shown      int
}

// Visible reports whether the pager should render at all.
func (p Pagination) Visible() bool {
	return p.HasPrev || p.HasNext
}
