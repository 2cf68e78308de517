package resource

// Scope tracks the handles acquired during one marshaling call so that
// every exit path, including errors part-way through a composite value,
// releases them. A Scope is not safe for concurrent use.
type Scope struct {
	table   *Table
	handles []Handle
}

// NewScope opens a scope over t.
func (t *Table) NewScope() *Scope {
	return &Scope{table: t}
}

// Acquire registers v. If the table is closed v is destroyed at once and
// Acquire returns ErrClosed.
func (s *Scope) Acquire(typeID uint32, v Destroyer) (Handle, error) {
	h := s.table.Insert(typeID, v)
	if h == 0 {
		v.Destroy()
		return 0, ErrClosed
	}
	s.handles = append(s.handles, h)
	return h, nil
}

// Release destroys the value behind h now rather than at Close.
func (s *Scope) Release(h Handle) {
	for i := len(s.handles) - 1; i >= 0; i-- {
		if s.handles[i] == h {
			s.handles = append(s.handles[:i], s.handles[i+1:]...)
			break
		}
	}
	s.table.Remove(h)
}

// Held returns the number of handles not yet released.
func (s *Scope) Held() int { return len(s.handles) }

// Close releases every remaining handle in reverse acquisition order.
func (s *Scope) Close() {
	for i := len(s.handles) - 1; i >= 0; i-- {
		s.table.Remove(s.handles[i])
	}
	s.handles = s.handles[:0]
}
