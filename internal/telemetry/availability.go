package telemetry

// Availability records which categories of a Snapshot could not be
// populated. The zero value means everything was available.
type Availability struct {
	missing map[Kind]error
}

// MarkUnavailable records that kind could not be read. The cause is wrapped
// as ErrMetricUnavailable.
func (a *Availability) MarkUnavailable(kind Kind, cause error) {
	if a.missing == nil {
		a.missing = make(map[Kind]error)
	}
	a.missing[kind] = errFactory.Wrap(ErrMetricUnavailable, cause).
		WithMessage(kind.String() + " unavailable")
}

// Available reports whether kind was populated.
func (a Availability) Available(kind Kind) bool {
	_, missing := a.missing[kind]
	return !missing
}

// Reason returns why kind is unavailable, or nil.
func (a Availability) Reason(kind Kind) error {
	return a.missing[kind]
}

// Unavailable lists the missing categories in display order.
func (a Availability) Unavailable() []Kind {
	var kinds []Kind
	for _, k := range Kinds() {
		if !a.Available(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Count is the number of unavailable categories.
func (a Availability) Count() int {
	return len(a.missing)
}
