package mtag

import "github.com/rs/zerolog"

// edit is the resolved change of one field, bound to its storage.
type edit struct {
	field Field
	state State
	apply func(*Tag)
}

// newEdit binds a FieldValue to the operations that set and remove the
// field's storage idents.
func newEdit[T any](field Field, v FieldValue[T], set func(*Tag, T), unset func(*Tag)) edit {
	e := edit{field: field, state: v.State()}
	switch v.State() {
	case StateClear:
		e.apply = unset
	case StateSet:
		val, _ := v.Value()
		e.apply = func(t *Tag) { set(t, val) }
	}
	return e
}

// Apply performs every edit of the plan on tag. Absent fields are left
// untouched. Apply does no I/O and cannot fail.
func (p *Plan) Apply(tag *Tag) {
	for _, e := range p.edits {
		if e.apply != nil {
			e.apply(tag)
		}
	}
}

// MarshalZerologObject logs the fields the plan changes.
func (p *Plan) MarshalZerologObject(ev *zerolog.Event) {
	for f, s := range p.Edits() {
		ev.Str(f.String(), s.String())
	}
	ev.Int("files", len(p.files))
}

func setString(id Ident) func(*Tag, string) {
	return func(t *Tag, v string) { t.SetString(id, v) }
}

func setStrings(id Ident) func(*Tag, []string) {
	return func(t *Tag, v []string) { t.SetStrings(id, v) }
}

func setUint16(id Ident) func(*Tag, uint16) {
	return func(t *Tag, v uint16) { t.SetUint16(id, v) }
}

func setPair(id Ident) func(*Tag, Pair) {
	return func(t *Tag, v Pair) { t.SetPair(id, v) }
}

func remove(ids ...Ident) func(*Tag) {
	return func(t *Tag) { t.Remove(ids...) }
}
