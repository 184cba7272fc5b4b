package mtag

import (
	"iter"
	"slices"
)

// Field is an editable metadata field.
type Field int

// Fields in the order they are resolved and applied.
const (
	FieldTitle Field = iota
	FieldArtist
	FieldAlbum
	FieldGenre
	FieldCategory
	FieldDescription
	FieldType
	FieldArtwork
	FieldBPM
	FieldTrack
	FieldDisc
	FieldCopyright
	FieldISRC
	FieldShow
	FieldWork
	FieldYear
	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldTitle:       "title",
	FieldArtist:      "artist",
	FieldAlbum:       "album",
	FieldGenre:       "genre",
	FieldCategory:    "category",
	FieldDescription: "description",
	FieldType:        "type",
	FieldArtwork:     "artwork",
	FieldBPM:         "bpm",
	FieldTrack:       "track",
	FieldDisc:        "disc",
	FieldCopyright:   "copyright",
	FieldISRC:        "isrc",
	FieldShow:        "show",
	FieldWork:        "work",
	FieldYear:        "year",
}

// String returns the flag name of the field.
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// AllFields returns every editable field.
func AllFields() []Field {
	out := make([]Field, fieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// ParseField looks up a field by flag name.
func ParseField(name string) (Field, bool) {
	i := slices.Index(fieldNames[:], name)
	if i < 0 {
		return 0, false
	}
	return Field(i), true
}

// Args holds the raw command-line input per field. Missing keys are absent.
type Args map[Field]Raw

// Plan is the resolved description of what to change, shared read-only by
// every file of an invocation.
type Plan struct {
	edits []edit
	files []string
}

// NewPlan resolves every field and loads the artwork. It fails before any
// target file is touched if a value is malformed, no field was given or
// files is empty.
func NewPlan(args Args, files []string) (*Plan, error) {
	p := &Plan{files: slices.Clone(files)}

	steps := [fieldCount]func(Raw) error{
		FieldTitle:       p.bindText(FieldTitle, IdentTitle),
		FieldArtist:      bind(p, FieldArtist, resolveList, (*Tag).SetArtists, (*Tag).RemoveArtists),
		FieldAlbum:       p.bindText(FieldAlbum, IdentAlbum),
		FieldGenre:       bind(p, FieldGenre, resolveList, (*Tag).SetGenres, (*Tag).RemoveGenres),
		FieldCategory:    bind(p, FieldCategory, resolveList, setStrings(IdentCategory), remove(IdentCategory)),
		FieldDescription: p.bindText(FieldDescription, IdentDescription),
		FieldType:        bind(p, FieldType, resolveMediaType, (*Tag).SetMediaType, remove(IdentMediaType)),
		FieldArtwork:     bind(p, FieldArtwork, resolveArtwork, (*Tag).SetArtwork, (*Tag).RemoveArtwork),
		FieldBPM:         bind(p, FieldBPM, resolveUint16, setUint16(IdentBPM), remove(IdentBPM)),
		FieldTrack:       bind(p, FieldTrack, resolvePair, setPair(IdentTrack), remove(IdentTrack)),
		FieldDisc:        bind(p, FieldDisc, resolvePair, setPair(IdentDisc), remove(IdentDisc)),
		FieldCopyright:   p.bindText(FieldCopyright, IdentCopyright),
		FieldISRC:        p.bindText(FieldISRC, IdentISRC),
		FieldShow:        p.bindText(FieldShow, IdentTVShow),
		FieldWork:        p.bindText(FieldWork, IdentWork),
		FieldYear:        bind(p, FieldYear, resolveYear, setString(IdentYear), remove(IdentYear)),
	}

	for f, step := range steps {
		if err := step(args[Field(f)]); err != nil {
			return nil, err
		}
	}

	if !slices.ContainsFunc(p.edits, func(e edit) bool { return e.state != StateAbsent }) {
		return nil, ErrNoFields
	}
	if len(p.files) == 0 {
		return nil, ErrNoFiles
	}

	return p, nil
}

// bind returns the step resolving one field and recording its edit.
func bind[T any](p *Plan, field Field, resolve func(Field, Raw) (FieldValue[T], error), set func(*Tag, T), unset func(*Tag)) func(Raw) error {
	return func(raw Raw) error {
		v, err := resolve(field, raw)
		if err != nil {
			return err
		}
		p.edits = append(p.edits, newEdit(field, v, set, unset))
		return nil
	}
}

func (p *Plan) bindText(field Field, id Ident) func(Raw) error {
	return bind(p, field, resolveString, setString(id), remove(id))
}

// Files returns a copy of the target files in order.
func (p *Plan) Files() []string {
	return slices.Clone(p.files)
}

// State returns the resolution of a field.
func (p *Plan) State(f Field) State {
	for _, e := range p.edits {
		if e.field == f {
			return e.state
		}
	}
	return StateAbsent
}

// Edits iterates over the fields the plan clears or sets.
func (p *Plan) Edits() iter.Seq2[Field, State] {
	return func(yield func(Field, State) bool) {
		for _, e := range p.edits {
			if e.state == StateAbsent {
				continue
			}
			if !yield(e.field, e.state) {
				return
			}
		}
	}
}
