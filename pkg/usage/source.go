package usage

// Source is a provider-native usage report that knows how to normalize itself.
// Each provider adapter supplies its own implementation.
type Source interface {
	Normalize() (Record, error)
}

// Normalize converts src into a Record. A nil source means the response had
// no usage block and yields ErrUnavailable.
func Normalize(src Source) (Record, error) {
	if src == nil {
		return Record{}, ErrUnavailable
	}
	return src.Normalize()
}
