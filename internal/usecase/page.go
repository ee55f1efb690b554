package usecase

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// NormalizePage clamps client supplied paging values.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
