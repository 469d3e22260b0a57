package service

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is one window of an active listing
type Page[T any] struct {
	Items []T
	Total int64
	Skip  int
	Limit int
}

func validatePage(skip, limit int) error {
	if skip < 0 {
		return newError(KindValidation, "skip must be greater than or equal to 0")
	}
	if limit < 1 || limit > MaxLimit {
		return newError(KindValidation, "limit must be between 1 and 100")
	}
	return nil
}
