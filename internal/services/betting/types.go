package betting

import "errors"

var (
	ErrMarketNotOpen = errors.New("market is not open for betting")
	ErrInvalidOption = errors.New("bet option does not belong to market")
	ErrInvalidAmount = errors.New("stake below minimum")
	ErrNotVoidable   = errors.New("only pending bets can be voided")
)

type Config struct {
	// MinStake is the smallest accepted stake, in paise.
	MinStake int64
	// VoidRestoresPool controls whether voiding a bet also removes its
	// stake from the option's pool total. The original system leaves the
	// pool untouched so the historical pool shape survives voids; flipping
	// this keeps pool totals equal to outstanding stake instead.
	VoidRestoresPool bool
}
