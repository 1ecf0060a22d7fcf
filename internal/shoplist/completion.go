package shoplist

import (
	"github.com/shopspring/decimal"

	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/totals"
)

// IsComplete reports whether the list is non-empty and every item has been
// picked up.
func IsComplete(items []model.Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !it.Completed {
			return false
		}
	}
	return true
}

// Summary is the state derived from the list after every change.
type Summary struct {
	Total    decimal.Decimal
	Complete bool
	Done     int
	Pending  int
}

func Summarize(items []model.Item) Summary {
	s := Summary{Total: totals.GrandTotal(items), Complete: IsComplete(items)}
	for _, it := range items {
		if it.Completed {
			s.Done++
		} else {
			s.Pending++
		}
	}
	return s
}
