// Package auction computes the calling order for a live auction.
//
// The order mixes item values so the auction does not ramp
// monotonically: picks cycle between the cheap end, the middle and the
// upper middle of the remaining value range, and items by the author
// who was just called are penalized to avoid back-to-back runs.
package auction

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jkovac/artshow/internal/model"
)

// Fractions of the remaining value range, cycled through per pick.
var indexCoefs = [...]float64{0, 0.3, 0.6}

// Order assigns auction sort codes 1..N to the given items and returns
// them in calling order. The input slice is not modified.
func Order(items []model.Item) []model.Item {
	if len(items) == 0 {
		return nil
	}

	pool := make([]model.Item, len(items))
	copy(pool, items)
	sort.SliceStable(pool, func(i, j int) bool {
		return amountOf(pool[i]).Cmp(amountOf(pool[j])) < 0
	})

	ordered := make([]model.Item, 0, len(pool))
	coefIndex := 0
	lastAuthor := ""
	haveLast := false
	for len(pool) > 0 {
		idealIndex := int(indexCoefs[coefIndex] * float64(len(pool)))
		coefIndex = (coefIndex + 1) % len(indexCoefs)

		pick := pickIndex(pool, idealIndex, lastAuthor, haveLast)

		item := pool[pick]
		item.AuctionSortCode = len(ordered) + 1
		ordered = append(ordered, item)
		lastAuthor = item.Author
		haveLast = true
		pool = append(pool[:pick], pool[pick+1:]...)
	}
	return ordered
}

// pickIndex scores every remaining item by its distance from the ideal
// index and returns the best one. Items by the suppressed author get
// their score squared, which demotes them without excluding them.
func pickIndex(pool []model.Item, idealIndex int, suppressedAuthor string, haveSuppressed bool) int {
	axisLenLeft := float64(idealIndex + 1)
	axisLenRight := float64(len(pool) - idealIndex + 1)

	best := -1
	bestScore := 0.0
	for i, item := range pool {
		var x float64
		if i > idealIndex {
			x = float64(i-idealIndex) / axisLenRight
		} else {
			x = float64(idealIndex-i) / axisLenLeft
		}

		score := 0.5 * math.Cos(x)
		if haveSuppressed && item.Author == suppressedAuthor {
			score = score * score
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func amountOf(item model.Item) decimal.Decimal {
	if item.Amount != nil {
		return *item.Amount
	}
	return decimal.Zero
}
