package rules

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDailyUsage is the assumed consumption, in copies per day, when no
// measured rate is available.
var DefaultDailyUsage = decimal.New(5, -1)

const ForecastHorizonDays = 30

var safetyRatio = decimal.New(2, -1)

type StockForecast struct {
	CurrentStock     int             `json:"currentStock"`
	MinStock         int             `json:"minStock"`
	SafetyStock      int             `json:"safetyStock"`
	RestockPoint     int             `json:"restockPoint"`
	PredictedLevel   float64         `json:"predictedLevel"`
	DaysUntilRestock int             `json:"daysUntilRestock"`
	RestockDate      time.Time       `json:"restockDate"`
	DailyUsage       decimal.Decimal `json:"dailyUsage"`
}

// NeedsRestock reports whether the stock is at or below the restock point.
func (f StockForecast) NeedsRestock() bool {
	return f.CurrentStock <= f.RestockPoint
}

// ForecastStock projects when a publication should be restocked. A zero or
// negative dailyUsage falls back to DefaultDailyUsage. DaysUntilRestock goes
// negative once the stock is already below the restock point.
func ForecastStock(currentStock, minStock int, dailyUsage decimal.Decimal, now time.Time) StockForecast {
	if !dailyUsage.IsPositive() {
		dailyUsage = DefaultDailyUsage
	}

	current := decimal.NewFromInt(int64(currentStock))
	safety := int(decimal.NewFromInt(int64(minStock)).Mul(safetyRatio).Ceil().IntPart())
	restockPoint := minStock + safety

	days := int(current.Sub(decimal.NewFromInt(int64(restockPoint))).Div(dailyUsage).Floor().IntPart())

	predicted := current.Sub(dailyUsage.Mul(decimal.NewFromInt(ForecastHorizonDays)))
	if predicted.IsNegative() {
		predicted = decimal.Zero
	}

	restockDate := now
	if currentStock > restockPoint {
		restockDate = now.Add(time.Duration(days) * 24 * time.Hour)
	}

	return StockForecast{
		CurrentStock:     currentStock,
		MinStock:         minStock,
		SafetyStock:      safety,
		RestockPoint:     restockPoint,
		PredictedLevel:   predicted.InexactFloat64(),
		DaysUntilRestock: days,
		RestockDate:      restockDate,
		DailyUsage:       dailyUsage,
	}
}
