// Package evaluation grades settled spread predictions as flat-stake bets
// and summarizes how the model would have performed against the book.
package evaluation

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/yourusername/nba-predict/internal/models"
)

// Every spread bet is graded at the standard -110 price: one unit risked,
// winPayout units returned on a win, the stake returned on a push.
const winPayout = 100.0 / 110.0

// SettledBet pairs a graded prediction with the game's actual home margin
type SettledBet struct {
	Prediction   *models.Prediction
	ActualMargin int
}

// Report summarizes flat-stake performance and margin accuracy over a set
// of settled predictions
type Report struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	TotalBets int     `json:"total_bets"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Pushes    int     `json:"pushes"`
	WinRate   float64 `json:"win_rate"`

	NetUnits     float64 `json:"net_units"`
	ROI          float64 `json:"roi"`
	ProfitFactor float64 `json:"profit_factor"`
	Expectancy   float64 `json:"expectancy"`
	MaxDrawdown  float64 `json:"max_drawdown"`

	MeanAbsoluteError float64 `json:"mean_absolute_error"`
	MeanError         float64 `json:"mean_error"`

	EquityCurve EquityCurve `json:"equity_curve"`
}

// Evaluate grades each settled bet at one flat unit and computes the
// performance report. Bets are processed in start-time order regardless of
// input order.
func Evaluate(bets []SettledBet) Report {
	report := Report{}
	if len(bets) == 0 {
		return report
	}

	sorted := append([]SettledBet{}, bets...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Prediction.StartTime.Before(sorted[j].Prediction.StartTime)
	})

	report.StartDate = sorted[0].Prediction.StartTime
	report.EndDate = sorted[len(sorted)-1].Prediction.StartTime
	report.TotalBets = len(sorted)
	report.EquityCurve = make(EquityCurve, 0, len(sorted))

	bankroll := 0.0
	peak := 0.0
	grossProfit := 0.0
	grossLoss := 0.0
	absErrSum := 0.0
	errSum := 0.0

	for _, bet := range sorted {
		pnl := grade(bet.Prediction)
		switch {
		case pnl > 0:
			report.Wins++
			grossProfit += pnl
		case pnl < 0:
			report.Losses++
			grossLoss += -pnl
		default:
			report.Pushes++
		}

		bankroll += pnl
		if bankroll > peak {
			peak = bankroll
		}
		report.EquityCurve = append(report.EquityCurve, EquityPoint{
			Time:     bet.Prediction.StartTime,
			Bankroll: bankroll,
			Drawdown: peak - bankroll,
			PnL:      pnl,
		})

		residual := bet.Prediction.PredictedHomeMOV - float64(bet.ActualMargin)
		absErrSum += math.Abs(residual)
		errSum += residual
	}

	if decided := report.Wins + report.Losses; decided > 0 {
		report.WinRate = float64(report.Wins) / float64(decided)
	}
	report.NetUnits = grossProfit - grossLoss
	report.ROI = report.NetUnits / float64(report.TotalBets)
	if grossLoss > 0 {
		report.ProfitFactor = grossProfit / grossLoss
	} else if grossProfit > 0 {
		report.ProfitFactor = math.Inf(1)
	}
	report.Expectancy = report.NetUnits / float64(report.TotalBets)
	report.MaxDrawdown = report.EquityCurve.MaxDrawdown()
	report.MeanAbsoluteError = absErrSum / float64(report.TotalBets)
	report.MeanError = errSum / float64(report.TotalBets)

	return report
}

// ToJSON exports the report to JSON
func (r Report) ToJSON() string {
	data, _ := json.Marshal(r)
	return string(data)
}

func grade(prediction *models.Prediction) float64 {
	if prediction.BetResult == nil {
		return 0
	}
	switch *prediction.BetResult {
	case models.BetResultWin:
		return winPayout
	case models.BetResultLoss:
		return -1
	default:
		return 0
	}
}
