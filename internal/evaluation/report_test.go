package evaluation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nba-predict/internal/models"
)

func settledBet(t *testing.T, result string, daysIn int, predictedMOV float64, actualMargin int) SettledBet {
	t.Helper()
	start := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, daysIn)
	return SettledBet{
		Prediction: &models.Prediction{
			StartTime:        start,
			PredictedHomeMOV: predictedMOV,
			PredictedAwayMOV: -predictedMOV,
			BetResult:        &result,
		},
		ActualMargin: actualMargin,
	}
}

func TestEvaluateEmpty(t *testing.T) {
	report := Evaluate(nil)

	assert.Equal(t, 0, report.TotalBets)
	assert.Zero(t, report.NetUnits)
	assert.Empty(t, report.EquityCurve)
}

func TestEvaluateRecord(t *testing.T) {
	bets := []SettledBet{
		settledBet(t, models.BetResultWin, 0, 6, 10),
		settledBet(t, models.BetResultLoss, 1, 3, -4),
		settledBet(t, models.BetResultWin, 2, -2, -8),
		settledBet(t, models.BetResultPush, 3, 5, 5),
		settledBet(t, models.BetResultWin, 4, 8, 12),
		settledBet(t, models.BetResultLoss, 5, -1, 6),
	}

	report := Evaluate(bets)

	assert.Equal(t, 6, report.TotalBets)
	assert.Equal(t, 3, report.Wins)
	assert.Equal(t, 2, report.Losses)
	assert.Equal(t, 1, report.Pushes)
	assert.InDelta(t, 0.6, report.WinRate, 1e-12)

	// 3 wins at 100/110 against 2 unit losses
	expectedNet := 3*(100.0/110.0) - 2
	assert.InDelta(t, expectedNet, report.NetUnits, 1e-12)
	assert.InDelta(t, expectedNet/6, report.ROI, 1e-12)
	assert.InDelta(t, (3*(100.0/110.0))/2, report.ProfitFactor, 1e-12)
	assert.InDelta(t, expectedNet/6, report.Expectancy, 1e-12)

	require.Len(t, report.EquityCurve, 6)
	assert.InDelta(t, expectedNet, report.EquityCurve[5].Bankroll, 1e-12)
}

func TestEvaluateSortsByStartTime(t *testing.T) {
	bets := []SettledBet{
		settledBet(t, models.BetResultLoss, 2, 4, -1),
		settledBet(t, models.BetResultWin, 0, 4, 9),
		settledBet(t, models.BetResultLoss, 1, 4, 0),
	}

	report := Evaluate(bets)

	require.Len(t, report.EquityCurve, 3)
	assert.True(t, report.EquityCurve[0].Time.Before(report.EquityCurve[1].Time))
	assert.True(t, report.EquityCurve[1].Time.Before(report.EquityCurve[2].Time))

	// win then two losses: peak after the win, full slide after
	assert.InDelta(t, 100.0/110.0, report.EquityCurve[0].Bankroll, 1e-12)
	assert.InDelta(t, 100.0/110.0+2, report.MaxDrawdown, 1e-12)
}

func TestEvaluateMarginAccuracy(t *testing.T) {
	bets := []SettledBet{
		settledBet(t, models.BetResultWin, 0, 5, 2),  // residual +3
		settledBet(t, models.BetResultLoss, 1, 4, 9), // residual -5
	}

	report := Evaluate(bets)

	assert.InDelta(t, 4, report.MeanAbsoluteError, 1e-12)
	assert.InDelta(t, -1, report.MeanError, 1e-12)
}

func TestEvaluateAllWinsProfitFactor(t *testing.T) {
	bets := []SettledBet{
		settledBet(t, models.BetResultWin, 0, 5, 9),
		settledBet(t, models.BetResultWin, 1, 3, 8),
	}

	report := Evaluate(bets)

	assert.True(t, report.ProfitFactor > 1e9)
	assert.Zero(t, report.MaxDrawdown)
}

func TestEquityCurveToCSV(t *testing.T) {
	report := Evaluate([]SettledBet{
		settledBet(t, models.BetResultWin, 0, 5, 9),
		settledBet(t, models.BetResultLoss, 1, 3, -8),
	})

	csv := report.EquityCurve.ToCSV()
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "time,bankroll,drawdown,pnl", lines[0])
	assert.Contains(t, lines[1], "0.9091")
}
