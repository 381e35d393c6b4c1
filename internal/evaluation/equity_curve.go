package evaluation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// EquityPoint represents the bankroll after one graded bet
type EquityPoint struct {
	Time     time.Time `json:"time"`
	Bankroll float64   `json:"bankroll"`
	Drawdown float64   `json:"drawdown"`
	PnL      float64   `json:"pnl"`
}

// EquityCurve represents a time-series of bankroll points in stake units
type EquityCurve []EquityPoint

// MaxDrawdown returns the largest peak-to-trough bankroll decline, in units
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	peak := 0.0
	for _, p := range e {
		if p.Bankroll > peak {
			peak = p.Bankroll
		}
		drawdown := peak - p.Bankroll
		if drawdown > maxDD {
			maxDD = drawdown
		}
	}
	return maxDD
}

// ToCSV exports the equity curve to a CSV string
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("time,bankroll,drawdown,pnl\n")
	for _, point := range e {
		buf.WriteString(point.Time.Format(time.RFC3339))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Bankroll))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Drawdown))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.PnL))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the equity curve to a JSON string
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
