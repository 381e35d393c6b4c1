package lines

import "fmt"

// ImpliedProbability converts American odds to the book's implied win
// probability, vig included. Negative odds mark the favorite: -150 implies
// 150/250, +130 implies 100/230.
func ImpliedProbability(odds int) (float64, error) {
	if odds == 0 {
		return 0, fmt.Errorf("american odds cannot be zero")
	}
	if odds < 0 {
		stake := float64(-odds)
		return stake / (stake + 100), nil
	}
	return 100 / (float64(odds) + 100), nil
}

// Edge returns the model's edge over the book for a side: the model
// probability minus the implied probability of the posted odds. Positive
// values mean the model rates the side more likely than the price does.
func Edge(modelProbability float64, odds int) (float64, error) {
	implied, err := ImpliedProbability(odds)
	if err != nil {
		return 0, err
	}
	return modelProbability - implied, nil
}
