package game

import "time"

type PeriodicTickerChannelCreator interface {
	Create(d time.Duration) (<-chan time.Time, func())
}

type ticker struct{}

func (t *ticker) Create(d time.Duration) (<-chan time.Time, func()) {
	tk := time.NewTicker(d)
	return tk.C, tk.Stop
}

func NewTickerGen() ticker {
	return ticker{}
}
