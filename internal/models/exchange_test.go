package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExchangeStatusClassification(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ExchangeStatus("canceled").Valid())

	terminal := map[ExchangeStatus]bool{}
	for _, s := range TerminalStatuses {
		terminal[s] = true
	}
	for _, s := range AllStatuses {
		assert.Equal(t, terminal[s], s.Terminal(), s)
	}

	_, ok := ParseExchangeStatus("countered")
	assert.True(t, ok)
	_, ok = ParseExchangeStatus("")
	assert.False(t, ok)
}

func TestCloneDoesNotShareFields(t *testing.T) {
	now := time.Now()
	orig := ExchangeRequest{ID: "1", CounterOffer: StringPtr("add $10"), CompletedAt: &now}
	cp := orig.Clone()
	*cp.CounterOffer = "changed"
	later := now.Add(time.Hour)
	*cp.CompletedAt = later

	assert.Equal(t, "add $10", *orig.CounterOffer)
	assert.Equal(t, now, *orig.CompletedAt)
	assert.Nil(t, StringPtr(""))
}
