package main

import (
	"bytes"
	"testing"

	"shanghai/internal/domain"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPlaysRounds(t *testing.T) {
	color.NoColor = true
	for _, mode := range []domain.BuyMode{domain.BuySequential, domain.BuySimultaneous} {
		var out bytes.Buffer
		err := run(&out, options{players: 4, seed: 3, mode: mode, maxSteps: 20000, quiet: true})
		if err != nil {
			require.ErrorIs(t, err, errStalled, out.String())
		} else {
			assert.Contains(t, out.String(), "Final standings")
		}
		assert.Contains(t, out.String(), "Round 1 won by")
	}
}

func TestRunRejectsTableSize(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(&out, options{players: 1, seed: 1, mode: domain.BuySequential, maxSteps: 10}))
	assert.Error(t, run(&out, options{players: 7, seed: 1, mode: domain.BuySequential, maxSteps: 10}))
}
