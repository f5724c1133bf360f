package app

import "shanghai/internal/domain"

// MinPlayersToStartGame is the smallest table a host may start.
const MinPlayersToStartGame = domain.MinPlayers

// MaxPlayersPerGame is the largest table a host may start.
const MaxPlayersPerGame = domain.MaxPlayers
