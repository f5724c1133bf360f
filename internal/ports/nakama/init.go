package nakama

import (
	"context"
	"database/sql"
	"time"

	"shanghai/internal/app"
	"shanghai/internal/bot"
	"shanghai/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the match handler into the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	if err := config.LoadGameConfig(env["shanghai_config_path"]); err != nil {
		logger.Warn("InitModule: Using default game config: %v", err)
	}
	cfg := config.GetGameConfig()

	if err := bot.LoadIdentities(cfg.Bots.IdentitiesPath); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	} else {
		bot.ProvisionBots(ctx, nk, logger)
	}

	vivox := cfg.Vivox
	if v, ok := env["vivox_secret"]; ok {
		vivox.Secret = v
	}
	if v, ok := env["vivox_issuer"]; ok {
		vivox.Issuer = v
	}
	if v, ok := env["vivox_domain"]; ok {
		vivox.Domain = v
	}
	vivoxService = app.NewVivoxService(vivox.Secret, vivox.Issuer, vivox.Domain, 90*time.Second)
	if !vivoxService.Enabled() {
		logger.Info("InitModule: Voice chat disabled.")
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameShanghai, NewMatch); err != nil {
		return err
	}

	logger.Info("Shanghai Go module loaded.")
	return nil
}
