package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"takeover/config"
	"takeover/native/common"
	"takeover/native/takeover"
	"takeover/observability"
	"takeover/observability/logging"
	oteladmin "takeover/observability/otel"
	"takeover/storage/memdb"
)

const envVar = "TAKEOVER_ENV"

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv(envVar))
	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	var fileCfg *logging.FileConfig
	if cfg.LogFile != "" {
		fileCfg = &logging.FileConfig{Path: cfg.LogFile}
	}
	if env == "" {
		env = cfg.Environment
	}
	logger := logging.Setup("takeoverd", env, fileCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := oteladmin.Init(ctx, oteladmin.Config{
		ServiceName: "takeoverd",
		Environment: env,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		Traces:      cfg.Telemetry.Traces,
		Metrics:     cfg.Telemetry.Metrics,
	})
	if err != nil {
		logger.Error("Failed to initialise telemetry", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	metricsSrv := serveMetrics(cfg.MetricsAddress, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	engine := takeover.NewEngine()
	engine.SetState(memdb.New())
	engine.SetEmitter(observability.NewEventRecorder(logger))
	engine.SetPauses(common.NewPauseSet())

	if err := runCampaign(ctx, cfg, engine, logger); err != nil {
		logger.Error("Campaign run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func serveMetrics(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Metrics listener stopped", slog.Any("error", err))
		}
	}()
	logger.Info("Serving metrics", slog.String("addr", addr))
	return srv
}

// runCampaign drives one full funding lifecycle against the in-memory
// registry: launch, a paced stream of contributions, finalization and
// settlement of every claim.
func runCampaign(ctx context.Context, cfg *config.Config, engine *takeover.Engine, logger *slog.Logger) error {
	sim := cfg.Simulator
	if sim.RewardRateBps < cfg.Guardrails.MinRewardRateBps || sim.RewardRateBps > cfg.Guardrails.MaxRewardRateBps {
		return fmt.Errorf("simulator reward rate %d bps outside guardrail band [%d, %d]",
			sim.RewardRateBps, cfg.Guardrails.MinRewardRateBps, cfg.Guardrails.MaxRewardRateBps)
	}
	originalSupply, err := sim.OriginalSupplyAmount()
	if err != nil {
		return err
	}
	newSupply, err := sim.NewTokenSupplyAmount()
	if err != nil {
		return err
	}
	rewardReserve := new(big.Int).Mul(newSupply, big.NewInt(int64(cfg.Guardrails.ReserveRatioBps)))
	rewardReserve.Div(rewardReserve, big.NewInt(10_000))

	now := time.Now().Unix()
	campaign, err := engine.LaunchCampaign(takeover.CampaignParams{
		Creator:                contributorAddr(0),
		OriginalSupply:         originalSupply,
		TargetParticipationBps: sim.TargetParticipationBps,
		RewardRateBps:          sim.RewardRateBps,
		RewardReserve:          rewardReserve,
		SafetyMarginBps:        cfg.Guardrails.DefaultSafetyMarginBps,
		StartTime:              now,
		EndTime:                now + sim.DurationSeconds,
	})
	if err != nil {
		return fmt.Errorf("launch campaign: %w", err)
	}
	logger.Info("Campaign launched",
		slog.String("campaignId", campaign.ID),
		slog.String("minGoal", campaign.MinGoal.String()),
		slog.String("maxSafeContribution", campaign.MaxSafeContribution.String()),
	)

	seed := sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))
	limiter := rate.NewLimiter(rate.Limit(sim.ContributionsPerSecond), 1)
	base := new(big.Int).Div(campaign.MinGoal, big.NewInt(int64(sim.Contributors)))

	for {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		contributor := contributorAddr(1 + rnd.Intn(sim.Contributors))
		amount := new(big.Int).Mul(base, big.NewInt(int64(50+rnd.Intn(101))))
		amount.Div(amount, big.NewInt(100))
		if amount.Sign() <= 0 {
			amount = big.NewInt(1)
		}
		if _, err := engine.Contribute(campaign.ID, contributor, amount); err != nil {
			if errors.Is(err, takeover.ErrCampaignClosed) {
				break
			}
			return fmt.Errorf("contribute: %w", err)
		}
		decision, err := engine.Decision(campaign.ID)
		if err != nil {
			return fmt.Errorf("evaluate: %w", err)
		}
		if decision.Ready {
			break
		}
	}
	// Intake closes at the end time but the finalization clock trips just
	// after it, so wait for the policy to report ready.
	for {
		if ctx.Err() != nil {
			logger.Info("Interrupted before the campaign became finalizable")
			return nil
		}
		ready, err := engine.Decision(campaign.ID)
		if err != nil {
			return fmt.Errorf("evaluate: %w", err)
		}
		if ready.Ready {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
	}

	decision, err := engine.Finalize(campaign.ID)
	if err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	logger.Info("Campaign finalized",
		slog.String("outcome", decision.Outcome.String()),
		slog.String("reason", decision.Reason),
	)

	return settleAll(engine, campaign.ID, logger)
}

func settleAll(engine *takeover.Engine, campaignID string, logger *slog.Logger) error {
	contributions, err := engine.Contributions(campaignID)
	if err != nil {
		return err
	}
	totalPaid := big.NewInt(0)
	for _, ct := range contributions {
		res, err := engine.Claim(campaignID, ct.Contributor)
		if err != nil {
			return fmt.Errorf("claim: %w", err)
		}
		totalPaid.Add(totalPaid, res.Amount)
	}
	logger.Info("Settlement complete",
		slog.Int("claims", len(contributions)),
		slog.String("totalPaid", totalPaid.String()),
	)
	return nil
}

func contributorAddr(i int) [20]byte {
	var addr [20]byte
	addr[18] = byte(i >> 8)
	addr[19] = byte(i)
	return addr
}
