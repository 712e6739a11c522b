// main.go - Single-coin double-spend scenario.
//
// The daemon plays every role of the protocol in one process:
//   - the bank generates its RSA key and signs a blinded coin for the owner
//   - two merchants accept the same coin with independent challenges
//   - both deposits reach the bank's ledger, which names the double spender
//   - a third deposit replays the first merchant's RIS and is flagged as reuse
//
// Usage:
//   go run ./cmd/ecashd -config ecash.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"ecash/internal/blindsig"
	"ecash/internal/ecash"
	"ecash/internal/proof"
)

const version = "0.1.0"

// ScenarioResult collects what the scenario produced.
type ScenarioResult struct {
	GUID     string
	Verdicts []ecash.Verdict
}

func main() {
	configPath := flag.String("config", "ecash.json", "path to the JSON configuration file")
	seed := flag.Int64("seed", 0, "seed for merchant challenges, overrides the config when non-zero")
	noProofs := flag.Bool("no-proofs", false, "skip the well-formedness proof")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *noProofs {
		cfg.EnableProofs = false
		cfg.RequireProofs = false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := NewLogger(cfg.LogLevel, cfg.LogFile, cfg.AuditLogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	metrics := NewMetricsCollector()
	health := NewHealthChecker(version)

	res, err := run(cfg, logger, metrics, health)
	if err != nil {
		logger.Error().Err(err).Msg("scenario failed")
		logger.Close()
		os.Exit(1)
	}

	for _, v := range res.Verdicts {
		logger.Info().Str("verdict", v.String()).Msg("resolution")
	}
	summary, _ := json.Marshal(metrics.GetMetricsSummary())
	logger.Info().RawJSON("metrics", summary).Msg("metrics summary")
	report, _ := json.Marshal(CreateHealthResponse(health.CheckHealth()))
	logger.Info().RawJSON("health", report).Msg("health report")
}

// run executes the scenario described by cfg. cfg must already be validated.
func run(cfg *Config, logger *Logger, metrics *MetricsCollector, health *HealthChecker) (*ScenarioResult, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	key, err := blindsig.GenerateKey(cfg.KeyBits)
	if err != nil {
		return nil, fmt.Errorf("bank key: %w", err)
	}
	metrics.RecordSetup("bank_key", time.Since(start))
	health.RegisterComponent("bank_key", bankKeyCheck(key))

	bank, err := ecash.NewIssuer(key, logger.Logger)
	if err != nil {
		return nil, err
	}

	var sys *proof.System
	if cfg.EnableProofs {
		start = time.Now()
		if sys, err = proof.NewSystem(cfg.Slots, cfg.KeyDir, logger.Logger); err != nil {
			return nil, fmt.Errorf("proof system: %w", err)
		}
		metrics.RecordSetup("proof_system", time.Since(start))
		health.RegisterComponent("proof_system", proofSystemCheck(sys, cfg.Slots))
	}

	// Wallet: create, blind, have the bank sign, unblind.
	var coinOpts []ecash.CoinOption
	if sys != nil {
		coinOpts = append(coinOpts, ecash.WithProver(sys))
	}
	start = time.Now()
	coin, err := ecash.NewCoin(cfg.Owner, cfg.Amount, bank.PublicKey(), params, coinOpts...)
	if err != nil {
		return nil, fmt.Errorf("create coin: %w", err)
	}
	if sys != nil {
		metrics.RecordProofGeneration(time.Since(start))
	}
	if err := ecash.Issue(coin, bank); err != nil {
		return nil, fmt.Errorf("issue coin: %w", err)
	}
	metrics.RecordIssued(coin.Amount)
	logger.Info().Str("guid", coin.GUID).Int64("amount", coin.Amount).Msg("coin issued")

	ledger := ecash.NewDepositLedger(logger.Logger)
	health.RegisterComponent("ledger", nil)

	var first ecash.Deposit
	for i, name := range []string{"merchant-a", "merchant-b"} {
		opts := []ecash.AcceptorOption{ecash.WithChooser(merchantChooser(cfg.Seed, i))}
		if sys != nil {
			opts = append(opts, ecash.WithProofVerifier(sys, cfg.RequireProofs))
		}
		m, err := ecash.NewAcceptor(name, params, logger.Logger, opts...)
		if err != nil {
			return nil, err
		}

		start = time.Now()
		ris, err := m.AcceptCoin(coin)
		if err != nil {
			metrics.RecordRejected(name, err)
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		metrics.RecordAccepted(name, time.Since(start))

		d := ecash.Deposit{GUID: coin.GUID, Merchant: name, RIS: ris}
		if i == 0 {
			first = d
		}
		if err := deposit(ledger, d, logger, metrics); err != nil {
			return nil, err
		}
	}

	// A merchant resubmitting someone else's RIS.
	replay := ecash.Deposit{GUID: coin.GUID, Merchant: "merchant-c", RIS: first.RIS}
	if err := deposit(ledger, replay, logger, metrics); err != nil {
		return nil, err
	}

	health.UpdateComponent("ledger", Healthy, fmt.Sprintf("%d coins redeemed", ledger.Len()))
	return &ScenarioResult{GUID: coin.GUID, Verdicts: ledger.Verdicts()}, nil
}

func deposit(ledger *ecash.DepositLedger, d ecash.Deposit, logger *Logger, metrics *MetricsCollector) error {
	v, err := ledger.Deposit(d)
	if err != nil {
		return fmt.Errorf("deposit from %s: %w", d.Merchant, err)
	}
	if v == nil {
		return nil
	}
	metrics.RecordVerdict(v.Kind)
	logger.Audit("verdict", map[string]interface{}{
		"guid":     v.GUID,
		"kind":     v.Kind.String(),
		"owner":    v.Owner,
		"slot":     v.Slot,
		"merchant": d.Merchant,
	})
	return nil
}

func merchantChooser(seed int64, i int) ecash.Chooser {
	if seed == 0 {
		return ecash.CryptoChooser{}
	}
	return ecash.NewSeededChooser(seed + int64(i))
}
