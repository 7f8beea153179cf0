package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/MrKriegler/insureflow/internal/core"
	"github.com/MrKriegler/insureflow/internal/platform/config"
	"github.com/MrKriegler/insureflow/internal/platform/logging"
	"github.com/MrKriegler/insureflow/internal/store"
)

var seeder = core.Actor{ID: "seed", Email: "seed@insureflow.local", Role: core.RoleAdmin}

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env, cfg.LogLevel)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if cfg.DBType == config.DBMemory {
		log.Warn("DB_TYPE=memory: seeded policies are discarded when this process exits")
	}

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", "db_type", cfg.DBType, "err", err)
		os.Exit(1)
	}
	defer st.Close(context.Background())

	log.Info("seeding policies", "db_type", cfg.DBType)

	if err := seedPolicies(ctx, st.Policies, core.NewPolicyService(st.Policies), log); err != nil {
		log.Error("seeding failed", "err", err)
		os.Exit(1)
	}

	log.Info("done seeding")
}

func catalog() []core.PolicyInput {
	return []core.PolicyInput{
		{
			Title:       "Term Life Standard",
			Category:    "life",
			Description: "Level cover for a fixed term with no cash value.",
			MinAge:      18,
			MaxAge:      65,
			Coverage:    core.CoverageRange{MinAmount: 100000, MaxAmount: 5000000},
			Duration:    core.DurationOptions{Options: []int{10, 15, 20, 25, 30}},
			Premium:     core.PremiumDetails{BaseRate: 0.5},
		},
		{
			Title:       "Family Protection Plan",
			Category:    "life",
			Description: "Joint cover paying out on the first death.",
			MinAge:      21,
			MaxAge:      60,
			Coverage:    core.CoverageRange{MinAmount: 100000, MaxAmount: 750000},
			Duration:    core.DurationOptions{Options: []int{15, 20, 25}},
			Premium:     core.PremiumDetails{BaseRate: 0.8},
		},
		{
			Title:       "Senior Life 65+",
			Category:    "life",
			Description: "Guaranteed acceptance whole-of-term cover for retirees.",
			MinAge:      65,
			MaxAge:      85,
			Coverage:    core.CoverageRange{MinAmount: 10000, MaxAmount: 100000},
			Duration:    core.DurationOptions{Options: []int{5, 10, 15}},
			Premium:     core.PremiumDetails{BaseRate: 2.4},
		},
		{
			Title:       "Critical Illness Cover",
			Category:    "health",
			Description: "Lump sum on diagnosis of a listed condition.",
			MinAge:      18,
			MaxAge:      60,
			Coverage:    core.CoverageRange{MinAmount: 25000, MaxAmount: 1000000},
			Duration:    core.DurationOptions{Options: []int{5, 10, 20}},
			Premium:     core.PremiumDetails{BaseRate: 1.1},
		},
		{
			Title:       "Accidental Death & Disability",
			Category:    "accident",
			Description: "Pays on accidental death or permanent disability.",
			MinAge:      18,
			MaxAge:      70,
			Coverage:    core.CoverageRange{MinAmount: 50000, MaxAmount: 2000000},
			Duration:    core.DurationOptions{Options: []int{1, 5, 10}},
			Premium:     core.PremiumDetails{BaseRate: 0.3},
		},
	}
}

// seedPolicies creates missing catalog entries and refreshes existing ones,
// matched by title, so the command can be rerun.
func seedPolicies(ctx context.Context, repo core.PolicyRepo, svc core.PolicyService, log *slog.Logger) error {
	existing, err := repo.List(ctx, core.PolicyFilter{})
	if err != nil {
		return err
	}
	byTitle := make(map[string]string, len(existing))
	for _, p := range existing {
		byTitle[p.Title] = p.ID
	}

	for _, in := range catalog() {
		if id, ok := byTitle[in.Title]; ok {
			if _, err := svc.Update(ctx, seeder, id, in); err != nil {
				return err
			}
			log.Info("updated policy", "title", in.Title, "policy_id", id)
			continue
		}
		p, err := svc.Create(ctx, seeder, in)
		if err != nil {
			return err
		}
		log.Info("seeded policy", "title", p.Title, "policy_id", p.ID)
	}
	return nil
}
