package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Tentennnn/anachaktopup/internal/catalog"
	"github.com/Tentennnn/anachaktopup/internal/config"
	"github.com/Tentennnn/anachaktopup/internal/kvstore"
)

func main() {
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	force := seedCmd.Bool("force", false, "Overwrite existing catalog data")

	if len(os.Args) < 2 {
		fmt.Println("expected 'seed' or 'check-config' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seed":
		seedCmd.Parse(os.Args[2:])
		seedCatalog(*force)
	case "check-config":
		checkConfig()
	default:
		fmt.Println("expected 'seed' or 'check-config' subcommand")
		os.Exit(1)
	}
}

// seedCatalog writes the default catalog into the store so a fresh install
// has something to sell before the admin edits anything.
func seedCatalog(force bool) {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./anachak.db"
	}

	kv, err := kvstore.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer kv.Close()

	if _, ok := kv.Get("storeRanks"); ok && !force {
		fmt.Println("Catalog already present; use -force to overwrite.")
		os.Exit(1)
	}

	ranks, _ := json.Marshal(catalog.DefaultRanks())
	coins, _ := json.Marshal(catalog.DefaultCoins())
	kv.Set("storeRanks", string(ranks))
	kv.Set("storeCoins", string(coins))

	fmt.Printf("Seeded %d ranks and %d coin packages into %s\n",
		len(catalog.DefaultRanks()), len(catalog.DefaultCoins()), dbPath)
}

// checkConfig reports which operator settings are present without printing
// their values.
func checkConfig() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	report := func(name string, set bool) {
		state := "MISSING"
		if set {
			state = "ok"
		}
		fmt.Printf("%-22s %s\n", name, state)
	}

	report("ADMIN_PASSWORD", cfg.AdminPassword != "")
	report("DISCORD_WEBHOOK_URL", cfg.DiscordWebhookURL != "")
	report("DB_PATH", cfg.DBPath != "")
	report("RECENT_PURCHASES_URL", cfg.RecentPurchasesURL != "")

	if cfg.AdminPassword == "" || cfg.DiscordWebhookURL == "" {
		os.Exit(1)
	}
}
