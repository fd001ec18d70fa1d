package catalog

import "github.com/Tentennnn/anachaktopup/internal/models"

func price(v float64) *float64 { return &v }

// DefaultRanks is the catalog a fresh install starts from.
func DefaultRanks() []models.Rank {
	return []models.Rank{
		{
			Kind:     models.KindRank,
			Name:     "Explorer",
			Price:    5,
			Features: []string{"Special Chat Prefix", "1x Player Home", "Access to /kit explorer"},
			ImageURL: "https://img.icons8.com/plasticine/100/leather-boot.png",
		},
		{
			Kind:     models.KindRank,
			Name:     "Warrior",
			Price:    10,
			Features: []string{"All Explorer Perks", "3x Player Homes", "Access to /kit warrior", "Particle Effects"},
			ImageURL: "https://img.icons8.com/plasticine/100/sword.png",
		},
		{
			Kind:     models.KindRank,
			Name:     "Champion",
			Price:    15,
			Features: []string{"All Warrior Perks", "5x Player Homes", "Access to /kit champion", "Fly in Hub"},
			ImageURL: "https://img.icons8.com/plasticine/100/shield.png",
		},
		{
			Kind:          models.KindRank,
			Name:          "Legend",
			Price:         20,
			OriginalPrice: price(25),
			Features:      []string{"All Champion Perks", "10x Player Homes", "Access to /kit legend", "Custom Nickname"},
			ImageURL:      "https://img.icons8.com/plasticine/100/crown.png",
			Highlighted:   true,
			Bonus:         "Best Value",
		},
	}
}

// DefaultCoins is the coin catalog a fresh install starts from.
func DefaultCoins() []models.CoinPackage {
	return []models.CoinPackage{
		{
			Kind:     models.KindCoin,
			Name:     "50 Coins",
			Amount:   50,
			Price:    1,
			ImageURL: "https://img.icons8.com/plasticine/100/stack-of-coins.png",
		},
		{
			Kind:     models.KindCoin,
			Name:     "100 Coins",
			Amount:   100,
			Price:    1.90,
			Bonus:    "Save 5%",
			ImageURL: "https://img.icons8.com/plasticine/100/stack-of-coins.png",
		},
		{
			Kind:          models.KindCoin,
			Name:          "250 Coins",
			Amount:        250,
			Price:         5,
			OriginalPrice: price(6),
			Bonus:         "Best Value",
			ImageURL:      "https://img.icons8.com/plasticine/100/stack-of-coins.png",
			Highlighted:   true,
		},
	}
}
