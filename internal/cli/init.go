package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rentgrip/internal/catalog"
	"rentgrip/internal/config"
	"rentgrip/internal/domain"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default config and a sample catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}

			cfg := config.DefaultConfig()
			cfgPath := filepath.Join(dir, config.FileName)
			catPath := filepath.Join(dir, cfg.Catalog.Path)
			for _, p := range []string{cfgPath, catPath} {
				if !force && exists(p) {
					return fmt.Errorf("%s already exists (use --force to overwrite)", p)
				}
			}

			if err := config.NewConfigService(dir).SaveToPath(cfg, cfgPath); err != nil {
				return err
			}
			if err := catalog.WriteFile(catPath, sampleCatalog()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s\n", cfgPath)
			fmt.Fprintf(out, "Wrote %s\n", catPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	return cmd
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

func rating(v float64) *float64 {
	return &v
}

func sampleCatalog() catalog.Catalog {
	return catalog.Catalog{
		Categories: []domain.CategoryNode{
			{Name: "Tools", Subcategories: []domain.SubcategoryNode{
				{Name: "Power Tools", Leaves: []string{"Drills", "Saws"}},
				{Name: "Garden", Leaves: []string{"Mowers"}},
			}},
			{Name: "Electronics", Subcategories: []domain.SubcategoryNode{
				{Name: "Audio & Video", Leaves: []string{"Projectors", "Speakers"}},
			}},
			{Name: "Outdoor", Subcategories: []domain.SubcategoryNode{
				{Name: "Camping", Leaves: []string{"Tents"}},
			}},
		},
		Items: []domain.Item{
			{
				ID: 1, Name: "Cordless Drill", Brand: "Bosch",
				ShortDescription: "18V drill with two batteries",
				Description:      "Compact cordless drill driver. Charger and carry case included.",
				Category:         domain.CategoryRef{Name: "Tools", Subcategory: "Power Tools", Leaf: "Drills"},
				PricePerPeriod:   12, Period: "day",
				Condition: domain.ConditionNew, Location: "Lisbon", Rating: rating(4.6),
			},
			{
				ID: 2, Name: "Circular Saw", Brand: "Makita",
				ShortDescription: "190mm blade, dust extraction port",
				Category:         domain.CategoryRef{Name: "Tools", Subcategory: "Power Tools", Leaf: "Saws"},
				PricePerPeriod:   18, Period: "day",
				Condition: domain.ConditionUsed, Location: "Porto", Rating: rating(4.2),
			},
			{
				ID: 3, Name: "Lawn Mower", Brand: "Honda",
				ShortDescription: "Self-propelled petrol mower",
				Category:         domain.CategoryRef{Name: "Tools", Subcategory: "Garden", Leaf: "Mowers"},
				PricePerPeriod:   35, Period: "day",
				Condition: domain.ConditionUsed, Location: "Lisbon",
			},
			{
				ID: 4, Name: "HD Projector", Brand: "Epson",
				ShortDescription: "1080p projector with HDMI",
				Description:      "3000 lumen projector. Screen not included.",
				Category:         domain.CategoryRef{Name: "Electronics", Subcategory: "Audio & Video", Leaf: "Projectors"},
				PricePerPeriod:   45, Period: "day",
				Condition: domain.ConditionNew, Location: "Porto", Rating: rating(4.8),
			},
			{
				ID: 5, Name: "Party Speaker", Brand: "JBL",
				ShortDescription: "Portable speaker with light show",
				Category:         domain.CategoryRef{Name: "Electronics", Subcategory: "Audio & Video", Leaf: "Speakers"},
				PricePerPeriod:   25, Period: "day",
				Condition: domain.ConditionUsed, Location: "Faro", Rating: rating(3.9),
			},
			{
				ID: 6, Name: "Family Tent", Brand: "Coleman",
				ShortDescription: "Six person dome tent",
				Description:      "Waterproof tent with two sleeping rooms. Pegs and poles included.",
				Category:         domain.CategoryRef{Name: "Outdoor", Subcategory: "Camping", Leaf: "Tents"},
				PricePerPeriod:   60, Period: "week",
				Condition: domain.ConditionNew, Location: "Faro", Rating: rating(4.4),
			},
		},
	}
}
