package cmd

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"

	"github.com/kingoIII/Ruido/config"
	"github.com/kingoIII/Ruido/db"
	"github.com/kingoIII/Ruido/model"
	"github.com/kingoIII/Ruido/repository"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type demoTrack struct {
	title       string
	description string
	durationSec int
	bpm         *int
	key         *string
	license     model.License
	tags        []string
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

var demoTracks = []demoTrack{
	{
		title:       "Neon Skyline Kick",
		description: "Punchy kick sample forged in a neon-soaked skyline.",
		durationSec: 12,
		bpm:         intPtr(120),
		key:         strPtr("C"),
		license:     model.LicenseCC0,
		tags:        []string{"kick", "drums", "analog"},
	},
	{
		title:       "Gravity Well Bass",
		description: "Low-end growl captured from a gravity well experiment.",
		durationSec: 18,
		bpm:         intPtr(90),
		key:         strPtr("F#"),
		license:     model.LicenseCCBY,
		tags:        []string{"bass", "sci-fi"},
	},
	{
		title:       "Solar Winds Pad",
		description: "Ethereal pad sampled from solar wind resonance.",
		durationSec: 26,
		bpm:         intPtr(70),
		key:         strPtr("D"),
		license:     model.LicenseCCBYSA,
		tags:        []string{"pad", "ambient"},
	},
	{
		title:       "Quantum Perc Loop",
		description: "Percussive loop generated from quantum lattice vibrations.",
		durationSec: 32,
		bpm:         intPtr(110),
		key:         strPtr("A"),
		license:     model.LicenseCCBY,
		tags:        []string{"percussion", "loop"},
	},
	{
		title:       "Aurora Vox Texture",
		description: "Choral texture recorded beneath an aurora storm.",
		durationSec: 22,
		license:     model.LicenseCustom,
		tags:        []string{"vocal", "texture"},
	},
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

// demoWaveform is a smooth half-sine envelope, 200 samples in [0,1].
func demoWaveform() model.Waveform {
	waveform := make(model.Waveform, 200)
	for i := range waveform {
		waveform[i] = math.Round(math.Abs(math.Sin(float64(i)/200*math.Pi))*1000) / 1000
	}
	return waveform
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo profile and showcase tracks",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.CloseGormDB()

		if err := db.Migrate(); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		if err := seed(context.Background()); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Println("Database seeded successfully.")
	},
}

func seed(ctx context.Context) error {
	profileRepo := repository.NewGormProfileRepository(db.GormDB)
	trackRepo := repository.NewGormTrackRepository(db.GormDB)

	profile, err := profileRepo.GetProfileByHandle(ctx, "ruido-demo")
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &model.Profile{
			ID:          uuid.NewString(),
			Handle:      "ruido-demo",
			DisplayName: "ruido demo",
		}
		if err := profileRepo.CreateProfile(ctx, profile); err != nil {
			return err
		}
	}

	for _, demo := range demoTracks {
		var count int64
		if err := db.GormDB.WithContext(ctx).Model(&model.Track{}).
			Where("title = ?", demo.title).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		slug := slugify(demo.title)
		coverURL := fmt.Sprintf("https://images.ruido.dev/demo/%s.jpg", slug)
		track := model.Track{
			ID:          uuid.NewString(),
			Title:       demo.title,
			Description: demo.description,
			DurationSec: demo.durationSec,
			BPM:         demo.bpm,
			Key:         demo.key,
			License:     demo.license,
			AudioURL:    fmt.Sprintf("https://cdn.ruido.dev/demo/%s.mp3", slug),
			CoverURL:    &coverURL,
			Waveform:    demoWaveform(),
			ProfileID:   profile.ID,
		}
		if err := trackRepo.CreateTrack(ctx, &track, demo.tags); err != nil {
			return err
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
