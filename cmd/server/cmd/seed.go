package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/stemleague/server/internal/config"
	"github.com/stemleague/server/internal/domain/events"
	"github.com/stemleague/server/internal/storage/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the standard event catalog",
	Long: `Load the standard competition event catalog into the database.

Seeding is idempotent: events that already exist are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

func runSeed() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := config.NewLogger(cfg.Logging)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return err
	}
	service := events.NewService(repo.Events())

	seeded, skipped := 0, 0
	for _, input := range eventCatalog {
		if _, err := service.Create(ctx, input); err != nil {
			if errors.Is(err, events.ErrConflict) {
				skipped++
				continue
			}
			return fmt.Errorf("seed event %s: %w", input.ID, err)
		}
		logger.Info().Str("event_id", input.ID).Msg("seeded event")
		seeded++
	}

	logger.Info().Int("seeded", seeded).Int("skipped", skipped).Msg("seed complete")
	return nil
}

// eventCatalog is the standard competition lineup.
var eventCatalog = []events.EventInput{
	{
		ID:           "animatronics",
		Title:        "Animatronics",
		Theme:        "Time Travelers' Museum",
		FullThemeURL: "https://example.com/full-theme/animatronics",
		Description:  `Create an animatronic figure or scene from a key moment in American history. The character should "come to life" to explain their world to a young audience.`,
		Category:     "Engineering",
		TeamSize:     "1-3 members",
		Types:        []string{"onsite testing", "poster"},
		RubricURL:    "#",
	},
	{
		ID:          "coding",
		Title:       "Coding",
		Theme:       "Programming Challenge",
		Description: "Solve complex programming problems using various programming languages including Python, Java, C++, and more.",
		Category:    "Programming",
		TeamSize:    "1 member",
		Types:       []string{"prelim submission", "testing"},
		RubricURL:   "#",
	},
	{
		ID:           "video-game-design",
		Title:        "Video Game Design",
		Theme:        "Retro Revival",
		FullThemeURL: "https://example.com/full-theme/video-game-design",
		Description:  "Reimagine an 8-bit or 16-bit era type of game with a modern twist. Create engaging gameplay with contemporary elements.",
		Category:     "Design",
		TeamSize:     "1-6 members",
		Types:        []string{"prelim submission", "portfolio"},
		RubricURL:    "#",
	},
	{
		ID:          "robotics",
		Title:       "Robotics",
		Theme:       "Design Problem",
		Description: "Design, build, and program a robot to complete specific tasks and challenges outlined in the official competition rules.",
		Category:    "Engineering",
		TeamSize:    "2-6 members",
		Types:       []string{"onsite challenge", "testing"},
		RubricURL:   "#",
	},
	{
		ID:           "digital-video-production",
		Title:        "Digital Video Production",
		Theme:        "A Twist in Time",
		FullThemeURL: "https://example.com/full-theme/digital-video-production",
		Description:  "Create a story that alters a key historical moment, or imagines a character from the past suddenly appearing in the modern day.",
		Category:     "Media",
		TeamSize:     "1-6 members",
		Types:        []string{"prelim submission", "video"},
		RubricURL:    "#",
	},
	{
		ID:          "webmaster",
		Title:       "Webmaster",
		Theme:       "Community Resource Hub",
		Description: "Create a website that will serve as a community resource hub to highlight resources available to residents within the community.",
		Category:    "Programming",
		TeamSize:    "1-6 members",
		Types:       []string{"portfolio", "website"},
		RubricURL:   "#",
	},
	{
		ID:          "biotechnology-design",
		Title:       "Biotechnology Design",
		Theme:       "Bioconjugation",
		Description: "Highlight the science behind bioconjugation and demonstrate one of its many uses in medicine, diagnostics, or materials.",
		Category:    "Science",
		TeamSize:    "1-6 members",
		Types:       []string{"testing", "research"},
		RubricURL:   "#",
	},
	{
		ID:          "music-production",
		Title:       "Music Production",
		Theme:       "USA 250th Birthday",
		Description: "Create a musical piece that can be played as the opening number at a July 4th fireworks show celebrating America's 250th birthday.",
		Category:    "Media",
		TeamSize:    "1-6 members",
		Types:       []string{"prelim submission", "music"},
		RubricURL:   "#",
	},
}
