package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/osse101/luckydraw/internal/clock"
	"github.com/osse101/luckydraw/internal/database/postgres"
	"github.com/osse101/luckydraw/internal/domain"
)

// demoCampaign describes what seed inserts
type demoCampaign struct {
	participants int
	spins        int
	days         int
	now          time.Time
	zone         *time.Location
}

func runSeed(c *cli.Context) error {
	pool, err := connect(c)
	if err != nil {
		return err
	}
	defer pool.Close()

	PrintHeader("Seeding demo campaign")
	zone := clock.Zone(clock.DefaultOffsetHours)
	return seedDemo(c.Context, postgres.NewSeeder(pool), demoCampaign{
		participants: c.Int("participants"),
		spins:        c.Int("spins"),
		days:         c.Int("days"),
		now:          time.Now().In(zone),
		zone:         zone,
	})
}

// seeder is the subset of postgres.Seeder used here
type seeder interface {
	InsertEvent(ctx context.Context, e domain.Event) (domain.Event, error)
	InsertLocation(ctx context.Context, l domain.EventLocation) (domain.EventLocation, error)
	InsertParticipant(ctx context.Context, p domain.Participant) (domain.Participant, error)
	InsertReward(ctx context.Context, r domain.Reward) (domain.Reward, error)
	InsertGoldenHour(ctx context.Context, g domain.GoldenHour) (domain.GoldenHour, error)
}

func seedDemo(ctx context.Context, s seeder, d demoCampaign) error {
	if d.participants < 0 || d.spins < 0 || d.days < 1 {
		return fmt.Errorf("participants and spins must not be negative and days must be positive")
	}
	today := clock.Day(d.now, d.zone)
	totalSpins := d.participants * d.spins

	evt, err := s.InsertEvent(ctx, domain.Event{
		Code:           "DEMO",
		Name:           "Demo lucky draw",
		Active:         true,
		StartDate:      today,
		EndDate:        today.AddDate(0, 0, d.days),
		TotalSpins:     totalSpins,
		RemainingSpins: totalSpins,
	})
	if err != nil {
		return err
	}
	PrintSuccess("Event %d (%d spins)", evt.ID, totalSpins)

	hanoi, err := s.InsertLocation(ctx, domain.EventLocation{
		EventID: evt.ID, Code: "HN-01", Name: "Hanoi store", Province: "Hanoi",
		DailySpinLimit: 200, RemainingSpinsToday: 200, LastResetDate: today, Active: true,
	})
	if err != nil {
		return err
	}
	hcmc, err := s.InsertLocation(ctx, domain.EventLocation{
		EventID: evt.ID, Code: "HCM-01", Name: "Saigon store", Province: "Ho Chi Minh",
		LastResetDate: today, Active: true,
	})
	if err != nil {
		return err
	}
	PrintSuccess("Locations %d, %d", hanoi.ID, hcmc.ID)

	voucher, err := s.InsertReward(ctx, domain.Reward{
		EventID: evt.ID, Code: "VOUCHER", Name: "Shopping voucher",
		Quantity: 100, RemainingQuantity: 100, Probability: 0.2, Points: 10, Active: true,
	})
	if err != nil {
		return err
	}
	grand, err := s.InsertReward(ctx, domain.Reward{
		EventID: evt.ID, Code: "GRAND", Name: "Grand prize",
		Quantity: 1, RemainingQuantity: 1, Probability: 0.01, Points: 100,
		Provinces: []string{"Ho Chi Minh"}, Active: true,
	})
	if err != nil {
		return err
	}
	PrintSuccess("Rewards %d, %d", voucher.ID, grand.ID)

	start := today.Add(18 * time.Hour)
	gh, err := s.InsertGoldenHour(ctx, domain.GoldenHour{
		EventID: evt.ID, RewardID: &voucher.ID, Name: "Evening boost",
		StartTime: start, EndTime: start.Add(2 * time.Hour), Multiplier: 2, Active: true,
	})
	if err != nil {
		return err
	}
	PrintSuccess("Golden hour %d (%s - %s)", gh.ID, gh.StartTime.Format(time.Kitchen), gh.EndTime.Format(time.Kitchen))

	for i := 0; i < d.participants; i++ {
		loc := hanoi
		if i%2 == 1 {
			loc = hcmc
		}
		if _, err := s.InsertParticipant(ctx, domain.Participant{
			EventID:        evt.ID,
			LocationID:     loc.ID,
			Name:           fmt.Sprintf("Participant %d", i+1),
			Phone:          fmt.Sprintf("09%08d", i+1),
			Province:       loc.Province,
			RemainingSpins: d.spins,
			Active:         true,
		}); err != nil {
			return err
		}
	}
	PrintSuccess("%d participants", d.participants)
	return nil
}
