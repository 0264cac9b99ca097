package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/iwvelando/rent-intel/internal/config"
	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/internal/report"
	"go.uber.org/zap"
)

// TestRunner is a simple test runner for debugging
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

func largeConfiguration(listings, units int) config.Configuration {
	cities := []string{"Austin", "Dallas", "Denver", "Boise", "Seattle"}
	offers := []string{"", "6 weeks free", "$100 off monthly rent", "1 month free on 12-month lease", "Move-in special"}
	velocities := []model.MarketVelocity{model.VelocityHot, model.VelocityNormal, model.VelocitySlow, model.VelocityStale}

	conf := config.Configuration{
		Renter: config.RenterConfig{
			Budget: 1800,
			Preferences: &model.PreferenceProfile{
				Bedrooms:     "2BR",
				Amenities:    []string{"Pool", "Dishwasher", "Parking"},
				DealBreakers: []string{"no pets"},
			},
		},
	}
	for i := 0; i < listings; i++ {
		conf.Listings = append(conf.Listings, model.Listing{
			ID:           fmt.Sprintf("listing-%d", i),
			City:         cities[i%len(cities)],
			MinRent:      float64(1200 + (i%20)*50),
			MinBedrooms:  i % 3,
			MaxBedrooms:  i%3 + 1,
			Amenities:    []string{"Pool", "Garage parking"},
			SpecialOffer: offers[i%len(offers)],
		})
	}
	for i := 0; i < units; i++ {
		conf.Portfolio = append(conf.Portfolio, model.UnitMarketState{
			UnitID:           fmt.Sprintf("unit-%d", i),
			CurrentRent:      float64(1300 + (i%30)*40),
			DaysOnMarket:     i % 120,
			Velocity:         velocities[i%len(velocities)],
			LeaseProbability: float64(i%10) / 10,
		})
	}
	return conf
}

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	logger := zap.NewNop()

	start := time.Now()
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	start = time.Now()
	if _, err := report.Build(context.Background(), logger, *conf); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	buildTime := time.Since(start)

	large := largeConfiguration(5000, 5000)
	start = time.Now()
	result, err := report.Build(context.Background(), logger, large)
	if err != nil {
		t.Fatalf("Build failed on large configuration: %v", err)
	}
	largeTime := time.Since(start)

	if len(result.Listings) != 5000 || len(result.Recommendations) != 5000 {
		t.Fatalf("expected 5000 listings and units, got %d and %d", len(result.Listings), len(result.Recommendations))
	}

	t.Logf("Performance metrics:")
	t.Logf("  Config load time: %v", loadTime)
	t.Logf("  Example report:   %v", buildTime)
	t.Logf("  Large report:     %v", largeTime)

	if largeTime > 10*time.Second {
		t.Errorf("Large report took too long: %v", largeTime)
	}
}

func BenchmarkBuild(b *testing.B) {
	conf := largeConfiguration(500, 500)
	logger := zap.NewNop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := report.Build(context.Background(), logger, conf); err != nil {
			b.Fatal(err)
		}
	}
}
