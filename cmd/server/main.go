package main

import (
	"context"
	"os"
	"strconv"

	"github.com/fuelradar/backend-go/internal/api"
	"github.com/fuelradar/backend-go/internal/cache"
	"github.com/fuelradar/backend-go/internal/config"
	"github.com/fuelradar/backend-go/internal/locate"
	"github.com/fuelradar/backend-go/internal/models"
	"github.com/fuelradar/backend-go/internal/station"
	"github.com/fuelradar/backend-go/internal/theme"
	"github.com/fuelradar/backend-go/internal/view"
	"github.com/fuelradar/backend-go/pkg/http/client"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on environment")
	}

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	log.Info().Str("env", cfg.Environment).Str("addr", cfg.ListenAddr).Msg("starting fuelradar server")

	httpClient := client.New(client.Options{
		BaseURL:   cfg.OverpassBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
	})

	cacheCfg := config.GetCacheConfig()
	stationCache, err := cache.NewStationCache(cacheCfg.StationLRUSize, cacheCfg.GetStationLRUTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("creating station cache")
	}

	finder := cache.NewCachingFinder(
		station.NewOverpassFinder(httpClient, cfg.AmenityTag),
		stationCache,
	)

	resolver := locate.New(providerFromEnv(), locate.Options{
		HighAccuracy: true,
		Timeout:      cfg.LocateTimeout,
		MaxCachedAge: cfg.LocateMaxCachedAge,
	})

	coordinator := view.NewCoordinator(context.Background(), resolver, finder, cfg.SearchRadiusMeters)
	themes := theme.NewService(&theme.MemoryStore{}, systemTheme())

	coordinator.Start()

	server := api.NewServer(coordinator, themes)
	if err := server.Engine().Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// providerFromEnv wires a fixed position when the deployment knows where it
// is (kiosk terminals); otherwise the resolver reports Unsupported and the
// client falls back to manual entry.
func providerFromEnv() locate.Provider {
	latStr, lonStr := os.Getenv("LOCATE_FIXED_LAT"), os.Getenv("LOCATE_FIXED_LON")
	if latStr == "" || lonStr == "" {
		return nil
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		log.Warn().Msg("invalid LOCATE_FIXED_LAT/LOCATE_FIXED_LON, geolocation disabled")
		return nil
	}
	return locate.FixedProvider{Coord: models.Coordinate{Lat: lat, Lon: lon}}
}

func systemTheme() theme.Mode {
	if os.Getenv("THEME_DEFAULT") == string(theme.ModeDark) {
		return theme.ModeDark
	}
	return theme.ModeLight
}
