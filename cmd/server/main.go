// Command server is the floodwatch Query API process: it wires every
// upstream client, source fetcher, the Composite Threat and Intelligence
// engines, the region registry, and the provider/river factory into the
// chi router, then serves HTTP until signalled to shut down.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/api"
	"github.com/thaaaru/floodwatch/internal/api/handler"
	"github.com/thaaaru/floodwatch/internal/api/middleware"
	"github.com/thaaaru/floodwatch/internal/config"
	"github.com/thaaaru/floodwatch/internal/fetcher"
	"github.com/thaaaru/floodwatch/internal/fetcher/climate"
	"github.com/thaaaru/floodwatch/internal/fetcher/environmental"
	"github.com/thaaaru/floodwatch/internal/fetcher/facility"
	"github.com/thaaaru/floodwatch/internal/fetcher/marine"
	riverfetch "github.com/thaaaru/floodwatch/internal/fetcher/river"
	"github.com/thaaaru/floodwatch/internal/fetcher/sos"
	"github.com/thaaaru/floodwatch/internal/fetcher/traffic"
	"github.com/thaaaru/floodwatch/internal/fetcher/weather"
	"github.com/thaaaru/floodwatch/internal/intel"
	"github.com/thaaaru/floodwatch/internal/provider/ambee"
	"github.com/thaaaru/floodwatch/internal/provider/here"
	"github.com/thaaaru/floodwatch/internal/provider/irrigation"
	"github.com/thaaaru/floodwatch/internal/provider/navy"
	"github.com/thaaaru/floodwatch/internal/provider/openmeteo"
	"github.com/thaaaru/floodwatch/internal/provider/osm"
	riverprovider "github.com/thaaaru/floodwatch/internal/provider/river"
	"github.com/thaaaru/floodwatch/internal/provider/sosgateway"
	"github.com/thaaaru/floodwatch/internal/provider/tomtom"
	"github.com/thaaaru/floodwatch/internal/provider/weatherapi"
	"github.com/thaaaru/floodwatch/internal/provider/worldbank"
	"github.com/thaaaru/floodwatch/internal/region"
	"github.com/thaaaru/floodwatch/internal/scheduler"
	"github.com/thaaaru/floodwatch/internal/telemetry"
	"github.com/thaaaru/floodwatch/internal/threat"
)

// Version and BuildTime are set via -ldflags at release build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// placeholderRegions are Indian states whose flood data feeds have not been
// integrated yet; they're still registered in the river provider factory as
// real providers that report unhealthy, matching how the regions document
// lists them (active=false) rather than omitting them outright.
var placeholderRegions = []string{"tamilnadu", "karnataka", "andhrapradesh", "telangana"}

// coastalDistricts names the districts the Marine source covers.
var coastalDistricts = map[string]bool{
	"Colombo": true, "Gampaha": true, "Kalutara": true, "Galle": true,
	"Matara": true, "Hambantota": true, "Jaffna": true, "Trincomalee": true,
	"Batticaloa": true, "Ampara": true, "Puttalam": true,
}

func main() {
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "floodwatch-api").
		Str("version", Version).
		Logger()

	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otlpEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	appEnv := getEnvOrDefault("APP_ENV", "development")
	otelEnabled, _ := strconv.ParseBool(getEnvOrDefault("OTEL_ENABLED", "false"))

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "floodwatch-api",
		ServiceVersion: Version,
		Environment:    appEnv,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        otelEnabled,
	})
	if err != nil {
		logger.Error().Err(err).Msg("telemetry init failed, continuing without it")
	}
	if tp != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("telemetry shutdown failed") //nolint:gocritic // best-effort cleanup
			}
		}()
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		logger.Error().Err(err).Msg("metrics init failed")
		os.Exit(1)
	}

	registry := region.NewRegistry(getEnvOrDefault("REGIONS_CONFIG_PATH", "./configs/regions.json"), logger)
	if err := registry.Load(); err != nil {
		logger.Fatal().Err(err).Msg("failed to load region registry")
	}

	activeRegion, err := registry.GetRegion(cfg.CurrentRegion)
	if err != nil {
		logger.Fatal().Err(err).Msg("current region is not registered")
	}

	districtsPath := getEnvOrDefault("DISTRICTS_CONFIG_PATH", fmt.Sprintf("./configs/districts/%s.json", activeRegion.ID))
	districts, err := region.LoadDistricts(districtsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load district document")
	}
	districtsByRegion := map[string][]region.District{activeRegion.ID: districts}

	var coastal []region.District
	for _, d := range districts {
		if coastalDistricts[d.Name] {
			coastal = append(coastal, d)
		}
	}

	coordsLookup := func(district string) (lat, lon float64, ok bool) {
		for _, d := range districts {
			if d.Name == district {
				return d.Latitude, d.Longitude, true
			}
		}
		return 0, 0, false
	}

	// Upstream clients.
	weatherAPIClient := weatherapi.NewClient(weatherapi.ClientConfig{APIKey: cfg.APIKeys["WEATHERAPI_KEY"], Logger: logger})
	openMeteoClient := openmeteo.NewClient(openmeteo.ClientConfig{Logger: logger})
	openMeteoHistory := openmeteo.NewHistoryClient(openMeteoClient, coordsLookup)
	ambeeClient := ambee.NewClient(ambee.ClientConfig{APIKey: cfg.APIKeys["AMBEE_API_KEY"], Logger: logger})
	hereClient := here.NewClient(here.ClientConfig{APIKey: cfg.APIKeys["HERE_API_KEY"], Logger: logger})

	tomtomPoints := make([]tomtom.SegmentPoint, 0, len(districts))
	for _, d := range districts {
		tomtomPoints = append(tomtomPoints, tomtom.SegmentPoint{Name: d.Name, Lat: d.Latitude, Lon: d.Longitude})
	}
	tomtomClient := tomtom.NewClient(tomtom.ClientConfig{APIKey: cfg.APIKeys["TOMTOM_API_KEY"], Points: tomtomPoints, Logger: logger})
	irrigationClient := irrigation.NewClient(irrigation.ClientConfig{APIKey: cfg.APIKeys["IRRIGATION_API_KEY"], Logger: logger})
	navyClient := navy.NewClient(navy.ClientConfig{APIKey: cfg.APIKeys["NAVY_API_KEY"], Logger: logger})
	sosClient := sosgateway.NewClient(sosgateway.ClientConfig{APIKey: cfg.APIKeys["SOS_API_KEY"], Logger: logger})
	osmClient := osm.NewClient(osm.ClientConfig{Bounds: activeRegion.Bounds, Logger: logger})
	worldBankClient := worldbank.NewClient(worldbank.ClientConfig{Logger: logger})

	// Source fetchers.
	observationFetcher := weather.NewObservationFetcher(districts, weatherAPIClient, openMeteoClient, cfg.TTLs["weather_observation"], logger)
	forecastFetcher := weather.NewForecastFetcher(observationFetcher, cfg.TTLs["weather_forecast"])

	alertPoints := make([]struct{ Lat, Lon float64 }, 0, len(districts))
	for _, d := range districts {
		alertPoints = append(alertPoints, struct{ Lat, Lon float64 }{Lat: d.Latitude, Lon: d.Longitude})
	}
	alertsFetcher := weather.NewAlertsFetcher(weatherAPIClient, alertPoints, cfg.TTLs["weather_alerts"])
	earlyWarningFetcher := weather.NewEarlyWarningFetcher(districts, weatherapi.EarlyWarning{Client: weatherAPIClient}, cfg.TTLs["early_warning"])

	marineFetcher := marine.NewFetcher(coastal, ambeeClient, cfg.TTLs["marine"])

	subRegions := []traffic.SubRegion{{Name: activeRegion.Name, Bounds: activeRegion.Bounds}}
	incidentsFetcher := traffic.NewIncidentsFetcher(subRegions, hereClient, cfg.TTLs["traffic_incidents"])
	flowHereFetcher := traffic.NewFlowFetcher("traffic_flow_here", hereClient, cfg.TTLs["traffic_flow_here"])
	flowTomTomFetcher := traffic.NewFlowFetcher("traffic_flow_tomtom", tomtomClient, cfg.TTLs["traffic_flow_tomtom"])

	riverIrrigationFetcher := riverfetch.NewFetcher("river_irrigation", irrigationClient, cfg.TTLs["river_irrigation"])
	riverNavyFetcher := riverfetch.NewFetcher("river_navy", navyClient, cfg.TTLs["river_navy"])

	sosFetcher := sos.NewFetcher(sosClient, 500)
	facilityFetcher := facility.NewFetcher(osmClient, cfg.TTLs["osm_facilities"])
	climateFetcher := climate.NewFetcher(openMeteoHistory, cfg.TTLs["historical_climate"], cfg.DiskSnapshotDir)
	environmentalFetcher := environmental.NewFetcher(countryCodeFor(activeRegion.ID), worldBankClient, cfg.TTLs["environmental"])

	if cfg.FreezeMode {
		logger.Info().Msg("freeze mode enabled: source fetcher caches pinned to their current state, refresh disabled (historical climate caches excluded)")
		observationFetcher.Cache().SetFreeze(true)
		forecastFetcher.Cache().SetFreeze(true)
		alertsFetcher.Cache().SetFreeze(true)
		earlyWarningFetcher.Cache().SetFreeze(true)
		marineFetcher.Cache().SetFreeze(true)
		incidentsFetcher.Cache().SetFreeze(true)
		flowHereFetcher.Cache().SetFreeze(true)
		flowTomTomFetcher.Cache().SetFreeze(true)
		riverIrrigationFetcher.Cache().SetFreeze(true)
		riverNavyFetcher.Cache().SetFreeze(true)
		sosFetcher.Cache().SetFreeze(true)
		facilityFetcher.Cache().SetFreeze(true)
		environmentalFetcher.Cache().SetFreeze(true)
	}

	allFetchers := []fetcher.Fetcher{
		observationFetcher, forecastFetcher, alertsFetcher, earlyWarningFetcher,
		marineFetcher, incidentsFetcher, flowHereFetcher, flowTomTomFetcher,
		riverIrrigationFetcher, riverNavyFetcher, sosFetcher, facilityFetcher,
		environmentalFetcher,
	}
	sources := make(map[string]fetcher.Fetcher, len(allFetchers))
	for _, f := range allFetchers {
		sources[f.Name()] = f
	}

	// Live Query API river provider factory: a second, cache-free adaptation
	// of the same upstream clients feeding riverIrrigationFetcher/riverNavyFetcher.
	riverFactory := riverprovider.NewFactory()
	riverFactory.Register(adaptIrrigationProvider(irrigationClient, activeRegion.ID), activeRegion.Bounds)
	riverFactory.Register(adaptNavyProvider(navyClient, activeRegion.ID), activeRegion.Bounds)
	for i, id := range placeholderRegions {
		reg, err := registry.GetRegion(id)
		if err != nil {
			logger.Warn().Str("region", id).Msg("placeholder region not found in region document, skipping")
			continue
		}
		riverFactory.Register(riverprovider.NewPlaceholderProvider(fmt.Sprintf("placeholder-%d", i), reg.ID), reg.Bounds)
	}

	threatCache := threat.NewCache(func(ctx context.Context) ([]weather.DistrictWeather, []riverfetch.Station, error) {
		obsSnap, _, err := observationFetcher.Get()
		if err != nil {
			return nil, nil, err
		}
		irrigationSnap, _, err := riverIrrigationFetcher.Get()
		if err != nil {
			return nil, nil, err
		}
		navySnap, _, err := riverNavyFetcher.Get()
		if err != nil {
			return nil, nil, err
		}
		stations := append(append([]riverfetch.Station{}, irrigationSnap.Stations...), navySnap.Stations...)
		return obsSnap.Districts, stations, nil
	}, cfg.SchedulerIntervals.Threat)

	intelCache := intel.NewCache(func(ctx context.Context) (sos.Snapshot, []weather.DistrictWeather, error) {
		sosSnap, _, err := sosFetcher.Get()
		if err != nil {
			return sos.Snapshot{}, nil, err
		}
		obsSnap, _, err := observationFetcher.Get()
		if err != nil {
			return sos.Snapshot{}, nil, err
		}
		return sosSnap, obsSnap.Districts, nil
	}, cfg.SchedulerIntervals.Intel)

	threatDeps := []fetcher.Fetcher{observationFetcher, forecastFetcher, riverIrrigationFetcher, riverNavyFetcher}
	threatRun := func(ctx context.Context) error {
		return scheduler.ThreatEnsureInputs(ctx, threatDeps, threatCache)
	}
	intelRun := func(ctx context.Context) error {
		return scheduler.IntelEnsureInputs(ctx, sosFetcher, observationFetcher, intelCache)
	}

	sched := scheduler.New(logger, allFetchers, cfg.SchedulerIntervals.Threat, threatRun, cfg.SchedulerIntervals.Intel, intelRun)
	sched.Start(ctx)
	defer sched.Stop()

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      logger,
		ServiceName: "floodwatch-api",
		Metrics:     metrics,

		RegionHandler:   handler.NewRegionHandler(registry, activeRegion.ID),
		DistrictHandler: handler.NewDistrictHandler(registry, districtsByRegion, observationFetcher),
		RiverHandler:    handler.NewRiverHandler(riverFactory),
		ThreatHandler:   handler.NewThreatHandler(threatCache),
		IntelHandler:    handler.NewIntelHandler(intelCache),
		WeatherHandler:  handler.NewWeatherHandler(observationFetcher, forecastFetcher, alertsFetcher, earlyWarningFetcher),
		FacilityHandler: handler.NewFacilityHandler(facilityFetcher),
		ClimateHandler:  handler.NewClimateHandler(climateFetcher),
		SourcesHandler:  handler.NewSourcesHandler(sources),
		OpsHandler:      handler.NewOpsHandler(Version, BuildTime, sources),
	})

	port := getEnvOrDefault("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Msg("floodwatch API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}

// adaptIrrigationProvider wraps the Irrigation Department client (an
// internal/fetcher/river.Client) as an internal/provider/river.Provider for
// the live Query API, mapping between the two packages' differently-shaped
// Station types.
func adaptIrrigationProvider(client *irrigation.Client, regionID string) *riverprovider.FuncProvider {
	fetchStations := func(ctx context.Context, bounds *region.BoundingBox) ([]riverprovider.Station, error) {
		stations, err := client.FetchStations(ctx)
		if err != nil {
			return nil, err
		}
		return mapFetchStations(stations, regionID, "irrigation", bounds), nil
	}
	healthCheck := func(ctx context.Context) bool {
		_, err := client.FetchStations(ctx)
		return err == nil
	}
	return riverprovider.NewProvider("irrigation", regionID, fetchStations, nil, nil, healthCheck)
}

func adaptNavyProvider(client *navy.Client, regionID string) *riverprovider.FuncProvider {
	fetchStations := func(ctx context.Context, bounds *region.BoundingBox) ([]riverprovider.Station, error) {
		stations, err := client.FetchStations(ctx)
		if err != nil {
			return nil, err
		}
		return mapFetchStations(stations, regionID, "navy", bounds), nil
	}
	healthCheck := func(ctx context.Context) bool {
		_, err := client.FetchStations(ctx)
		return err == nil
	}
	return riverprovider.NewProvider("navy", regionID, fetchStations, nil, nil, healthCheck)
}

// mapFetchStations adapts the simpler internal/fetcher/river.Station shape
// (name/river/thresholds only, no coordinates) into the live Query API's
// internal/provider/river.Station. bounds is unused here: neither
// government feed reports per-station coordinates, so point-level
// filtering isn't possible — the factory's own bbox-vs-provider-bbox
// overlap check (Factory.ProvidersForBounds) is what scopes these results.
func mapFetchStations(stations []riverfetch.Station, regionID, riverCode string, _ *region.BoundingBox) []riverprovider.Station {
	out := make([]riverprovider.Station, 0, len(stations))
	for _, s := range stations {
		normalized := riverfetch.Normalize(s)
		station := riverprovider.Station{
			StationID:   fmt.Sprintf("%s_%s_%s", regionID, riverCode, normalized.Station),
			RiverName:   normalized.River,
			RiverCode:   riverCode,
			StationName: normalized.Station,
			WaterLevelM: normalized.WaterLevelM,
			Thresholds: riverprovider.Thresholds{
				AlertM:      normalized.AlertM,
				MinorFloodM: normalized.MinorFloodM,
				MajorFloodM: normalized.MajorFloodM,
			},
			LastUpdated: time.Now(),
			RegionID:    regionID,
			Districts:   normalized.Districts,
		}
		station.Status = riverprovider.DeriveStatus(station)
		out = append(out, station)
	}
	return out
}

func countryCodeFor(regionID string) string {
	switch regionID {
	case "srilanka":
		return "LKA"
	case "tamilnadu", "karnataka", "andhrapradesh", "telangana":
		return "IND"
	default:
		return "LKA"
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
