package config

import (
	"testing"
	"time"

	"github.com/predictfc/football-predict/internal/source"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_FootballDataRequiresTokenWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FOOTBALL_DATA_ENABLED", "true")
	t.Setenv("FOOTBALL_DATA_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when FOOTBALL_DATA_ENABLED=true without FOOTBALL_DATA_TOKEN")
	}
}

func TestLoad_JuheRequiresKeyWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JUHE_ENABLED", "true")
	t.Setenv("JUHE_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JUHE_ENABLED=true without JUHE_KEY")
	}
}

func TestLoad_ProviderConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FOOTBALL_DATA_ENABLED", "true")
	t.Setenv("FOOTBALL_DATA_TOKEN", "token-123")
	t.Setenv("FOOTBALL_DATA_TIMEOUT", "25s")
	t.Setenv("FOOTBALL_DATA_MAX_RETRIES", "3")
	t.Setenv("FOOTBALL_DATA_LEAGUE_MAP", "PL:PL,BL1:BL1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.FootballData.Enabled {
		t.Fatalf("expected FootballData.Enabled=true")
	}
	if cfg.FootballDataToken != "token-123" {
		t.Fatalf("unexpected FootballDataToken")
	}
	if cfg.FootballData.Timeout != 25*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.FootballData.Timeout)
	}
	if cfg.FootballData.MaxRetries != 3 {
		t.Fatalf("unexpected max retries: %d", cfg.FootballData.MaxRetries)
	}
	if len(cfg.FootballData.LeagueCodes) != 2 || cfg.FootballData.LeagueCodes["PL"] != "PL" {
		t.Fatalf("unexpected league codes: %v", cfg.FootballData.LeagueCodes)
	}
}

func TestLoad_DefaultLeagueCodes(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got := cfg.Juhe.LeagueCodes["PL"]; got != "2" {
		t.Fatalf("expected juhe PL code 2, got %q", got)
	}
	if got := cfg.SoccerStats.LeagueCodes["BL1"]; got != "germany" {
		t.Fatalf("expected soccerstats BL1 code germany, got %q", got)
	}
}

func TestLoad_ResolverThresholdBounds(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RESOLVER_FUZZY_THRESHOLD", "250")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for out-of-range RESOLVER_FUZZY_THRESHOLD")
	}
}

func TestLoad_SyncWindowDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SyncWindowPast != 720*time.Hour {
		t.Fatalf("unexpected SyncWindowPast: %s", cfg.SyncWindowPast)
	}
	if cfg.SyncWindowFuture != 720*time.Hour {
		t.Fatalf("unexpected SyncWindowFuture: %s", cfg.SyncWindowFuture)
	}
}

func TestLoad_SyncWindowMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SYNC_WINDOW_PAST", "-24h")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive SYNC_WINDOW_PAST")
	}
}

func TestLeagueMappings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FOOTBALL_DATA_ENABLED", "true")
	t.Setenv("FOOTBALL_DATA_TOKEN", "token-123")
	t.Setenv("FOOTBALL_DATA_LEAGUE_MAP", "PL:PL")
	t.Setenv("SOCCERSTATS_ENABLED", "true")
	t.Setenv("SOCCERSTATS_LEAGUE_MAP", "PL:england,SA:italy")
	t.Setenv("JUHE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	mappings := cfg.LeagueMappings()
	if len(mappings) != 2 {
		t.Fatalf("expected 2 leagues, got %d: %v", len(mappings), mappings)
	}
	if got := mappings["PL"][source.NameFootballData]; got != "PL" {
		t.Fatalf("unexpected football_data PL code: %q", got)
	}
	if got := mappings["PL"][source.NameSoccerStats]; got != "england" {
		t.Fatalf("unexpected soccerstats PL code: %q", got)
	}
	if _, ok := mappings["SA"][source.NameJuhe]; ok {
		t.Fatalf("disabled provider must not contribute codes")
	}
	if _, ok := mappings["SA"][source.NameSoccerStats]; !ok {
		t.Fatalf("expected soccerstats SA code")
	}
}

func TestParseCodeMap_Invalid(t *testing.T) {
	if _, err := parseCodeMap("PL"); err == nil {
		t.Fatalf("expected error for item without colon")
	}
	if _, err := parseCodeMap("PL:"); err == nil {
		t.Fatalf("expected error for empty code")
	}
}
