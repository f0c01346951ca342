package source

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// Source names in precedence order. The sync pass feeds records to the
// reconciler in this order, so earlier sources win field conflicts.
const (
	NameFootballData = "football_data"
	NameJuhe         = "juhe"
	NameSoccerStats  = "soccerstats"
)

// RawTeam is a provider team record before name resolution. ID is the
// canonical team id the provider dictates; adapters whose id spaces collide
// apply their offset before returning.
type RawTeam struct {
	ID           int64
	Name         string
	ZhName       string
	OfficialName string
	Aliases      []string
	Country      string
	League       string
}

// RawMatch is a provider fixture record before resolution and
// reconciliation. Goals stay nil until the provider reports a score; team
// ids stay zero when the provider only knows names.
type RawMatch struct {
	ExternalID  string
	Date        time.Time
	HomeTeamID  int64
	AwayTeamID  int64
	HomeName    string
	AwayName    string
	HomeGoals   *int
	AwayGoals   *int
	Status      string
	Competition string
	Extra       map[string]any
}

// Adapter is one upstream data provider. FetchTeams and FetchMatches take
// the provider-specific league code configured for this adapter.
// FetchMatches also takes the fixture window the sync pass wants; adapters
// clamp it to whatever their provider's feed can serve, and a zero bound
// means the adapter's own default for that side.
type Adapter interface {
	Name() string
	FetchTeams(ctx context.Context, league string) ([]RawTeam, error)
	FetchMatches(ctx context.Context, league string, from, to time.Time) ([]RawMatch, error)
}

// ErrAdapterUnavailable marks fetch failures the sync pass treats as an
// empty result instead of aborting the league.
var ErrAdapterUnavailable = crerr.New("source adapter unavailable")

// Registry holds adapters in registration order. Order is precedence, so
// callers register the most trusted provider first.
type Registry struct {
	adapters []Adapter
	byName   map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Adapter)}
}

func (r *Registry) Register(a Adapter) error {
	if a == nil {
		return crerr.New("source: nil adapter")
	}
	name := strings.TrimSpace(a.Name())
	if name == "" {
		return crerr.New("source: adapter has no name")
	}
	if _, ok := r.byName[name]; ok {
		return crerr.Newf("source: adapter %q already registered", name)
	}
	r.byName[name] = a
	r.adapters = append(r.adapters, a)
	return nil
}

func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// All returns adapters in registration (precedence) order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, len(r.adapters))
	copy(out, r.adapters)
	return out
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a.Name())
	}
	return out
}
