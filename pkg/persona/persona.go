// Package persona implements the synthetic consumer subsystem: generated
// archetype profiles used for simulated interviews, surveys and focus-group
// style research.
package persona

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Profile describes one synthetic consumer. Characteristics are drawn from
// the pools configured on the Generator and stay fixed for the profile's
// lifetime so conversations remain consistent.
type Profile struct {
	ID          string    `json:"id"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	Region      string    `json:"geographic_region"`
	ServiceType string    `json:"service_type"`
	Segment     string    `json:"segment"`
	CreatedAt   time.Time `json:"created_at"`
}

// Pools configure the characteristic space personas are drawn from.
type Pools struct {
	AgeMin       int
	AgeMax       int
	Genders      []string
	Regions      []string
	ServiceTypes []string
	Segments     []string
}

// DefaultPools returns a generic consumer-research characteristic space.
func DefaultPools() Pools {
	return Pools{
		AgeMin:       18,
		AgeMax:       65,
		Genders:      []string{"female", "male"},
		Regions:      []string{"capital", "second_city", "rural"},
		ServiceTypes: []string{"prepaid", "postpaid", "home"},
		Segments:     []string{"mass", "premium", "youth", "family"},
	}
}

// Generator draws persona profiles. Seeding the RNG makes batches
// reproducible in tests.
type Generator struct {
	pools Pools
	rng   *rand.Rand
}

func NewGenerator(pools Pools, seed int64) *Generator {
	return &Generator{
		pools: pools,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Generate draws a single profile.
func (g *Generator) Generate() Profile {
	return Profile{
		ID:          uuid.NewString(),
		Age:         g.pools.AgeMin + g.rng.Intn(g.pools.AgeMax-g.pools.AgeMin+1),
		Gender:      pick(g.rng, g.pools.Genders),
		Region:      pick(g.rng, g.pools.Regions),
		ServiceType: pick(g.rng, g.pools.ServiceTypes),
		Segment:     pick(g.rng, g.pools.Segments),
		CreatedAt:   time.Now(),
	}
}

// GenerateBatch draws count profiles and reports the batch's diversity
// score: the fraction of distinct characteristic combinations, in [0, 1].
func (g *Generator) GenerateBatch(count int) ([]Profile, float64) {
	profiles := make([]Profile, count)
	combos := make(map[string]struct{}, count)
	for i := range profiles {
		p := g.Generate()
		profiles[i] = p
		combos[comboKey(p)] = struct{}{}
	}

	diversity := 0.0
	if count > 0 {
		diversity = float64(len(combos)) / float64(count)
	}
	return profiles, diversity
}

func comboKey(p Profile) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d", p.Gender, p.Region, p.ServiceType, p.Segment, p.Age/10)
}

func pick(rng *rand.Rand, values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[rng.Intn(len(values))]
}

// SystemPrompt renders the interview instructions that keep the LLM in
// character for this profile.
func (p Profile) SystemPrompt(clientName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a %d-year-old %s consumer from the %s region, ", p.Age, p.Gender, p.Region)
	fmt.Fprintf(&sb, "on a %s plan, in the %s segment, taking part in market research for %s.\n\n",
		p.ServiceType, p.Segment, clientName)
	sb.WriteString("Stay in character at all times. Answer in first person, with the vocabulary, ")
	sb.WriteString("concerns and budget sensitivity such a consumer would actually have. ")
	sb.WriteString("Ground opinions in the research context when it is provided, but never cite documents ")
	sb.WriteString("or mention that you are simulated.")
	return sb.String()
}

// Registry holds generated profiles. Profiles only exist in memory: they are
// research scaffolding, not durable data.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]Profile)}
}

func (r *Registry) Put(p Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.profiles[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.profiles[p.ID] = p
}

func (r *Registry) Get(id string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	return p, ok
}

// List returns profiles in generation order.
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Profile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.profiles[id])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
