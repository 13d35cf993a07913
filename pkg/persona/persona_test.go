package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorProducesProfilesWithinPools(t *testing.T) {
	pools := DefaultPools()
	gen := NewGenerator(pools, 42)

	for i := 0; i < 50; i++ {
		p := gen.Generate()
		assert.NotEmpty(t, p.ID)
		assert.GreaterOrEqual(t, p.Age, pools.AgeMin)
		assert.LessOrEqual(t, p.Age, pools.AgeMax)
		assert.Contains(t, pools.Genders, p.Gender)
		assert.Contains(t, pools.Regions, p.Region)
		assert.Contains(t, pools.ServiceTypes, p.ServiceType)
		assert.Contains(t, pools.Segments, p.Segment)
	}
}

func TestGeneratorIsReproducibleForSameSeed(t *testing.T) {
	a := NewGenerator(DefaultPools(), 7)
	b := NewGenerator(DefaultPools(), 7)

	for i := 0; i < 10; i++ {
		pa, pb := a.Generate(), b.Generate()
		assert.Equal(t, pa.Age, pb.Age)
		assert.Equal(t, pa.Gender, pb.Gender)
		assert.Equal(t, pa.Region, pb.Region)
		assert.Equal(t, pa.ServiceType, pb.ServiceType)
		assert.Equal(t, pa.Segment, pb.Segment)
	}
}

func TestGenerateBatchDiversity(t *testing.T) {
	gen := NewGenerator(DefaultPools(), 1)

	profiles, diversity := gen.GenerateBatch(30)
	require.Len(t, profiles, 30)
	assert.Greater(t, diversity, 0.0)
	assert.LessOrEqual(t, diversity, 1.0)

	_, empty := gen.GenerateBatch(0)
	assert.Zero(t, empty)
}

func TestSystemPromptStaysInCharacter(t *testing.T) {
	p := Profile{Age: 28, Gender: "female", Region: "capital", ServiceType: "prepaid", Segment: "youth"}

	prompt := p.SystemPrompt("Tigo")
	assert.True(t, strings.Contains(prompt, "28-year-old"))
	assert.True(t, strings.Contains(prompt, "Tigo"))
	assert.True(t, strings.Contains(prompt, "Stay in character"))
}

func TestRegistryPreservesGenerationOrder(t *testing.T) {
	reg := NewRegistry()
	gen := NewGenerator(DefaultPools(), 3)

	first := gen.Generate()
	second := gen.Generate()
	reg.Put(first)
	reg.Put(second)

	listed := reg.List()
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)

	got, ok := reg.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, first.Region, got.Region)
}
