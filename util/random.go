package util

import (
	"math/rand"
	"strings"
)

const alpha = "abcdefghjklmnopqrstuvwxyz"

// RandomInt generates a random integer between min and max
func RandomInt(min, max int64) int64 {
	if max < min {
		min, max = max, min // swap if needed
	}
	return rand.Int63n(max-min+1) + min
}

// RandomString generates a random string of length n
func RandomString(n int) string {
	var sb strings.Builder
	k := len(alpha)

	for i := 0; i < n; i++ {
		c := alpha[rand.Intn(k)]
		sb.WriteByte(c)
	}

	return sb.String()
}

// RandomSkill returns a realistic technology name
func RandomSkill() string {
	skills := []string{
		"Go", "Rust", "Python", "TypeScript", "React", "Docker", "Kubernetes", "Terraform",
		"PostgreSQL", "Redis", "Kafka", "GraphQL", "AWS", "gRPC", "CI/CD Pipelines", "System Design",
	}
	return skills[rand.Intn(len(skills))]
}

// RandomNoise returns a string the model leaks from response metadata
func RandomNoise() string {
	noise := []string{
		"2025-07-01T12:00:00Z", "Mistral-7B-Instruct-v0.2", "timestamp", "model_used: mistral",
		"device_used: cuda", "llama-3-8b", "gpt-4o", "",
	}
	return noise[rand.Intn(len(noise))]
}

// RandomSkillCandidate returns a skill, a noise entry, a padded skill, or random garbage of any length
func RandomSkillCandidate() string {
	switch rand.Intn(5) {
	case 0:
		return RandomNoise()
	case 1:
		return "  " + RandomSkill() + " "
	case 2:
		return RandomString(int(RandomInt(0, 60)))
	default:
		return RandomSkill()
	}
}

// RandomSkillCandidates returns n candidates, duplicates likely
func RandomSkillCandidates(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = RandomSkillCandidate()
	}
	return out
}
