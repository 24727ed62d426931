package matching

// Scorer provides the string comparison algorithms used for identity
// resolution. All methods are case-sensitive, symmetric, and return
// values in [0, 1]; callers normalize inputs first (see composite.go).
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// ExactMatch returns 1.0 for exact match, 0.0 otherwise
func (s *Scorer) ExactMatch(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

// JaroWinkler calculates the Jaro-Winkler similarity between two strings.
// Empty input scores 0.0. For very short strings the match window
// `max(len)/2 - 1` collapses below 1; in that case the strings are
// compared for exact equality only.
func (s *Scorer) JaroWinkler(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	jaro, ok := s.jaro(a, b)
	if !ok {
		// degenerate window: equality was already ruled out above
		return 0.0
	}

	// Winkler modification: boost for common prefix, up to 4 chars
	prefixLen := 0
	for i := 0; i < len(a) && i < len(b) && i < 4; i++ {
		if a[i] != b[i] {
			break
		}
		prefixLen++
	}

	return jaro + float64(prefixLen)*0.1*(1.0-jaro)
}

// jaro computes the Jaro similarity. The second return is false when
// the match window collapses below 1 and the metric is undefined.
func (s *Scorer) jaro(a, b string) (float64, bool) {
	matchDist := max(len(a), len(b))/2 - 1
	if matchDist < 1 {
		return 0.0, false
	}

	aMatches := make([]bool, len(a))
	bMatches := make([]bool, len(b))

	matches := 0

	for i := 0; i < len(a); i++ {
		start := max(0, i-matchDist)
		end := min(len(b), i+matchDist+1)

		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0, true
	}

	transpositions := 0
	k := 0
	for i := 0; i < len(a); i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2

	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3, true
}

// Levenshtein calculates the normalized Levenshtein similarity,
// 1 - distance/max(len). Empty input scores 0.0.
func (s *Scorer) Levenshtein(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	distance := s.LevenshteinDistance(a, b)
	return 1.0 - float64(distance)/float64(max(len(a), len(b)))
}

// LevenshteinDistance calculates the edit distance between two strings
// with unit insert/delete/substitute costs.
func (s *Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// JaccardBigram calculates Jaccard similarity over overlapping
// character bigrams. Empty input scores 0.0; two non-empty strings that
// are both too short to form a bigram score 1.0 by convention.
func (s *Scorer) JaccardBigram(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	bigramsA := bigrams(a)
	bigramsB := bigrams(b)

	if len(bigramsA) == 0 && len(bigramsB) == 0 {
		return 1.0
	}

	intersection := 0
	for bg := range bigramsA {
		if _, ok := bigramsB[bg]; ok {
			intersection++
		}
	}
	union := len(bigramsA) + len(bigramsB) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

func bigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for i := 0; i+2 <= len(s); i++ {
		set[s[i:i+2]] = struct{}{}
	}
	return set
}

// WeightedScore aggregates field scores into Σ(score·w)/Σ(w) over the
// fields present in BOTH maps. Fields without a configured weight are
// skipped. A zero weight sum returns 0.0.
func (s *Scorer) WeightedScore(scores map[string]float64, weights map[string]float64) float64 {
	totalScore := 0.0
	totalWeight := 0.0

	for field, score := range scores {
		weight, ok := weights[field]
		if !ok {
			continue
		}
		totalScore += score * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0.0
	}

	return totalScore / totalWeight
}
