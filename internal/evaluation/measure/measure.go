// Package measure computes per-query effectiveness measures from the
// relevance of a ranked list. rel[i] reports whether the result at rank
// i+1 is relevant.
package measure

import (
	"math"

	"github.com/Adithya-Monish-Kumar-K/latimes-search/pkg/config"
)

// AveragePrecision sums the precision at every relevant rank and divides
// by the query's total relevant count. It is 0 when nothing is retrieved
// or nothing is relevant.
func AveragePrecision(rel []bool, totalRelevant int) float64 {
	if len(rel) == 0 || totalRelevant == 0 {
		return 0
	}
	found := 0
	sum := 0.0
	for i, r := range rel {
		if r {
			found++
			sum += float64(found) / float64(i+1)
		}
	}
	return sum / float64(totalRelevant)
}

// PrecisionAt counts relevant results in the top k and divides by k even
// when fewer than k results exist.
func PrecisionAt(rel []bool, k int) float64 {
	if k <= 0 {
		return 0
	}
	found := 0
	for i := 0; i < k && i < len(rel); i++ {
		if rel[i] {
			found++
		}
	}
	return float64(found) / float64(k)
}

// NDCG is binary-gain normalized DCG at cutoff k. The ideal ordering puts
// min(k, totalRelevant) relevant documents first; with no relevant
// documents the ideal DCG is taken as 1.
func NDCG(rel []bool, totalRelevant, k int) float64 {
	dcg := 0.0
	for i := 0; i < k && i < len(rel); i++ {
		if rel[i] {
			dcg += discount(i + 1)
		}
	}
	return dcg / idealDCG(totalRelevant, k)
}

func idealDCG(totalRelevant, k int) float64 {
	if totalRelevant <= 0 {
		return 1
	}
	idcg := 0.0
	for rank := 1; rank <= min(k, totalRelevant); rank++ {
		idcg += discount(rank)
	}
	return idcg
}

func discount(rank int) float64 {
	return 1 / math.Log2(float64(rank)+1)
}

// TBGParams are the user-model constants of Time-Biased Gain.
type TBGParams struct {
	TimeSummary       float64
	PClickRelevant    float64
	PClickNonRelevant float64
	PSaveRelevant     float64
	HalfLife          float64
}

func TBGParamsFromConfig(c config.TBGConfig) TBGParams {
	return TBGParams{
		TimeSummary:       c.TimeSummary,
		PClickRelevant:    c.PClickRelevant,
		PClickNonRelevant: c.PClickNonRelevant,
		PSaveRelevant:     c.PSaveRelevant,
		HalfLife:          c.HalfLife,
	}
}

// TBG walks the whole ranking. Each result costs the summary time plus the
// expected reading time of its document (lengths[i] tokens); a relevant
// result adds gain decayed by the time spent up to and including it.
func TBG(rel []bool, lengths []int, p TBGParams) float64 {
	elapsed := 0.0
	gain := 0.0
	for i, r := range rel {
		reading := 0.018*float64(lengths[i]) + 7.8
		if r {
			elapsed += p.TimeSummary + reading*p.PClickRelevant
			gain += p.PClickRelevant * p.PSaveRelevant * math.Exp(-elapsed*math.Ln2/p.HalfLife)
		} else {
			elapsed += p.TimeSummary + reading*p.PClickNonRelevant
		}
	}
	return gain
}
