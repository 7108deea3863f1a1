package probability

import (
	"sync"

	"github.com/yourusername/fairway-edge/internal/models"
)

// bucketEdges are the probability bucket boundaries, in percent. Narrow
// buckets at the bottom because that is where outright prices live and
// where a miscalibration costs the most.
var bucketEdges = []float64{0, 2, 5, 10, 20, 35, 50, 100}

// MinCalibrationSample is how many settled predictions a bucket needs
// before its observed hit rate is allowed to correct the model
const MinCalibrationSample = 50

// correction multipliers are bounded so a noisy bucket cannot halve or
// double a probability outright
const (
	minCorrection = 0.5
	maxCorrection = 2.0
)

// BucketStats accumulates predicted-versus-actual evidence for one
// probability bucket of one market
type BucketStats struct {
	Market       models.Market `db:"market" json:"market"`
	BucketIndex  int           `db:"bucket_index" json:"bucket_index"`
	Count        int           `db:"sample_count" json:"sample_count"`
	PredictedSum float64       `db:"predicted_sum" json:"predicted_sum"`
	Wins         int           `db:"wins" json:"wins"`
}

// HitRate is the observed win fraction in this bucket
func (b *BucketStats) HitRate() float64 {
	if b.Count == 0 {
		return 0
	}
	return float64(b.Wins) / float64(b.Count)
}

// MeanPredicted is the average probability the model assigned in this bucket
func (b *BucketStats) MeanPredicted() float64 {
	if b.Count == 0 {
		return 0
	}
	return b.PredictedSum / float64(b.Count)
}

// BucketIndexFor maps a probability to its bucket index
func BucketIndexFor(p float64) int {
	pct := p * 100
	for i := 1; i < len(bucketEdges); i++ {
		if pct < bucketEdges[i] {
			return i - 1
		}
	}
	return len(bucketEdges) - 2
}

// NumBuckets returns how many calibration buckets exist
func NumBuckets() int {
	return len(bucketEdges) - 1
}

// Calibrator corrects model probabilities per market using the settled
// history of past predictions. Safe for concurrent use.
type Calibrator struct {
	mu      sync.RWMutex
	buckets map[models.Market][]*BucketStats
}

// NewCalibrator builds an empty calibrator; seed it with Load
func NewCalibrator() *Calibrator {
	return &Calibrator{buckets: make(map[models.Market][]*BucketStats)}
}

// Load replaces the calibrator's state for the markets present in stats,
// typically from the persisted calibration table at startup
func (c *Calibrator) Load(stats []BucketStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range stats {
		s := stats[i]
		row := c.rowLocked(s.Market)
		if s.BucketIndex < 0 || s.BucketIndex >= len(row) {
			continue
		}
		row[s.BucketIndex] = &s
	}
}

// Observe records one settled prediction: the probability the model gave
// and whether the outcome hit
func (c *Calibrator) Observe(market models.Market, predicted float64, won bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.rowLocked(market)[BucketIndexFor(predicted)]
	b.Count++
	b.PredictedSum += predicted
	if won {
		b.Wins++
	}
}

// Correct adjusts a probability by the bucket's observed-over-predicted
// ratio once the bucket has enough settled samples. Below the sample
// floor the probability passes through untouched.
func (c *Calibrator) Correct(market models.Market, p float64) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	row, ok := c.buckets[market]
	if !ok {
		return p
	}
	b := row[BucketIndexFor(p)]
	if b.Count < MinCalibrationSample || b.MeanPredicted() == 0 {
		return p
	}
	mult := b.HitRate() / b.MeanPredicted()
	if mult < minCorrection {
		mult = minCorrection
	}
	if mult > maxCorrection {
		mult = maxCorrection
	}
	return clampProb(p * mult)
}

// CorrectAll applies Correct to a whole distribution in place
func (c *Calibrator) CorrectAll(market models.Market, probs map[string]float64) {
	for k, p := range probs {
		probs[k] = c.Correct(market, p)
	}
}

// Snapshot returns a copy of every bucket with at least one sample, for
// persistence
func (c *Calibrator) Snapshot() []BucketStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []BucketStats
	for _, row := range c.buckets {
		for _, b := range row {
			if b != nil && b.Count > 0 {
				out = append(out, *b)
			}
		}
	}
	return out
}

func (c *Calibrator) rowLocked(market models.Market) []*BucketStats {
	row, ok := c.buckets[market]
	if !ok {
		row = make([]*BucketStats, NumBuckets())
		for i := range row {
			row[i] = &BucketStats{Market: market, BucketIndex: i}
		}
		c.buckets[market] = row
	}
	return row
}
